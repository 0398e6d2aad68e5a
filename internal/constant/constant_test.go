package constant

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddFoldsIntegers(t *testing.T) {
	sum := FromInt64(2).Add(FromInt64(3))
	assert.Equal(t, KindInt, sum.Kind)
	assert.Equal(t, big.NewInt(5), sum.Int)
}

func TestAddOnNonIntReturnsBottom(t *testing.T) {
	result := True.Add(FromInt64(1))
	assert.True(t, result.IsBottom())
}

func TestDivByZeroReturnsBottom(t *testing.T) {
	result := FromInt64(10).Div(FromInt64(0))
	assert.True(t, result.IsBottom())
}

func TestRemSignMatchesDividend(t *testing.T) {
	result := FromInt64(-7).Rem(FromInt64(2))
	assert.Equal(t, big.NewInt(-1), result.Int)
}

func TestNegFlipsSign(t *testing.T) {
	result := FromInt64(5).Neg()
	assert.Equal(t, big.NewInt(-5), result.Int)
	assert.True(t, result.Signed)
}

func TestShlAndShr(t *testing.T) {
	v := FromUint64(1)
	assert.Equal(t, big.NewInt(8), v.Shl(3).Int)
	assert.Equal(t, big.NewInt(1), FromUint64(8).Shr(3).Int)
}

func TestCmp(t *testing.T) {
	r, ok := FromInt64(3).Cmp(FromInt64(5))
	assert.True(t, ok)
	assert.Less(t, r, 0)

	_, ok = True.Cmp(FromInt64(5))
	assert.False(t, ok)
}

func TestThreeValuedLogic(t *testing.T) {
	assert.Equal(t, False, False.And(True))
	assert.Equal(t, True, True.And(True))
	assert.True(t, True.Or(FromInt64(1)).IsBottom())
	assert.Equal(t, True, False.Or(True))
}

func TestAsBool(t *testing.T) {
	b, ok := True.AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = FromInt64(1).AsBool()
	assert.False(t, ok)
}

func TestIsZeroIsOne(t *testing.T) {
	assert.True(t, FromInt64(0).IsZero())
	assert.True(t, FromInt64(1).IsOne())
	assert.False(t, FromInt64(1).IsZero())
}

func TestEqual(t *testing.T) {
	assert.True(t, FromInt64(4).Equal(FromInt64(4)))
	assert.False(t, FromInt64(4).Equal(FromInt64(5)))
	assert.False(t, FromInt64(4).Equal(FromUint64(4)), "Signed and unsigned constants of equal magnitude are distinct")
}

func TestString(t *testing.T) {
	assert.Equal(t, "BOTTOM", Bottom.String())
	assert.Equal(t, "true", True.String())
	assert.Equal(t, "5", FromInt64(5).String())
}
