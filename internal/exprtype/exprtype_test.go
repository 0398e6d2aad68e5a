package exprtype

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringNames(t *testing.T) {
	assert.Equal(t, "I32", I32.String())
	assert.Equal(t, "U8", U8.String())
	assert.Equal(t, "Unknown", Unknown.String())
}

func TestIntegerPredicates(t *testing.T) {
	assert.True(t, I32.IsInteger())
	assert.True(t, I32.IsSigned())
	assert.False(t, U32.IsSigned())
	assert.True(t, U32.IsUnsignedInteger())
	assert.False(t, I32.IsUnsignedInteger())
	assert.False(t, Bool.IsInteger())
}

func TestFloatAndBool(t *testing.T) {
	assert.True(t, F64.IsFloatingPointNumber())
	assert.False(t, I64.IsFloatingPointNumber())
	assert.True(t, Bool.IsBool())
}

func TestIsPrimitive(t *testing.T) {
	assert.True(t, I8.IsPrimitive())
	assert.False(t, Reference.IsPrimitive())
	assert.False(t, NonPrimitive.IsPrimitive())
	assert.False(t, Unknown.IsPrimitive())
}

func TestModuloAndBounds(t *testing.T) {
	assert.Equal(t, big.NewInt(256), U8.ModuloValue())
	assert.Equal(t, big.NewInt(255), U8.MaxValue())
	assert.Equal(t, big.NewInt(0), U8.MinValue())

	assert.Equal(t, big.NewInt(127), I8.MaxValue())
	assert.Equal(t, big.NewInt(-128), I8.MinValue())

	assert.Nil(t, Bool.ModuloValue())
}

func TestContains(t *testing.T) {
	assert.True(t, U8.Contains(big.NewInt(255)))
	assert.False(t, U8.Contains(big.NewInt(256)))
	assert.False(t, U8.Contains(big.NewInt(-1)))
	assert.True(t, I8.Contains(big.NewInt(-128)))
	assert.False(t, I8.Contains(big.NewInt(128)))
}

func TestWidth(t *testing.T) {
	assert.Equal(t, uint(128), I128.Width())
	assert.Equal(t, uint(1), Bool.Width())
}
