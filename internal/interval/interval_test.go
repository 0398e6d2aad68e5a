package interval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"avengine/internal/exprtype"
)

func b(v int64) *big.Int { return big.NewInt(v) }

func TestExactAndContains(t *testing.T) {
	d := Exact(b(5))
	assert.True(t, d.Contains(b(5)))
	assert.False(t, d.Contains(b(6)))
}

func TestAddUnbounded(t *testing.T) {
	d := Range(b(1), b(2)).Add(Unbounded)
	assert.Nil(t, d.UpperBound())
}

func TestAddBounded(t *testing.T) {
	d := Range(b(1), b(2)).Add(Range(b(10), b(20)))
	assert.Equal(t, b(11), d.LowerBound())
	assert.Equal(t, b(22), d.UpperBound())
}

func TestSub(t *testing.T) {
	d := Range(b(5), b(10)).Sub(Range(b(1), b(2)))
	assert.Equal(t, b(3), d.LowerBound())
	assert.Equal(t, b(9), d.UpperBound())
}

func TestNeg(t *testing.T) {
	d := Range(b(1), b(5)).Neg()
	assert.Equal(t, b(-5), d.LowerBound())
	assert.Equal(t, b(-1), d.UpperBound())
}

func TestMulBothPositive(t *testing.T) {
	d := Range(b(2), b(3)).Mul(Range(b(4), b(5)))
	assert.Equal(t, b(8), d.LowerBound())
	assert.Equal(t, b(15), d.UpperBound())
}

func TestMulUnboundedIsUnbounded(t *testing.T) {
	d := Range(b(2), b(3)).Mul(Unbounded)
	assert.True(t, d.IsUnbounded())
}

func TestWidenDropsMovingBound(t *testing.T) {
	prior := Range(b(0), b(10))
	next := Range(b(0), b(20))
	widened := prior.Widen(next)
	assert.Equal(t, b(0), widened.LowerBound())
	assert.Nil(t, widened.UpperBound())
}

func TestWidenDropsLowerWhenUpperStable(t *testing.T) {
	prior := Range(b(0), b(10))
	next := Range(b(-5), b(10))
	widened := prior.Widen(next)
	assert.Nil(t, widened.LowerBound())
	assert.Equal(t, b(10), widened.UpperBound())
}

func TestWidenNoStableBoundReturnsNext(t *testing.T) {
	prior := Range(b(0), b(10))
	next := Range(b(-5), b(20))
	widened := prior.Widen(next)
	assert.Equal(t, next, widened)
}

func TestJoin(t *testing.T) {
	j := Range(b(1), b(5)).Join(Range(b(3), b(10)))
	assert.Equal(t, b(1), j.LowerBound())
	assert.Equal(t, b(10), j.UpperBound())
}

func TestLessThanDecidable(t *testing.T) {
	v, ok := Range(b(1), b(2)).LessThan(Range(b(3), b(4)))
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = Range(b(5), b(6)).LessThan(Range(b(1), b(2)))
	assert.True(t, ok)
	assert.False(t, v)
}

func TestLessThanUndecidableOverlap(t *testing.T) {
	_, ok := Range(b(1), b(5)).LessThan(Range(b(3), b(8)))
	assert.False(t, ok)
}

func TestIsContainedIn(t *testing.T) {
	assert.True(t, Range(b(0), b(255)).IsContainedIn(exprtype.U8))
	assert.False(t, Range(b(0), b(256)).IsContainedIn(exprtype.U8))
	assert.True(t, Bottom.IsContainedIn(exprtype.U8))
}

func TestBottomAbsorbs(t *testing.T) {
	assert.True(t, Bottom.Add(Range(b(1), b(2))).IsBottom())
	assert.Equal(t, Range(b(1), b(2)), Bottom.Join(Range(b(1), b(2))))
}
