package absval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"avengine/internal/exprtype"
)

func i(v int64) *AbstractValue { return OfI128(big.NewInt(v)) }

func TestAdditionIdentities(t *testing.T) {
	x := localVar(0, exprtype.I32)
	assert.Same(t, x, x.Addition(i(0)))
	assert.Same(t, x, i(0).Addition(x))
}

func TestAdditionConstantFolding(t *testing.T) {
	sum := i(2).Addition(i(3))
	c, ok := sum.Expr.(ConstantExpr)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(5), c.Value.Int)
}

func TestAdditionFusesNegation(t *testing.T) {
	x := localVar(0, exprtype.I32)
	y := localVar(1, exprtype.I32)
	lhs := x.Addition(y.Negate())
	rhs := x.Subtract(y)
	assert.True(t, Equal(lhs, rhs), "x + (-y) should normalize the same as x - y")
}

func TestSubtractSelfIsZero(t *testing.T) {
	x := localVar(0, exprtype.I32)
	diff := x.Subtract(x)
	c, ok := diff.Expr.(ConstantExpr)
	assert.True(t, ok)
	assert.True(t, c.Value.IsZero())
}

func TestDoubleNegation(t *testing.T) {
	x := localVar(0, exprtype.I32)
	assert.True(t, Equal(x, x.Negate().Negate()))
}

func TestMultiplyIdentitiesAndAbsorbers(t *testing.T) {
	x := localVar(0, exprtype.I32)
	assert.Same(t, x, x.Multiply(i(1)))
	assert.Same(t, x, i(1).Multiply(x))

	zero := x.Multiply(i(0))
	c, ok := zero.Expr.(ConstantExpr)
	assert.True(t, ok)
	assert.True(t, c.Value.IsZero())
}

func TestDivideCancelsMultiplication(t *testing.T) {
	x := localVar(0, exprtype.I32)
	y := localVar(1, exprtype.I32)
	product := x.Multiply(y)
	assert.True(t, Equal(y, product.Divide(x)))
	assert.True(t, Equal(x, product.Divide(y)))
}

func TestDivByZeroConstantDoesNotFold(t *testing.T) {
	result := i(10).Divide(i(0))
	_, isConstant := result.Expr.(ConstantExpr)
	assert.False(t, isConstant, "division by a known zero must not fold to a bogus constant")
}

func TestCastFusionRecast(t *testing.T) {
	x := localVar(0, exprtype.U32)
	casted := x.Cast(exprtype.U16).Cast(exprtype.U8)
	direct := x.Cast(exprtype.U8)
	assert.True(t, Equal(casted, direct))
}

func TestCastConstantWraps(t *testing.T) {
	v := i(300).Cast(exprtype.U8)
	c, ok := v.Expr.(ConstantExpr)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(300-256), c.Value.Int)
}

func TestRemainderOnCastRewrite(t *testing.T) {
	x := localVar(0, exprtype.U32)
	lhs := x.Cast(exprtype.U8).Remainder(i(256))
	lhs = lhs.RemainderOnCast()
	rhs := x.Remainder(i(256))
	assert.True(t, Equal(lhs, rhs))
}

func TestAndOrAbsorption(t *testing.T) {
	x := localVar(0, exprtype.Bool)
	assert.Same(t, False, x.And(False))
	assert.Same(t, x, x.And(True))
	assert.Same(t, True, x.Or(True))
	assert.Same(t, x, x.Or(False))
}

func TestAndSelf(t *testing.T) {
	x := localVar(0, exprtype.Bool)
	assert.True(t, Equal(x, x.And(x)))
	assert.True(t, Equal(x, x.Or(x)))
}

func TestNotPushesThroughComparisons(t *testing.T) {
	x := localVar(0, exprtype.I32)
	y := localVar(1, exprtype.I32)
	lt := x.LessThan(y)
	notLt := lt.Not()
	ge := x.GreaterOrEqual(y)
	assert.True(t, Equal(notLt, ge))
}

func TestDoubleNot(t *testing.T) {
	x := localVar(0, exprtype.Bool)
	assert.True(t, Equal(x, x.Not().Not()))
}

func TestEqualsKnownConstants(t *testing.T) {
	assert.Same(t, True, i(5).Equals(i(5)))
	assert.Same(t, False, i(5).Equals(i(6)))
}

func TestEqualsReflexiveOnNonFloat(t *testing.T) {
	x := localVar(0, exprtype.I32)
	assert.Same(t, True, x.Equals(x))
}

func TestEqualsReflexiveDoesNotFireOnFloats(t *testing.T) {
	x := localVar(0, exprtype.F64)
	result := x.Equals(x)
	assert.NotSame(t, True, result, "x == x must not fold to true for possibly-NaN float values")
}

func TestLessThanConstantFolding(t *testing.T) {
	assert.Same(t, True, i(1).LessThan(i(2)))
	assert.Same(t, False, i(2).LessThan(i(1)))
}

func TestAddOverflowsConstant(t *testing.T) {
	result := i(200).AddOverflows(i(100), exprtype.U8)
	assert.Same(t, True, result)

	result = i(10).AddOverflows(i(20), exprtype.U8)
	assert.Same(t, False, result)
}

func TestSubOverflowsConstant(t *testing.T) {
	result := i(1).SubOverflows(i(2), exprtype.U8)
	assert.Same(t, True, result)
}

func TestMulOverflowsConstant(t *testing.T) {
	result := i(200).MulOverflows(i(200), exprtype.U8)
	assert.Same(t, True, result)
	result = i(2).MulOverflows(i(3), exprtype.U8)
	assert.Same(t, False, result)
}

func TestBitNotConstant(t *testing.T) {
	result := i(0).BitNot(exprtype.U8)
	c, ok := result.Expr.(ConstantExpr)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(255), c.Value.Int)
}

func TestShiftLeftConstant(t *testing.T) {
	result := i(1).ShiftLeft(i(4))
	c, ok := result.Expr.(ConstantExpr)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(16), c.Value.Int)
}

func TestConditionalKnownCondition(t *testing.T) {
	x := localVar(0, exprtype.I32)
	y := localVar(1, exprtype.I32)
	assert.Same(t, x, Conditional(True, x, y))
	assert.Same(t, y, Conditional(False, x, y))
}

func TestConditionalEqualBranches(t *testing.T) {
	x := localVar(0, exprtype.I32)
	cond := localVar(1, exprtype.Bool)
	assert.True(t, Equal(x, Conditional(cond, x, x)))
}

func TestJoinEqualBranches(t *testing.T) {
	x := localVar(0, exprtype.I32)
	p := &LocalVariable{Ordinal: 0}
	assert.True(t, Equal(x, Join(p, x, x)))
}

func TestJoinBottomAbsorption(t *testing.T) {
	x := localVar(0, exprtype.I32)
	p := &LocalVariable{Ordinal: 0}
	assert.Same(t, x, Join(p, Bottom, x))
	assert.Same(t, x, Join(p, x, Bottom))
}

func TestTryToRetypeAsRecursesIntoArithmetic(t *testing.T) {
	x := localVar(0, exprtype.I32)
	y := localVar(1, exprtype.I32)
	sum := x.Addition(y)
	retyped := sum.TryToRetypeAs(exprtype.I64)
	add, ok := retyped.Expr.(AddExpr)
	assert.True(t, ok)
	assert.Equal(t, exprtype.I64, InferType(add.Left.Expr))
	assert.Equal(t, exprtype.I64, InferType(add.Right.Expr))
}
