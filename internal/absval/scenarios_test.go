package absval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"avengine/internal/exprtype"
	"avengine/internal/interval"
)

// Each test here pins down one concrete algebraic simplification this
// engine is expected to perform, named after the shape it exercises
// rather than any external label.

func TestScenarioAdditionAssociatesAndFolds(t *testing.T) {
	x := localVar(0, exprtype.I32)
	result := x.Addition(i(3)).Addition(i(5))

	add, ok := result.Expr.(AddExpr)
	assert.True(t, ok)
	assert.True(t, Equal(add.Left, x))
	assert.True(t, Equal(add.Right, i(8)))
	assert.Equal(t, x.Size+1, result.Size)
}

func TestScenarioBoolEqualsZeroIsNot(t *testing.T) {
	x := localVar(0, exprtype.Bool)
	result := x.Equals(i(0))

	not, ok := result.Expr.(NotExpr)
	assert.True(t, ok)
	assert.True(t, Equal(not.Operand, x))
}

func TestScenarioConditionalEqualsConstantCollapsesToCondition(t *testing.T) {
	c := localVar(0, exprtype.Bool)
	result := Conditional(c, i(7), i(9)).Equals(i(7))
	assert.True(t, Equal(result, c))
}

func TestScenarioAndComplementIsFalse(t *testing.T) {
	x := localVar(0, exprtype.Bool)
	result := x.And(x.Not())
	assert.Same(t, False, result)
}

func TestScenarioOrThenAndNegatedLeftLeavesRight(t *testing.T) {
	x := localVar(0, exprtype.Bool)
	y := localVar(1, exprtype.Bool)
	result := x.Or(y).And(x.Not())
	assert.True(t, Equal(result, y))
}

func TestScenarioDivideCancelsDivisibleConstantFactor(t *testing.T) {
	y := localVar(0, exprtype.U128)
	lhs := OfU128(big.NewInt(0xFF00)).Multiply(y)
	result := lhs.Divide(OfU128(big.NewInt(0xFF)))

	mul, ok := result.Expr.(MulExpr)
	assert.True(t, ok)
	assert.True(t, Equal(mul.Left, OfU128(big.NewInt(256))) || Equal(mul.Right, OfU128(big.NewInt(256))))
	assert.True(t, Equal(mul.Left, y) || Equal(mul.Right, y))
}

func TestScenarioAddOverflowDecidesFalseWhenIntervalsFit(t *testing.T) {
	x := boundedU8Var(0, 0, 100)
	y := boundedU8Var(1, 0, 100)
	result := x.AddOverflows(y, exprtype.U8)
	assert.True(t, Equal(result, False))
}

func TestScenarioRefinementSubstitutesBoundVariable(t *testing.T) {
	p := &LocalVariable{Ordinal: 0}
	env := NewEnvironment().Set(p, i(42))

	variable := MakeFrom(VariableExpr{Path: p, VarType: exprtype.U128}, 1)
	assert.True(t, Equal(variable.RefinePaths(env), i(42)))

	plusOne := variable.Addition(i(1))
	assert.True(t, Equal(plusOne.RefinePaths(env), i(43)))
}

func TestScenarioWideningReachesFixpoint(t *testing.T) {
	p := &LocalVariable{Ordinal: 0}
	x := MakeFrom(VariableExpr{Path: p, VarType: exprtype.I32}, 1)

	start := i(0)
	joined := Join(p, start, x.Addition(i(1)))
	widened := Widen(p, joined)

	iv := widened.GetCachedInterval()
	assert.False(t, iv.IsBottom())
	lower := iv.LowerBound()
	assert.NotNil(t, lower)
	assert.Equal(t, int64(0), lower.Int64())
	assert.Nil(t, iv.UpperBound())

	again := Widen(p, widened)
	assert.True(t, Equal(again, widened))
}

// boundedU8Var builds a local variable whose cached interval is pinned
// to [lo, hi], mirroring how a real caller would refine a variable's
// range before asking about overflow.
func boundedU8Var(ordinal int, lo, hi int64) *AbstractValue {
	v := localVar(ordinal, exprtype.U8)
	iv := interval.Range(big.NewInt(lo), big.NewInt(hi))
	v.cached = &iv
	v.cachedSet = true
	return v
}
