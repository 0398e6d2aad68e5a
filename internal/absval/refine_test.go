package absval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"avengine/internal/exprtype"
)

func TestRefineParametersSubstitutesVariablePath(t *testing.T) {
	param := MakeFrom(VariableExpr{Path: &Parameter{Ordinal: 0}, VarType: exprtype.I32}, 1)
	sum := param.Addition(OfI128(big.NewInt(1)))

	actual := localVar(7, exprtype.I32)
	refined := sum.RefineParameters([]*AbstractValue{actual}, 0)

	add, ok := refined.Expr.(AddExpr)
	assert.True(t, ok)
	variable, ok := add.Left.Expr.(VariableExpr)
	assert.True(t, ok)
	local, ok := variable.Path.(*LocalVariable)
	assert.True(t, ok)
	assert.Equal(t, 7, local.Ordinal)
}

func TestRefineParametersOffsetsHeapBlockSerial(t *testing.T) {
	block := MakeHeapBlock(3, false)
	refined := block.RefineParameters(nil, 100)
	h, ok := refined.Expr.(HeapBlockExpr)
	assert.True(t, ok)
	assert.Equal(t, 103, h.Serial)
}

func TestRefinePathsResolvesBoundVariable(t *testing.T) {
	p := &LocalVariable{Ordinal: 0}
	variable := MakeFrom(VariableExpr{Path: p, VarType: exprtype.I32}, 1)
	env := NewEnvironment().Set(p, OfI128(big.NewInt(42)))

	refined := variable.RefinePaths(env)
	assert.True(t, Equal(refined, OfI128(big.NewInt(42))))
}

func TestRefinePathsLeavesParameterRootedFieldsAlone(t *testing.T) {
	p := &Parameter{Ordinal: 0}
	variable := MakeFrom(VariableExpr{Path: p, VarType: exprtype.I32}, 1)
	env := NewEnvironment()

	refined := variable.RefinePaths(env)
	assert.True(t, Equal(refined, variable))
}

func TestRefinePathsUnresolvedLocalBecomesModelField(t *testing.T) {
	p := &LocalVariable{Ordinal: 9}
	variable := MakeFrom(VariableExpr{Path: p, VarType: exprtype.I32}, 1)
	env := NewEnvironment()

	refined := variable.RefinePaths(env)
	_, ok := refined.Expr.(UnknownModelFieldExpr)
	assert.True(t, ok)
}

func TestRefineWithSubstitutesKnownEquality(t *testing.T) {
	x := localVar(0, exprtype.I32)
	condition := x.Equals(i(5))

	refined := x.RefineWith(condition, 0)
	assert.True(t, Equal(refined, i(5)))
}

func TestRefineWithPicksConditionalBranch(t *testing.T) {
	x := localVar(0, exprtype.Bool)
	cond := Conditional(x, i(1), i(2))

	refined := cond.RefineWith(x, 0)
	assert.True(t, Equal(refined, i(1)))

	refined = cond.RefineWith(x.Not(), 0)
	assert.True(t, Equal(refined, i(2)))
}

func TestRefineWithPanicsOnKnownFalseConditionWhenDebugAssertionsOn(t *testing.T) {
	old := DebugAssertions
	DebugAssertions = true
	defer func() { DebugAssertions = old }()

	assert.Panics(t, func() {
		i(1).RefineWith(False, 0)
	})
}

func TestRefineWithStopsAtMaxDepth(t *testing.T) {
	x := localVar(0, exprtype.I32)
	y := localVar(1, exprtype.I32)
	cond := localVar(2, exprtype.Bool)
	refined := x.Addition(y).RefineWith(cond, MaxRefineDepth+1)
	assert.True(t, Equal(refined, x.Addition(y)))
}
