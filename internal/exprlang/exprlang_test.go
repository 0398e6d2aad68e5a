package exprlang

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"avengine/internal/absval"
)

func TestEvalArithmetic(t *testing.T) {
	v, err := Eval("p0 + 3 - 1")
	assert.NoError(t, err)
	add, ok := v.Expr.(absval.AddExpr)
	assert.True(t, ok)
	_, isVar := add.Left.Expr.(absval.VariableExpr)
	assert.True(t, isVar)
	assert.True(t, absval.Equal(add.Right, absval.OfI128(big.NewInt(2))))
}

func TestEvalConstantFoldsFully(t *testing.T) {
	v, err := Eval("2 + 3 * 4")
	assert.NoError(t, err)
	assert.True(t, absval.Equal(v, absval.OfI128(big.NewInt(14))))
}

func TestEvalComparisonAndLogic(t *testing.T) {
	v, err := Eval("p0 == 0 && p0 != 1")
	assert.NoError(t, err)
	_, ok := v.Expr.(absval.AndExpr)
	assert.True(t, ok)
}

func TestEvalTernary(t *testing.T) {
	v, err := Eval("true ? 1 : 2")
	assert.NoError(t, err)
	assert.True(t, absval.Equal(v, absval.OfI128(big.NewInt(1))))
}

func TestEvalWiden(t *testing.T) {
	v, err := Eval("widen[p0](p0 + 1)")
	assert.NoError(t, err)
	_, ok := v.Expr.(absval.WidenExpr)
	assert.True(t, ok)
}

func TestEvalJoin(t *testing.T) {
	v, err := Eval("join[p0](1, 2)")
	assert.NoError(t, err)
	_, ok := v.Expr.(absval.JoinExpr)
	assert.True(t, ok)
}

func TestEvalCast(t *testing.T) {
	v, err := Eval("300 as u8")
	assert.NoError(t, err)
	assert.True(t, absval.Equal(v, absval.OfI128(big.NewInt(44))))
}

func TestEvalPrecedence(t *testing.T) {
	v, err := Eval("1 + 2 * 3 == 7")
	assert.NoError(t, err)
	assert.True(t, absval.Equal(v, absval.True))
}

func TestEvalUnknownIdentifierErrors(t *testing.T) {
	_, err := Eval("q0 + 1")
	assert.Error(t, err)
}

func TestEvalSyntaxErrorReportsPosition(t *testing.T) {
	_, err := Eval("p0 + ")
	assert.Error(t, err)
	pe, ok := err.(*ParseError)
	assert.True(t, ok)
	assert.Equal(t, 1, pe.Pos.Line)

	reporter := NewReporter("p0 + ")
	formatted := reporter.Format(pe)
	assert.Contains(t, formatted, "error")
}

func TestOpaqueTypeProjectionsFailClosed(t *testing.T) {
	var tr absval.TypeRef = OpaqueType{Name: "Widget"}
	_, ok := tr.Field("x")
	assert.False(t, ok)
	assert.Equal(t, tr, tr.Specialize(nil))
}
