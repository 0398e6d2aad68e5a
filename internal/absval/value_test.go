package absval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"avengine/internal/constant"
	"avengine/internal/exprtype"
)

func localVar(ordinal int, t exprtype.Type) *AbstractValue {
	return MakeFrom(VariableExpr{Path: &LocalVariable{Ordinal: ordinal}, VarType: t}, 1)
}

func TestSingletonsIdentity(t *testing.T) {
	assert.True(t, Bottom.IsBottom())
	assert.True(t, Top.IsTop())
	assert.False(t, Bottom.IsTop())
	assert.False(t, Top.IsBottom())
}

func TestOfConstantCollapsesBottom(t *testing.T) {
	v := OfConstant(constant.Bottom)
	assert.Same(t, Bottom, v)
}

func TestEqualIsExpressionBased(t *testing.T) {
	a := OfI128(big.NewInt(3))
	b := OfI128(big.NewInt(3))
	assert.NotSame(t, a, b)
	assert.True(t, Equal(a, b))
}

func TestEqualHandlesNil(t *testing.T) {
	assert.False(t, Equal(nil, OfI128(big.NewInt(1))))
	assert.True(t, Equal(nil, nil))
}

func TestWidenValuesEqualByPathOnly(t *testing.T) {
	p := &LocalVariable{Ordinal: 1}
	w1 := Widen(p, OfI128(big.NewInt(1)))
	w2 := Widen(p, OfI128(big.NewInt(999)))
	assert.True(t, Equal(w1, w2), "Widen values at the same path must compare equal regardless of operand")
}

func TestMakeFromCollapsesOversizedExpression(t *testing.T) {
	old := MaxExpressionSize
	MaxExpressionSize = 2
	defer func() { MaxExpressionSize = old }()

	a := localVar(0, exprtype.I32)
	bv := localVar(1, exprtype.I32)
	sum := a.Addition(bv).Addition(localVar(2, exprtype.I32))

	variable, ok := sum.Expr.(VariableExpr)
	assert.True(t, ok, "oversized expression should collapse to an opaque variable")
	_, isAlias := variable.Path.(*Alias)
	assert.True(t, isAlias)
	assert.Equal(t, uint64(1), sum.Size)
}

func TestMakeReferenceUnwrapsOffset(t *testing.T) {
	inner := OfI128(big.NewInt(7))
	offsetPath := OffsetPath(inner)
	ref := MakeReference(offsetPath)
	assert.Same(t, inner, ref, "Reference(Offset{v}) must unwrap directly to v")
}

func TestInferTypeArithmeticFollowsLeft(t *testing.T) {
	left := MakeFrom(VariableExpr{Path: &LocalVariable{Ordinal: 0}, VarType: exprtype.I32}, 1)
	right := OfI128(big.NewInt(1))
	sum := left.Addition(right)
	assert.Equal(t, exprtype.I32, InferType(sum.Expr))
}

func TestSaturatingAdd(t *testing.T) {
	assert.Equal(t, uint64(5), saturatingAdd(2, 3))
	max := ^uint64(0)
	assert.Equal(t, max, saturatingAdd(max, 1))
}
