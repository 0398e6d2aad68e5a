package absval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"avengine/internal/exprtype"
)

func TestEnvironmentSetAndLookup(t *testing.T) {
	env := NewEnvironment()
	p := &LocalVariable{Ordinal: 0}
	env2 := env.Set(p, OfI128(big.NewInt(1)))

	_, ok := env.ValueAt(p)
	assert.False(t, ok, "the original environment must be unaffected by Set")

	v, ok := env2.ValueAt(p)
	assert.True(t, ok)
	assert.True(t, Equal(v, OfI128(big.NewInt(1))))
}

func TestEnvironmentShadowing(t *testing.T) {
	p := &LocalVariable{Ordinal: 0}
	env := NewEnvironment().Set(p, OfI128(big.NewInt(1))).Set(p, OfI128(big.NewInt(2)))

	v, ok := env.ValueAt(p)
	assert.True(t, ok)
	assert.True(t, Equal(v, OfI128(big.NewInt(2))))

	entries := env.Entries()
	assert.Len(t, entries, 1, "Entries should dedup shadowed keys to the most recent write")
}

func TestEnvironmentMissingLookup(t *testing.T) {
	env := NewEnvironment()
	_, ok := env.ValueAt(&LocalVariable{Ordinal: 5})
	assert.False(t, ok)
}

func TestEqualitiesForWidenedVars(t *testing.T) {
	p := &LocalVariable{Ordinal: 0}
	widened := Widen(p, localVar(0, exprtype.I32))
	env := NewEnvironment().Set(p, widened)

	result := env.EqualitiesForWidenedVars()
	_, isEquals := result.Expr.(EqualsExpr)
	assert.True(t, isEquals, "a single widened binding should produce a bare equality, since True.And(x) reduces to x")
}

func TestEqualitiesForWidenedVarsCombinesMultiple(t *testing.T) {
	p0 := &LocalVariable{Ordinal: 0}
	p1 := &LocalVariable{Ordinal: 1}
	env := NewEnvironment().
		Set(p0, Widen(p0, localVar(0, exprtype.I32))).
		Set(p1, Widen(p1, localVar(1, exprtype.I32)))

	result := env.EqualitiesForWidenedVars()
	and, ok := result.Expr.(AndExpr)
	assert.True(t, ok, "two widened bindings should conjoin into an AndExpr")
	_, isEquals1 := and.Left.Expr.(EqualsExpr)
	_, isEquals2 := and.Right.Expr.(EqualsExpr)
	assert.True(t, isEquals1)
	assert.True(t, isEquals2)
}
