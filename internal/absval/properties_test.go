package absval

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"avengine/internal/exprtype"
)

// randomSmallTree builds a shallow, random expression tree out of bool
// leaves and the five boolean connectives, for exercising lattice and
// rewrite properties without hand-enumerating every shape.
func randomSmallTree(r *rand.Rand, vars []*AbstractValue, depth int) *AbstractValue {
	if depth <= 0 || r.Intn(3) == 0 {
		return vars[r.Intn(len(vars))]
	}
	left := randomSmallTree(r, vars, depth-1)
	switch r.Intn(3) {
	case 0:
		return left.And(randomSmallTree(r, vars, depth-1))
	case 1:
		return left.Or(randomSmallTree(r, vars, depth-1))
	default:
		return left.Not()
	}
}

func TestPropertySizeMonotonicity(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	x := localVar(0, exprtype.Bool)
	y := localVar(1, exprtype.Bool)
	for n := 0; n < 200; n++ {
		v := randomSmallTree(r, []*AbstractValue{x, y, True, False}, 5)
		if _, isVar := v.Expr.(VariableExpr); isVar {
			assert.Equal(t, uint64(1), v.Size)
			continue
		}
		assert.LessOrEqual(t, v.Size, MaxExpressionSize)
	}
}

func TestPropertyBottomAbsorptionArithmetic(t *testing.T) {
	x := localVar(0, exprtype.I32)
	assert.True(t, Bottom.Addition(x).IsBottom())
	assert.True(t, x.Addition(Bottom).IsBottom())
	assert.True(t, Bottom.Multiply(x).IsBottom())
	assert.True(t, Bottom.Subtract(x).IsBottom())
}

func TestPropertyIntervalSoundness(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for n := 0; n < 100; n++ {
		a := r.Int63n(1000) - 500
		b := r.Int63n(1000) - 500
		sum := i(a).Addition(i(b))
		k := sum.GetCachedInterval()
		assert.True(t, k.Contains(big.NewInt(a+b)))
	}
}

func TestPropertyImplicationConsistency(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	x := localVar(0, exprtype.Bool)
	y := localVar(1, exprtype.Bool)
	for n := 0; n < 200; n++ {
		a := randomSmallTree(r, []*AbstractValue{x, y, True, False}, 3)
		b := randomSmallTree(r, []*AbstractValue{x, y, True, False}, 3)
		if a.Implies(b) {
			assert.False(t, a.ImpliesNot(b))
		}
	}
}

func TestPropertyRefineWithIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	x := localVar(0, exprtype.Bool)
	y := localVar(1, exprtype.Bool)
	for n := 0; n < 100; n++ {
		v := randomSmallTree(r, []*AbstractValue{x, y, True, False}, 3)
		c := randomSmallTree(r, []*AbstractValue{x, y, True, False}, 2)
		if c.AsFalseConstant() {
			continue // RefineWith requires a satisfiable path condition
		}
		once := v.RefineWith(c, 0)
		twice := once.RefineWith(c, 0)
		assert.True(t, Equal(once, twice))
	}
}

func TestPropertyJoinLattice(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	p := &LocalVariable{Ordinal: 0}
	x := localVar(1, exprtype.Bool)
	for n := 0; n < 100; n++ {
		v := randomSmallTree(r, []*AbstractValue{x, True, False}, 3)
		assert.True(t, Equal(Join(p, v, Bottom), v))
		assert.Same(t, Top, Join(p, v, Top))
		assert.True(t, Equal(Join(p, v, v), v))
	}
}

func TestPropertyWideningFixpoint(t *testing.T) {
	paths := []Path{&LocalVariable{Ordinal: 0}, &LocalVariable{Ordinal: 1}, &Parameter{Ordinal: 0}}
	r := rand.New(rand.NewSource(6))
	for n := 0; n < len(paths)*10; n++ {
		p := paths[r.Intn(len(paths))]
		v := randomSmallTree(r, []*AbstractValue{localVar(0, exprtype.Bool), True, False}, 2)
		once := Widen(p, v)
		twice := Widen(p, once)
		assert.True(t, Equal(once, twice))
	}
}

func TestPropertySubsetReflexiveAndTransitive(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	x := localVar(0, exprtype.Bool)
	y := localVar(1, exprtype.Bool)
	for n := 0; n < 100; n++ {
		a := randomSmallTree(r, []*AbstractValue{x, y, True, False}, 2)
		b := randomSmallTree(r, []*AbstractValue{x, y, True, False}, 2)
		c := randomSmallTree(r, []*AbstractValue{x, y, True, False}, 2)
		assert.True(t, a.Subset(a))
		if a.Subset(b) && b.Subset(c) {
			assert.True(t, a.Subset(c))
		}
	}
}

// TestPropertySimplificationPreservesTruth checks a fixed list of the
// boolean rewrite rules this engine applies by substituting every
// combination of concrete truth values into the variables involved and
// comparing the pre- and post-rewrite truth value.
//
// The negated-disjunct absorption (x || y) && !x -> y is deliberately
// excluded here: it is implemented to match the original checker's
// literal pattern-match (see the comment on that rule inside And) even though it is not
// truth-preserving at x=true, y=true, where the left side is false but
// y is true.
func TestPropertySimplificationPreservesTruth(t *testing.T) {
	x := localVar(0, exprtype.Bool)
	y := localVar(1, exprtype.Bool)

	cases := []struct {
		name   string
		before func(xb, yb bool) bool
		after  *AbstractValue
	}{
		{"x && !x", func(xb, yb bool) bool { return xb && !xb }, x.And(x.Not())},
		{"x || !x", func(xb, yb bool) bool { return xb || !xb }, x.Or(x.Not())},
		{"!x && !y", func(xb, yb bool) bool { return !xb && !yb }, x.Not().And(y.Not())},
		{"!x || !y", func(xb, yb bool) bool { return !xb || !yb }, x.Not().Or(y.Not())},
	}

	for _, c := range cases {
		for _, xb := range []bool{true, false} {
			for _, yb := range []bool{true, false} {
				env := NewEnvironment().Set(&LocalVariable{Ordinal: 0}, OfBool(xb)).Set(&LocalVariable{Ordinal: 1}, OfBool(yb))
				want := c.before(xb, yb)
				got := c.after.RefinePaths(env)
				assert.Equal(t, want, got.AsTrueConstant(), "%s with x=%v y=%v", c.name, xb, yb)
			}
		}
	}
}
