// Package interval implements IntervalDomain, a possibly-unbounded
// closed interval over signed 128-bit integers used as a cheap numeric
// summary of an Expression.
package interval

import (
	"fmt"
	"math/big"

	"avengine/internal/exprtype"
)

// Domain is a closed interval [Lower, Upper]. A nil bound means
// unbounded in that direction. Bottom is represented by Empty=true and
// takes priority over the bounds (which are left nil).
type Domain struct {
	Lower *big.Int
	Upper *big.Int
	Empty bool
}

// Bottom is the empty interval: no concrete value is contained in it.
var Bottom = Domain{Empty: true}

// Unbounded is the universal interval (-inf, +inf).
var Unbounded = Domain{}

// Exact builds the single-point interval {v}.
func Exact(v *big.Int) Domain {
	return Domain{Lower: new(big.Int).Set(v), Upper: new(big.Int).Set(v)}
}

// Range builds the closed interval [lo, hi].
func Range(lo, hi *big.Int) Domain {
	return Domain{Lower: cloneOrNil(lo), Upper: cloneOrNil(hi)}
}

func cloneOrNil(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func (d Domain) IsBottom() bool    { return d.Empty }
func (d Domain) IsUnbounded() bool { return !d.Empty && d.Lower == nil && d.Upper == nil }

func (d Domain) LowerBound() *big.Int { return d.Lower }
func (d Domain) UpperBound() *big.Int { return d.Upper }

func (d Domain) String() string {
	if d.Empty {
		return "[]"
	}
	lo, hi := "-inf", "+inf"
	if d.Lower != nil {
		lo = d.Lower.String()
	}
	if d.Upper != nil {
		hi = d.Upper.String()
	}
	return fmt.Sprintf("[%s, %s]", lo, hi)
}

// Contains reports whether the concrete value k lies in the interval.
func (d Domain) Contains(k *big.Int) bool {
	if d.Empty {
		return false
	}
	if d.Lower != nil && k.Cmp(d.Lower) < 0 {
		return false
	}
	if d.Upper != nil && k.Cmp(d.Upper) > 0 {
		return false
	}
	return true
}

// Add returns the interval of x+y for x in d, y in other.
func (d Domain) Add(other Domain) Domain {
	if d.Empty || other.Empty {
		return Bottom
	}
	return Domain{
		Lower: addBound(d.Lower, other.Lower, false),
		Upper: addBound(d.Upper, other.Upper, true),
	}
}

func addBound(a, b *big.Int, isUpper bool) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	return new(big.Int).Add(a, b)
}

// Sub returns the interval of x-y for x in d, y in other.
func (d Domain) Sub(other Domain) Domain {
	if d.Empty || other.Empty {
		return Bottom
	}
	var lo, hi *big.Int
	if d.Lower != nil && other.Upper != nil {
		lo = new(big.Int).Sub(d.Lower, other.Upper)
	}
	if d.Upper != nil && other.Lower != nil {
		hi = new(big.Int).Sub(d.Upper, other.Lower)
	}
	return Domain{Lower: lo, Upper: hi}
}

// Neg returns the interval of -x for x in d.
func (d Domain) Neg() Domain {
	if d.Empty {
		return Bottom
	}
	var lo, hi *big.Int
	if d.Upper != nil {
		lo = new(big.Int).Neg(d.Upper)
	}
	if d.Lower != nil {
		hi = new(big.Int).Neg(d.Lower)
	}
	return Domain{Lower: lo, Upper: hi}
}

// Mul returns a sound (not necessarily tight) interval for x*y. When
// either operand is unbounded in a direction that could make the
// product unbounded, the result is unbounded on that side.
func (d Domain) Mul(other Domain) Domain {
	if d.Empty || other.Empty {
		return Bottom
	}
	if d.Lower == nil || d.Upper == nil || other.Lower == nil || other.Upper == nil {
		return Unbounded
	}
	candidates := []*big.Int{
		new(big.Int).Mul(d.Lower, other.Lower),
		new(big.Int).Mul(d.Lower, other.Upper),
		new(big.Int).Mul(d.Upper, other.Lower),
		new(big.Int).Mul(d.Upper, other.Upper),
	}
	lo, hi := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		if c.Cmp(lo) < 0 {
			lo = c
		}
		if c.Cmp(hi) > 0 {
			hi = c
		}
	}
	return Domain{Lower: lo, Upper: hi}
}

// Widen accelerates the union of d (the prior value) with next (the
// value after one more loop iteration): per spec.md §4.3, when the
// lower bound did not move, the upper bound is dropped to +inf and
// vice versa; otherwise both bounds are preserved from next with no
// further acceleration (the caller is expected to have already taken
// the lattice join before calling Widen).
func (d Domain) Widen(next Domain) Domain {
	if d.Empty {
		return next
	}
	if next.Empty {
		return d
	}
	sameLower := boundsEqual(d.Lower, next.Lower)
	sameUpper := boundsEqual(d.Upper, next.Upper)
	switch {
	case sameLower && !sameUpper:
		return Domain{Lower: cloneOrNil(d.Lower), Upper: nil}
	case sameUpper && !sameLower:
		return Domain{Lower: nil, Upper: cloneOrNil(d.Upper)}
	default:
		return next
	}
}

func boundsEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

// Join computes the lattice union (smallest interval containing both).
func (d Domain) Join(other Domain) Domain {
	if d.Empty {
		return other
	}
	if other.Empty {
		return d
	}
	var lo, hi *big.Int
	if d.Lower != nil && other.Lower != nil {
		lo = d.Lower
		if other.Lower.Cmp(lo) < 0 {
			lo = other.Lower
		}
		lo = new(big.Int).Set(lo)
	}
	if d.Upper != nil && other.Upper != nil {
		hi = d.Upper
		if other.Upper.Cmp(hi) > 0 {
			hi = other.Upper
		}
		hi = new(big.Int).Set(hi)
	}
	return Domain{Lower: lo, Upper: hi}
}

// LessThan reports a known boolean iff the two intervals are provably
// disjoint in the right order; ok is false when the comparison cannot
// be decided from the intervals alone.
func (d Domain) LessThan(other Domain) (value bool, ok bool) {
	if d.Empty || other.Empty {
		return false, false
	}
	if d.Upper != nil && other.Lower != nil && d.Upper.Cmp(other.Lower) < 0 {
		return true, true
	}
	if d.Lower != nil && other.Upper != nil && d.Lower.Cmp(other.Upper) >= 0 {
		return false, true
	}
	return false, false
}

func (d Domain) LessOrEqual(other Domain) (value bool, ok bool) {
	if d.Empty || other.Empty {
		return false, false
	}
	if d.Upper != nil && other.Lower != nil && d.Upper.Cmp(other.Lower) <= 0 {
		return true, true
	}
	if d.Lower != nil && other.Upper != nil && d.Lower.Cmp(other.Upper) > 0 {
		return false, true
	}
	return false, false
}

func (d Domain) GreaterThan(other Domain) (value bool, ok bool) {
	return other.LessThan(d)
}

func (d Domain) GreaterOrEqual(other Domain) (value bool, ok bool) {
	return other.LessOrEqual(d)
}

// IsContainedIn reports whether every value the interval can take is a
// representable value of t, used by the overflow predicates to return
// a concrete false when the result interval already fits the target
// type.
func (d Domain) IsContainedIn(t exprtype.Type) bool {
	if d.Empty {
		return true
	}
	min, max := t.MinValue(), t.MaxValue()
	if min == nil || max == nil {
		return false
	}
	if d.Lower == nil || d.Upper == nil {
		return false
	}
	return d.Lower.Cmp(min) >= 0 && d.Upper.Cmp(max) <= 0
}
