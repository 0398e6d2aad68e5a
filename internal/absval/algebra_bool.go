package absval

import (
	"avengine/internal/constant"
	"avengine/internal/exprtype"
)

// And implements x && y with short-circuit-style absorption and
// constant folding.
func (v *AbstractValue) And(other *AbstractValue) *AbstractValue {
	if v.AsFalseConstant() || other.AsFalseConstant() {
		return False
	}
	if v.AsTrueConstant() {
		return other
	}
	if other.AsTrueConstant() {
		return v
	}
	if folded, ok := foldConstants(v, other, constant.Domain.And); ok {
		return folded
	}
	if Equal(v, other) {
		return v // x && x -> x
	}
	if isComplementOf(v, other) {
		return False // x && !x -> false
	}
	if lhs, rok := v.Expr.(NotExpr); rok {
		if rhs, rok2 := other.Expr.(NotExpr); rok2 {
			return lhs.Operand.Or(rhs.Operand).Not() // !x && !y -> !(x || y)
		}
	}
	// (x || y) && x -> x, (x || y) && !x -> y, and the symmetric
	// operand order; grounded on the original's and() Or-pattern arm.
	if or, ok := v.Expr.(OrExpr); ok {
		if Equal(or.Left, other) || Equal(or.Right, other) {
			return other
		}
		if not, ok := other.Expr.(NotExpr); ok {
			if Equal(or.Left, not.Operand) {
				return or.Right
			}
			if Equal(or.Right, not.Operand) {
				return or.Left
			}
		}
	}
	if or, ok := other.Expr.(OrExpr); ok {
		if Equal(or.Left, v) || Equal(or.Right, v) {
			return v
		}
		if not, ok := v.Expr.(NotExpr); ok {
			if Equal(or.Left, not.Operand) {
				return or.Right
			}
			if Equal(or.Right, not.Operand) {
				return or.Left
			}
		}
	}
	if result, ok := distribute(v, other, (*AbstractValue).And); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return AndExpr{Left: l, Right: r} })
}

// Or implements x || y.
func (v *AbstractValue) Or(other *AbstractValue) *AbstractValue {
	if v.AsTrueConstant() || other.AsTrueConstant() {
		return True
	}
	if v.AsFalseConstant() {
		return other
	}
	if other.AsFalseConstant() {
		return v
	}
	if folded, ok := foldConstants(v, other, constant.Domain.Or); ok {
		return folded
	}
	if Equal(v, other) {
		return v // x || x -> x
	}
	if isComplementOf(v, other) {
		return True // x || !x -> true
	}
	// (x && y) || x -> x, and the symmetric operand order.
	if and, ok := v.Expr.(AndExpr); ok {
		if Equal(and.Left, other) || Equal(and.Right, other) {
			return other
		}
	}
	if and, ok := other.Expr.(AndExpr); ok {
		if Equal(and.Left, v) || Equal(and.Right, v) {
			return v
		}
	}
	if lhs, rok := v.Expr.(NotExpr); rok {
		if rhs, rok2 := other.Expr.(NotExpr); rok2 {
			return lhs.Operand.And(rhs.Operand).Not() // !x || !y -> !(x && y)
		}
	}
	if result, ok := distribute(v, other, (*AbstractValue).Or); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return OrExpr{Left: l, Right: r} })
}

// isComplementOf reports whether one operand is the syntactic negation
// of the other, used for the x ∧ !x -> false / x ∨ !x -> true rules.
func isComplementOf(v, other *AbstractValue) bool {
	if not, ok := v.Expr.(NotExpr); ok && Equal(not.Operand, other) {
		return true
	}
	if not, ok := other.Expr.(NotExpr); ok && Equal(not.Operand, v) {
		return true
	}
	return false
}

// Not implements !x, including double-negation elimination and pushing
// through the comparison operators (spec.md §4.2).
func (v *AbstractValue) Not() *AbstractValue {
	if v.AsTrueConstant() {
		return False
	}
	if v.AsFalseConstant() {
		return True
	}
	switch e := v.Expr.(type) {
	case NotExpr:
		return e.Operand // !!x -> x
	case EqualsExpr:
		return makeBinary(e.Left, e.Right, func(l, r *AbstractValue) Expression { return NotEqualsExpr{Left: l, Right: r} })
	case NotEqualsExpr:
		return makeBinary(e.Left, e.Right, func(l, r *AbstractValue) Expression { return EqualsExpr{Left: l, Right: r} })
	case LessThanExpr:
		return makeBinary(e.Left, e.Right, func(l, r *AbstractValue) Expression { return GreaterOrEqualExpr{Left: l, Right: r} })
	case LessOrEqualExpr:
		return makeBinary(e.Left, e.Right, func(l, r *AbstractValue) Expression { return GreaterThanExpr{Left: l, Right: r} })
	case GreaterThanExpr:
		return makeBinary(e.Left, e.Right, func(l, r *AbstractValue) Expression { return LessOrEqualExpr{Left: l, Right: r} })
	case GreaterOrEqualExpr:
		return makeBinary(e.Left, e.Right, func(l, r *AbstractValue) Expression { return LessThanExpr{Left: l, Right: r} })
	}
	return makeUnary(v, func(o *AbstractValue) Expression { return NotExpr{Operand: o} })
}

// Equals implements x == y. Per spec.md §9's resolution of the
// floating-point Open Question, the only float shortcut taken is the
// syntactic x == x -> true rule; no further float-equality reasoning is
// attempted because NaN makes a blanket x==x->true rule unsound for
// unknown float values, so the rule only fires when x is itself a
// non-float expression or a known non-NaN constant.
func (v *AbstractValue) Equals(other *AbstractValue) *AbstractValue {
	if lc, ok := v.Expr.(ConstantExpr); ok {
		if rc, ok2 := other.Expr.(ConstantExpr); ok2 {
			return OfBool(lc.Value.Equal(rc.Value))
		}
	}
	if Equal(v, other) && !v.isPossiblyNaN() {
		return True // x == x -> true
	}
	if result, ok := boolValuedIntEquality(v, other); ok {
		return result
	}
	if result, ok := boolValuedIntEquality(other, v); ok {
		return result
	}
	if result, ok := distribute(v, other, (*AbstractValue).Equals); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return EqualsExpr{Left: l, Right: r} })
}

// boolValuedIntEquality implements spec.md §4.2's "boolean-valued
// integer equality" rewrites: x==0 -> !x and x==1 -> x when x is bool.
// The companion rule "(c?c1:c2)==k -> c or !c" falls out of the generic
// conditional-distribution rule plus Conditional's own true/false
// collapse, so it needs no separate case here.
func boolValuedIntEquality(x, k *AbstractValue) (*AbstractValue, bool) {
	kc, ok := k.Expr.(ConstantExpr)
	if !ok || kc.Value.Kind != constant.KindInt || InferType(x.Expr) != exprtype.Bool {
		return nil, false
	}
	if kc.Value.IsZero() {
		return x.Not(), true
	}
	if kc.Value.IsOne() {
		return x, true
	}
	return nil, false
}

func (v *AbstractValue) isPossiblyNaN() bool {
	t := InferType(v.Expr)
	return t.IsFloatingPointNumber()
}

func (v *AbstractValue) NotEquals(other *AbstractValue) *AbstractValue {
	return v.Equals(other).Not()
}

func (v *AbstractValue) LessThan(other *AbstractValue) *AbstractValue {
	if lc, ok := v.Expr.(ConstantExpr); ok {
		if rc, ok2 := other.Expr.(ConstantExpr); ok2 {
			if r, ok3 := lc.Value.Cmp(rc.Value); ok3 {
				return OfBool(r < 0)
			}
		}
	}
	if b, ok := v.GetCachedInterval().LessThan(other.GetCachedInterval()); ok {
		return OfBool(b)
	}
	if result, ok := distribute(v, other, (*AbstractValue).LessThan); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return LessThanExpr{Left: l, Right: r} })
}

func (v *AbstractValue) LessOrEqual(other *AbstractValue) *AbstractValue {
	if lc, ok := v.Expr.(ConstantExpr); ok {
		if rc, ok2 := other.Expr.(ConstantExpr); ok2 {
			if r, ok3 := lc.Value.Cmp(rc.Value); ok3 {
				return OfBool(r <= 0)
			}
		}
	}
	if b, ok := v.GetCachedInterval().LessOrEqual(other.GetCachedInterval()); ok {
		return OfBool(b)
	}
	if result, ok := distribute(v, other, (*AbstractValue).LessOrEqual); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return LessOrEqualExpr{Left: l, Right: r} })
}

// GreaterThan and GreaterOrEqual build their own Greater*Expr nodes
// (rather than swapping operands into LessThan/LessOrEqual) so that the
// shape they produce matches what Not() rewrites a negated
// LessOrEqual/LessThan into; otherwise "x > y" and "!(x <= y)" would
// normalize to different expressions and stop comparing equal.
func (v *AbstractValue) GreaterThan(other *AbstractValue) *AbstractValue {
	if lc, ok := v.Expr.(ConstantExpr); ok {
		if rc, ok2 := other.Expr.(ConstantExpr); ok2 {
			if r, ok3 := lc.Value.Cmp(rc.Value); ok3 {
				return OfBool(r > 0)
			}
		}
	}
	if b, ok := other.GetCachedInterval().LessThan(v.GetCachedInterval()); ok {
		return OfBool(b)
	}
	if result, ok := distribute(v, other, (*AbstractValue).GreaterThan); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return GreaterThanExpr{Left: l, Right: r} })
}

func (v *AbstractValue) GreaterOrEqual(other *AbstractValue) *AbstractValue {
	if lc, ok := v.Expr.(ConstantExpr); ok {
		if rc, ok2 := other.Expr.(ConstantExpr); ok2 {
			if r, ok3 := lc.Value.Cmp(rc.Value); ok3 {
				return OfBool(r >= 0)
			}
		}
	}
	if b, ok := other.GetCachedInterval().LessOrEqual(v.GetCachedInterval()); ok {
		return OfBool(b)
	}
	if result, ok := distribute(v, other, (*AbstractValue).GreaterOrEqual); ok {
		return result
	}
	return makeBinary(v, other, func(l, r *AbstractValue) Expression { return GreaterOrEqualExpr{Left: l, Right: r} })
}
