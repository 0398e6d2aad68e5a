package absval

// Implies, ImpliesNot, and Subset are the cheap, sound, incomplete
// predicates from spec.md §4.4, used during refinement. Cost is
// proportional to the size of the left operand: every case recurses
// into operands without allocating a fresh AbstractValue.

// Implies reports whether self being true allows the caller to
// conclude other is true.
func (v *AbstractValue) Implies(other *AbstractValue) bool {
	if other.AsTrueConstant() {
		return true
	}
	if v.AsFalseConstant() {
		return true
	}
	if Equal(v, other) {
		return true
	}
	if and, ok := v.Expr.(AndExpr); ok {
		return and.Left.Implies(other) || and.Right.Implies(other)
	}
	if not, ok := v.Expr.(NotExpr); ok {
		if _, ok := other.Expr.(NotExpr); ok {
			return not.Operand.InverseImplies(other)
		}
	}
	if otherNot, ok := other.Expr.(NotExpr); ok {
		return v.ImpliesNot(otherNot.Operand)
	}
	return false
}

// ImpliesNot reports whether self being true allows the caller to
// conclude other is false.
func (v *AbstractValue) ImpliesNot(other *AbstractValue) bool {
	if other.AsFalseConstant() {
		return true
	}
	if v.AsFalseConstant() {
		return true
	}
	if not, ok := other.Expr.(NotExpr); ok {
		return v.Implies(not.Operand)
	}
	if or, ok := v.Expr.(OrExpr); ok {
		return or.Left.ImpliesNot(other) && or.Right.ImpliesNot(other)
	}
	if not, ok := v.Expr.(NotExpr); ok && Equal(not.Operand, other) {
		return true // !x implies not-x trivially
	}
	return false
}

// InverseImplies reports whether !self being true allows the caller to
// conclude other is true. It strips one negation and defers to Implies:
// !(!x) => y iff x => y, and !x => !y iff y => x, which covers
// !x => !(a && b) through Implies's And rule (spec.md §4.4).
func (v *AbstractValue) InverseImplies(other *AbstractValue) bool {
	if not, ok := v.Expr.(NotExpr); ok {
		return not.Operand.Implies(other)
	}
	if not, ok := other.Expr.(NotExpr); ok {
		return not.Operand.Implies(v)
	}
	return false
}

// InverseImpliesNot reports whether !self being true allows the caller
// to conclude other is false, which holds when other implies self.
func (v *AbstractValue) InverseImpliesNot(other *AbstractValue) bool {
	return other.Implies(v)
}

// AsTrueConstant/AsFalseConstant are small helpers local to this file.
func (v *AbstractValue) AsTrueConstant() bool {
	b, ok := v.AsBoolIfKnown()
	return ok && b
}

func (v *AbstractValue) AsFalseConstant() bool {
	b, ok := v.AsBoolIfKnown()
	return ok && !b
}

// Subset is the lattice order used by fixed-point detection
// (spec.md §4.4).
func (v *AbstractValue) Subset(other *AbstractValue) bool {
	if Equal(v, other) {
		return true
	}
	switch {
	case v.IsBottom():
		return true
	case other.IsBottom():
		return false
	case other.IsTop():
		return true
	case v.IsTop():
		return false
	}
	if lw, ok := v.Expr.(WidenExpr); ok {
		if rw, ok := other.Expr.(WidenExpr); ok {
			return PathEqual(lw.Path, rw.Path)
		}
	}
	if c, ok := v.Expr.(ConditionalExpr); ok {
		return c.Consequent.Subset(other) && c.Alternate.Subset(other)
	}
	if c, ok := other.Expr.(ConditionalExpr); ok {
		return v.Subset(c.Consequent) || v.Subset(c.Alternate)
	}
	if rw, ok := other.Expr.(WidenExpr); ok {
		return v.Subset(rw.Operand)
	}
	if j, ok := v.Expr.(JoinExpr); ok {
		return j.Left.Subset(other) && j.Right.Subset(other)
	}
	if j, ok := other.Expr.(JoinExpr); ok {
		return v.Subset(j.Left) || v.Subset(j.Right)
	}
	return false
}
