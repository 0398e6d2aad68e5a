package absval

// distribute implements spec.md §4.2's generic binary-operator
// distribution over Conditional and Join operands: op(c?a:b, y) ->
// c?op(a,y):op(b,y), and the analogous rule for Join, preserving its
// path tag. Neither operand may be a Widen — widening summarizes a
// whole loop iteration's worth of values behind one opaque node, and
// distributing into it would defeat that summarization and grow
// expressions without bound across iterations.
func distribute(left, right *AbstractValue, op func(a, b *AbstractValue) *AbstractValue) (*AbstractValue, bool) {
	if isWiden(left) || isWiden(right) {
		return nil, false
	}
	if c, ok := left.Expr.(ConditionalExpr); ok {
		return Conditional(c.Condition, op(c.Consequent, right), op(c.Alternate, right)), true
	}
	if c, ok := right.Expr.(ConditionalExpr); ok {
		return Conditional(c.Condition, op(left, c.Consequent), op(left, c.Alternate)), true
	}
	if j, ok := left.Expr.(JoinExpr); ok {
		return Join(j.Path, op(j.Left, right), op(j.Right, right)), true
	}
	if j, ok := right.Expr.(JoinExpr); ok {
		return Join(j.Path, op(left, j.Left), op(left, j.Right)), true
	}
	return nil, false
}

func isWiden(v *AbstractValue) bool {
	_, ok := v.Expr.(WidenExpr)
	return ok
}
