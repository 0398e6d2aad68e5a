package absval

import "avengine/internal/exprtype"

// Conditional implements `condition ? consequent : alternate`
// (spec.md §4.2): a known condition picks its branch directly, and two
// syntactically equal branches collapse regardless of the condition.
func Conditional(condition, consequent, alternate *AbstractValue) *AbstractValue {
	assertf(!(consequent.IsBottom() && alternate.IsBottom()), "Conditional constructed with both arms Bottom")
	if condition.IsBottom() {
		return consequent // an impossible condition makes the whole conditional impossible, like the consequent alone
	}
	if condition.IsTop() {
		return condition // an unconstrained condition could pick either branch, so the result is as unknown as the condition
	}
	if consequent.IsBottom() {
		return alternate
	}
	if alternate.IsBottom() {
		return consequent
	}
	if b, ok := condition.AsBoolIfKnown(); ok {
		if b {
			return consequent
		}
		return alternate
	}
	if Equal(consequent, alternate) {
		return consequent
	}
	if not, ok := condition.Expr.(NotExpr); ok {
		return Conditional(not.Operand, alternate, consequent) // (!c)?a:b -> c?b:a
	}
	if consequent.AsTrueConstant() && alternate.AsFalseConstant() {
		return condition // c?true:false -> c
	}
	if consequent.AsFalseConstant() && alternate.AsTrueConstant() {
		return condition.Not() // c?false:true -> !c
	}
	if Equal(condition, consequent) {
		return condition.Or(alternate) // c?c:a -> c || a
	}
	if Equal(condition, alternate) {
		return condition.And(consequent) // c?a:c -> c && a
	}
	if inner, ok := consequent.Expr.(ConditionalExpr); ok && Equal(inner.Condition, condition) {
		return Conditional(condition, inner.Consequent, alternate) // c?(c?a:b):d -> c?a:d
	}
	if inner, ok := alternate.Expr.(ConditionalExpr); ok && Equal(inner.Condition, condition) {
		return Conditional(condition, consequent, inner.Alternate) // c?a:(c?b:d) -> c?a:d
	}
	size := saturatingAdd(saturatingAdd(condition.Size, consequent.Size), alternate.Size)
	return MakeFrom(ConditionalExpr{Condition: condition, Consequent: consequent, Alternate: alternate}, size)
}

// Join computes the lattice union of left and right at a control-flow
// merge point tagged by path (spec.md §4.2/§4.6).
func Join(path Path, left, right *AbstractValue) *AbstractValue {
	if Equal(left, right) {
		return left
	}
	if left.IsBottom() {
		return right
	}
	if right.IsBottom() {
		return left
	}
	if left.IsTop() || right.IsTop() {
		return Top // Top absorbs any join: once a value is fully unknown, merging more branches can't recover precision.
	}
	if w, ok := left.Expr.(WidenExpr); ok && PathEqual(w.Path, path) {
		return left // a widened value at this path already summarizes every branch merged here
	}
	if w, ok := right.Expr.(WidenExpr); ok && PathEqual(w.Path, path) {
		return right
	}
	size := saturatingAdd(left.Size, right.Size)
	return MakeFrom(JoinExpr{Path: path, Left: left, Right: right}, size)
}

// Widen accelerates operand (expected to already be a Join at path) to
// force loop-fixpoint termination (spec.md §4.2/§4.6). Widening an
// operand that has grown past WidenToVariableThreshold abstracts
// straight to an opaque typed variable whose interval is precomputed
// from the discarded tree, the same lossy-but-sound move MakeFrom takes
// at MaxExpressionSize.
func Widen(path Path, operand *AbstractValue) *AbstractValue {
	if w, ok := operand.Expr.(WidenExpr); ok && PathEqual(w.Path, path) {
		return operand // widening an already-widened value at the same path is a no-op
	}
	if operand.Size > WidenToVariableThreshold {
		iv := operand.GetCachedInterval()
		varType := InferType(operand.Expr)
		reportApproximation("widen at %s collapsed to opaque variable (size %d > threshold %d)",
			path.String(), operand.Size, WidenToVariableThreshold)
		return &AbstractValue{
			Expr:      VariableExpr{Path: path, VarType: varType},
			Size:      1,
			cached:    &iv,
			cachedSet: true,
		}
	}
	size := saturatingAdd(operand.Size, 1)
	return MakeFrom(WidenExpr{Path: path, Operand: operand}, size)
}

// Offset implements pointer arithmetic: v (a reference/pointer value)
// advanced by offset (an element count or byte count, per the caller's
// convention). The result is an ordinary arithmetic-shaped Expression;
// OffsetPath is what turns it into a Path for use as a dereference
// target.
func (v *AbstractValue) Offset(offset *AbstractValue) *AbstractValue {
	return makeBinary(v, offset, func(l, r *AbstractValue) Expression { return OffsetExpr{Left: l, Right: r} })
}

// OffsetPath names the memory an offset value points at.
func OffsetPath(value *AbstractValue) Path {
	return &Offset{Value: value}
}

// Dereference reads the value named by path at the given type.
//
// Per spec.md §9's resolution of Open Question 1: when path is itself
// an Offset, dereferencing it returns the offset's summarized value
// unchanged rather than computing any load-at-offset semantics. This
// mirrors the original checker's own dereference literally — seems
// wrong for a genuine pointer-arithmetic load, but is kept byte-for-byte
// since nothing in the corpus justifies inventing different behavior.
func Dereference(path Path, t exprtype.Type) *AbstractValue {
	if off, ok := path.(*Offset); ok {
		return off.Value
	}
	return MakeFrom(VariableExpr{Path: path, VarType: t}, path.PathLength())
}

// MakeHeapBlock builds the abstract value denoting one heap allocation.
func MakeHeapBlock(serial int, zeroed bool) *AbstractValue {
	return &AbstractValue{Expr: HeapBlockExpr{Serial: serial, IsZeroed: zeroed}, Size: 1}
}

// MakeHeapBlockLayout builds the layout descriptor attached to a heap
// allocation's path, consulted by IsRootedByZeroedHeapBlock.
func MakeHeapBlockLayout(length, alignment *AbstractValue, source LayoutSource) *AbstractValue {
	size := saturatingAdd(length.Size, alignment.Size)
	return MakeFrom(HeapBlockLayoutExpr{Length: length, Alignment: alignment, Source: source}, size)
}

// TryToRetypeAs attempts to reinterpret v as if its ExpressionType were
// t, recursing shape-by-shape into compound expressions rather than
// wrapping the whole value in one outer Cast node (supplemented from
// original_source's try_to_retype_as, referenced in spec.md §9's
// resolution notes). Every other shape (casts, calls, references, ...)
// is returned unchanged.
func (v *AbstractValue) TryToRetypeAs(t exprtype.Type) *AbstractValue {
	switch e := v.Expr.(type) {
	case ConstantExpr:
		return v
	case VariableExpr:
		return MakeFrom(VariableExpr{Path: e.Path, VarType: t}, v.Size)
	case AddExpr:
		return e.Left.TryToRetypeAs(t).Addition(e.Right.TryToRetypeAs(t))
	case SubExpr:
		return e.Left.TryToRetypeAs(t).Subtract(e.Right.TryToRetypeAs(t))
	case MulExpr:
		return e.Left.TryToRetypeAs(t).Multiply(e.Right.TryToRetypeAs(t))
	case NegExpr:
		return e.Operand.TryToRetypeAs(t).Negate()
	case ConditionalExpr:
		return Conditional(e.Condition, e.Consequent.TryToRetypeAs(t), e.Alternate.TryToRetypeAs(t))
	case JoinExpr:
		return Join(e.Path, e.Left.TryToRetypeAs(t), e.Right.TryToRetypeAs(t))
	case WidenExpr:
		return Widen(e.Path, e.Operand.TryToRetypeAs(t))
	default:
		return v
	}
}
