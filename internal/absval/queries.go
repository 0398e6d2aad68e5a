package absval

import (
	"math/big"

	"avengine/internal/constant"
	"avengine/internal/interval"
)

// AsBoolIfKnown returns the concrete boolean the value denotes, if any.
func (v *AbstractValue) AsBoolIfKnown() (bool, bool) {
	switch e := v.Expr.(type) {
	case ConstantExpr:
		return e.Value.AsBool()
	default:
		return false, false
	}
}

// AsIntIfKnown returns self if it denotes a known integer constant, or
// nil otherwise.
func (v *AbstractValue) AsIntIfKnown() *AbstractValue {
	if e, ok := v.Expr.(ConstantExpr); ok && e.Value.Kind == constant.KindInt {
		return v
	}
	return nil
}

// IsPathAlias reports whether the value is itself a Variable or
// Reference rooted at an Alias path.
func (v *AbstractValue) IsPathAlias() bool {
	var p Path
	switch e := v.Expr.(type) {
	case VariableExpr:
		p = e.Path
	case ReferenceExpr:
		p = e.Path
	default:
		return false
	}
	_, ok := p.(*Alias)
	return ok
}

// IsContainedInZeroedHeapBlock reports whether v is a reference or
// variable rooted at a HeapBlock whose allocation is statically known to
// be zero-initialized, or an offset from such a value.
func (v *AbstractValue) IsContainedInZeroedHeapBlock() bool {
	switch e := v.Expr.(type) {
	case ReferenceExpr:
		return IsRootedByZeroedHeapBlock(e.Path)
	case VariableExpr:
		return IsRootedByZeroedHeapBlock(e.Path)
	case OffsetExpr:
		return e.Left.IsContainedInZeroedHeapBlock()
	default:
		return false
	}
}

// RecordHeapBlocks recursively collects every HeapBlock expression
// reachable from v into result, keyed by Key() to dedup.
func (v *AbstractValue) RecordHeapBlocks(result map[string]*AbstractValue) {
	if v == nil {
		return
	}
	if _, ok := v.Expr.(HeapBlockExpr); ok {
		result[v.Key()] = v
		return
	}
	for _, op := range operandsOf(v.Expr) {
		op.RecordHeapBlocks(result)
	}
}

// operandsOf returns the immediate *AbstractValue operands of e, used
// by RecordHeapBlocks.
func operandsOf(e Expression) []*AbstractValue {
	switch v := e.(type) {
	case AddExpr:
		return []*AbstractValue{v.Left, v.Right}
	case SubExpr:
		return []*AbstractValue{v.Left, v.Right}
	case MulExpr:
		return []*AbstractValue{v.Left, v.Right}
	case DivExpr:
		return []*AbstractValue{v.Left, v.Right}
	case RemExpr:
		return []*AbstractValue{v.Left, v.Right}
	case AndExpr:
		return []*AbstractValue{v.Left, v.Right}
	case OrExpr:
		return []*AbstractValue{v.Left, v.Right}
	case BitAndExpr:
		return []*AbstractValue{v.Left, v.Right}
	case BitOrExpr:
		return []*AbstractValue{v.Left, v.Right}
	case BitXorExpr:
		return []*AbstractValue{v.Left, v.Right}
	case ShlExpr:
		return []*AbstractValue{v.Left, v.Right}
	case EqualsExpr:
		return []*AbstractValue{v.Left, v.Right}
	case NotEqualsExpr:
		return []*AbstractValue{v.Left, v.Right}
	case LessThanExpr:
		return []*AbstractValue{v.Left, v.Right}
	case LessOrEqualExpr:
		return []*AbstractValue{v.Left, v.Right}
	case GreaterThanExpr:
		return []*AbstractValue{v.Left, v.Right}
	case GreaterOrEqualExpr:
		return []*AbstractValue{v.Left, v.Right}
	case OffsetExpr:
		return []*AbstractValue{v.Left, v.Right}
	case NegExpr:
		return []*AbstractValue{v.Operand}
	case NotExpr:
		return []*AbstractValue{v.Operand}
	case BitNotExpr:
		return []*AbstractValue{v.Operand}
	case ShrExpr:
		return []*AbstractValue{v.Left, v.Right}
	case CastExpr:
		return []*AbstractValue{v.Operand}
	case AddOverflowsExpr:
		return []*AbstractValue{v.Left, v.Right}
	case SubOverflowsExpr:
		return []*AbstractValue{v.Left, v.Right}
	case MulOverflowsExpr:
		return []*AbstractValue{v.Left, v.Right}
	case ShlOverflowsExpr:
		return []*AbstractValue{v.Left, v.Right}
	case ShrOverflowsExpr:
		return []*AbstractValue{v.Left, v.Right}
	case ConditionalExpr:
		return []*AbstractValue{v.Condition, v.Consequent, v.Alternate}
	case JoinExpr:
		return []*AbstractValue{v.Left, v.Right}
	case WidenExpr:
		return []*AbstractValue{v.Operand}
	case HeapBlockLayoutExpr:
		return []*AbstractValue{v.Length, v.Alignment}
	case UninterpretedCallExpr:
		return v.Arguments
	case UnknownModelFieldExpr:
		return []*AbstractValue{v.Default}
	default:
		return nil
	}
}

// GetCachedInterval returns the memoized interval, computing and
// storing it on first use. The write is a single assignment of an
// already-computed value, keeping the single-mutation-point-is-atomic
// contract from spec.md §5.
func (v *AbstractValue) GetCachedInterval() interval.Domain {
	if v.cachedSet {
		return *v.cached
	}
	iv := v.GetAsInterval()
	v.cached = &iv
	v.cachedSet = true
	return iv
}

// GetAsInterval is the pure Expression -> IntervalDomain projection
// (spec.md §4.3). It does not consult or populate the cache; callers
// wanting memoization use GetCachedInterval.
func (v *AbstractValue) GetAsInterval() interval.Domain {
	switch e := v.Expr.(type) {
	case ConstantExpr:
		if e.Value.Kind == constant.KindInt {
			return interval.Exact(e.Value.Int)
		}
		return interval.Bottom
	case AddExpr:
		return e.Left.GetCachedInterval().Add(e.Right.GetCachedInterval())
	case SubExpr:
		return e.Left.GetCachedInterval().Sub(e.Right.GetCachedInterval())
	case MulExpr:
		return e.Left.GetCachedInterval().Mul(e.Right.GetCachedInterval())
	case NegExpr:
		return e.Operand.GetCachedInterval().Neg()
	case ConditionalExpr:
		return e.Consequent.GetCachedInterval().Join(e.Alternate.GetCachedInterval())
	case JoinExpr:
		return e.Left.GetCachedInterval().Join(e.Right.GetCachedInterval())
	case WidenExpr:
		return widenInterval(e)
	default:
		return interval.Bottom
	}
}

// widenInterval implements the Widen-over-Join special case from
// spec.md §4.3: when the lower bound of the join's left arm matches
// the widened interval's lower bound, keep the lower bound and drop
// the upper (and symmetrically for the upper bound); otherwise return
// the widened interval unchanged.
func widenInterval(w WidenExpr) interval.Domain {
	widened := w.Operand.GetCachedInterval()
	join, ok := w.Operand.Expr.(JoinExpr)
	if !ok {
		return widened
	}
	left := join.Left.GetCachedInterval()
	if bigEq(left.LowerBound(), widened.LowerBound()) {
		return interval.Domain{Lower: widened.LowerBound()}
	}
	if bigEq(left.UpperBound(), widened.UpperBound()) {
		return interval.Domain{Upper: widened.UpperBound()}
	}
	return widened
}

func bigEq(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
