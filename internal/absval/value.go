package absval

import (
	"math/big"

	"avengine/internal/constant"
	"avengine/internal/exprtype"
	"avengine/internal/interval"
)

// AbstractValue pairs an Expression with a size metric and a lazily
// cached IntervalDomain (C6). It is the engine's primary datum: every
// runtime value the analyzer tracks is one of these.
//
// Equality and hashing are expression-based, with one exception: two
// Widen values compare equal iff their Path is equal, regardless of
// operand (see exprKey in expression.go). The interval cache below is
// a pure memoization slot and must never be observable through Key,
// Equal, or String.
type AbstractValue struct {
	Expr Expression
	Size uint64

	cached    *interval.Domain
	cachedSet bool
}

// Distinguished values with stable identity, per spec.md §6.
var (
	Bottom = &AbstractValue{Expr: BottomExpr{}, Size: 1}
	Top    = &AbstractValue{Expr: TopExpr{}, Size: 1}
	True   = &AbstractValue{Expr: ConstantExpr{Value: constant.True}, Size: 1}
	False  = &AbstractValue{Expr: ConstantExpr{Value: constant.False}, Size: 1}
)

// Key returns the canonical structural key used for equality,
// ordering, and as an Environment map key. It intentionally never
// consults the interval cache.
func (v *AbstractValue) Key() string {
	if v == nil {
		return "<nil>"
	}
	return exprKey(v.Expr)
}

func (v *AbstractValue) String() string {
	if v == nil {
		return "<nil>"
	}
	return v.Expr.String()
}

// Equal is expression-based structural equality with the Widen
// exception folded into Key.
func Equal(a, b *AbstractValue) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Key() == b.Key()
}

// Less provides the deterministic ordering spec.md §3 calls for (so
// values can key maps/sets deterministically); it is derived from the
// same canonical key, not from any semantic notion of magnitude.
func Less(a, b *AbstractValue) bool { return a.Key() < b.Key() }

func (v *AbstractValue) IsTop() bool {
	_, ok := v.Expr.(TopExpr)
	return ok
}

func (v *AbstractValue) IsBottom() bool {
	_, ok := v.Expr.(BottomExpr)
	return ok
}

// OfBool builds the True/False singleton for b.
func OfBool(b bool) *AbstractValue {
	if b {
		return True
	}
	return False
}

// OfConstant lifts a ConstantDomain value, collapsing Bottom to the
// Bottom singleton.
func OfConstant(c constant.Domain) *AbstractValue {
	if c.IsBottom() {
		return Bottom
	}
	return &AbstractValue{Expr: ConstantExpr{Value: c}, Size: 1}
}

// OfU128 lifts an unsigned 128-bit literal.
func OfU128(v *big.Int) *AbstractValue {
	return OfConstant(constant.UInt128(v))
}

// OfI128 lifts a signed 128-bit literal.
func OfI128(v *big.Int) *AbstractValue {
	return OfConstant(constant.Int128(v))
}

// saturatingAdd mirrors Rust's u64::saturating_add used throughout the
// original size accounting.
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

// MakeFrom is the one chokepoint every smart constructor in algebra_*
// funnels through (spec.md §4.1/§3 invariants): if size exceeds
// MaxExpressionSize, the expression is abstracted to an opaque
// Variable{Alias(Top)} of size 1 whose interval is pre-computed from
// the over-large tree before it is discarded.
func MakeFrom(expr Expression, size uint64) *AbstractValue {
	if size <= MaxExpressionSize {
		return &AbstractValue{Expr: expr, Size: size}
	}
	oversized := &AbstractValue{Expr: expr, Size: size}
	iv := oversized.GetAsInterval()
	varType := InferType(expr)
	reportApproximation("expression collapsed at size %d (limit %d), type %s", size, MaxExpressionSize, varType)
	return &AbstractValue{
		Expr:      VariableExpr{Path: NewAlias(Top), VarType: varType},
		Size:      1,
		cached:    &iv,
		cachedSet: true,
	}
}

// makeBinary is the untyped binary-operator chokepoint: Top/Bottom
// operands short-circuit per the absorption table (spec.md §4.7)
// before size accounting ever runs.
func makeBinary(left, right *AbstractValue, build func(l, r *AbstractValue) Expression) *AbstractValue {
	if left.IsTop() || left.IsBottom() {
		return left
	}
	if right.IsTop() || right.IsBottom() {
		return right
	}
	size := saturatingAdd(left.Size, right.Size)
	return MakeFrom(build(left, right), size)
}

// makeTypedBinary is used by casts/overflow-ops/shr, which carry a
// result_type and (per the original) do not short-circuit on
// Top/Bottom before folding, since the predicate itself may still be
// decidable from the type alone.
func makeTypedBinary(left, right *AbstractValue, build func(l, r *AbstractValue) Expression) *AbstractValue {
	size := saturatingAdd(left.Size, right.Size)
	return MakeFrom(build(left, right), size)
}

func makeUnary(operand *AbstractValue, build func(o *AbstractValue) Expression) *AbstractValue {
	if operand.IsTop() || operand.IsBottom() {
		return operand
	}
	size := saturatingAdd(operand.Size, 1)
	return MakeFrom(build(operand), size)
}

func makeTypedUnary(operand *AbstractValue, build func(o *AbstractValue) Expression) *AbstractValue {
	size := saturatingAdd(operand.Size, 1)
	return MakeFrom(build(operand), size)
}

// MakeReference builds a reference to the memory named by path. A
// Reference(Offset{value}) is never constructed (spec.md §3 invariant):
// such a path is unwrapped straight to the offset's own value, which is
// a type artifact of how offsets are represented as paths.
func MakeReference(path Path) *AbstractValue {
	if off, ok := path.(*Offset); ok {
		return off.Value
	}
	return MakeFrom(ReferenceExpr{Path: path}, path.PathLength())
}

// MakeTypedUnknown builds an abstract value about which nothing is
// known beyond its type.
func MakeTypedUnknown(t exprtype.Type) *AbstractValue {
	return MakeFrom(VariableExpr{Path: NewAlias(Top), VarType: t}, 1)
}

// InferType is a best-effort structural type inference over an
// Expression, used by the MAX_EXPRESSION_SIZE collapse and by widen()
// when abstracting straight to a typed variable.
func InferType(e Expression) exprtype.Type {
	switch v := e.(type) {
	case VariableExpr:
		return v.VarType
	case ConstantExpr:
		if _, ok := v.Value.AsBool(); ok {
			return exprtype.Bool
		}
		if v.Value.Kind == constant.KindInt {
			if v.Value.Signed {
				return exprtype.I128
			}
			return exprtype.U128
		}
		return exprtype.NonPrimitive
	case ReferenceExpr:
		return exprtype.Reference
	case AddExpr:
		return InferType(v.Left.Expr)
	case SubExpr:
		return InferType(v.Left.Expr)
	case MulExpr:
		return InferType(v.Left.Expr)
	case DivExpr:
		return InferType(v.Left.Expr)
	case RemExpr:
		return InferType(v.Left.Expr)
	case NegExpr:
		return InferType(v.Operand.Expr)
	case AndExpr, OrExpr, NotExpr, EqualsExpr, NotEqualsExpr,
		LessThanExpr, LessOrEqualExpr, GreaterThanExpr, GreaterOrEqualExpr,
		AddOverflowsExpr, SubOverflowsExpr, MulOverflowsExpr, ShlOverflowsExpr, ShrOverflowsExpr:
		return exprtype.Bool
	case CastExpr:
		return v.ResultType
	case BitNotExpr:
		return v.ResultType
	case ShrExpr:
		return v.ResultType
	case ConditionalExpr:
		t := InferType(v.Consequent.Expr)
		if t == exprtype.Unknown || t == exprtype.NonPrimitive {
			return InferType(v.Alternate.Expr)
		}
		return t
	case JoinExpr:
		return InferType(v.Left.Expr)
	case WidenExpr:
		return InferType(v.Operand.Expr)
	case UninterpretedCallExpr:
		return v.ResultType
	case UnknownModelFieldExpr:
		return InferType(v.Default.Expr)
	default:
		return exprtype.NonPrimitive
	}
}
