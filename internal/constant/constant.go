// Package constant implements ConstantDomain, the closed set of
// compile-time-known scalar values the abstract-value engine folds
// arithmetic over.
package constant

import (
	"fmt"
	"math/big"
)

// Kind discriminates the payload carried by a Domain value.
type Kind int

const (
	KindBottom Kind = iota
	KindTop
	KindFalse
	KindTrue
	KindUnit
	KindInt    // signed or unsigned, width tracked separately by the caller
	KindF32
	KindF64
	KindStr
	KindFunction
)

// Domain is a tagged union over the scalars ConstantDomain can hold,
// plus the lattice elements Top and Bottom. Int values are held as
// arbitrary-precision big.Int so I128/U128 arithmetic never overflows
// the host machine word; callers are responsible for clamping to the
// declared ExpressionType width when that matters.
//
// No third-party fixed-width 128-bit integer type appears anywhere in
// the retrieved example corpus, so big.Int is used here as the one
// deliberate standard-library leaf of this module (see DESIGN.md).
type Domain struct {
	Kind   Kind
	Int    *big.Int // KindInt
	Signed bool     // KindInt: whether Int should be interpreted as signed
	F32    float32  // KindF32
	F64    float64  // KindF64
	Str    string   // KindStr
	Func   string   // KindFunction: a stable name/identifier for the referenced function
}

var (
	Bottom = Domain{Kind: KindBottom}
	Top    = Domain{Kind: KindTop}
	False  = Domain{Kind: KindFalse}
	True   = Domain{Kind: KindTrue}
	Unit   = Domain{Kind: KindUnit}
)

// Int128 builds a signed-integer constant.
func Int128(v *big.Int) Domain {
	return Domain{Kind: KindInt, Int: new(big.Int).Set(v), Signed: true}
}

// UInt128 builds an unsigned-integer constant.
func UInt128(v *big.Int) Domain {
	return Domain{Kind: KindInt, Int: new(big.Int).Set(v), Signed: false}
}

// FromInt64 is a convenience constructor for small signed literals.
func FromInt64(v int64) Domain {
	return Int128(big.NewInt(v))
}

// FromUint64 is a convenience constructor for small unsigned literals.
func FromUint64(v uint64) Domain {
	return UInt128(new(big.Int).SetUint64(v))
}

// Bool returns True or False.
func Bool(b bool) Domain {
	if b {
		return True
	}
	return False
}

func (d Domain) IsBottom() bool { return d.Kind == KindBottom }
func (d Domain) IsTop() bool    { return d.Kind == KindTop }

func (d Domain) IsZero() bool {
	return d.Kind == KindInt && d.Int.Sign() == 0
}

func (d Domain) IsOne() bool {
	return d.Kind == KindInt && d.Int.Cmp(big.NewInt(1)) == 0
}

// Equal is structural equality used by the algebra's constant-folding
// shortcuts; it is not the same as numeric equality across kinds.
func (d Domain) Equal(other Domain) bool {
	if d.Kind != other.Kind {
		return false
	}
	switch d.Kind {
	case KindInt:
		return d.Signed == other.Signed && d.Int.Cmp(other.Int) == 0
	case KindF32:
		return d.F32 == other.F32
	case KindF64:
		return d.F64 == other.F64
	case KindStr:
		return d.Str == other.Str
	case KindFunction:
		return d.Func == other.Func
	default:
		return true
	}
}

func (d Domain) String() string {
	switch d.Kind {
	case KindBottom:
		return "BOTTOM"
	case KindTop:
		return "TOP"
	case KindFalse:
		return "false"
	case KindTrue:
		return "true"
	case KindUnit:
		return "()"
	case KindInt:
		return d.Int.String()
	case KindF32:
		return fmt.Sprintf("%gf32", d.F32)
	case KindF64:
		return fmt.Sprintf("%gf64", d.F64)
	case KindStr:
		return fmt.Sprintf("%q", d.Str)
	case KindFunction:
		return "fn:" + d.Func
	default:
		return "<?>"
	}
}

// Add implements closed addition with saturating-to-Bottom semantics:
// anything not defined (mixed sorts, non-numeric kinds) returns Bottom,
// and the caller abandons the fold and builds the operator symbolically.
func (d Domain) Add(other Domain) Domain {
	if d.Kind != KindInt || other.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).Add(d.Int, other.Int), Signed: d.Signed || other.Signed}
}

func (d Domain) Sub(other Domain) Domain {
	if d.Kind != KindInt || other.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).Sub(d.Int, other.Int), Signed: d.Signed || other.Signed}
}

func (d Domain) Mul(other Domain) Domain {
	if d.Kind != KindInt || other.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).Mul(d.Int, other.Int), Signed: d.Signed || other.Signed}
}

// Div returns Bottom on division by zero, matching the "undefined op"
// saturation rule rather than panicking.
func (d Domain) Div(other Domain) Domain {
	if d.Kind != KindInt || other.Kind != KindInt || other.Int.Sign() == 0 {
		return Bottom
	}
	q := new(big.Int)
	q.Quo(d.Int, other.Int)
	return Domain{Kind: KindInt, Int: q, Signed: d.Signed || other.Signed}
}

func (d Domain) Rem(other Domain) Domain {
	if d.Kind != KindInt || other.Kind != KindInt || other.Int.Sign() == 0 {
		return Bottom
	}
	r := new(big.Int)
	r.Rem(d.Int, other.Int)
	return Domain{Kind: KindInt, Int: r, Signed: d.Signed || other.Signed}
}

func (d Domain) Neg() Domain {
	if d.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).Neg(d.Int), Signed: true}
}

func (d Domain) BitAnd(other Domain) Domain {
	if d.Kind != KindInt || other.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).And(d.Int, other.Int), Signed: d.Signed || other.Signed}
}

func (d Domain) BitOr(other Domain) Domain {
	if d.Kind != KindInt || other.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).Or(d.Int, other.Int), Signed: d.Signed || other.Signed}
}

func (d Domain) BitXor(other Domain) Domain {
	if d.Kind != KindInt || other.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).Xor(d.Int, other.Int), Signed: d.Signed || other.Signed}
}

func (d Domain) Shl(bits uint) Domain {
	if d.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).Lsh(d.Int, bits), Signed: d.Signed}
}

func (d Domain) Shr(bits uint) Domain {
	if d.Kind != KindInt {
		return Bottom
	}
	return Domain{Kind: KindInt, Int: new(big.Int).Rsh(d.Int, bits), Signed: d.Signed}
}

// Cmp compares two integer constants; ok is false for non-integer kinds.
func (d Domain) Cmp(other Domain) (result int, ok bool) {
	if d.Kind != KindInt || other.Kind != KindInt {
		return 0, false
	}
	return d.Int.Cmp(other.Int), true
}

// And/Or/Not implement three-valued boolean logic over True/False only;
// anything else returns Bottom and the caller falls back to symbolic
// construction.
func (d Domain) And(other Domain) Domain {
	if _, ok := d.AsBool(); !ok {
		return Bottom
	}
	if _, ok := other.AsBool(); !ok {
		return Bottom
	}
	if d.Kind == KindFalse || other.Kind == KindFalse {
		return False
	}
	if d.Kind == KindTrue && other.Kind == KindTrue {
		return True
	}
	return Bottom
}

func (d Domain) Or(other Domain) Domain {
	if _, ok := d.AsBool(); !ok {
		return Bottom
	}
	if _, ok := other.AsBool(); !ok {
		return Bottom
	}
	if d.Kind == KindTrue || other.Kind == KindTrue {
		return True
	}
	if d.Kind == KindFalse && other.Kind == KindFalse {
		return False
	}
	return Bottom
}

func (d Domain) Not() Domain {
	switch d.Kind {
	case KindTrue:
		return False
	case KindFalse:
		return True
	default:
		return Bottom
	}
}

// AsBool reports the boolean value of True/False constants.
func (d Domain) AsBool() (value bool, ok bool) {
	switch d.Kind {
	case KindTrue:
		return true, true
	case KindFalse:
		return false, true
	default:
		return false, false
	}
}
