// Package exprtype implements ExpressionType, the closed set of sort
// tags an Expression or AbstractValue can carry.
package exprtype

import "math/big"

// Type is the enumerated sort tag. The zero value, Unknown, is never a
// valid tag for a constructed value; it exists so a missing Type is
// caught rather than silently treated as I8.
type Type int

const (
	Unknown Type = iota
	I8
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	F32
	F64
	Bool
	Reference
	NonPrimitive
)

type facts struct {
	width     uint
	signed    bool
	integer   bool
	float     bool
	name      string
}

var table = map[Type]facts{
	I8:           {width: 8, signed: true, integer: true, name: "I8"},
	I16:          {width: 16, signed: true, integer: true, name: "I16"},
	I32:          {width: 32, signed: true, integer: true, name: "I32"},
	I64:          {width: 64, signed: true, integer: true, name: "I64"},
	I128:         {width: 128, signed: true, integer: true, name: "I128"},
	U8:           {width: 8, signed: false, integer: true, name: "U8"},
	U16:          {width: 16, signed: false, integer: true, name: "U16"},
	U32:          {width: 32, signed: false, integer: true, name: "U32"},
	U64:          {width: 64, signed: false, integer: true, name: "U64"},
	U128:         {width: 128, signed: false, integer: true, name: "U128"},
	F32:          {width: 32, float: true, name: "F32"},
	F64:          {width: 64, float: true, name: "F64"},
	Bool:         {width: 1, name: "Bool"},
	Reference:    {name: "Reference"},
	NonPrimitive: {name: "NonPrimitive"},
}

func (t Type) String() string {
	if f, ok := table[t]; ok {
		return f.name
	}
	return "Unknown"
}

func (t Type) IsInteger() bool           { return table[t].integer }
func (t Type) IsSigned() bool            { return table[t].signed }
func (t Type) IsUnsignedInteger() bool   { return table[t].integer && !table[t].signed }
func (t Type) IsFloatingPointNumber() bool { return table[t].float }
func (t Type) IsBool() bool              { return t == Bool }
func (t Type) Width() uint               { return table[t].width }

func (t Type) IsPrimitive() bool {
	switch t {
	case Reference, NonPrimitive, Unknown:
		return false
	default:
		return true
	}
}

// ModuloValue returns 2^width as a constant, used by cast fusion and
// the remainder-on-cast rewrite. Non-integer types return nil.
func (t Type) ModuloValue() *big.Int {
	f, ok := table[t]
	if !ok || !f.integer {
		return nil
	}
	return new(big.Int).Lsh(big.NewInt(1), f.width)
}

// MaxValue returns the largest representable value for an integer
// type: 2^width-1 for unsigned, 2^(width-1)-1 for signed.
func (t Type) MaxValue() *big.Int {
	f, ok := table[t]
	if !ok || !f.integer {
		return nil
	}
	bits := f.width
	if f.signed {
		bits--
	}
	max := new(big.Int).Lsh(big.NewInt(1), bits)
	return max.Sub(max, big.NewInt(1))
}

// MinValue returns the smallest representable value: 0 for unsigned,
// -2^(width-1) for signed.
func (t Type) MinValue() *big.Int {
	f, ok := table[t]
	if !ok || !f.integer {
		return nil
	}
	if !f.signed {
		return big.NewInt(0)
	}
	min := new(big.Int).Lsh(big.NewInt(1), f.width-1)
	return min.Neg(min)
}

var byName = map[string]Type{
	"i8": I8, "i16": I16, "i32": I32, "i64": I64, "i128": I128,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64, "u128": U128,
	"f32": F32, "f64": F64, "bool": Bool,
}

// FromName looks up a primitive type by its lowercase surface-syntax
// name (e.g. "u32", "bool"), used by internal/exprlang to resolve cast
// target types parsed from source text.
func FromName(name string) (Type, bool) {
	t, ok := byName[name]
	return t, ok
}

// Contains reports whether v fits in this type's representable range.
func (t Type) Contains(v *big.Int) bool {
	min, max := t.MinValue(), t.MaxValue()
	if min == nil || max == nil {
		return false
	}
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}
