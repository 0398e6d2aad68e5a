package absval

// TypeRef is the minimal structural-type surface the algebra consults
// when it needs to reason about a non-primitive shape: field/variant
// projection, array element type, and specialization of a generic
// definition with concrete type arguments. The engine never constructs
// one itself — it is supplied by whatever owns the surrounding type
// system (a caller embedding this package) and threaded through
// PathSelector/Expression nodes that carry non-primitive shapes.
type TypeRef interface {
	IsAdt() bool
	IsRef() bool
	IsArray() bool
	IsTuple() bool
	IsClosure() bool
	IsFnPtr() bool
	SizeInBytes() (uint64, bool)
	Field(name string) (TypeRef, bool)
	Variant(ordinal int) (TypeRef, bool)
	Element() (TypeRef, bool)
	Specialize(args []TypeRef) TypeRef
}
