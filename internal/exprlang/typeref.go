package exprlang

import "avengine/internal/absval"

// OpaqueType is a trivial absval.TypeRef with no structure, standing in
// for a real host type system in REPL sessions and parse-tree fixtures
// where nothing in this module ever needs to look inside it. Every
// projection fails closed (ok=false) rather than panicking.
type OpaqueType struct{ Name string }

func (OpaqueType) IsAdt() bool     { return false }
func (OpaqueType) IsRef() bool     { return false }
func (OpaqueType) IsArray() bool   { return false }
func (OpaqueType) IsTuple() bool   { return false }
func (OpaqueType) IsClosure() bool { return false }
func (OpaqueType) IsFnPtr() bool   { return false }

func (OpaqueType) SizeInBytes() (uint64, bool)                { return 0, false }
func (OpaqueType) Field(string) (absval.TypeRef, bool)        { return nil, false }
func (OpaqueType) Variant(int) (absval.TypeRef, bool)         { return nil, false }
func (OpaqueType) Element() (absval.TypeRef, bool)            { return nil, false }
func (t OpaqueType) Specialize(args []absval.TypeRef) absval.TypeRef { return t }

func (t OpaqueType) String() string { return t.Name }
