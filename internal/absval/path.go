package absval

import (
	"fmt"
	"strings"
)

// Path names a memory location symbolically (C3). It is a closed sum
// type implemented the way the teacher's ir.Instruction family is: one
// concrete struct per variant, each satisfying a small unexported
// marker method so the set is closed to this package.
type Path interface {
	isPath()
	String() string
	// PathLength is the structural depth used to charge expression
	// size when a Path becomes part of an Expression (e.g. Variable,
	// Reference).
	PathLength() uint64
}

type LocalVariable struct{ Ordinal int }

func (*LocalVariable) isPath() {}
func (p *LocalVariable) String() string    { return fmt.Sprintf("local(%d)", p.Ordinal) }
func (p *LocalVariable) PathLength() uint64 { return 1 }

type Parameter struct{ Ordinal int }

func (*Parameter) isPath() {}
func (p *Parameter) String() string    { return fmt.Sprintf("param(%d)", p.Ordinal) }
func (p *Parameter) PathLength() uint64 { return 1 }

// Result names the special "return value" location.
type Result struct{}

func (*Result) isPath()            {}
func (p *Result) String() string    { return "result" }
func (p *Result) PathLength() uint64 { return 1 }

type StaticVariable struct{ DefID string }

func (*StaticVariable) isPath() {}
func (p *StaticVariable) String() string    { return "static(" + p.DefID + ")" }
func (p *StaticVariable) PathLength() uint64 { return 1 }

// HeapBlock names the memory a heap allocation expression denotes.
type HeapBlock struct{ Value *AbstractValue }

func (*HeapBlock) isPath() {}
func (p *HeapBlock) String() string    { return "heap(" + p.Value.String() + ")" }
func (p *HeapBlock) PathLength() uint64 { return 1 }

// Alias names a path that stands in for another value entirely (used
// by the MAX_EXPRESSION_SIZE / make_typed_unknown opaque-variable
// collapse: such variables are rooted at Alias(TOP)). Per spec.md §9
// open question 2, uniqueness of distinct opaque variables sharing
// this root is intentionally not guaranteed here.
type Alias struct{ Value *AbstractValue }

func (*Alias) isPath() {}
func (p *Alias) String() string    { return "alias(" + p.Value.String() + ")" }
func (p *Alias) PathLength() uint64 { return 1 }

// NewAlias is the constructor spec.md §3/§9 refers to as
// Path::new_alias.
func NewAlias(v *AbstractValue) *Alias { return &Alias{Value: v} }

// Offset names a path obtained by pointer arithmetic; make_reference
// unwraps Offset-rooted paths back to the underlying value rather than
// ever constructing Reference(Offset{...}) (spec.md §3 invariant).
type Offset struct{ Value *AbstractValue }

func (*Offset) isPath() {}
func (p *Offset) String() string    { return "offset(" + p.Value.String() + ")" }
func (p *Offset) PathLength() uint64 { return 1 }

// PathSelector is the closed set of ways a QualifiedPath can project
// out of its qualifier.
type PathSelector interface {
	isPathSelector()
	String() string
}

type FieldSelector struct{ Name string }

func (FieldSelector) isPathSelector()   {}
func (s FieldSelector) String() string { return "." + s.Name }

type IndexSelector struct{ Index *AbstractValue }

func (IndexSelector) isPathSelector()   {}
func (s IndexSelector) String() string { return "[" + s.Index.String() + "]" }

type ConstantSliceSelector struct {
	From, To uint64
	FromEnd  bool
}

func (ConstantSliceSelector) isPathSelector() {}
func (s ConstantSliceSelector) String() string {
	if s.FromEnd {
		return fmt.Sprintf("[%d:-%d]", s.From, s.To)
	}
	return fmt.Sprintf("[%d:%d]", s.From, s.To)
}

type SliceSelector struct{ Value *AbstractValue }

func (SliceSelector) isPathSelector()   {}
func (s SliceSelector) String() string { return "[" + s.Value.String() + ":]" }

type DerefSelector struct{}

func (DerefSelector) isPathSelector()   {}
func (DerefSelector) String() string { return ".*" }

type DiscriminantSelector struct{}

func (DiscriminantSelector) isPathSelector()   {}
func (DiscriminantSelector) String() string { return ".discriminant" }

type DowncastSelector struct {
	VariantName string
	Ordinal     int
}

func (DowncastSelector) isPathSelector() {}
func (s DowncastSelector) String() string {
	return fmt.Sprintf(".as<%s#%d>", s.VariantName, s.Ordinal)
}

// QualifiedPath projects a selector out of a qualifier path. Depth
// equals the qualifier's structural depth plus one; PathLength likewise
// grows by one per qualification level (computed by recursing into the
// qualifier), charging expression size so deeply nested projections
// widen sooner.
type QualifiedPath struct {
	Qualifier Path
	Selector  PathSelector
	Depth     int
}

func (*QualifiedPath) isPath() {}
func (p *QualifiedPath) String() string {
	return p.Qualifier.String() + p.Selector.String()
}
func (p *QualifiedPath) PathLength() uint64 {
	return p.Qualifier.PathLength() + 1
}

// NewQualified builds a QualifiedPath, computing Depth from the
// qualifier automatically so callers cannot construct an inconsistent
// depth (spec.md §3 invariant: "depth equals structural depth").
func NewQualified(qualifier Path, selector PathSelector) *QualifiedPath {
	return &QualifiedPath{Qualifier: qualifier, Selector: selector, Depth: depthOf(qualifier) + 1}
}

func depthOf(p Path) int {
	if qp, ok := p.(*QualifiedPath); ok {
		return qp.Depth
	}
	return 0
}

// IsRootedByParameter reports whether p ultimately qualifies a
// Parameter path, used by refine_paths/UnknownModelField (spec.md
// §4.5) to decide whether a model field may still be resolved by the
// caller.
func IsRootedByParameter(p Path) bool {
	for {
		switch v := p.(type) {
		case *Parameter:
			return true
		case *QualifiedPath:
			p = v.Qualifier
		default:
			return false
		}
	}
}

// IsRootedByZeroedHeapBlock reports whether p is rooted at a HeapBlock
// whose allocation expression is statically known to be zero-filled.
func IsRootedByZeroedHeapBlock(p Path) bool {
	for {
		switch v := p.(type) {
		case *HeapBlock:
			if block, ok := v.Value.Expr.(HeapBlockExpr); ok {
				return block.IsZeroed
			}
			layout, ok := v.Value.Expr.(HeapBlockLayoutExpr)
			return ok && layout.Source == LayoutSourceZeroedAlloc
		case *QualifiedPath:
			p = v.Qualifier
		default:
			return false
		}
	}
}

// pathKey returns a canonical string used for structural equality and
// as an Environment map key. It is the Path-side half of the
// AbstractValue.Key scheme documented in value.go.
func pathKey(p Path) string {
	var b strings.Builder
	writePathKey(&b, p)
	return b.String()
}

func writePathKey(b *strings.Builder, p Path) {
	switch v := p.(type) {
	case *LocalVariable:
		fmt.Fprintf(b, "L%d", v.Ordinal)
	case *Parameter:
		fmt.Fprintf(b, "P%d", v.Ordinal)
	case *Result:
		b.WriteString("R")
	case *StaticVariable:
		fmt.Fprintf(b, "S(%s)", v.DefID)
	case *HeapBlock:
		fmt.Fprintf(b, "H(%s)", v.Value.Key())
	case *Alias:
		fmt.Fprintf(b, "A(%s)", v.Value.Key())
	case *Offset:
		fmt.Fprintf(b, "O(%s)", v.Value.Key())
	case *QualifiedPath:
		writePathKey(b, v.Qualifier)
		b.WriteString(selectorKey(v.Selector))
	default:
		fmt.Fprintf(b, "?(%s)", p.String())
	}
}

func selectorKey(s PathSelector) string {
	switch v := s.(type) {
	case FieldSelector:
		return ".F:" + v.Name
	case IndexSelector:
		return ".I:" + v.Index.Key()
	case ConstantSliceSelector:
		return fmt.Sprintf(".CS:%d:%d:%v", v.From, v.To, v.FromEnd)
	case SliceSelector:
		return ".SL:" + v.Value.Key()
	case DerefSelector:
		return ".D"
	case DiscriminantSelector:
		return ".DC"
	case DowncastSelector:
		return fmt.Sprintf(".DV:%s:%d", v.VariantName, v.Ordinal)
	default:
		return ".?"
	}
}

// PathEqual is structural equality of two paths, used by the Widen
// equality exception and by refinement.
func PathEqual(a, b Path) bool {
	return pathKey(a) == pathKey(b)
}
