package absval

import (
	"fmt"
	"strings"

	"avengine/internal/constant"
	"avengine/internal/exprtype"
)

// Expression is the closed sum of ~35 node kinds an AbstractValue can
// wrap (C4). As with Path, it is implemented as an interface with one
// concrete struct per variant rather than dynamic dispatch over a
// generic payload, mirroring the teacher's Instruction family.
type Expression interface {
	isExpression()
	String() string
}

// LayoutSource tags how a HeapBlockLayoutExpr came to be, following
// the original's widen() special case that forces it to Alloc.
type LayoutSource int

const (
	LayoutSourceAlloc LayoutSource = iota
	LayoutSourceZeroedAlloc
	LayoutSourceStatic
)

type BottomExpr struct{}

func (BottomExpr) isExpression()   {}
func (BottomExpr) String() string { return "BOTTOM" }

type TopExpr struct{}

func (TopExpr) isExpression()   {}
func (TopExpr) String() string { return "TOP" }

type ConstantExpr struct{ Value constant.Domain }

func (ConstantExpr) isExpression() {}
func (e ConstantExpr) String() string { return e.Value.String() }

type VariableExpr struct {
	Path    Path
	VarType exprtype.Type
}

func (VariableExpr) isExpression() {}
func (e VariableExpr) String() string { return "var:" + e.Path.String() }

type ReferenceExpr struct{ Path Path }

func (ReferenceExpr) isExpression() {}
func (e ReferenceExpr) String() string { return "&" + e.Path.String() }

// Binary arithmetic/logical/bitwise/comparison node families all share
// the {Left, Right} shape; kept as distinct types (rather than one
// struct with an Op string) so the algebra dispatches via an exhaustive
// Go type switch instead of a string comparison, matching spec.md
// §3/§9's "tagged sum ... replaces dynamic dispatch" design note.
type AddExpr struct{ Left, Right *AbstractValue }
type SubExpr struct{ Left, Right *AbstractValue }
type MulExpr struct{ Left, Right *AbstractValue }
type DivExpr struct{ Left, Right *AbstractValue }
type RemExpr struct{ Left, Right *AbstractValue }
type AndExpr struct{ Left, Right *AbstractValue }
type OrExpr struct{ Left, Right *AbstractValue }
type BitAndExpr struct{ Left, Right *AbstractValue }
type BitOrExpr struct{ Left, Right *AbstractValue }
type BitXorExpr struct{ Left, Right *AbstractValue }
type ShlExpr struct{ Left, Right *AbstractValue }
type EqualsExpr struct{ Left, Right *AbstractValue }
type NotEqualsExpr struct{ Left, Right *AbstractValue }
type LessThanExpr struct{ Left, Right *AbstractValue }
type LessOrEqualExpr struct{ Left, Right *AbstractValue }
type GreaterThanExpr struct{ Left, Right *AbstractValue }
type GreaterOrEqualExpr struct{ Left, Right *AbstractValue }
type OffsetExpr struct{ Left, Right *AbstractValue }

func (AddExpr) isExpression()            {}
func (SubExpr) isExpression()            {}
func (MulExpr) isExpression()            {}
func (DivExpr) isExpression()            {}
func (RemExpr) isExpression()            {}
func (AndExpr) isExpression()            {}
func (OrExpr) isExpression()             {}
func (BitAndExpr) isExpression()         {}
func (BitOrExpr) isExpression()          {}
func (BitXorExpr) isExpression()         {}
func (ShlExpr) isExpression()            {}
func (EqualsExpr) isExpression()         {}
func (NotEqualsExpr) isExpression()      {}
func (LessThanExpr) isExpression()       {}
func (LessOrEqualExpr) isExpression()    {}
func (GreaterThanExpr) isExpression()    {}
func (GreaterOrEqualExpr) isExpression() {}
func (OffsetExpr) isExpression()         {}

func (e AddExpr) String() string            { return binStr("+", e.Left, e.Right) }
func (e SubExpr) String() string            { return binStr("-", e.Left, e.Right) }
func (e MulExpr) String() string            { return binStr("*", e.Left, e.Right) }
func (e DivExpr) String() string            { return binStr("/", e.Left, e.Right) }
func (e RemExpr) String() string            { return binStr("%", e.Left, e.Right) }
func (e AndExpr) String() string            { return binStr("&&", e.Left, e.Right) }
func (e OrExpr) String() string             { return binStr("||", e.Left, e.Right) }
func (e BitAndExpr) String() string         { return binStr("&", e.Left, e.Right) }
func (e BitOrExpr) String() string          { return binStr("|", e.Left, e.Right) }
func (e BitXorExpr) String() string         { return binStr("^", e.Left, e.Right) }
func (e ShlExpr) String() string            { return binStr("<<", e.Left, e.Right) }
func (e EqualsExpr) String() string         { return binStr("==", e.Left, e.Right) }
func (e NotEqualsExpr) String() string      { return binStr("!=", e.Left, e.Right) }
func (e LessThanExpr) String() string       { return binStr("<", e.Left, e.Right) }
func (e LessOrEqualExpr) String() string    { return binStr("<=", e.Left, e.Right) }
func (e GreaterThanExpr) String() string    { return binStr(">", e.Left, e.Right) }
func (e GreaterOrEqualExpr) String() string { return binStr(">=", e.Left, e.Right) }
func (e OffsetExpr) String() string         { return binStr("+off+", e.Left, e.Right) }

func binStr(op string, l, r *AbstractValue) string {
	return "(" + l.String() + " " + op + " " + r.String() + ")"
}

type NegExpr struct{ Operand *AbstractValue }
type NotExpr struct{ Operand *AbstractValue }

func (NegExpr) isExpression()    {}
func (e NegExpr) String() string { return "-" + e.Operand.String() }
func (NotExpr) isExpression()    {}
func (e NotExpr) String() string { return "!" + e.Operand.String() }

// BitNotExpr, Shr, casts and the overflow predicates carry a
// result_type, per spec.md §3.
type BitNotExpr struct {
	Operand    *AbstractValue
	ResultType exprtype.Type
}

func (BitNotExpr) isExpression() {}
func (e BitNotExpr) String() string { return "~" + e.Operand.String() }

type ShrExpr struct {
	Left, Right *AbstractValue
	ResultType  exprtype.Type
}

func (ShrExpr) isExpression() {}
func (e ShrExpr) String() string { return binStr(">>", e.Left, e.Right) }

type CastExpr struct {
	Operand    *AbstractValue
	ResultType exprtype.Type
}

func (CastExpr) isExpression() {}
func (e CastExpr) String() string {
	return fmt.Sprintf("(%s as %s)", e.Operand.String(), e.ResultType.String())
}

type AddOverflowsExpr struct {
	Left, Right *AbstractValue
	ResultType  exprtype.Type
}
type SubOverflowsExpr struct {
	Left, Right *AbstractValue
	ResultType  exprtype.Type
}
type MulOverflowsExpr struct {
	Left, Right *AbstractValue
	ResultType  exprtype.Type
}
type ShlOverflowsExpr struct {
	Left, Right *AbstractValue
	ResultType  exprtype.Type
}
type ShrOverflowsExpr struct {
	Left, Right *AbstractValue
	ResultType  exprtype.Type
}

func (AddOverflowsExpr) isExpression() {}
func (SubOverflowsExpr) isExpression() {}
func (MulOverflowsExpr) isExpression() {}
func (ShlOverflowsExpr) isExpression() {}
func (ShrOverflowsExpr) isExpression() {}

func (e AddOverflowsExpr) String() string { return overflowStr("add", e.Left, e.Right, e.ResultType) }
func (e SubOverflowsExpr) String() string { return overflowStr("sub", e.Left, e.Right, e.ResultType) }
func (e MulOverflowsExpr) String() string { return overflowStr("mul", e.Left, e.Right, e.ResultType) }
func (e ShlOverflowsExpr) String() string { return overflowStr("shl", e.Left, e.Right, e.ResultType) }
func (e ShrOverflowsExpr) String() string { return overflowStr("shr", e.Left, e.Right, e.ResultType) }

func overflowStr(op string, l, r *AbstractValue, t exprtype.Type) string {
	return fmt.Sprintf("%s_overflows(%s, %s, %s)", op, l.String(), r.String(), t.String())
}

// ConditionalExpr is `condition ? consequent : alternate`.
type ConditionalExpr struct {
	Condition, Consequent, Alternate *AbstractValue
}

func (ConditionalExpr) isExpression() {}
func (e ConditionalExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Condition.String(), e.Consequent.String(), e.Alternate.String())
}

// JoinExpr is the lattice union at a control-flow merge, tagged by the
// memory path being merged.
type JoinExpr struct {
	Path        Path
	Left, Right *AbstractValue
}

func (JoinExpr) isExpression() {}
func (e JoinExpr) String() string {
	return fmt.Sprintf("join[%s](%s, %s)", e.Path.String(), e.Left.String(), e.Right.String())
}

// WidenExpr is an accelerated union at path that drops bounds to force
// fixpoint termination. Per spec.md §3, two Widen values are equal iff
// their Path is equal -- the Operand is irrelevant to equality/hashing.
type WidenExpr struct {
	Path    Path
	Operand *AbstractValue
}

func (WidenExpr) isExpression() {}
func (e WidenExpr) String() string {
	return fmt.Sprintf("widen[%s](%s)", e.Path.String(), e.Operand.String())
}

// HeapBlockExpr is a handle to one allocation. Serial distinguishes
// separate allocations at the same program point across iterations;
// IsZeroed records whether the allocator zero-fills (consulted by
// IsRootedByZeroedHeapBlock / is_contained_in_zeroed_heap_block).
type HeapBlockExpr struct {
	Serial   int
	IsZeroed bool
}

func (HeapBlockExpr) isExpression() {}
func (e HeapBlockExpr) String() string { return fmt.Sprintf("heap#%d", e.Serial) }

// HeapBlockLayoutExpr tracks allocation shape.
type HeapBlockLayoutExpr struct {
	Length, Alignment *AbstractValue
	Source            LayoutSource
}

func (HeapBlockLayoutExpr) isExpression() {}
func (e HeapBlockLayoutExpr) String() string {
	return fmt.Sprintf("layout(len=%s, align=%s)", e.Length.String(), e.Alignment.String())
}

// UninterpretedCallExpr models a call the engine does not know the
// semantics of: its result is opaque beyond ResultType, but its
// Arguments remain visible for refinement and implies/subset
// traversals that look through call arguments.
type UninterpretedCallExpr struct {
	FunctionName string
	Arguments    []*AbstractValue
	ResultType   exprtype.Type
}

func (UninterpretedCallExpr) isExpression() {}
func (e UninterpretedCallExpr) String() string {
	parts := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.FunctionName, strings.Join(parts, ", "))
}

// UnknownModelFieldExpr reads a model field not tracked structurally;
// Default is used when refine_paths cannot resolve Path to an
// environment entry and Path is not rooted at a parameter.
type UnknownModelFieldExpr struct {
	Path    Path
	Default *AbstractValue
}

func (UnknownModelFieldExpr) isExpression() {}
func (e UnknownModelFieldExpr) String() string {
	return fmt.Sprintf("model_field(%s, default=%s)", e.Path.String(), e.Default.String())
}

// exprKey produces the canonical string AbstractValue.Key uses for
// structural equality, with the Widen-by-path-only exception applied
// here rather than in the caller.
func exprKey(e Expression) string {
	switch v := e.(type) {
	case BottomExpr:
		return "BOT"
	case TopExpr:
		return "TOP"
	case ConstantExpr:
		return "C:" + v.Value.String()
	case VariableExpr:
		return "V:" + pathKey(v.Path) + ":" + v.VarType.String()
	case ReferenceExpr:
		return "R:" + pathKey(v.Path)
	case AddExpr:
		return binKey("+", v.Left, v.Right)
	case SubExpr:
		return binKey("-", v.Left, v.Right)
	case MulExpr:
		return binKey("*", v.Left, v.Right)
	case DivExpr:
		return binKey("/", v.Left, v.Right)
	case RemExpr:
		return binKey("%", v.Left, v.Right)
	case AndExpr:
		return binKey("&&", v.Left, v.Right)
	case OrExpr:
		return binKey("||", v.Left, v.Right)
	case BitAndExpr:
		return binKey("&", v.Left, v.Right)
	case BitOrExpr:
		return binKey("|", v.Left, v.Right)
	case BitXorExpr:
		return binKey("^", v.Left, v.Right)
	case ShlExpr:
		return binKey("<<", v.Left, v.Right)
	case EqualsExpr:
		return binKey("==", v.Left, v.Right)
	case NotEqualsExpr:
		return binKey("!=", v.Left, v.Right)
	case LessThanExpr:
		return binKey("<", v.Left, v.Right)
	case LessOrEqualExpr:
		return binKey("<=", v.Left, v.Right)
	case GreaterThanExpr:
		return binKey(">", v.Left, v.Right)
	case GreaterOrEqualExpr:
		return binKey(">=", v.Left, v.Right)
	case OffsetExpr:
		return binKey("+off+", v.Left, v.Right)
	case NegExpr:
		return "neg:" + v.Operand.Key()
	case NotExpr:
		return "not:" + v.Operand.Key()
	case BitNotExpr:
		return "bitnot:" + v.Operand.Key() + ":" + v.ResultType.String()
	case ShrExpr:
		return binKey(">>", v.Left, v.Right) + ":" + v.ResultType.String()
	case CastExpr:
		return "cast:" + v.Operand.Key() + ":" + v.ResultType.String()
	case AddOverflowsExpr:
		return binKey("add_ovf", v.Left, v.Right) + ":" + v.ResultType.String()
	case SubOverflowsExpr:
		return binKey("sub_ovf", v.Left, v.Right) + ":" + v.ResultType.String()
	case MulOverflowsExpr:
		return binKey("mul_ovf", v.Left, v.Right) + ":" + v.ResultType.String()
	case ShlOverflowsExpr:
		return binKey("shl_ovf", v.Left, v.Right) + ":" + v.ResultType.String()
	case ShrOverflowsExpr:
		return binKey("shr_ovf", v.Left, v.Right) + ":" + v.ResultType.String()
	case ConditionalExpr:
		return "cond:" + v.Condition.Key() + "?" + v.Consequent.Key() + ":" + v.Alternate.Key()
	case JoinExpr:
		return "join[" + pathKey(v.Path) + "]:" + v.Left.Key() + "," + v.Right.Key()
	case WidenExpr:
		// Widen equality is path-only (spec.md §3): the operand is
		// deliberately excluded from the key.
		return "widen[" + pathKey(v.Path) + "]"
	case HeapBlockExpr:
		return fmt.Sprintf("heap#%d", v.Serial)
	case HeapBlockLayoutExpr:
		return fmt.Sprintf("layout:%s:%s:%d", v.Length.Key(), v.Alignment.Key(), v.Source)
	case UninterpretedCallExpr:
		parts := make([]string, len(v.Arguments))
		for i, a := range v.Arguments {
			parts[i] = a.Key()
		}
		return "call:" + v.FunctionName + "(" + strings.Join(parts, ",") + ")"
	case UnknownModelFieldExpr:
		return "modelfield:" + pathKey(v.Path) + ":" + v.Default.Key()
	default:
		return "?:" + e.String()
	}
}

func binKey(op string, l, r *AbstractValue) string {
	return op + "(" + l.Key() + "," + r.Key() + ")"
}
