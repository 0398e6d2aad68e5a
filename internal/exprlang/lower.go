package exprlang

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"avengine/internal/absval"
	"avengine/internal/exprtype"
)

// Lower walks an expression-language AST and builds it through the
// algebra's own smart constructors (Addition, Equals, Not, ...) rather
// than raw struct literals, so every textual expression gets the same
// constant-folding and normalization a real caller's values would.
//
// Identifiers named p<N> resolve to Parameter(N); x<N> resolves to
// LocalVariable(N). Every resolved variable has type exprtype.I32 (an
// "as" cast wraps it in a Cast node rather than changing the variable's
// own type), since this language has no separate type-annotation syntax
// and the REPL's purpose is
// exploring the algebra, not modeling a real type system.
func Lower(n Node) (*absval.AbstractValue, error) {
	switch e := n.(type) {
	case *badNode:
		return nil, e.err
	case *IntLit:
		v, ok := new(big.Int).SetString(e.Value, 0)
		if !ok {
			return nil, &ParseError{Pos: e.Pos, Message: "invalid integer literal: " + e.Value}
		}
		return absval.OfI128(v), nil
	case *BoolLit:
		return absval.OfBool(e.Value), nil
	case *Ident:
		return lowerIdent(e)
	case *UnaryExpr:
		return lowerUnary(e)
	case *BinaryExpr:
		return lowerBinary(e)
	case *CastExpr:
		return lowerCast(e)
	case *TernaryExpr:
		cond, err := Lower(e.Condition)
		if err != nil {
			return nil, err
		}
		cons, err := Lower(e.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := Lower(e.Alternate)
		if err != nil {
			return nil, err
		}
		return absval.Conditional(cond, cons, alt), nil
	case *WidenExpr:
		operand, err := Lower(e.Operand)
		if err != nil {
			return nil, err
		}
		return absval.Widen(PathFor(e.Path), operand), nil
	case *JoinExpr:
		left, err := Lower(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := Lower(e.Right)
		if err != nil {
			return nil, err
		}
		return absval.Join(PathFor(e.Path), left, right), nil
	default:
		return nil, &ParseError{Pos: n.nodePos(), Message: fmt.Sprintf("unhandled node type %T", n)}
	}
}

// PathFor resolves an identifier (p<N> or x<N>) to the Path it names,
// used both internally for widen/join path arguments and by cmd/avrepl
// to resolve the left-hand side of a ":set path=expr" command.
func PathFor(name string) absval.Path {
	if ord, ok := parseOrdinal(name, "p"); ok {
		return &absval.Parameter{Ordinal: ord}
	}
	if ord, ok := parseOrdinal(name, "x"); ok {
		return &absval.LocalVariable{Ordinal: ord}
	}
	return &absval.LocalVariable{Ordinal: -1}
}

func parseOrdinal(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || len(name) <= len(prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

func lowerIdent(e *Ident) (*absval.AbstractValue, error) {
	path := PathFor(e.Name)
	if lv, ok := path.(*absval.LocalVariable); ok && lv.Ordinal < 0 {
		return nil, &ParseError{Pos: e.Pos, Message: "unknown identifier '" + e.Name + "': expected p<N> or x<N>"}
	}
	return absval.MakeFrom(absval.VariableExpr{Path: path, VarType: exprtype.I32}, 1), nil
}

func lowerUnary(e *UnaryExpr) (*absval.AbstractValue, error) {
	operand, err := Lower(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		return operand.Negate(), nil
	case "!":
		return operand.Not(), nil
	case "~":
		return operand.BitNot(resultTypeOf(operand)), nil
	default:
		return nil, &ParseError{Pos: e.Pos, Message: "unknown unary operator " + e.Operator}
	}
}

func lowerBinary(e *BinaryExpr) (*absval.AbstractValue, error) {
	left, err := Lower(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := Lower(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "+":
		return left.Addition(right), nil
	case "-":
		return left.Subtract(right), nil
	case "*":
		return left.Multiply(right), nil
	case "/":
		return left.Divide(right), nil
	case "%":
		return left.Remainder(right), nil
	case "&&":
		return left.And(right), nil
	case "||":
		return left.Or(right), nil
	case "&":
		return left.BitAnd(right), nil
	case "|":
		return left.BitOr(right), nil
	case "^":
		return left.BitXor(right), nil
	case "<<":
		return left.ShiftLeft(right), nil
	case ">>":
		return left.ShiftRight(right, resultTypeOf(left)), nil
	case "==":
		return left.Equals(right), nil
	case "!=":
		return left.NotEquals(right), nil
	case "<":
		return left.LessThan(right), nil
	case "<=":
		return left.LessOrEqual(right), nil
	case ">":
		return left.GreaterThan(right), nil
	case ">=":
		return left.GreaterOrEqual(right), nil
	default:
		return nil, &ParseError{Pos: e.Pos, Message: "unknown binary operator " + e.Operator}
	}
}

func lowerCast(e *CastExpr) (*absval.AbstractValue, error) {
	operand, err := Lower(e.Operand)
	if err != nil {
		return nil, err
	}
	t, ok := exprtype.FromName(e.TypeName)
	if !ok {
		return nil, &ParseError{Pos: e.Pos, Message: "unknown type name '" + e.TypeName + "'"}
	}
	return operand.Cast(t), nil
}

// resultTypeOf falls back to I32 when the operand's inferred type isn't
// a concrete primitive, so shift/bitnot always have something sane to
// report overflow/width behavior against.
func resultTypeOf(v *absval.AbstractValue) exprtype.Type {
	t := absval.InferType(v.Expr)
	if !t.IsPrimitive() || t == exprtype.Bool {
		return exprtype.I32
	}
	return t
}
