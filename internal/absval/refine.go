package absval

// refine.go implements C8, the Refiner: substituting call arguments for
// formal parameters, resolving symbolic paths against an Environment,
// and simplifying a value in light of a known-true path condition.

// RefineParameters substitutes args for every Parameter path reachable
// from v, and offsets every HeapBlock serial it encounters by fresh, so
// that heap blocks allocated by separately-inlined calls to the same
// function stay distinguishable (spec.md §4.5).
func (v *AbstractValue) RefineParameters(args []*AbstractValue, fresh int) *AbstractValue {
	switch e := v.Expr.(type) {
	case BottomExpr, TopExpr, ConstantExpr:
		return v
	case VariableExpr:
		return MakeFrom(VariableExpr{Path: refinePath(e.Path, args, fresh), VarType: e.VarType}, v.Size)
	case ReferenceExpr:
		return MakeReference(refinePath(e.Path, args, fresh))
	case AddExpr:
		return e.Left.RefineParameters(args, fresh).Addition(e.Right.RefineParameters(args, fresh))
	case SubExpr:
		return e.Left.RefineParameters(args, fresh).Subtract(e.Right.RefineParameters(args, fresh))
	case MulExpr:
		return e.Left.RefineParameters(args, fresh).Multiply(e.Right.RefineParameters(args, fresh))
	case DivExpr:
		return e.Left.RefineParameters(args, fresh).Divide(e.Right.RefineParameters(args, fresh))
	case RemExpr:
		return e.Left.RefineParameters(args, fresh).Remainder(e.Right.RefineParameters(args, fresh))
	case AndExpr:
		return e.Left.RefineParameters(args, fresh).And(e.Right.RefineParameters(args, fresh))
	case OrExpr:
		return e.Left.RefineParameters(args, fresh).Or(e.Right.RefineParameters(args, fresh))
	case BitAndExpr:
		return e.Left.RefineParameters(args, fresh).BitAnd(e.Right.RefineParameters(args, fresh))
	case BitOrExpr:
		return e.Left.RefineParameters(args, fresh).BitOr(e.Right.RefineParameters(args, fresh))
	case BitXorExpr:
		return e.Left.RefineParameters(args, fresh).BitXor(e.Right.RefineParameters(args, fresh))
	case ShlExpr:
		return e.Left.RefineParameters(args, fresh).ShiftLeft(e.Right.RefineParameters(args, fresh))
	case ShrExpr:
		return e.Left.RefineParameters(args, fresh).ShiftRight(e.Right.RefineParameters(args, fresh), e.ResultType)
	case EqualsExpr:
		return e.Left.RefineParameters(args, fresh).Equals(e.Right.RefineParameters(args, fresh))
	case NotEqualsExpr:
		return e.Left.RefineParameters(args, fresh).NotEquals(e.Right.RefineParameters(args, fresh))
	case LessThanExpr:
		return e.Left.RefineParameters(args, fresh).LessThan(e.Right.RefineParameters(args, fresh))
	case LessOrEqualExpr:
		return e.Left.RefineParameters(args, fresh).LessOrEqual(e.Right.RefineParameters(args, fresh))
	case GreaterThanExpr:
		return e.Left.RefineParameters(args, fresh).GreaterThan(e.Right.RefineParameters(args, fresh))
	case GreaterOrEqualExpr:
		return e.Left.RefineParameters(args, fresh).GreaterOrEqual(e.Right.RefineParameters(args, fresh))
	case OffsetExpr:
		return e.Left.RefineParameters(args, fresh).Offset(e.Right.RefineParameters(args, fresh))
	case NegExpr:
		return e.Operand.RefineParameters(args, fresh).Negate()
	case NotExpr:
		return e.Operand.RefineParameters(args, fresh).Not()
	case BitNotExpr:
		return e.Operand.RefineParameters(args, fresh).BitNot(e.ResultType)
	case CastExpr:
		return e.Operand.RefineParameters(args, fresh).Cast(e.ResultType)
	case AddOverflowsExpr:
		return e.Left.RefineParameters(args, fresh).AddOverflows(e.Right.RefineParameters(args, fresh), e.ResultType)
	case SubOverflowsExpr:
		return e.Left.RefineParameters(args, fresh).SubOverflows(e.Right.RefineParameters(args, fresh), e.ResultType)
	case MulOverflowsExpr:
		return e.Left.RefineParameters(args, fresh).MulOverflows(e.Right.RefineParameters(args, fresh), e.ResultType)
	case ShlOverflowsExpr:
		return e.Left.RefineParameters(args, fresh).ShlOverflows(e.Right.RefineParameters(args, fresh), e.ResultType)
	case ShrOverflowsExpr:
		return e.Left.RefineParameters(args, fresh).ShrOverflows(e.Right.RefineParameters(args, fresh), e.ResultType)
	case ConditionalExpr:
		return Conditional(
			e.Condition.RefineParameters(args, fresh),
			e.Consequent.RefineParameters(args, fresh),
			e.Alternate.RefineParameters(args, fresh),
		)
	case JoinExpr:
		return Join(refinePath(e.Path, args, fresh), e.Left.RefineParameters(args, fresh), e.Right.RefineParameters(args, fresh))
	case WidenExpr:
		return Widen(refinePath(e.Path, args, fresh), e.Operand.RefineParameters(args, fresh))
	case HeapBlockExpr:
		return &AbstractValue{Expr: HeapBlockExpr{Serial: e.Serial + fresh, IsZeroed: e.IsZeroed}, Size: 1}
	case HeapBlockLayoutExpr:
		return MakeHeapBlockLayout(e.Length.RefineParameters(args, fresh), e.Alignment.RefineParameters(args, fresh), e.Source)
	case UninterpretedCallExpr:
		refined := make([]*AbstractValue, len(e.Arguments))
		for i, a := range e.Arguments {
			refined[i] = a.RefineParameters(args, fresh)
		}
		return MakeFrom(UninterpretedCallExpr{FunctionName: e.FunctionName, Arguments: refined, ResultType: e.ResultType}, v.Size)
	case UnknownModelFieldExpr:
		return MakeFrom(UnknownModelFieldExpr{
			Path:    refinePath(e.Path, args, fresh),
			Default: e.Default.RefineParameters(args, fresh),
		}, v.Size)
	default:
		return v
	}
}

// refinePath substitutes actual arguments for Parameter paths: the
// argument's own Path is reused when it has one (Variable/Reference),
// otherwise the argument value itself is wrapped as an Alias root.
func refinePath(p Path, args []*AbstractValue, fresh int) Path {
	switch v := p.(type) {
	case *Parameter:
		if v.Ordinal < 0 || v.Ordinal >= len(args) {
			return p
		}
		arg := args[v.Ordinal]
		switch e := arg.Expr.(type) {
		case VariableExpr:
			return e.Path
		case ReferenceExpr:
			return e.Path
		default:
			return NewAlias(arg)
		}
	case *HeapBlock:
		return &HeapBlock{Value: v.Value.RefineParameters(args, fresh)}
	case *Alias:
		return &Alias{Value: v.Value.RefineParameters(args, fresh)}
	case *Offset:
		return &Offset{Value: v.Value.RefineParameters(args, fresh)}
	case *QualifiedPath:
		return NewQualified(refinePath(v.Qualifier, args, fresh), refineSelector(v.Selector, args, fresh))
	default:
		return p
	}
}

func refineSelector(s PathSelector, args []*AbstractValue, fresh int) PathSelector {
	switch v := s.(type) {
	case IndexSelector:
		return IndexSelector{Index: v.Index.RefineParameters(args, fresh)}
	case SliceSelector:
		return SliceSelector{Value: v.Value.RefineParameters(args, fresh)}
	default:
		return s
	}
}

// refinePathEnv refines the AbstractValues embedded inside a Path's own
// substructure (HeapBlock/Alias/Offset roots, and Index/Slice selectors)
// against env, the same way refinePath does for RefineParameters.
// LocalVariable/Parameter/Result/StaticVariable carry no embedded value
// and are returned unchanged; a binding on one of those is instead
// resolved by the caller's own env.ValueAt check on the whole path.
func refinePathEnv(p Path, env *Environment) Path {
	switch v := p.(type) {
	case *HeapBlock:
		return &HeapBlock{Value: v.Value.RefinePaths(env)}
	case *Alias:
		return &Alias{Value: v.Value.RefinePaths(env)}
	case *Offset:
		return &Offset{Value: v.Value.RefinePaths(env)}
	case *QualifiedPath:
		return NewQualified(refinePathEnv(v.Qualifier, env), refineSelectorEnv(v.Selector, env))
	default:
		return p
	}
}

func refineSelectorEnv(s PathSelector, env *Environment) PathSelector {
	switch v := s.(type) {
	case IndexSelector:
		return IndexSelector{Index: v.Index.RefinePaths(env)}
	case SliceSelector:
		return SliceSelector{Value: v.Value.RefinePaths(env)}
	default:
		return s
	}
}

// RefinePaths resolves Variable/Reference leaves against env: a path
// bound in env is replaced by its stored value; a Variable whose path is
// rooted at a Parameter but missing from env is returned unchanged,
// since the caller (one level up the call stack) may still be able to
// resolve it; any other unbound Variable becomes an UnknownModelField
// with itself as the default. An UnknownModelField resolves to its env
// binding, else to its default unless its path is rooted at a
// Parameter. Anything else recurses into its operands, refining any
// Path it carries via refinePathEnv along the way.
func (v *AbstractValue) RefinePaths(env *Environment) *AbstractValue {
	switch e := v.Expr.(type) {
	case BottomExpr, TopExpr, ConstantExpr:
		return v
	case VariableExpr:
		if bound, ok := env.ValueAt(e.Path); ok {
			return bound
		}
		if IsRootedByParameter(e.Path) {
			return v
		}
		return MakeFrom(UnknownModelFieldExpr{Path: e.Path, Default: v}, v.Size)
	case ReferenceExpr:
		if bound, ok := env.ValueAt(e.Path); ok {
			return bound
		}
		return MakeReference(refinePathEnv(e.Path, env))
	case AddExpr:
		return e.Left.RefinePaths(env).Addition(e.Right.RefinePaths(env))
	case SubExpr:
		return e.Left.RefinePaths(env).Subtract(e.Right.RefinePaths(env))
	case MulExpr:
		return e.Left.RefinePaths(env).Multiply(e.Right.RefinePaths(env))
	case DivExpr:
		return e.Left.RefinePaths(env).Divide(e.Right.RefinePaths(env))
	case RemExpr:
		return e.Left.RefinePaths(env).Remainder(e.Right.RefinePaths(env))
	case AndExpr:
		return e.Left.RefinePaths(env).And(e.Right.RefinePaths(env))
	case OrExpr:
		return e.Left.RefinePaths(env).Or(e.Right.RefinePaths(env))
	case BitAndExpr:
		return e.Left.RefinePaths(env).BitAnd(e.Right.RefinePaths(env))
	case BitOrExpr:
		return e.Left.RefinePaths(env).BitOr(e.Right.RefinePaths(env))
	case BitXorExpr:
		return e.Left.RefinePaths(env).BitXor(e.Right.RefinePaths(env))
	case BitNotExpr:
		return e.Operand.RefinePaths(env).BitNot(e.ResultType)
	case ShlExpr:
		return e.Left.RefinePaths(env).ShiftLeft(e.Right.RefinePaths(env))
	case ShrExpr:
		return e.Left.RefinePaths(env).ShiftRight(e.Right.RefinePaths(env), e.ResultType)
	case CastExpr:
		return e.Operand.RefinePaths(env).Cast(e.ResultType)
	case OffsetExpr:
		return e.Left.RefinePaths(env).Offset(e.Right.RefinePaths(env))
	case NegExpr:
		return e.Operand.RefinePaths(env).Negate()
	case NotExpr:
		return e.Operand.RefinePaths(env).Not()
	case EqualsExpr:
		return e.Left.RefinePaths(env).Equals(e.Right.RefinePaths(env))
	case NotEqualsExpr:
		return e.Left.RefinePaths(env).NotEquals(e.Right.RefinePaths(env))
	case LessThanExpr:
		return e.Left.RefinePaths(env).LessThan(e.Right.RefinePaths(env))
	case LessOrEqualExpr:
		return e.Left.RefinePaths(env).LessOrEqual(e.Right.RefinePaths(env))
	case GreaterThanExpr:
		return e.Left.RefinePaths(env).GreaterThan(e.Right.RefinePaths(env))
	case GreaterOrEqualExpr:
		return e.Left.RefinePaths(env).GreaterOrEqual(e.Right.RefinePaths(env))
	case AddOverflowsExpr:
		return e.Left.RefinePaths(env).AddOverflows(e.Right.RefinePaths(env), e.ResultType)
	case SubOverflowsExpr:
		return e.Left.RefinePaths(env).SubOverflows(e.Right.RefinePaths(env), e.ResultType)
	case MulOverflowsExpr:
		return e.Left.RefinePaths(env).MulOverflows(e.Right.RefinePaths(env), e.ResultType)
	case ShlOverflowsExpr:
		return e.Left.RefinePaths(env).ShlOverflows(e.Right.RefinePaths(env), e.ResultType)
	case ShrOverflowsExpr:
		return e.Left.RefinePaths(env).ShrOverflows(e.Right.RefinePaths(env), e.ResultType)
	case ConditionalExpr:
		return Conditional(e.Condition.RefinePaths(env), e.Consequent.RefinePaths(env), e.Alternate.RefinePaths(env))
	case JoinExpr:
		return Join(e.Path, e.Left.RefinePaths(env), e.Right.RefinePaths(env))
	case WidenExpr:
		return Widen(e.Path, e.Operand.RefinePaths(env))
	case HeapBlockLayoutExpr:
		return MakeHeapBlockLayout(e.Length.RefinePaths(env), e.Alignment.RefinePaths(env), e.Source)
	case UninterpretedCallExpr:
		refined := make([]*AbstractValue, len(e.Arguments))
		for i, a := range e.Arguments {
			refined[i] = a.RefinePaths(env)
		}
		return MakeFrom(UninterpretedCallExpr{FunctionName: e.FunctionName, Arguments: refined, ResultType: e.ResultType}, v.Size)
	case UnknownModelFieldExpr:
		if bound, ok := env.ValueAt(e.Path); ok {
			return bound
		}
		if !IsRootedByParameter(e.Path) {
			return e.Default
		}
		return v
	default:
		return v
	}
}

// equalityBoundValue looks for "target == k" (in either operand order)
// as a top-level conjunct of condition and returns k. This lets
// RefineWith substitute concrete values into non-boolean
// subexpressions, not just collapse boolean ones to True/False.
func equalityBoundValue(condition, target *AbstractValue) (*AbstractValue, bool) {
	switch e := condition.Expr.(type) {
	case EqualsExpr:
		if Equal(e.Left, target) {
			return e.Right, true
		}
		if Equal(e.Right, target) {
			return e.Left, true
		}
	case AndExpr:
		if v, ok := equalityBoundValue(e.Left, target); ok {
			return v, true
		}
		if v, ok := equalityBoundValue(e.Right, target); ok {
			return v, true
		}
	}
	return nil, false
}

// RefineWith simplifies v given that condition is known to hold,
// bounded by MaxRefineDepth (spec.md §4.5). Calling this with a
// statically-known-false condition is a programmer error: refining
// anything against a contradiction is meaningless, since the refiner
// would be free to derive any value at all from it.
func (v *AbstractValue) RefineWith(condition *AbstractValue, depth int) *AbstractValue {
	assertf(!condition.AsFalseConstant(), "RefineWith called with a statically-known-false path condition")
	if depth > MaxRefineDepth {
		reportApproximation("RefineWith hit MaxRefineDepth (%d) at %s", MaxRefineDepth, v.String())
		return v
	}
	if v.IsBottom() || v.IsTop() || v.AsTrueConstant() || v.AsFalseConstant() {
		return v
	}
	if substituted, ok := equalityBoundValue(condition, v); ok {
		return substituted
	}
	if condition.Implies(v) {
		return True
	}
	if condition.ImpliesNot(v) {
		return False
	}
	switch e := v.Expr.(type) {
	case ConditionalExpr:
		if condition.Implies(e.Condition) {
			return e.Consequent.RefineWith(condition, depth+1)
		}
		if condition.ImpliesNot(e.Condition) {
			return e.Alternate.RefineWith(condition, depth+1)
		}
		return Conditional(
			e.Condition.RefineWith(condition, depth+1),
			e.Consequent.RefineWith(condition, depth+1),
			e.Alternate.RefineWith(condition, depth+1),
		)
	case JoinExpr:
		return Join(e.Path, e.Left.RefineWith(condition, depth+1), e.Right.RefineWith(condition, depth+1))
	case WidenExpr:
		// A widened value's operand is deliberately excluded from its
		// identity (spec.md §3); chasing into it here would refine
		// something refinement is not supposed to see.
		return v
	case AndExpr:
		return e.Left.RefineWith(condition, depth+1).And(e.Right.RefineWith(condition, depth+1))
	case OrExpr:
		return e.Left.RefineWith(condition, depth+1).Or(e.Right.RefineWith(condition, depth+1))
	case NotExpr:
		return e.Operand.RefineWith(condition, depth+1).Not()
	case AddExpr:
		return e.Left.RefineWith(condition, depth+1).Addition(e.Right.RefineWith(condition, depth+1))
	case SubExpr:
		return e.Left.RefineWith(condition, depth+1).Subtract(e.Right.RefineWith(condition, depth+1))
	case MulExpr:
		return e.Left.RefineWith(condition, depth+1).Multiply(e.Right.RefineWith(condition, depth+1))
	case EqualsExpr:
		return e.Left.RefineWith(condition, depth+1).Equals(e.Right.RefineWith(condition, depth+1))
	case NotEqualsExpr:
		return e.Left.RefineWith(condition, depth+1).NotEquals(e.Right.RefineWith(condition, depth+1))
	case LessThanExpr:
		return e.Left.RefineWith(condition, depth+1).LessThan(e.Right.RefineWith(condition, depth+1))
	case LessOrEqualExpr:
		return e.Left.RefineWith(condition, depth+1).LessOrEqual(e.Right.RefineWith(condition, depth+1))
	case GreaterThanExpr:
		return e.Left.RefineWith(condition, depth+1).GreaterThan(e.Right.RefineWith(condition, depth+1))
	case GreaterOrEqualExpr:
		return e.Left.RefineWith(condition, depth+1).GreaterOrEqual(e.Right.RefineWith(condition, depth+1))
	case DivExpr:
		return e.Left.RefineWith(condition, depth+1).Divide(e.Right.RefineWith(condition, depth+1))
	case RemExpr:
		return e.Left.RefineWith(condition, depth+1).Remainder(e.Right.RefineWith(condition, depth+1))
	case BitAndExpr:
		return e.Left.RefineWith(condition, depth+1).BitAnd(e.Right.RefineWith(condition, depth+1))
	case BitOrExpr:
		return e.Left.RefineWith(condition, depth+1).BitOr(e.Right.RefineWith(condition, depth+1))
	case BitXorExpr:
		return e.Left.RefineWith(condition, depth+1).BitXor(e.Right.RefineWith(condition, depth+1))
	case BitNotExpr:
		return e.Operand.RefineWith(condition, depth+1).BitNot(e.ResultType)
	case ShlExpr:
		return e.Left.RefineWith(condition, depth+1).ShiftLeft(e.Right.RefineWith(condition, depth+1))
	case ShrExpr:
		return e.Left.RefineWith(condition, depth+1).ShiftRight(e.Right.RefineWith(condition, depth+1), e.ResultType)
	case CastExpr:
		return e.Operand.RefineWith(condition, depth+1).Cast(e.ResultType)
	case OffsetExpr:
		return e.Left.RefineWith(condition, depth+1).Offset(e.Right.RefineWith(condition, depth+1))
	case NegExpr:
		return e.Operand.RefineWith(condition, depth+1).Negate()
	case AddOverflowsExpr:
		return e.Left.RefineWith(condition, depth+1).AddOverflows(e.Right.RefineWith(condition, depth+1), e.ResultType)
	case SubOverflowsExpr:
		return e.Left.RefineWith(condition, depth+1).SubOverflows(e.Right.RefineWith(condition, depth+1), e.ResultType)
	case MulOverflowsExpr:
		return e.Left.RefineWith(condition, depth+1).MulOverflows(e.Right.RefineWith(condition, depth+1), e.ResultType)
	case ShlOverflowsExpr:
		return e.Left.RefineWith(condition, depth+1).ShlOverflows(e.Right.RefineWith(condition, depth+1), e.ResultType)
	case ShrOverflowsExpr:
		return e.Left.RefineWith(condition, depth+1).ShrOverflows(e.Right.RefineWith(condition, depth+1), e.ResultType)
	case HeapBlockLayoutExpr:
		return MakeHeapBlockLayout(e.Length.RefineWith(condition, depth+1), e.Alignment.RefineWith(condition, depth+1), e.Source)
	default:
		return v
	}
}
