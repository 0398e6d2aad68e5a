// Package absval implements the abstract-value expression algebra: the
// mutually-recursive Path / Expression / AbstractValue family (C3, C4,
// C6), the smart-constructor algebra that normalizes every operator
// (C7), the refinement pipeline (C8), and the persistent Environment
// (C9) those refiners consume.
//
// Path, Expression and AbstractValue live in one package because they
// are mutually recursive: a Path's HeapBlock/Alias/Offset variants
// embed an *AbstractValue, an Expression's operands are *AbstractValue,
// and AbstractValue wraps an Expression. Go has no forward declaration
// across packages, so the family cannot be split along those lines; it
// is split instead along the lines that do not cycle (ConstantDomain,
// ExpressionType, IntervalDomain each live in their own package).
//
// The package assumes a single owner goroutine per analyzer instance,
// matching spec.md §5: no value here is safe to mutate (the interval
// memoization cell included) from more than one goroutine at a time,
// and nothing in the package synchronizes access. Parallel analysis of
// distinct functions requires one absval-using analyzer per goroutine.
package absval
