package absval

import "sort"

// Environment is C9: a persistent (immutable) mapping from Path to
// AbstractValue, implemented as a parent-pointer chain rather than a
// copy-on-write map. No persistent-map library appears anywhere in the
// retrieved corpus, so this is a deliberate standard-library-only leaf
// (see DESIGN.md). Set conses one new node onto the chain in O(1);
// ValueAt and Entries walk the chain, which is acceptable at the scale
// a reference engine like this one runs at.
type Environment struct {
	parent *Environment
	key    string
	path   Path
	value  *AbstractValue
}

// Entry is one path/value pair as returned by Entries.
type Entry struct {
	Path  Path
	Value *AbstractValue
}

// NewEnvironment returns the empty environment.
func NewEnvironment() *Environment { return nil }

// Set returns a new environment identical to e except that path now
// maps to value; e itself is left unmodified.
func (e *Environment) Set(path Path, value *AbstractValue) *Environment {
	return &Environment{parent: e, key: pathKey(path), path: path, value: value}
}

// ValueAt returns the most recently Set value bound to path, if any.
func (e *Environment) ValueAt(path Path) (*AbstractValue, bool) {
	key := pathKey(path)
	for n := e; n != nil; n = n.parent {
		if n.key == key {
			return n.value, true
		}
	}
	return nil, false
}

// Entries returns every live binding (the most recent Set per key,
// shadowed writes omitted), ordered by path string for determinism.
func (e *Environment) Entries() []Entry {
	seen := map[string]bool{}
	var out []Entry
	for n := e; n != nil; n = n.parent {
		if seen[n.key] {
			continue
		}
		seen[n.key] = true
		out = append(out, Entry{Path: n.path, Value: n.value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path.String() < out[j].Path.String() })
	return out
}

// EqualitiesForWidenedVars returns a boolean value asserting, for every
// binding whose stored value is a Widen, that the variable named by its
// own path still equals that widened value. Widen's equality rule
// (spec.md §3) treats two Widen values at the same path as equal
// regardless of operand, which throws away real precision the fixpoint
// loop can otherwise exploit; re-asserting x == widen(x) at refinement
// time recovers some of it. Grounded on add_equalities_for_widened_vars
// in original_source/checker/src/abstract_value.rs (there it compares a
// pre-widen and post-widen Environment pair; this simplified form
// doesn't have both to compare and instead just re-asserts equality for
// every currently-widened binding).
func (e *Environment) EqualitiesForWidenedVars() *AbstractValue {
	result := True
	for _, entry := range e.Entries() {
		w, ok := entry.Value.Expr.(WidenExpr)
		if !ok {
			continue
		}
		variable := MakeFrom(VariableExpr{Path: entry.Path, VarType: InferType(w.Operand.Expr)}, 1)
		result = result.And(variable.Equals(entry.Value))
	}
	return result
}
