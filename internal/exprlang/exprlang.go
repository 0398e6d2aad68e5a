package exprlang

import "avengine/internal/absval"

// Eval parses source and lowers it to an AbstractValue in one step,
// the entry point cmd/avrepl and table-driven tests use.
func Eval(source string) (*absval.AbstractValue, error) {
	node, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return Lower(node)
}
