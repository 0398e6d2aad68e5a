package absval

// Tuning constants, kept as vars (not const) rather than hard-coded so
// a host such as cmd/avrepl can lower them for interactive
// experimentation without a rebuild.
var (
	// MaxExpressionSize is the k-limit from spec.md §3/§4.1: any
	// constructed expression whose size would exceed this is replaced
	// by an opaque variable with a pre-computed interval.
	MaxExpressionSize uint64 = 1 << 20

	// MaxRefineDepth bounds refine_with's recursion (spec.md §4.5).
	MaxRefineDepth = 16

	// WidenToVariableThreshold is the expression-size threshold past
	// which widen(path) abstracts all the way to an opaque variable
	// instead of wrapping in Widen (spec.md §4.6).
	WidenToVariableThreshold uint64 = 1000
)
