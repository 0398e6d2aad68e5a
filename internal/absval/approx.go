package absval

// ApproxLog is an optional hook invoked whenever the engine takes a
// sound-but-lossy step: the MAX_EXPRESSION_SIZE collapse (§4.1), a
// MAX_REFINE_DEPTH exhaustion (§4.5), or a widen() that abstracts to an
// opaque variable (§4.6). It is nil by default, making the call sites a
// single nil check on the hot path.
//
// internal/diagnostics assigns this hook at startup rather than
// absval importing diagnostics directly, since diagnostics' pretty
// printer needs to import absval to render AbstractValue trees and a
// two-way import would cycle.
var ApproxLog func(format string, args ...any)

func reportApproximation(format string, args ...any) {
	if ApproxLog != nil {
		ApproxLog(format, args...)
	}
}
