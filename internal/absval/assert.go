package absval

import "fmt"

// DebugAssertions gates the two programmer-error checks spec.md §7
// calls out: refine_with on a known-false path condition, and
// constructing a conditional expression with both arms Bottom. Release
// builds leave this false and the engine continues best-effort; the
// package's own tests and cmd/avrepl -debug flip it to true.
var DebugAssertions = false

// assertf panics with a formatted message when cond is false and
// DebugAssertions is enabled; it is a no-op otherwise, matching
// spec.md §7's "abort in debug builds only, continue best-effort in
// release" contract without introducing a build tag.
func assertf(cond bool, format string, args ...any) {
	if cond || !DebugAssertions {
		return
	}
	panic(fmt.Sprintf("absval: contract violation: "+format, args...))
}
