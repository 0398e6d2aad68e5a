package diagnostics

import (
	"strings"

	"github.com/fatih/color"
)

// Pretty renders the String() form of an AbstractValue, interval, or
// Path with Rust-like color coding: Top/Bottom stand out the way the
// teacher's ErrorReporter highlights error/warning/note/help levels,
// and widen(...) nodes get their own color since they're where the
// engine is knowingly giving up precision.
//
// It operates purely on text rather than importing internal/absval's
// types, since absval.ApproxLog already gives diagnostics everything it
// needs as a formatted string and a two-way import would cycle (absval
// would need diagnostics for the hook, diagnostics would need absval
// for the types).
func Pretty(s string) string {
	bottom := color.New(color.FgRed, color.Bold).SprintFunc()
	top := color.New(color.FgYellow, color.Bold).SprintFunc()
	widen := color.New(color.FgMagenta).SprintFunc()
	path := color.New(color.FgCyan).SprintFunc()

	s = replaceWord(s, "BOTTOM", bottom("BOTTOM"))
	s = replaceWord(s, "TOP", top("TOP"))
	s = colorPrefixed(s, "widen[", widen)
	for _, root := range []string{"local(", "param(", "result", "static(", "heap(", "alias(", "offset("} {
		s = colorPrefixed(s, root, path)
	}
	return s
}

func replaceWord(s, word, colored string) string {
	return strings.ReplaceAll(s, word, colored)
}

// colorPrefixed colors every occurrence of prefix using c.
// It's intentionally simple: it colors just the prefix token, which is
// enough to make the root of a path or a widen node visually pop out of
// a long expression dump without a full re-parse of the printed form.
func colorPrefixed(s, prefix string, c func(a ...any) string) string {
	return strings.ReplaceAll(s, prefix, c(prefix))
}
