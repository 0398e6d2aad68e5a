package exprlang

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats a ParseError with the same caret-style, colorized
// layout as the teacher's internal/errors.ErrorReporter, adapted to
// report expression-language parse errors instead of Kanso source
// errors (one line of input instead of a whole file, no suggestions or
// notes, since this language's errors never have any to offer).
type Reporter struct {
	source string
	lines   []string
}

func NewReporter(source string) *Reporter {
	return &Reporter{source: source, lines: strings.Split(source, "\n")}
}

func (r *Reporter) Format(err *ParseError) string {
	var b strings.Builder
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(&b, "%s: %s\n", red("error"), err.Message)
	fmt.Fprintf(&b, "  %s %d:%d\n", dim("-->"), err.Pos.Line, err.Pos.Column)
	fmt.Fprintf(&b, "  %s\n", dim("|"))

	if err.Pos.Line >= 1 && err.Pos.Line <= len(r.lines) {
		line := r.lines[err.Pos.Line-1]
		fmt.Fprintf(&b, "%s %s %s\n", bold(fmt.Sprintf("%2d", err.Pos.Line)), dim("|"), line)
		caret := strings.Repeat(" ", max(0, err.Pos.Column-1)) + "^"
		fmt.Fprintf(&b, "   %s %s\n", dim("|"), red(caret))
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
