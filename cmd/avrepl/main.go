// Command avrepl is an interactive REPL over the abstract-value
// algebra: each line of input is parsed through internal/exprlang and
// built via the C7 smart constructors, then printed back in simplified
// form together with its interval. It mirrors the teacher's
// cmd/kanso-cli entry point (read a file/line, parse, print, report
// errors with color) but loops instead of exiting after one file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"avengine/internal/absval"
	"avengine/internal/diagnostics"
	"avengine/internal/exprlang"
)

const prompt = "av> "

func main() {
	debug := flag.Bool("debug", false, "enable debug assertions and approximation logging")
	maxSize := flag.Uint64("max-expression-size", absval.MaxExpressionSize, "override MaxExpressionSize for this session")
	maxDepth := flag.Int("max-refine-depth", absval.MaxRefineDepth, "override MaxRefineDepth for this session")
	flag.Parse()

	absval.MaxExpressionSize = *maxSize
	absval.MaxRefineDepth = *maxDepth

	if *debug {
		absval.DebugAssertions = true
		sink := diagnostics.NewSink(diagnostics.Debug)
		diagnostics.Wire(&absval.ApproxLog, sink)
	}

	env := absval.NewEnvironment()
	pathCondition := absval.True

	fmt.Println("avrepl - abstract value algebra REPL. Commands: :set <path>=<expr>  :cond <expr>  :reset  :quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == ":quit" || line == ":q":
			return
		case line == ":reset":
			env = absval.NewEnvironment()
			pathCondition = absval.True
			continue
		case strings.HasPrefix(line, ":cond "):
			expr := strings.TrimPrefix(line, ":cond ")
			v, err := evalAndReport(expr)
			if err != nil {
				continue
			}
			pathCondition = pathCondition.And(v)
			fmt.Println("path condition:", pathCondition.String())
			continue
		case strings.HasPrefix(line, ":set "):
			assignment := strings.TrimPrefix(line, ":set ")
			name, expr, ok := strings.Cut(assignment, "=")
			if !ok {
				color.Red("usage: :set <path>=<expr>")
				continue
			}
			node, err := exprlang.Parse(strings.TrimSpace(name))
			if err != nil {
				color.Red("invalid path name: %s", err)
				continue
			}
			ident, ok := node.(*exprlang.Ident)
			if !ok {
				color.Red("expected a bare identifier (p<N> or x<N>) as path name")
				continue
			}
			v, err := evalAndReport(strings.TrimSpace(expr))
			if err != nil {
				continue
			}
			env = env.Set(exprlang.PathFor(ident.Name), v)
			continue
		}

		v, err := evalAndReport(line)
		if err != nil {
			continue
		}
		refined := v.RefinePaths(env).RefineWith(pathCondition, 0)
		printResult(refined)
	}
}

func evalAndReport(source string) (*absval.AbstractValue, error) {
	v, err := exprlang.Eval(source)
	if err != nil {
		if pe, ok := err.(*exprlang.ParseError); ok {
			fmt.Print(exprlang.NewReporter(source).Format(pe))
		} else {
			color.Red("error: %s", err)
		}
		return nil, err
	}
	return v, nil
}

func printResult(v *absval.AbstractValue) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s %s\n", green("=>"), diagnostics.Pretty(v.String()))
	fmt.Printf("   interval: %s\n", diagnostics.Pretty(v.GetCachedInterval().String()))
}
