package exprlang

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer tokenizes the expression language the same way
// grammar.KansoLexer tokenizes Kanso source: a participle stateful
// lexer with one flat rule set, longest-match-first ordering, and
// whitespace elided by the consumer rather than the lexer itself.
var exprLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"Operator", `(<<|>>|&&|\|\||==|!=|<=|>=|[-+*/%&|^<>!~?:,()\[\]])`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
