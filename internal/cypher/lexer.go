package cypher

import "github.com/alecthomas/participle/v2/lexer"

// tokenLexer is the simple regex lexer backing the parser, in the style of
// the teacher's internal/dsl/grammar.go dslLexer — one rule set, keywords
// matched case-insensitively, whitespace elided.
var tokenLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(OPTIONAL|MATCH|WHERE|CREATE|INDEX|ON|DROP|MERGE|SET|DETACH|DELETE|WITH|UNWIND|AS|CALL|YIELD|RETURN|DISTINCT|ORDER|BY|ASC|DESC|SKIP|LIMIT|AND|XOR|OR|NOT|NULL|TRUE|FALSE|IS|IN|STARTS|ENDS|CONTAINS|COUNT)\b`},
	{Name: "Float", Pattern: `\d+\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"|'([^'\\]|\\.)*'`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Range", Pattern: `\.\.`},
	{Name: "NotEqual", Pattern: `<>`},
	{Name: "LessEqual", Pattern: `<=`},
	{Name: "GreaterEqual", Pattern: `>=`},
	{Name: "Less", Pattern: `<`},
	{Name: "Greater", Pattern: `>`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Minus", Pattern: `-`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Percent", Pattern: `%`},
	{Name: "Pipe", Pattern: `\|`},
	{Name: "Dollar", Pattern: `\$`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Whitespace", Pattern: `\s+`},
})
