package cypher

import (
	"github.com/alecthomas/participle/v2"

	"github.com/ritamzico/graphcypher/internal/gqerr"
)

var queryParser = participle.MustBuild[Statement](
	participle.Lexer(tokenLexer),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse lexes and parses a query string into a Statement, per §6's "Query
// input: UTF-8 string." Failures are surfaced as ParseError with position,
// per §7.
func Parse(query string) (*Statement, error) {
	stmt, err := queryParser.ParseString("", query)
	if err != nil {
		if perr, ok := err.(participle.Error); ok {
			pos := perr.Position()
			return nil, gqerr.Parse(pos.Line, pos.Column, "%s", perr.Message())
		}
		return nil, gqerr.Parse(0, 0, "%s", err.Error())
	}
	return stmt, nil
}
