// Package cypher lexes and parses the query-input grammar subset of §6:
// MATCH/OPTIONAL MATCH/WHERE/CREATE/MERGE/SET/DELETE/RETURN/DISTINCT/
// ORDER BY/SKIP/LIMIT/WITH/UNWIND/CALL…YIELD/CREATE|DROP INDEX, plus the
// node/edge pattern syntax and the expression grammar §4.5's expression
// tree needs to compile.
//
// Grounded on the participle/v2 struct-tag grammar style the teacher uses
// in internal/dsl/grammar.go, with the clause/expression shape of the
// openCypher AST retrieved alongside the pack (cyphergrammar in
// other_examples/), trimmed to exactly the clauses §6 names — no list
// comprehensions, pattern comprehensions, CASE, or EXISTS subqueries,
// since the spec's Non-goals explicitly cap conformance at "the grammar
// subset §6 enumerates."
package cypher

import "github.com/alecthomas/participle/v2/lexer"

// Statement is the parse root: either a normal multi-clause query or a
// standalone index operation (§6 "Index operations").
type Statement struct {
	Pos         lexer.Position
	CreateIndex *CreateIndexStmt `parser:"(  @@"`
	DropIndex   *DropIndexStmt   `parser:" | @@"`
	Query       *Query           `parser:" | @@ )"`
}

// CreateIndexStmt is CREATE INDEX ON :Label(prop).
type CreateIndexStmt struct {
	Pos   lexer.Position
	Label string `parser:"\"CREATE\" \"INDEX\" \"ON\" Colon @Ident"`
	Prop  string `parser:"LParen @Ident RParen"`
}

// DropIndexStmt is DROP INDEX ON :Label(prop).
type DropIndexStmt struct {
	Pos   lexer.Position
	Label string `parser:"\"DROP\" \"INDEX\" \"ON\" Colon @Ident"`
	Prop  string `parser:"LParen @Ident RParen"`
}

// Query is a sequence of clauses (§6's non-index grammar).
type Query struct {
	Pos     lexer.Position
	Clauses []*Clause `parser:"@@+"`
}

// Clause dispatches over every accepted clause kind.
type Clause struct {
	Pos      lexer.Position
	Match    *MatchClause    `parser:"(  @@"`
	Unwind   *UnwindClause   `parser:" | @@"`
	Call     *CallClause     `parser:" | @@"`
	Create   *CreateClause   `parser:" | @@"`
	Merge    *MergeClause    `parser:" | @@"`
	SetC     *SetClause      `parser:" | @@"`
	Delete   *DeleteClause   `parser:" | @@"`
	With     *WithClause     `parser:" | @@"`
	Return   *ReturnClause   `parser:" | @@ )"`
}

// MatchClause is OPTIONAL? MATCH pattern (WHERE expr)?.
type MatchClause struct {
	Pos      lexer.Position
	Optional bool     `parser:"@\"OPTIONAL\"?"`
	Pattern  *Pattern `parser:"\"MATCH\" @@"`
	Where    *Where   `parser:"@@?"`
}

// UnwindClause is UNWIND expr AS alias.
type UnwindClause struct {
	Pos   lexer.Position
	Expr  *Expression `parser:"\"UNWIND\" @@"`
	Alias string      `parser:"\"AS\" @Ident"`
}

// CallClause is CALL name(args) (YIELD items)?.
type CallClause struct {
	Pos       lexer.Position
	Procedure string        `parser:"\"CALL\" @Ident ( @Dot @Ident )*"`
	Args      []*Expression `parser:"LParen ( @@ ( Comma @@ )* )? RParen"`
	Yield     []string      `parser:"( \"YIELD\" @Ident ( Comma @Ident )* )?"`
}

// CreateClause is CREATE pattern.
type CreateClause struct {
	Pos     lexer.Position
	Pattern *Pattern `parser:"\"CREATE\" @@"`
}

// MergeClause is MERGE pattern-part (ON MATCH|CREATE SET ...)*.
type MergeClause struct {
	Pos     lexer.Position
	Pattern *PatternPart   `parser:"\"MERGE\" @@"`
	Actions []*MergeAction `parser:"@@*"`
}

// MergeAction is ON MATCH SET ... or ON CREATE SET ....
type MergeAction struct {
	Pos      lexer.Position
	OnMatch  bool       `parser:"\"ON\" ( @\"MATCH\""`
	OnCreate bool       `parser:"      | @\"CREATE\" )"`
	Set      *SetClause `parser:"@@"`
}

// DeleteClause is DETACH? DELETE expr (, expr)*.
type DeleteClause struct {
	Pos    lexer.Position
	Detach bool          `parser:"@\"DETACH\"?"`
	Exprs  []*Expression `parser:"\"DELETE\" @@ ( Comma @@ )*"`
}

// SetClause is SET item (, item)*.
type SetClause struct {
	Pos   lexer.Position
	Items []*SetItem `parser:"\"SET\" @@ ( Comma @@ )*"`
}

// SetItem is one of: var.prop = expr, var = expr, or var:Label:Label.
type SetItem struct {
	Pos      lexer.Position
	Variable string      `parser:"@Ident"`
	Property string      `parser:"( ( Dot @Ident"`
	PropExpr *Expression `parser:"    Eq @@ )"`
	VarExpr  *Expression `parser:"| ( Eq @@ )"`
	Labels   *NodeLabels `parser:"| @@ )"`
}

// WithClause is WITH projection-body (WHERE expr)?.
type WithClause struct {
	Pos   lexer.Position
	Body  *ProjectionBody `parser:"\"WITH\" @@"`
	Where *Where          `parser:"@@?"`
}

// ReturnClause is RETURN projection-body.
type ReturnClause struct {
	Pos  lexer.Position
	Body *ProjectionBody `parser:"\"RETURN\" @@"`
}

// ProjectionBody is the shared shape of RETURN/WITH: DISTINCT? items
// ORDER BY? SKIP? LIMIT?.
type ProjectionBody struct {
	Pos      lexer.Position
	Distinct bool              `parser:"@\"DISTINCT\"?"`
	Star     bool              `parser:"( @Star"`
	Items    []*ProjectionItem `parser:"| @@ ( Comma @@ )* )"`
	Order    *OrderBy          `parser:"@@?"`
	Skip     *Expression       `parser:"( \"SKIP\" @@ )?"`
	Limit    *Expression       `parser:"( \"LIMIT\" @@ )?"`
}

// ProjectionItem is expr (AS alias)?.
type ProjectionItem struct {
	Pos   lexer.Position
	Expr  *Expression `parser:"@@"`
	Alias string      `parser:"( \"AS\" @Ident )?"`
}

// OrderBy is ORDER BY item (, item)*.
type OrderBy struct {
	Pos   lexer.Position
	Items []*OrderItem `parser:"\"ORDER\" \"BY\" @@ ( Comma @@ )*"`
}

// OrderItem is expr (ASC|DESC)?.
type OrderItem struct {
	Pos  lexer.Position
	Expr *Expression `parser:"@@"`
	Desc bool        `parser:"( @\"DESC\" | \"ASC\" )?"`
}

// Where is WHERE expr.
type Where struct {
	Pos  lexer.Position
	Expr *Expression `parser:"\"WHERE\" @@"`
}

// Pattern is a comma-separated list of pattern parts.
type Pattern struct {
	Pos   lexer.Position
	Parts []*PatternPart `parser:"@@ ( Comma @@ )*"`
}

// PatternPart is an optional variable bound to a whole path, followed by
// a node and its relationship chain.
type PatternPart struct {
	Pos     lexer.Position
	Var     string          `parser:"( @Ident Eq )?"`
	Node    *NodePattern    `parser:"@@"`
	Chain   []*ChainStep    `parser:"@@*"`
}

// ChainStep is one relationship-then-node hop.
type ChainStep struct {
	Pos  lexer.Position
	Rel  *RelationshipPattern `parser:"@@"`
	Node *NodePattern         `parser:"@@"`
}

// NodePattern is (alias? :Label* {props}?).
type NodePattern struct {
	Pos        lexer.Position
	Variable   string      `parser:"LParen @Ident?"`
	Labels     *NodeLabels `parser:"@@?"`
	Properties *MapLiteral `parser:"@@? RParen"`
}

// NodeLabels is one or more :Label.
type NodeLabels struct {
	Pos    lexer.Position
	Labels []string `parser:"( Colon @Ident )+"`
}

// RelationshipPattern is -[detail]-> / <-[detail]- / -[detail]-.
type RelationshipPattern struct {
	Pos        lexer.Position
	LeftArrow  bool                `parser:"@Less? Minus"`
	Detail     *RelationshipDetail `parser:"( LBracket @@ RBracket )?"`
	RightArrow bool                `parser:"Minus @Greater?"`
}

// RelationshipDetail is alias? :TYPE(|TYPE)* range? {props}?.
type RelationshipDetail struct {
	Pos        lexer.Position
	Variable   string        `parser:"@Ident?"`
	Types      []string      `parser:"( Colon @Ident ( Pipe Colon? @Ident )* )?"`
	Range      *RangeLiteral `parser:"@@?"`
	Properties *MapLiteral   `parser:"@@?"`
}

// RangeLiteral is *min..max, *n, or bare * (unbounded variable length).
type RangeLiteral struct {
	Pos   lexer.Position
	Star  string `parser:"@Star"`
	Min   *int   `parser:"@Int?"`
	Range bool   `parser:"@Range?"`
	Max   *int   `parser:"@Int?"`
}

// MapLiteral is {key: value, ...}.
type MapLiteral struct {
	Pos   lexer.Position
	Pairs []*MapPair `parser:"LBrace ( @@ ( Comma @@ )* )? RBrace"`
}

// MapPair is key: value.
type MapPair struct {
	Pos   lexer.Position
	Key   string      `parser:"@Ident Colon"`
	Value *Expression `parser:"@@"`
}

// ----------------------------------------------------------------------
// Expressions: OR > XOR > AND > NOT > comparison > +- > */% > unary >
// postfix > atom, matching §4.5's binary/unary operator set.
// ----------------------------------------------------------------------

type Expression struct {
	Pos   lexer.Position
	Left  *XorExpr  `parser:"@@"`
	Right []*OrTerm `parser:"@@*"`
}

type OrTerm struct {
	Pos  lexer.Position
	Expr *XorExpr `parser:"\"OR\" @@"`
}

type XorExpr struct {
	Pos   lexer.Position
	Left  *AndExpr   `parser:"@@"`
	Right []*XorTerm `parser:"@@*"`
}

type XorTerm struct {
	Pos  lexer.Position
	Expr *AndExpr `parser:"\"XOR\" @@"`
}

type AndExpr struct {
	Pos   lexer.Position
	Left  *NotExpr   `parser:"@@"`
	Right []*AndTerm `parser:"@@*"`
}

type AndTerm struct {
	Pos  lexer.Position
	Expr *NotExpr `parser:"\"AND\" @@"`
}

type NotExpr struct {
	Pos  lexer.Position
	Not  bool            `parser:"@\"NOT\"?"`
	Expr *ComparisonExpr `parser:"@@"`
}

type ComparisonExpr struct {
	Pos   lexer.Position
	Left  *AddSubExpr       `parser:"@@"`
	Right []*ComparisonTerm `parser:"@@*"`
}

type ComparisonTerm struct {
	Pos  lexer.Position
	Op   string      `parser:"@( NotEqual | LessEqual | GreaterEqual | Eq | Less | Greater )"`
	Expr *AddSubExpr `parser:"@@"`
}

type AddSubExpr struct {
	Pos   lexer.Position
	Left  *MultDivExpr  `parser:"@@"`
	Right []*AddSubTerm `parser:"@@*"`
}

type AddSubTerm struct {
	Pos  lexer.Position
	Op   string       `parser:"@( Plus | Minus )"`
	Expr *MultDivExpr `parser:"@@"`
}

type MultDivExpr struct {
	Pos   lexer.Position
	Left  *UnaryExpr     `parser:"@@"`
	Right []*MultDivTerm `parser:"@@*"`
}

type MultDivTerm struct {
	Pos  lexer.Position
	Op   string     `parser:"@( Star | Slash | Percent )"`
	Expr *UnaryExpr `parser:"@@"`
}

type UnaryExpr struct {
	Pos  lexer.Position
	Op   string       `parser:"@( Plus | Minus )?"`
	Expr *PostfixExpr `parser:"@@"`
}

type PostfixExpr struct {
	Pos      lexer.Position
	Atom     *Atom            `parser:"@@"`
	Suffixes []*PostfixSuffix `parser:"@@*"`
}

type PostfixSuffix struct {
	Pos        lexer.Position
	Property   string            `parser:"(  Dot @Ident"`
	IsNull     *IsNullSuffix     `parser:" | @@"`
	In         *InSuffix         `parser:" | @@"`
	StringPred *StringPredSuffix `parser:" | @@ )"`
}

type IsNullSuffix struct {
	Pos  lexer.Position
	Not  bool `parser:"\"IS\" @\"NOT\"?"`
	Null bool `parser:"@\"NULL\""`
}

type InSuffix struct {
	Pos  lexer.Position
	Expr *AddSubExpr `parser:"\"IN\" @@"`
}

type StringPredSuffix struct {
	Pos        lexer.Position
	StartsWith *AddSubExpr `parser:"(  \"STARTS\" \"WITH\" @@"`
	EndsWith   *AddSubExpr `parser:" | \"ENDS\" \"WITH\" @@"`
	Contains   *AddSubExpr `parser:" | \"CONTAINS\" @@ )"`
}

// Atom is the base of the expression grammar: literals, parameters,
// parenthesized sub-expressions, function calls, lists, and bare
// identifiers (variable or start of a property chain).
type Atom struct {
	Pos           lexer.Position
	Parameter     *Parameter    `parser:"(  @@"`
	CountAll      bool          `parser:" | @( \"COUNT\" LParen Star RParen )"`
	Parenthesized *Expression   `parser:" | LParen @@ RParen"`
	FunctionCall  *FunctionCall `parser:" | @@"`
	List          *ListLiteral  `parser:" | @@"`
	Map           *MapLiteral   `parser:" | @@"`
	Literal       *Literal      `parser:" | @@"`
	Variable      string        `parser:" | @Ident )"`
}

// Literal is a constant value.
type Literal struct {
	Pos    lexer.Position
	Null   bool     `parser:"(  @\"NULL\""`
	True   bool     `parser:" | @\"TRUE\""`
	False  bool     `parser:" | @\"FALSE\""`
	Float  *float64 `parser:" | @Float"`
	Int    *int64   `parser:" | @Int"`
	String *string  `parser:" | @String )"`
}

// ListLiteral is [expr, expr, ...], used on the right of IN.
type ListLiteral struct {
	Pos   lexer.Position
	Items []*Expression `parser:"LBracket ( @@ ( Comma @@ )* )? RBracket"`
}

// Parameter is $name.
type Parameter struct {
	Pos  lexer.Position
	Name string `parser:"Dollar @Ident"`
}

// FunctionCall is name(DISTINCT? args). Lookahead on LParen keeps this
// from swallowing a bare property-access chain rooted at an identifier.
type FunctionCall struct {
	Pos      lexer.Position
	Name     string        `parser:"@Ident (?= LParen)"`
	Distinct bool          `parser:"LParen @\"DISTINCT\"?"`
	Args     []*Expression `parser:"( @@ ( Comma @@ )* )? RParen"`
}
