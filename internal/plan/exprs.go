package plan

import (
	"math"
	"strings"

	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/funcs"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/value"
)

// compileExpr walks the precedence chain of internal/cypher/ast.go's
// expression grammar (OR > XOR > AND > NOT > comparison > +- > */% >
// unary > postfix > atom, §4.5) into an *expr.Expr, resolving bare
// identifiers against sc.
func (c *Compiler) compileExpr(sc *scope, e *cypher.Expression) (*expr.Expr, error) {
	left, err := c.compileXor(sc, e.Left)
	if err != nil {
		return nil, err
	}
	for _, term := range e.Right {
		right, err := c.compileXor(sc, term.Expr)
		if err != nil {
			return nil, err
		}
		left = expr.NewScalarOp("or", orOp, left, right)
	}
	return left, nil
}

func (c *Compiler) compileXor(sc *scope, e *cypher.XorExpr) (*expr.Expr, error) {
	left, err := c.compileAnd(sc, e.Left)
	if err != nil {
		return nil, err
	}
	for _, term := range e.Right {
		right, err := c.compileAnd(sc, term.Expr)
		if err != nil {
			return nil, err
		}
		left = expr.NewScalarOp("xor", xorOp, left, right)
	}
	return left, nil
}

func (c *Compiler) compileAnd(sc *scope, e *cypher.AndExpr) (*expr.Expr, error) {
	left, err := c.compileNot(sc, e.Left)
	if err != nil {
		return nil, err
	}
	for _, term := range e.Right {
		right, err := c.compileNot(sc, term.Expr)
		if err != nil {
			return nil, err
		}
		left = expr.NewScalarOp("and", andOp, left, right)
	}
	return left, nil
}

func (c *Compiler) compileNot(sc *scope, e *cypher.NotExpr) (*expr.Expr, error) {
	inner, err := c.compileComparison(sc, e.Expr)
	if err != nil {
		return nil, err
	}
	if e.Not {
		return expr.NewScalarOp("not", notOp, inner), nil
	}
	return inner, nil
}

func (c *Compiler) compileComparison(sc *scope, e *cypher.ComparisonExpr) (*expr.Expr, error) {
	left, err := c.compileAddSub(sc, e.Left)
	if err != nil {
		return nil, err
	}
	for _, term := range e.Right {
		right, err := c.compileAddSub(sc, term.Expr)
		if err != nil {
			return nil, err
		}
		op := term.Op
		left = expr.NewScalarOp(op, comparisonOp(op), left, right)
	}
	return left, nil
}

func (c *Compiler) compileAddSub(sc *scope, e *cypher.AddSubExpr) (*expr.Expr, error) {
	left, err := c.compileMultDiv(sc, e.Left)
	if err != nil {
		return nil, err
	}
	for _, term := range e.Right {
		right, err := c.compileMultDiv(sc, term.Expr)
		if err != nil {
			return nil, err
		}
		name := "add"
		if term.Op == "-" {
			name = "sub"
		}
		fn, ok := c.funcs.Lookup(name)
		if !ok {
			return nil, gqerr.Internal("arithmetic function %q missing from registry", name)
		}
		left = expr.NewScalarOp(name, fn, left, right)
	}
	return left, nil
}

func (c *Compiler) compileMultDiv(sc *scope, e *cypher.MultDivExpr) (*expr.Expr, error) {
	left, err := c.compileUnary(sc, e.Left)
	if err != nil {
		return nil, err
	}
	for _, term := range e.Right {
		right, err := c.compileUnary(sc, term.Expr)
		if err != nil {
			return nil, err
		}
		switch term.Op {
		case "%":
			left = expr.NewScalarOp("mod", modOp, left, right)
		default:
			name := "mul"
			if term.Op == "/" {
				name = "div"
			}
			fn, ok := c.funcs.Lookup(name)
			if !ok {
				return nil, gqerr.Internal("arithmetic function %q missing from registry", name)
			}
			left = expr.NewScalarOp(name, fn, left, right)
		}
	}
	return left, nil
}

func (c *Compiler) compileUnary(sc *scope, e *cypher.UnaryExpr) (*expr.Expr, error) {
	inner, err := c.compilePostfix(sc, e.Expr)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		return expr.NewScalarOp("neg", negOp, inner), nil
	case "+", "":
		return inner, nil
	default:
		return nil, gqerr.Internal("unknown unary operator %q", e.Op)
	}
}

func (c *Compiler) compilePostfix(sc *scope, e *cypher.PostfixExpr) (*expr.Expr, error) {
	cur, err := c.compileAtom(sc, e.Atom)
	if err != nil {
		return nil, err
	}
	for _, suffix := range e.Suffixes {
		cur, err = c.compileSuffix(sc, cur, suffix)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (c *Compiler) compileSuffix(sc *scope, cur *expr.Expr, s *cypher.PostfixSuffix) (*expr.Expr, error) {
	switch {
	case s.Property != "":
		if cur.Kind != expr.KindVariadic || cur.HasProp {
			return nil, gqerr.Validation("UnsupportedExpression", "property access is only supported directly on a bound variable")
		}
		key, ok := c.schema.LookupProp(s.Property)
		if !ok {
			return expr.NewConst(value.NewNull()), nil
		}
		return expr.NewVariadic(cur.Slot, true, key, s.Property), nil
	case s.IsNull != nil:
		name := "isnull"
		if s.IsNull.Not {
			name = "isnotnull"
		}
		fn, ok := c.funcs.Lookup(name)
		if !ok {
			return nil, gqerr.Internal("predicate function %q missing from registry", name)
		}
		return expr.NewScalarOp(name, fn, cur), nil
	case s.In != nil:
		return c.compileIn(sc, cur, s.In)
	case s.StringPred != nil:
		return c.compileStringPred(sc, cur, s.StringPred)
	default:
		return nil, gqerr.Internal("postfix suffix with no recognized arm")
	}
}

func (c *Compiler) compileIn(sc *scope, target *expr.Expr, in *cypher.InSuffix) (*expr.Expr, error) {
	list, ok := asListLiteral(in.Expr)
	if !ok {
		return nil, gqerr.Validation("UnsupportedExpression", "IN requires a list literal on its right-hand side")
	}
	items := make([]*expr.Expr, 0, len(list.Items))
	for _, it := range list.Items {
		ce, err := c.compileExpr(sc, it)
		if err != nil {
			return nil, err
		}
		items = append(items, ce)
	}
	args := append([]*expr.Expr{target}, items...)
	return expr.NewScalarOp("in", inOp, args...), nil
}

// asListLiteral unwraps an AddSubExpr down to its Atom, reporting a
// ListLiteral only when every level in between is a bare pass-through (no
// sibling +-/*//%/unary/postfix terms) — the only shape a runtime list can
// take, since value.Value has no list Kind (DESIGN.md's Unwind note).
func asListLiteral(e *cypher.AddSubExpr) (*cypher.ListLiteral, bool) {
	if len(e.Right) != 0 || len(e.Left.Right) != 0 {
		return nil, false
	}
	u := e.Left.Left
	if u.Op != "" || len(u.Expr.Suffixes) != 0 {
		return nil, false
	}
	return u.Expr.Atom.List, u.Expr.Atom.List != nil
}

func (c *Compiler) compileStringPred(sc *scope, target *expr.Expr, s *cypher.StringPredSuffix) (*expr.Expr, error) {
	var kind string
	var rhs *cypher.AddSubExpr
	switch {
	case s.StartsWith != nil:
		kind, rhs = "startswith", s.StartsWith
	case s.EndsWith != nil:
		kind, rhs = "endswith", s.EndsWith
	case s.Contains != nil:
		kind, rhs = "contains", s.Contains
	default:
		return nil, gqerr.Internal("string predicate suffix with no recognized arm")
	}
	right, err := c.compileAddSub(sc, rhs)
	if err != nil {
		return nil, err
	}
	return expr.NewScalarOp(kind, stringPredOp(kind), target, right), nil
}

func (c *Compiler) compileAtom(sc *scope, a *cypher.Atom) (*expr.Expr, error) {
	switch {
	case a.Parameter != nil:
		return nil, gqerr.Validation("UnsupportedExpression", "query parameters ($%s) are not supported", a.Parameter.Name)
	case a.CountAll:
		ctor, ok := c.funcs.LookupAggregate("count")
		if !ok {
			return nil, gqerr.Internal("count aggregate missing from registry")
		}
		return expr.NewAggregateOp("count", ctor, false), nil
	case a.Parenthesized != nil:
		return c.compileExpr(sc, a.Parenthesized)
	case a.FunctionCall != nil:
		return c.compileFunctionCall(sc, a.FunctionCall)
	case a.List != nil:
		return nil, gqerr.Validation("UnsupportedExpression", "list literals are only supported as UNWIND's source or IN's right-hand operand")
	case a.Map != nil:
		return nil, gqerr.Validation("UnsupportedExpression", "map literals are only supported in node/edge/CREATE property position")
	case a.Literal != nil:
		return expr.NewConst(compileLiteral(a.Literal)), nil
	default:
		slot, ok := sc.lookup(a.Variable)
		if !ok {
			return nil, gqerr.Validation("UndefinedAlias", "variable %q is not bound in this scope", a.Variable)
		}
		return expr.NewVariadic(slot, false, 0, ""), nil
	}
}

func (c *Compiler) compileFunctionCall(sc *scope, fc *cypher.FunctionCall) (*expr.Expr, error) {
	name := strings.ToLower(fc.Name)
	args := make([]*expr.Expr, 0, len(fc.Args))
	for _, a := range fc.Args {
		ce, err := c.compileExpr(sc, a)
		if err != nil {
			return nil, err
		}
		args = append(args, ce)
	}
	if ctor, ok := c.funcs.LookupAggregate(name); ok {
		return expr.NewAggregateOp(name, ctor, fc.Distinct, args...), nil
	}
	if fn, ok := c.funcs.Lookup(name); ok {
		if fc.Distinct {
			return nil, gqerr.Validation("UnsupportedExpression", "DISTINCT is only valid on an aggregate function")
		}
		return expr.NewScalarOp(name, fn, args...), nil
	}
	return nil, gqerr.Validation("UnknownFunction", "unknown function %q", fc.Name)
}

func compileLiteral(l *cypher.Literal) value.Value {
	switch {
	case l.Null:
		return value.NewNull()
	case l.True:
		return value.NewBool(true)
	case l.False:
		return value.NewBool(false)
	case l.Float != nil:
		return value.NewFloat(*l.Float)
	case l.Int != nil:
		return value.NewInt(*l.Int)
	case l.String != nil:
		return value.NewString(*l.String)
	default:
		return value.NewNull()
	}
}

// -- inline operators for core grammar symbols (never registered in
// funcs.Registry — these are operators, not named functions, the same
// distinction the grammar itself draws between ComparisonTerm/AddSubTerm
// and FunctionCall). --

func isNumericKind(v value.Value) bool { return v.Kind() == value.Int || v.Kind() == value.Float }

// andOp implements Cypher's three-valued AND: false dominates regardless
// of the other operand's nullness; otherwise NULL dominates; only when
// both operands are non-null does truthy/truthy apply.
func andOp(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if a.Kind() == value.Bool && !a.Bool() {
		return value.NewBool(false), nil
	}
	if b.Kind() == value.Bool && !b.Bool() {
		return value.NewBool(false), nil
	}
	if a.IsNull() || b.IsNull() {
		return value.NewNull(), nil
	}
	return value.NewBool(a.Truthy() && b.Truthy()), nil
}

// orOp implements Cypher's three-valued OR: true dominates; otherwise
// NULL dominates; otherwise truthy/truthy.
func orOp(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if a.Kind() == value.Bool && a.Bool() {
		return value.NewBool(true), nil
	}
	if b.Kind() == value.Bool && b.Bool() {
		return value.NewBool(true), nil
	}
	if a.IsNull() || b.IsNull() {
		return value.NewNull(), nil
	}
	return value.NewBool(a.Truthy() || b.Truthy()), nil
}

// xorOp: Cypher doesn't define a formal three-valued XOR table the way it
// does AND/OR, so this simplifies to a Truthy/Truthy XOR with no NULL
// short-circuit beyond what Truthy() already gives NULL (falsy).
func xorOp(args []value.Value) (value.Value, error) {
	return value.NewBool(args[0].Truthy() != args[1].Truthy()), nil
}

func notOp(args []value.Value) (value.Value, error) {
	v := args[0]
	if v.IsNull() {
		return value.NewNull(), nil
	}
	return value.NewBool(!v.Truthy()), nil
}

// comparisonOp builds the closure for one ComparisonTerm.Op token.
// Incomparable (either operand NULL, or mismatched non-numeric kinds)
// evaluates to NULL, matching Cypher's "comparisons against NULL are
// NULL, not false" rule.
func comparisonOp(op string) funcs.Scalar {
	return func(args []value.Value) (value.Value, error) {
		cmp := value.Compare(args[0], args[1])
		if cmp == value.Incomparable {
			return value.NewNull(), nil
		}
		switch op {
		case "=":
			return value.NewBool(cmp == value.Equal), nil
		case "<>":
			return value.NewBool(cmp != value.Equal), nil
		case "<":
			return value.NewBool(cmp == value.Less), nil
		case "<=":
			return value.NewBool(cmp == value.Less || cmp == value.Equal), nil
		case ">":
			return value.NewBool(cmp == value.Greater), nil
		case ">=":
			return value.NewBool(cmp == value.Greater || cmp == value.Equal), nil
		default:
			return value.Value{}, gqerr.Internal("unknown comparison operator %q", op)
		}
	}
}

func modOp(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if a.IsNull() || b.IsNull() {
		return value.NewNull(), nil
	}
	if a.Kind() == value.Int && b.Kind() == value.Int {
		if b.Int() == 0 {
			return value.Value{}, gqerr.Type("DivideByZero", "modulo by zero")
		}
		return value.NewInt(a.Int() % b.Int()), nil
	}
	if isNumericKind(a) && isNumericKind(b) {
		return value.NewFloat(math.Mod(a.AsFloat64(), b.AsFloat64())), nil
	}
	return value.Value{}, gqerr.Type("BadArgumentType", "%% requires numeric operands")
}

func negOp(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.Int:
		return value.NewInt(-v.Int()), nil
	case value.Float:
		return value.NewFloat(-v.Float()), nil
	case value.Null:
		return value.NewNull(), nil
	default:
		return value.Value{}, gqerr.Type("BadArgumentType", "unary - requires a numeric operand")
	}
}

// inOp checks args[0] for membership in args[1:] under KeyEqual (§4.8's
// "two NULLs collapse" rule extended to IN's membership test). A NULL
// target, or a NULL list element when no element matches, yields NULL
// rather than false, per Cypher's three-valued IN.
func inOp(args []value.Value) (value.Value, error) {
	target := args[0]
	sawNull := target.IsNull()
	for _, item := range args[1:] {
		if item.IsNull() {
			sawNull = true
			continue
		}
		if value.KeyEqual(target, item) {
			return value.NewBool(true), nil
		}
	}
	if sawNull {
		return value.NewNull(), nil
	}
	return value.NewBool(false), nil
}

func stringPredOp(kind string) funcs.Scalar {
	return func(args []value.Value) (value.Value, error) {
		a, b := args[0], args[1]
		if a.IsNull() || b.IsNull() {
			return value.NewNull(), nil
		}
		if a.Kind() != value.String || b.Kind() != value.String {
			return value.Value{}, gqerr.Type("BadArgumentType", "%s requires string operands", kind)
		}
		switch kind {
		case "startswith":
			return value.NewBool(strings.HasPrefix(a.Str(), b.Str())), nil
		case "endswith":
			return value.NewBool(strings.HasSuffix(a.Str(), b.Str())), nil
		case "contains":
			return value.NewBool(strings.Contains(a.Str(), b.Str())), nil
		default:
			return value.Value{}, gqerr.Internal("unknown string predicate %q", kind)
		}
	}
}
