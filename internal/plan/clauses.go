package plan

import (
	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/ops"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// compileCreate compiles a CREATE clause's pattern into one ops.Create,
// reusing any alias already bound by an earlier clause as an existing
// endpoint rather than allocating a new node for it (§4.7's Create).
func (c *Compiler) compileCreate(sc *scope, pattern *cypher.Pattern, root ops.Operator) (ops.Operator, error) {
	nodes, edges, err := c.compileCreatePattern(sc, pattern)
	if err != nil {
		return nil, err
	}
	return &ops.Create{
		Store: c.store, Child: root, Nodes: nodes, Edges: edges,
		Resolver: c.resolver, Width: sc.width, Stats: c.stats,
	}, nil
}

func (c *Compiler) compileCreatePattern(sc *scope, pattern *cypher.Pattern) ([]ops.CreateNodeSpec, []ops.CreateEdgeSpec, error) {
	var nodes []ops.CreateNodeSpec
	var edges []ops.CreateEdgeSpec
	for _, part := range pattern.Parts {
		prevSlot, err := c.createNodeSpec(sc, part.Node, &nodes)
		if err != nil {
			return nil, nil, err
		}
		for _, step := range part.Chain {
			dstSlot, err := c.createNodeSpec(sc, step.Node, &nodes)
			if err != nil {
				return nil, nil, err
			}
			edge, err := c.createEdgeSpec(sc, step.Rel, prevSlot, dstSlot)
			if err != nil {
				return nil, nil, err
			}
			edges = append(edges, edge)
			prevSlot = dstSlot
		}
	}
	return nodes, edges, nil
}

// createNodeSpec resolves one CREATE node pattern to a scope slot,
// reusing an existing binding (e.g. `MATCH (a) CREATE (a)-[:KNOWS]->(b)`)
// rather than allocating a duplicate node for an already-bound alias.
func (c *Compiler) createNodeSpec(sc *scope, n *cypher.NodePattern, nodes *[]ops.CreateNodeSpec) (int, error) {
	alias := n.Variable
	if alias != "" {
		if slot, ok := sc.lookup(alias); ok {
			return slot, nil
		}
	}
	slot := sc.bind(alias)
	sc.setKind(alias, graphstore.NodeEntity)
	sc.markReturnable(alias)

	var labels []schema.LabelID
	if n.Labels != nil {
		for _, name := range n.Labels.Labels {
			labels = append(labels, c.schema.InternLabel(name))
		}
	}
	props, err := c.compilePropMap(sc, n.Properties)
	if err != nil {
		return 0, err
	}
	*nodes = append(*nodes, ops.CreateNodeSpec{Slot: slot, Labels: labels, Props: props})
	return slot, nil
}

func (c *Compiler) createEdgeSpec(sc *scope, rel *cypher.RelationshipPattern, srcSlot, dstSlot int) (ops.CreateEdgeSpec, error) {
	if rel.LeftArrow && !rel.RightArrow {
		srcSlot, dstSlot = dstSlot, srcSlot
	}
	var alias, typeName string
	var propsAST *cypher.MapLiteral
	if rel.Detail != nil {
		alias = rel.Detail.Variable
		if len(rel.Detail.Types) > 0 {
			typeName = rel.Detail.Types[0]
		}
		propsAST = rel.Detail.Properties
	}
	if typeName == "" {
		return ops.CreateEdgeSpec{}, gqerr.Validation("UnsupportedExpression", "CREATE requires exactly one relationship type")
	}
	typ := c.schema.InternType(typeName)
	props, err := c.compilePropMap(sc, propsAST)
	if err != nil {
		return ops.CreateEdgeSpec{}, err
	}
	spec := ops.CreateEdgeSpec{Type: typ, SrcSlot: srcSlot, DstSlot: dstSlot, Props: props}
	if alias != "" {
		spec.Slot = sc.bind(alias)
		spec.SlotBound = true
		sc.setKind(alias, graphstore.EdgeEntity)
		sc.markReturnable(alias)
	}
	return spec, nil
}

// compileSet compiles a SET clause (§4.7's Update: per-record property
// writes and SET n:Label label additions).
func (c *Compiler) compileSet(sc *scope, clause *cypher.SetClause, root ops.Operator) (ops.Operator, error) {
	var props []ops.SetPropertyItem
	var labels []ops.SetLabelItem
	for _, item := range clause.Items {
		slot, ok := sc.lookup(item.Variable)
		if !ok {
			return nil, gqerr.Validation("UndefinedAlias", "variable %q is not bound in this scope", item.Variable)
		}
		switch {
		case item.Property != "" && item.PropExpr != nil:
			kind, ok := sc.kindOf(item.Variable)
			if !ok {
				return nil, gqerr.Validation("UnsupportedExpression", "%q is not a node or relationship variable", item.Variable)
			}
			key := c.schema.InternProp(item.Property)
			valueExpr, err := c.compileExpr(sc, item.PropExpr)
			if err != nil {
				return nil, err
			}
			props = append(props, ops.SetPropertyItem{Slot: slot, Kind: kind, Key: key, Value: valueExpr})
		case item.Labels != nil:
			var ids []schema.LabelID
			for _, name := range item.Labels.Labels {
				ids = append(ids, c.schema.InternLabel(name))
			}
			labels = append(labels, ops.SetLabelItem{Slot: slot, Labels: ids})
		default:
			return nil, gqerr.Validation("UnsupportedExpression", "SET var = expr (whole-entity replacement) is not supported")
		}
	}
	return &ops.Update{
		Store: c.store, Child: root, Properties: props, Labels: labels, Resolver: c.resolver, Stats: c.stats,
	}, nil
}

// compileDelete compiles a DELETE/DETACH DELETE clause.
func (c *Compiler) compileDelete(sc *scope, clause *cypher.DeleteClause, root ops.Operator) (ops.Operator, error) {
	items := make([]ops.DeleteItem, 0, len(clause.Exprs))
	for _, e := range clause.Exprs {
		ce, err := c.compileExpr(sc, e)
		if err != nil {
			return nil, err
		}
		items = append(items, ops.DeleteItem{Expr: ce})
	}
	return &ops.Delete{Store: c.store, Child: root, Items: items, Detach: clause.Detach, Resolver: c.resolver, Stats: c.stats}, nil
}

// compileUnwind compiles an UNWIND clause. Only list-literal sources are
// supported (see DESIGN.md's Unwind note: value.Value has no list Kind).
func (c *Compiler) compileUnwind(sc *scope, clause *cypher.UnwindClause, root ops.Operator) (ops.Operator, error) {
	list, ok := asExpressionListLiteral(clause.Expr)
	if !ok {
		return nil, gqerr.Validation("UnsupportedExpression", "UNWIND only supports a list literal source")
	}
	items := make([]*expr.Expr, 0, len(list.Items))
	for _, it := range list.Items {
		ce, err := c.compileExpr(sc, it)
		if err != nil {
			return nil, err
		}
		items = append(items, ce)
	}
	slot := sc.bind(clause.Alias)
	sc.markReturnable(clause.Alias)
	return &ops.Unwind{Child: root, Items: items, Slot: slot, Resolver: c.resolver, Width: sc.width}, nil
}

// asExpressionListLiteral mirrors asListLiteral but starting from the top
// of the expression grammar (UNWIND's source is a full Expression, not
// bounded to AddSubExpr the way IN's right-hand side is).
func asExpressionListLiteral(e *cypher.Expression) (*cypher.ListLiteral, bool) {
	if len(e.Right) != 0 || len(e.Left.Right) != 0 || len(e.Left.Left.Right) != 0 {
		return nil, false
	}
	n := e.Left.Left.Left
	if n.Not {
		return nil, false
	}
	return asListLiteral(n.Expr)
}

// bareVariable reports the identifier name when e is nothing but a bound
// variable reference (no operators, no suffixes) — used to default a
// RETURN/WITH item's column name to the variable it echoes, and to carry
// a node/edge's EntityKind through a WITH boundary.
func bareVariable(e *cypher.Expression) (string, bool) {
	if len(e.Right) != 0 || len(e.Left.Right) != 0 || len(e.Left.Left.Right) != 0 {
		return "", false
	}
	n := e.Left.Left.Left
	if n.Not || len(n.Expr.Right) != 0 || len(n.Expr.Left.Right) != 0 {
		return "", false
	}
	u := n.Expr.Left.Left
	if u.Op != "" || len(u.Expr.Suffixes) != 0 {
		return "", false
	}
	if u.Expr.Atom.Variable == "" {
		return "", false
	}
	return u.Expr.Atom.Variable, true
}

// defaultProjectionName derives a RETURN/WITH item's implicit column
// name (no AS given) the way Cypher does for the two shapes common
// enough to special-case: a bare variable, or a single property access
// on one ("p" / "p.name"). Anything more complex — a function call, an
// arithmetic expression — has no well-defined literal-source rendering
// in this compiler and must carry an explicit AS alias.
func defaultProjectionName(e *cypher.Expression) (string, bool) {
	if v, ok := bareVariable(e); ok {
		return v, true
	}
	if v, prop, ok := bareVariableProperty(e); ok {
		return v + "." + prop, true
	}
	return "", false
}

func bareVariableProperty(e *cypher.Expression) (string, string, bool) {
	if len(e.Right) != 0 || len(e.Left.Right) != 0 || len(e.Left.Left.Right) != 0 {
		return "", "", false
	}
	n := e.Left.Left.Left
	if n.Not || len(n.Expr.Right) != 0 || len(n.Expr.Left.Right) != 0 {
		return "", "", false
	}
	u := n.Expr.Left.Left
	if u.Op != "" {
		return "", "", false
	}
	p := u.Expr
	if p.Atom.Variable == "" || len(p.Suffixes) != 1 || p.Suffixes[0].Property == "" {
		return "", "", false
	}
	return p.Atom.Variable, p.Suffixes[0].Property, true
}

// compileOrderExpr compiles one ORDER BY item. An ORDER BY expression
// can repeat a RETURN/WITH item verbatim (by variable or var.prop
// shape) or name one of its AS aliases — both resolved here by
// matching the item's own implicit/explicit name rather than
// re-resolving variables that fell out of scope at the projection
// boundary. Anything else must refer to a name the projection actually
// carried forward into next.
func (c *Compiler) compileOrderExpr(items []projItem, next *scope, e *cypher.Expression) (*expr.Expr, error) {
	if name, ok := bareVariable(e); ok {
		if slot, ok := indexOfProjItem(items, name); ok {
			return expr.NewVariadic(slot, false, 0, ""), nil
		}
	}
	if name, ok := defaultProjectionName(e); ok {
		if slot, ok := indexOfProjItem(items, name); ok {
			return expr.NewVariadic(slot, false, 0, ""), nil
		}
	}
	return c.compileExpr(next, e)
}

func indexOfProjItem(items []projItem, name string) (int, bool) {
	for i, it := range items {
		if it.name == name {
			return i, true
		}
	}
	return 0, false
}

// compileCall compiles a CALL proc(args) (YIELD names)? clause against
// the procedure registry.
func (c *Compiler) compileCall(sc *scope, clause *cypher.CallClause, root ops.Operator) (ops.Operator, error) {
	proc, ok := c.procs.Lookup(clause.Procedure)
	if !ok {
		return nil, gqerr.Validation("UnknownFunction", "unknown procedure %q", clause.Procedure)
	}
	args := make([]*expr.Expr, 0, len(clause.Args))
	for _, a := range clause.Args {
		ce, err := c.compileExpr(sc, a)
		if err != nil {
			return nil, err
		}
		args = append(args, ce)
	}

	want := clause.Yield
	wantAll := len(want) == 0

	outputSlots := make([]int, len(proc.Outputs))
	for i, out := range proc.Outputs {
		yielded := wantAll
		if !yielded {
			for _, name := range want {
				if name == out.Name {
					yielded = true
					break
				}
			}
		}
		if !yielded {
			outputSlots[i] = -1
			continue
		}
		slot := sc.bind(out.Name)
		sc.markReturnable(out.Name)
		outputSlots[i] = slot
	}

	return &ops.ProcedureCall{
		Child: root, Proc: proc, Args: args, OutputSlots: outputSlots,
		Schema: c.schema, Resolver: c.resolver, Width: sc.width,
	}, nil
}

// projItem is one compiled RETURN/WITH output column.
type projItem struct {
	name      string
	expr      *expr.Expr
	passAlias string // non-empty when this item is a bare passthrough of an existing alias
}

// compileProjection compiles a WITH or RETURN body into Project (plus
// Aggregate/Filter/Distinct/Sort/Skip/Limit as the body calls for),
// returning the new operator, the output header names, and the *scope
// the next clause should use. WITH/RETURN re-export only their own
// projected names into a fresh scope, per Cypher's scoping rule —
// anything not listed falls out of scope for later clauses.
func (c *Compiler) compileProjection(sc *scope, body *cypher.ProjectionBody, where *cypher.Where, root ops.Operator) (ops.Operator, []string, *scope, error) {
	items, err := c.compileProjectionItems(sc, body)
	if err != nil {
		return nil, nil, nil, err
	}

	header := make([]string, len(items))
	hasAgg := false
	for i, it := range items {
		header[i] = it.name
		if expr.ContainsAggregate(it.expr) {
			hasAgg = true
		}
	}

	var out ops.Operator
	if hasAgg {
		out = c.buildAggregateProjection(items, root)
	} else {
		exprs := make([]*expr.Expr, len(items))
		for i, it := range items {
			exprs[i] = it.expr
		}
		out = &ops.Project{Child: root, Exprs: exprs, Resolver: c.resolver}
	}

	next := newScope()
	for _, it := range items {
		next.bind(it.name)
		next.markReturnable(it.name)
		if it.passAlias != "" {
			if kind, ok := sc.kindOf(it.passAlias); ok {
				next.setKind(it.name, kind)
			}
		}
	}

	if where != nil {
		whereExpr, err := c.compileExpr(next, where.Expr)
		if err != nil {
			return nil, nil, nil, err
		}
		out = &ops.Filter{Child: out, Pred: whereExpr, Resolver: c.resolver}
	}

	if body.Distinct {
		out = &ops.Distinct{Child: out}
	}
	if body.Order != nil {
		keys := make([]ops.SortKey, 0, len(body.Order.Items))
		for _, oi := range body.Order.Items {
			ke, err := c.compileOrderExpr(items, next, oi.Expr)
			if err != nil {
				return nil, nil, nil, err
			}
			keys = append(keys, ops.SortKey{Expr: ke, Descending: oi.Desc})
		}
		out = &ops.Sort{Child: out, Keys: keys, Resolver: c.resolver}
	}
	if body.Skip != nil {
		n, err := c.constIntLiteral(body.Skip)
		if err != nil {
			return nil, nil, nil, err
		}
		out = &ops.Skip{Child: out, N: n}
	}
	if body.Limit != nil {
		n, err := c.constIntLiteral(body.Limit)
		if err != nil {
			return nil, nil, nil, err
		}
		out = &ops.Limit{Child: out, N: n}
	}

	return out, header, next, nil
}

func (c *Compiler) compileProjectionItems(sc *scope, body *cypher.ProjectionBody) ([]projItem, error) {
	if body.Star {
		items := make([]projItem, 0, len(sc.order))
		for _, alias := range sc.order {
			slot, ok := sc.lookup(alias)
			if !ok {
				continue
			}
			items = append(items, projItem{name: alias, expr: expr.NewVariadic(slot, false, 0, ""), passAlias: alias})
		}
		return items, nil
	}

	items := make([]projItem, 0, len(body.Items))
	for _, it := range body.Items {
		ce, err := c.compileExpr(sc, it.Expr)
		if err != nil {
			return nil, err
		}
		name := it.Alias
		passAlias := ""
		if bv, ok := bareVariable(it.Expr); ok {
			passAlias = bv
		}
		if name == "" {
			if dn, ok := defaultProjectionName(it.Expr); ok {
				name = dn
			}
		}
		if name == "" {
			return nil, gqerr.Validation("UnsupportedExpression", "a computed RETURN/WITH item needs an AS alias")
		}
		items = append(items, projItem{name: name, expr: ce, passAlias: passAlias})
	}
	return items, nil
}

// buildAggregateProjection splits items into Aggregate's KeyExprs (every
// non-aggregate expression, the implicit GROUP BY) and AggExprs, then
// re-projects the fixed [keys..., aggs...] output layout Aggregate
// produces back into the items' original column order.
func (c *Compiler) buildAggregateProjection(items []projItem, root ops.Operator) ops.Operator {
	var keys, aggs []*expr.Expr
	slotOf := make([]int, len(items))
	isAgg := make([]bool, len(items))
	for i, it := range items {
		isAgg[i] = expr.ContainsAggregate(it.expr)
	}
	ki, ai := 0, 0
	for i, it := range items {
		if isAgg[i] {
			aggs = append(aggs, it.expr)
			slotOf[i] = ai
			ai++
		} else {
			keys = append(keys, it.expr)
			slotOf[i] = ki
			ki++
		}
	}
	for i := range items {
		if isAgg[i] {
			slotOf[i] += len(keys)
		}
	}
	agg := &ops.Aggregate{Child: root, KeyExprs: keys, AggExprs: aggs, Resolver: c.resolver}
	remap := make([]*expr.Expr, len(items))
	for i, slot := range slotOf {
		remap[i] = expr.NewVariadic(slot, false, 0, "")
	}
	return &ops.Project{Child: agg, Exprs: remap, Resolver: c.resolver}
}

func (c *Compiler) constIntLiteral(e *cypher.Expression) (int, error) {
	ce, err := c.compileExpr(newScope(), e)
	if err != nil {
		return 0, err
	}
	if ce.Kind != expr.KindConst || ce.Const.Kind() != value.Int {
		return 0, gqerr.Validation("UnsupportedExpression", "SKIP/LIMIT must be a constant integer")
	}
	return int(ce.Const.Int()), nil
}
