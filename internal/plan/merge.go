package plan

import (
	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/ops"
	"github.com/ritamzico/graphcypher/internal/schema"
)

// compileMerge compiles a MERGE clause, scoped to a single node pattern
// with constant-only property values (see DESIGN.md's Merge note): a
// relationship-pattern MERGE, or one referencing an outer-scope bound
// variable in its match properties, is rejected at compile time rather
// than silently mis-executed, since NodeByLabelScan/AllNodeScan-style
// lookups this pragmatic Merge performs have no way to inherit an
// already-bound outer row's values.
func (c *Compiler) compileMerge(sc *scope, clause *cypher.MergeClause, root ops.Operator) (ops.Operator, error) {
	part := clause.Pattern
	if len(part.Chain) > 0 {
		return nil, gqerr.Validation("UnsupportedExpression", "MERGE only supports a single node pattern, not a relationship path")
	}
	n := part.Node
	alias := n.Variable
	if alias == "" {
		return nil, gqerr.Validation("UnsupportedExpression", "MERGE requires a named node variable")
	}
	if _, already := sc.lookup(alias); already {
		return nil, gqerr.Validation("UnsupportedExpression", "MERGE cannot rebind an already-bound variable %q", alias)
	}

	var labels []schema.LabelID
	if n.Labels != nil {
		for _, name := range n.Labels.Labels {
			labels = append(labels, c.schema.InternLabel(name))
		}
	}
	props, err := c.compilePropMap(sc, n.Properties)
	if err != nil {
		return nil, err
	}
	for _, v := range props {
		if v.Kind != expr.KindConst {
			return nil, gqerr.Validation("UnsupportedExpression", "MERGE's match properties must be constant literals")
		}
	}

	slot := sc.bind(alias)
	sc.setKind(alias, graphstore.NodeEntity)
	sc.markReturnable(alias)

	merge := &ops.Merge{
		Store:    c.store,
		Child:    root,
		Node:     ops.MergeNodeSpec{Slot: slot, Labels: labels, Props: props},
		Resolver: c.resolver,
		Width:    sc.width,
		Stats:    c.stats,
	}

	for _, action := range clause.Actions {
		props, labelItems, err := c.compileMergeActionSet(sc, action.Set, alias)
		if err != nil {
			return nil, err
		}
		if action.OnMatch {
			merge.OnMatchProps = append(merge.OnMatchProps, props...)
			merge.OnMatchLabels = append(merge.OnMatchLabels, labelItems...)
		} else {
			merge.OnCreateProps = append(merge.OnCreateProps, props...)
			merge.OnCreateLabels = append(merge.OnCreateLabels, labelItems...)
		}
	}

	return merge, nil
}

// compileMergeActionSet compiles one ON MATCH/ON CREATE SET clause,
// restricted to the merge pattern's own variable (the only binding a
// merge action can reasonably target, since nothing else has a stable
// identity until the merge itself resolves).
func (c *Compiler) compileMergeActionSet(sc *scope, set *cypher.SetClause, mergeAlias string) ([]ops.SetPropertyItem, []ops.SetLabelItem, error) {
	var props []ops.SetPropertyItem
	var labels []ops.SetLabelItem
	for _, item := range set.Items {
		if item.Variable != mergeAlias {
			return nil, nil, gqerr.Validation("UnsupportedExpression", "MERGE's ON MATCH/ON CREATE SET may only target %q", mergeAlias)
		}
		slot, _ := sc.lookup(mergeAlias)
		switch {
		case item.Property != "" && item.PropExpr != nil:
			key := c.schema.InternProp(item.Property)
			ce, err := c.compileExpr(sc, item.PropExpr)
			if err != nil {
				return nil, nil, err
			}
			props = append(props, ops.SetPropertyItem{Slot: slot, Kind: graphstore.NodeEntity, Key: key, Value: ce})
		case item.Labels != nil:
			var ids []schema.LabelID
			for _, name := range item.Labels.Labels {
				ids = append(ids, c.schema.InternLabel(name))
			}
			labels = append(labels, ops.SetLabelItem{Slot: slot, Labels: ids})
		default:
			return nil, nil, gqerr.Validation("UnsupportedExpression", "SET var = expr is not supported in MERGE actions")
		}
	}
	return props, labels, nil
}
