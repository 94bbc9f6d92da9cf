package plan

import (
	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/ops"
	"github.com/ritamzico/graphcypher/internal/planner"
	"github.com/ritamzico/graphcypher/internal/querygraph"
	"github.com/ritamzico/graphcypher/internal/value"
)

// compileMatch compiles one MATCH (or OPTIONAL MATCH) clause against the
// running root/scope, per §4.6's querygraph.Build -> planner.Build ->
// operator-tree pipeline.
//
// OPTIONAL MATCH is compiled identically to a plain MATCH here: true
// outer-join null-padding semantics (emit one all-NULL row per outer
// input when the optional pattern fails to match it) would need every
// chain's entry scan to be parameterized per incoming row, which this
// pull-operator set's source operators (AllNodeScan, NodeByLabelScan)
// don't support — they are plain sources, not per-row correlated
// lookups. This is a known, named limitation (see DESIGN.md).
func (c *Compiler) compileMatch(sc *scope, clause *cypher.MatchClause, root ops.Operator) (ops.Operator, error) {
	priorBound := sc.bound()
	g := querygraph.Build(clause.Pattern, c.anon)

	plan := planner.Build(g, priorBound, c.schema)

	boundThisMatch := make(map[string]bool, len(priorBound))
	for a := range priorBound {
		boundThisMatch[a] = true
	}

	var filter *expr.Expr

	for _, chain := range plan.Chains {
		chainRoot, introducedSlots, err := c.compileChain(sc, g, chain, boundThisMatch, root)
		if err != nil {
			return nil, err
		}
		switch chain.Entry.Kind {
		case planner.EntryBoundAlias:
			root = chainRoot
		default:
			root = &ops.Cartesian{
				Left:       root,
				Right:      chainRoot,
				RightSlots: introducedSlots,
				Width:      sc.width,
			}
		}
	}

	for _, n := range g.Nodes {
		slot, ok := sc.lookup(n.Alias)
		if !ok {
			continue
		}
		skip := ""
		if len(n.Labels) > 0 {
			skip = n.Labels[0]
		}
		if lf := c.labelFilter(slot, n.Labels, skip); lf != nil {
			filter = and2(filter, lf)
		}
		if len(n.Properties) > 0 {
			pf, err := c.propertyFilter(sc, slot, n.Properties)
			if err != nil {
				return nil, err
			}
			filter = and2(filter, pf)
		}
	}
	for _, e := range g.Edges {
		if !e.ReturnableAlias || len(e.Properties) == 0 {
			continue
		}
		slot, ok := sc.lookup(e.Alias)
		if !ok {
			continue
		}
		pf, err := c.propertyFilter(sc, slot, e.Properties)
		if err != nil {
			return nil, err
		}
		filter = and2(filter, pf)
	}

	if clause.Where != nil {
		where, err := c.compileExpr(sc, clause.Where.Expr)
		if err != nil {
			return nil, err
		}
		filter = and2(filter, where)
	}

	if filter != nil {
		root = &ops.Filter{Child: root, Pred: filter, Resolver: c.resolver}
	}
	return root, nil
}

// compileChain builds the scan/traverse subtree for one connected
// component of the pattern. For an EntryBoundAlias chain the subtree is
// chained directly onto root (the traversal's source slot is already
// populated by an earlier clause or chain); otherwise it starts from a
// fresh scan and the caller Cartesian-joins it against root.
// introducedSlots lists every slot this chain newly bound, the
// RightSlots a Cartesian join needs.
func (c *Compiler) compileChain(sc *scope, g *querygraph.Graph, chain planner.Chain, boundThisMatch map[string]bool, root ops.Operator) (ops.Operator, []int, error) {
	var introduced []int
	var cur ops.Operator

	entryAlias := chain.Entry.Alias
	entrySlot, hadSlot := sc.lookup(entryAlias)
	if !hadSlot {
		entrySlot = sc.bind(entryAlias)
		introduced = append(introduced, entrySlot)
	}
	sc.setKind(entryAlias, graphstore.NodeEntity)
	if n, ok := g.Node(entryAlias); ok && n.ReturnableAlias {
		sc.markReturnable(entryAlias)
	}

	switch chain.Entry.Kind {
	case planner.EntryBoundAlias:
		cur = root
	case planner.EntryLabel:
		cur = &ops.NodeByLabelScan{Store: c.store, Label: chain.Entry.Label, Slot: entrySlot, Width: sc.width}
	default:
		cur = &ops.AllNodeScan{Store: c.store, Slot: entrySlot, Width: sc.width}
	}
	boundThisMatch[entryAlias] = true

	for _, d := range chain.Descriptors {
		srcSlot, _ := sc.lookup(d.SrcAlias)

		dstAlreadyBound := boundThisMatch[d.DstAlias]
		dstSlot, hadDst := sc.lookup(d.DstAlias)
		if !hadDst {
			dstSlot = sc.bind(d.DstAlias)
			introduced = append(introduced, dstSlot)
		}
		sc.setKind(d.DstAlias, graphstore.NodeEntity)
		if n, ok := g.Node(d.DstAlias); ok && n.ReturnableAlias {
			sc.markReturnable(d.DstAlias)
		}

		edgeSlot := 0
		if d.EdgeAliasBound {
			s, had := sc.lookup(d.EdgeAlias)
			if !had {
				s = sc.bind(d.EdgeAlias)
				introduced = append(introduced, s)
			}
			edgeSlot = s
			sc.setKind(d.EdgeAlias, graphstore.EdgeEntity)
			sc.markReturnable(d.EdgeAlias)
		}

		desc := ops.TraverseDesc{
			SrcSlot:       srcSlot,
			DstSlot:       dstSlot,
			EdgeSlot:      edgeSlot,
			EdgeSlotBound: d.EdgeAliasBound,
			RelTypes:      d.RelTypes,
			Transpose:     d.Transpose,
			MinHops:       d.MinHops,
			MaxHops:       d.MaxHops,
			Variable:      d.Variable,
		}

		var next ops.Operator
		switch {
		case dstAlreadyBound:
			next = &ops.ExpandInto{Store: c.store, Desc: desc, Child: cur, Width: sc.width}
		case d.Variable:
			next = &ops.CondVarLenTraverse{Store: c.store, Desc: desc, Child: cur, Width: sc.width}
		default:
			next = &ops.CondTraverse{Store: c.store, Desc: desc, Child: cur, Width: sc.width}
		}

		if len(d.UnresolvedTypes) > 0 && len(d.RelTypes) == 0 {
			// The pattern named only relationship types the schema has
			// never interned; this hop can never match a real edge.
			next = &ops.Filter{Child: next, Pred: expr.NewConst(value.NewBool(false)), Resolver: c.resolver}
		}

		cur = next
		boundThisMatch[d.DstAlias] = true
	}

	return cur, introduced, nil
}
