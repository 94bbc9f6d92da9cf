// Package planner implements the traversal planning of §4.6: given a
// querygraph.Graph, it chooses a traversal order, decides transpose-or-not
// per hop, and emits an ordered list of Descriptors the execution plan
// builder compiles into CondTraverse/CondVarLenTraverse operators.
//
// No direct teacher analogue; grounded, for the "entities in, ordered
// descriptor list out" planner shape, on the reference-only planners
// retrieved alongside the pack (google-badwolf's bql planner, opal's
// planfmt, chirst-cdb's planner.plan — none of their code is copied).
// The direction-normalization and entry-point-selection rules below are
// original to §4.6, not borrowed from any of those.
package planner

import (
	"github.com/ritamzico/graphcypher/internal/querygraph"
	"github.com/ritamzico/graphcypher/internal/schema"
)

// Descriptor is the traversal descriptor of §3: a compiled single hop.
type Descriptor struct {
	SrcAlias, DstAlias, EdgeAlias string
	RelTypes                      []schema.TypeID
	// UnresolvedTypes holds relationship-type names the schema has never
	// interned; such a hop can never match anything (MATCH) but must still
	// intern the names for CREATE/MERGE, so the plan builder carries both.
	UnresolvedTypes []string
	Transpose       bool
	MinHops         int
	MaxHops         int // -1 means unbounded
	Variable        bool
	EdgeAliasBound  bool // true: use the integer relation matrix; false: boolean existence suffices
}

// EntryKind selects how the scan anchoring a traversal chain is compiled.
type EntryKind int

const (
	EntryAllNodes EntryKind = iota
	EntryLabel
	EntryBoundAlias
)

// EntryPoint is where a traversal chain's walk begins (§4.6 rule 2).
type EntryPoint struct {
	Alias string
	Kind  EntryKind
	Label schema.LabelID
}

// Chain is one connected walk through the pattern: an entry point plus the
// ordered hops leading away from it.
type Chain struct {
	Entry       EntryPoint
	Descriptors []Descriptor
}

// Plan is the full traversal plan for one pattern: every node alias's
// entry classification, plus the ordered chains connecting them.
type Plan struct {
	Chains []Chain
}

// TypeLookup resolves a relationship-type name to its schema id without
// interning (MATCH/traversal planning must not allocate new type ids for
// names that were never created).
type TypeLookup interface {
	LookupType(name string) (schema.TypeID, bool)
	LookupLabel(name string) (schema.LabelID, bool)
}

// Build plans every connected component of g. boundAliases names aliases
// already bound by a prior clause (WITH/UNWIND), which rule 2 prefers as
// an entry point behind labeled/filtered nodes.
func Build(g *querygraph.Graph, boundAliases map[string]bool, types TypeLookup) *Plan {
	visited := make(map[string]bool)
	plan := &Plan{}

	for _, n := range g.Nodes {
		if visited[n.Alias] {
			continue
		}
		component := collectComponent(g, n.Alias, visited)
		plan.Chains = append(plan.Chains, planComponent(g, component, boundAliases, types))
	}
	return plan
}

// collectComponent gathers every alias reachable from start via g.Edges,
// in discovery order, marking each visited.
func collectComponent(g *querygraph.Graph, start string, visited map[string]bool) []string {
	adjacency := buildAdjacency(g)
	var order []string
	queue := []string{start}
	visited[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, nbr := range adjacency[cur] {
			if !visited[nbr] {
				visited[nbr] = true
				queue = append(queue, nbr)
			}
		}
	}
	return order
}

func buildAdjacency(g *querygraph.Graph) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range g.Edges {
		adj[e.Src] = append(adj[e.Src], e.Dst)
		adj[e.Dst] = append(adj[e.Dst], e.Src)
	}
	return adj
}

func planComponent(g *querygraph.Graph, aliases []string, boundAliases map[string]bool, types TypeLookup) Chain {
	edgesOf := edgesByAlias(g, aliases)

	// Rule 1: direction normalization. Count edges written right-to-left
	// in the pattern text (TextForward false) against those written
	// left-to-right; reverse the walk if more than half run right-to-left.
	forward, backward := 0, 0
	for _, e := range g.Edges {
		if !inSet(aliases, e.Src) {
			continue
		}
		if e.TextForward() {
			forward++
		} else {
			backward++
		}
	}
	reversed := backward > forward
	walkOrder := aliases
	if reversed {
		walkOrder = reverseStrings(aliases)
	}

	entry := chooseEntry(g, walkOrder, boundAliases, types)

	var descs []Descriptor
	cur := entry.Alias
	seen := map[string]bool{cur: true}
	for {
		next, edge := nextHop(edgesOf, cur, seen)
		if edge == nil {
			break
		}
		descs = append(descs, buildDescriptor(edge, cur, types))
		seen[next] = true
		cur = next
	}
	return Chain{Entry: entry, Descriptors: descs}
}

func edgesByAlias(g *querygraph.Graph, aliases []string) map[string][]*querygraph.EdgeEntity {
	set := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		set[a] = true
	}
	out := make(map[string][]*querygraph.EdgeEntity)
	for _, e := range g.Edges {
		if set[e.Src] && set[e.Dst] {
			out[e.Src] = append(out[e.Src], e)
			out[e.Dst] = append(out[e.Dst], e)
		}
	}
	return out
}

func nextHop(edgesOf map[string][]*querygraph.EdgeEntity, cur string, seen map[string]bool) (string, *querygraph.EdgeEntity) {
	for _, e := range edgesOf[cur] {
		other := e.Dst
		if other == cur {
			other = e.Src
		}
		if !seen[other] {
			return other, e
		}
	}
	return "", nil
}

func buildDescriptor(e *querygraph.EdgeEntity, walkFrom string, types TypeLookup) Descriptor {
	d := Descriptor{
		SrcAlias:       walkFrom,
		EdgeAlias:      e.Alias,
		MinHops:        e.MinHops,
		MaxHops:        e.MaxHops,
		Variable:       e.Variable,
		EdgeAliasBound: e.ReturnableAlias,
	}
	if walkFrom == e.Dst {
		d.DstAlias = e.Src
		d.Transpose = true
	} else {
		d.DstAlias = e.Dst
		d.Transpose = false
	}
	for _, name := range e.Types {
		if id, ok := types.LookupType(name); ok {
			d.RelTypes = append(d.RelTypes, id)
		} else {
			d.UnresolvedTypes = append(d.UnresolvedTypes, name)
		}
	}
	return d
}

// chooseEntry implements rule 2: labeled/filtered node first, then a
// bound alias, then the first node of the walk order.
func chooseEntry(g *querygraph.Graph, walkOrder []string, boundAliases map[string]bool, types TypeLookup) EntryPoint {
	for _, alias := range walkOrder {
		n, ok := g.Node(alias)
		if !ok {
			continue
		}
		if len(n.Labels) > 0 {
			if id, ok := types.LookupLabel(n.Labels[0]); ok {
				return EntryPoint{Alias: alias, Kind: EntryLabel, Label: id}
			}
		}
		if len(n.Properties) > 0 {
			return EntryPoint{Alias: alias, Kind: EntryAllNodes}
		}
	}
	for _, alias := range walkOrder {
		if boundAliases[alias] {
			return EntryPoint{Alias: alias, Kind: EntryBoundAlias}
		}
	}
	if len(walkOrder) == 0 {
		return EntryPoint{}
	}
	return EntryPoint{Alias: walkOrder[0], Kind: EntryAllNodes}
}

func inSet(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func reverseStrings(xs []string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}
