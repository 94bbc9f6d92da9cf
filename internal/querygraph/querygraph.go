// Package querygraph builds the in-memory graph of pattern entities
// (§2 component #8) the planner consumes: one NodeEntity per distinct
// node-pattern alias, one EdgeEntity per relationship-pattern hop,
// deduplicated across every pattern part of a single MATCH clause so repeated aliases (`(a)-->()-->(a)`) resolve to one entity.
//
// No direct teacher analogue — the teacher's DSL addresses graph
// entities directly with no planning stage. Grounded, for the shape of a
// "walk a parsed pattern into a small entity+edge graph ready for
// planning" stage, on the reference-only query planners retrieved
// alongside the pack (google-badwolf's bql planner, opal's planfmt,
// chirst-cdb's planner.plan) — none of their code is copied; only the
// "entities first, then an ordered descriptor list" shape carries over.
package querygraph

import "github.com/ritamzico/graphcypher/internal/cypher"

// NodeEntity is one distinct node-pattern alias within a pattern.
type NodeEntity struct {
	Alias      string
	Labels     []string
	Properties []*cypher.MapPair
	// Anonymous aliases (bare "()") are assigned a synthetic name so every
	// entity has one, but ReturnableAlias is false so RETURN/WITH can't
	// reference them by name (Cypher's anonymous-pattern-variable rule).
	ReturnableAlias bool
}

// EdgeEntity is one relationship-pattern hop between two node entities.
type EdgeEntity struct {
	Alias           string
	ReturnableAlias bool
	Types           []string
	Properties      []*cypher.MapPair
	Src, Dst        string // NodeEntity aliases; Src/Dst already reflect LeftArrow/RightArrow direction
	MinHops, MaxHops int    // 1,1 for a fixed-length edge; -1 MaxHops means unbounded
	Variable        bool    // true if a RangeLiteral was present (even *1..1 counts as variable-length syntax)
	textForward     bool    // true unless the pattern was written with a lone leading arrow (<-[...]-)
}

// TextForward reports whether the edge was written left-to-right in the
// pattern text (§4.6 rule 1's "right-to-left" count looks at this, not at
// Src/Dst, which already reflect the resolved direction).
func (e *EdgeEntity) TextForward() bool { return e.textForward }

// Graph is the pattern-entity graph built from one Pattern (§4.6's input).
type Graph struct {
	Nodes []*NodeEntity
	Edges []*EdgeEntity

	nodeByAlias map[string]*NodeEntity
}

// Build walks a parsed Pattern into a Graph. anon is a closure producing a
// fresh synthetic alias for each anonymous node pattern; callers pass a
// per-query counter so aliases stay unique and stable.
func Build(pattern *cypher.Pattern, anon func() string) *Graph {
	g := &Graph{nodeByAlias: make(map[string]*NodeEntity)}
	for _, part := range pattern.Parts {
		g.addPart(part, anon)
	}
	return g
}

func (g *Graph) addPart(part *cypher.PatternPart, anon func() string) {
	prev := g.internNode(part.Node, anon)
	for _, step := range part.Chain {
		next := g.internNode(step.Node, anon)
		g.addEdge(step.Rel, prev, next, anon)
		prev = next
	}
}

func (g *Graph) internNode(n *cypher.NodePattern, anon func() string) *NodeEntity {
	alias := n.Variable
	returnable := alias != ""
	if alias == "" {
		alias = anon()
	}
	if existing, ok := g.nodeByAlias[alias]; ok {
		return existing
	}
	var labels []string
	if n.Labels != nil {
		labels = n.Labels.Labels
	}
	var props []*cypher.MapPair
	if n.Properties != nil {
		props = n.Properties.Pairs
	}
	entity := &NodeEntity{Alias: alias, Labels: labels, Properties: props, ReturnableAlias: returnable}
	g.nodeByAlias[alias] = entity
	g.Nodes = append(g.Nodes, entity)
	return entity
}

func (g *Graph) addEdge(rel *cypher.RelationshipPattern, left, right *NodeEntity, anon func() string) {
	alias := ""
	returnable := false
	var types []string
	var props []*cypher.MapPair
	minHops, maxHops := 1, 1
	variable := false

	if rel.Detail != nil {
		alias = rel.Detail.Variable
		returnable = alias != ""
		types = rel.Detail.Types
		if rel.Detail.Properties != nil {
			props = rel.Detail.Properties.Pairs
		}
		if rel.Detail.Range != nil {
			variable = true
			minHops, maxHops = 1, -1
			if rel.Detail.Range.Min != nil {
				minHops = *rel.Detail.Range.Min
			}
			if rel.Detail.Range.Max != nil {
				maxHops = *rel.Detail.Range.Max
			} else if rel.Detail.Range.Min != nil && !rel.Detail.Range.Range {
				maxHops = minHops // *n shorthand: exactly n hops
			}
		}
	}
	if alias == "" {
		alias = anon()
	}

	src, dst := left.Alias, right.Alias
	textForward := true
	// RelationshipPattern's arrows are literal left/right screen direction;
	// an edge with only LeftArrow set (<-[...]- ) runs right-to-left.
	if rel.LeftArrow && !rel.RightArrow {
		src, dst = right.Alias, left.Alias
		textForward = false
	}

	g.Edges = append(g.Edges, &EdgeEntity{
		Alias:           alias,
		ReturnableAlias: returnable,
		Types:           types,
		Properties:      props,
		Src:             src,
		Dst:             dst,
		MinHops:         minHops,
		MaxHops:         maxHops,
		Variable:        variable,
		textForward:     textForward,
	})
}

// Node looks up a node entity by alias.
func (g *Graph) Node(alias string) (*NodeEntity, bool) {
	n, ok := g.nodeByAlias[alias]
	return n, ok
}
