package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/querygraph"
	"github.com/ritamzico/graphcypher/internal/schema"
)

func mustGraph(t *testing.T, query string) *querygraph.Graph {
	t.Helper()
	stmt, err := cypher.Parse(query)
	require.NoError(t, err)
	n := 0
	return querygraph.Build(stmt.Query.Clauses[0].Match.Pattern, func() string {
		n++
		return "anon"
	})
}

func TestBuildSingleHopEntryOnLabel(t *testing.T) {
	sc := schema.New()
	sc.InternLabel("Person")
	sc.InternType("KNOWS")

	g := mustGraph(t, `MATCH (a:Person)-[r:KNOWS]->(b) RETURN a`)
	plan := Build(g, nil, sc)

	require.Len(t, plan.Chains, 1)
	chain := plan.Chains[0]
	assert.Equal(t, EntryLabel, chain.Entry.Kind)
	assert.Equal(t, "a", chain.Entry.Alias)
	require.Len(t, chain.Descriptors, 1)
	assert.Equal(t, "a", chain.Descriptors[0].SrcAlias)
	assert.Equal(t, "b", chain.Descriptors[0].DstAlias)
	assert.False(t, chain.Descriptors[0].Transpose)
	assert.True(t, chain.Descriptors[0].EdgeAliasBound)
}

func TestDirectionNormalizationFlipsMajorityBackward(t *testing.T) {
	sc := schema.New()
	sc.InternType("KNOWS")

	// Both edges written right-to-left; walk should start at c (unlabeled,
	// no properties — entry falls back to first of the reversed order).
	g := mustGraph(t, `MATCH (a)<-[:KNOWS]-(b)<-[:KNOWS]-(c) RETURN a`)
	plan := Build(g, nil, sc)
	require.Len(t, plan.Chains, 1)
	assert.Equal(t, "c", plan.Chains[0].Entry.Alias)
}

func TestUnresolvedRelTypeRecorded(t *testing.T) {
	sc := schema.New()
	g := mustGraph(t, `MATCH (a)-[:NEVER_SEEN]->(b) RETURN a`)
	plan := Build(g, nil, sc)
	desc := plan.Chains[0].Descriptors[0]
	assert.Empty(t, desc.RelTypes)
	assert.Equal(t, []string{"NEVER_SEEN"}, desc.UnresolvedTypes)
}

func TestBoundAliasPreferredOverPlainEntry(t *testing.T) {
	sc := schema.New()
	g := mustGraph(t, `MATCH (a)-[:KNOWS]->(b) RETURN a`)
	plan := Build(g, map[string]bool{"b": true}, sc)
	assert.Equal(t, "b", plan.Chains[0].Entry.Alias)
	assert.Equal(t, EntryBoundAlias, plan.Chains[0].Entry.Kind)
}
