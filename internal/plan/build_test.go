package plan

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/ops"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

type fixture struct {
	store        *graphstore.Store
	sc           *schema.Schema
	person       schema.LabelID
	knows        schema.TypeID
	name, age    schema.PropKeyID
	alice, bob   uint64
	carol        uint64
}

func newFixture() *fixture {
	sc := schema.New()
	store := graphstore.New(sc)

	person := sc.InternLabel("Person")
	knows := sc.InternType("KNOWS")
	name := sc.InternProp("name")
	age := sc.InternProp("age")

	alice := store.CreateNode([]schema.LabelID{person}, map[schema.PropKeyID]value.Value{
		name: value.NewString("Alice"), age: value.NewInt(30),
	})
	bob := store.CreateNode([]schema.LabelID{person}, map[schema.PropKeyID]value.Value{
		name: value.NewString("Bob"), age: value.NewInt(25),
	})
	carol := store.CreateNode([]schema.LabelID{person}, map[schema.PropKeyID]value.Value{
		name: value.NewString("Carol"), age: value.NewInt(40),
	})
	store.CreateEdge(knows, alice, bob, nil)
	store.CreateEdge(knows, bob, carol, nil)
	store.FlushPending()

	return &fixture{store: store, sc: sc, person: person, knows: knows, name: name, age: age, alice: alice, bob: bob, carol: carol}
}

func (f *fixture) build(t *testing.T, query string) *Plan {
	t.Helper()
	stmt, err := cypher.Parse(query)
	require.NoError(t, err)
	p, err := Build(stmt, f.store, f.sc, nil, nil)
	require.NoError(t, err)
	return p
}

func drainRows(t *testing.T, root ops.Operator) []record.Record {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, root.Open(ctx))
	defer root.Close()
	var rows []record.Record
	for {
		rec, err := root.Next(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, rec)
	}
	return rows
}

func TestMatchReturnsBoundAliasProperty(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (p:Person) WHERE p.age > 28 RETURN p.name ORDER BY p.name`)
	assert.Equal(t, []string{"p.name"}, p.Header)
	rows := drainRows(t, p.Root)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Alice", rows[0].Get(0).Str())
		assert.Equal(t, "Carol", rows[1].Get(0).Str())
	}
}

func TestMatchTraverseOneHop(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (a:Person)-[:KNOWS]->(b:Person) RETURN a.name, b.name`)
	rows := drainRows(t, p.Root)
	assert.Len(t, rows, 2)
}

func TestReturnStarExpandsBoundAliases(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (p:Person) WHERE p.name = 'Alice' RETURN *`)
	assert.Equal(t, []string{"p"}, p.Header)
	rows := drainRows(t, p.Root)
	require.Len(t, rows, 1)
	assert.Equal(t, f.alice, rows[0].Get(0).RefID())
}

func TestWithChainsProjectionIntoNextClause(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (p:Person) WITH p, p.age AS a WHERE a > 25 RETURN p.name ORDER BY p.name`)
	rows := drainRows(t, p.Root)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Alice", rows[0].Get(0).Str())
		assert.Equal(t, "Carol", rows[1].Get(0).Str())
	}
}

func TestAggregateCountGroupedByKey(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (p:Person)-[:KNOWS]->(b:Person) RETURN p.name, count(*) AS c`)
	assert.Equal(t, []string{"p.name", "c"}, p.Header)
	rows := drainRows(t, p.Root)
	assert.Len(t, rows, 2)
}

func TestCreateNodeAndEdge(t *testing.T) {
	f := newFixture()
	p := f.build(t, `CREATE (d:Person {name: 'Dave'})-[:KNOWS]->(e:Person {name: 'Eve'}) RETURN d.name, e.name`)
	assert.True(t, p.Mutates)
	rows := drainRows(t, p.Root)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dave", rows[0].Get(0).Str())
	assert.Equal(t, "Eve", rows[0].Get(1).Str())
}

func TestCreateNodeAndEdgeReportsMutationStats(t *testing.T) {
	f := newFixture()
	p := f.build(t, `CREATE (a:X {k: 1})-[:R]->(b:X {k: 2}) RETURN a.k + b.k`)
	drainRows(t, p.Root)
	require.NotNil(t, p.Stats)
	assert.Equal(t, 2, p.Stats.NodesCreated)
	assert.Equal(t, 1, p.Stats.RelationshipsCreated)
	assert.Equal(t, 2, p.Stats.PropertiesSet)
	assert.Equal(t, 2, p.Stats.LabelsAdded)
}

func TestDeleteDetachReportsCascadedRelationshipCount(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (p:Person) WHERE p.name = 'Bob' DETACH DELETE p`)
	drainRows(t, p.Root)
	require.NotNil(t, p.Stats)
	assert.Equal(t, 1, p.Stats.NodesDeleted)
	assert.Equal(t, 2, p.Stats.RelationshipsDeleted)
}

func TestSetPropertyOnMatchedNode(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (p:Person) WHERE p.name = 'Bob' SET p.age = 26`)
	assert.True(t, p.Mutates)
	drainRows(t, p.Root)
	n, ok := f.store.GetNode(f.bob)
	require.True(t, ok)
	assert.Equal(t, int64(26), n.Props[f.age].Int())
}

func TestDeleteDetachRemovesNode(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (p:Person) WHERE p.name = 'Carol' DETACH DELETE p`)
	drainRows(t, p.Root)
	_, ok := f.store.GetNode(f.carol)
	assert.False(t, ok)
}

func TestUnwindListLiteral(t *testing.T) {
	f := newFixture()
	p := f.build(t, `UNWIND [1, 2, 3] AS x RETURN x`)
	rows := drainRows(t, p.Root)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0].Get(0).Int())
	assert.Equal(t, int64(3), rows[2].Get(0).Int())
}

func TestMergeFindsExistingNodeWithoutDuplicating(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MERGE (p:Person {name: 'Bob'}) ON MATCH SET p.age = 99`)
	drainRows(t, p.Root)
	ids := f.store.NodesWithLabel(f.person)
	assert.Len(t, ids, 3)
	n, ok := f.store.GetNode(f.bob)
	require.True(t, ok)
	assert.Equal(t, int64(99), n.Props[f.age].Int())
}

func TestMergeCreatesWhenNoMatch(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MERGE (p:Person {name: 'Zoe'}) ON CREATE SET p.age = 1`)
	drainRows(t, p.Root)
	ids := f.store.NodesWithLabel(f.person)
	assert.Len(t, ids, 4)
}

func TestCreateIndexStatement(t *testing.T) {
	f := newFixture()
	stmt, err := cypher.Parse(`CREATE INDEX ON :Person(name)`)
	require.NoError(t, err)
	p, err := Build(stmt, f.store, f.sc, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, p.Index)
	assert.True(t, p.Index.Create)
	assert.Equal(t, f.person, p.Index.Label)
}

func TestUnknownRelationshipTypeMatchesNothing(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (a:Person)-[:NOPE]->(b:Person) RETURN a.name`)
	rows := drainRows(t, p.Root)
	assert.Len(t, rows, 0)
}

func TestInPredicateAgainstListLiteral(t *testing.T) {
	f := newFixture()
	p := f.build(t, `MATCH (p:Person) WHERE p.name IN ['Alice', 'Carol'] RETURN p.name ORDER BY p.name`)
	rows := drainRows(t, p.Root)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Alice", rows[0].Get(0).Str())
		assert.Equal(t, "Carol", rows[1].Get(0).Str())
	}
}
