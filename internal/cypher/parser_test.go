package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleMatchReturn(t *testing.T) {
	stmt, err := Parse(`MATCH (a:Person) RETURN a.name`)
	require.NoError(t, err)
	require.NotNil(t, stmt.Query)
	require.Len(t, stmt.Query.Clauses, 2)

	match := stmt.Query.Clauses[0].Match
	require.NotNil(t, match)
	require.Len(t, match.Pattern.Parts, 1)
	assert.Equal(t, "a", match.Pattern.Parts[0].Node.Variable)
	assert.Equal(t, []string{"Person"}, match.Pattern.Parts[0].Node.Labels.Labels)

	ret := stmt.Query.Clauses[1].Return
	require.NotNil(t, ret)
	require.Len(t, ret.Body.Items, 1)
}

func TestParseTraversalWithRelationshipType(t *testing.T) {
	stmt, err := Parse(`MATCH (a:Person)-[r:KNOWS]->(b:Person) WHERE a.age > 30 RETURN b`)
	require.NoError(t, err)
	match := stmt.Query.Clauses[0].Match
	require.NotNil(t, match.Where)
	part := match.Pattern.Parts[0]
	require.Len(t, part.Chain, 1)
	assert.False(t, part.Chain[0].Rel.LeftArrow)
	assert.True(t, part.Chain[0].Rel.RightArrow)
	assert.Equal(t, []string{"KNOWS"}, part.Chain[0].Rel.Detail.Types)
}

func TestParseVariableLengthRange(t *testing.T) {
	stmt, err := Parse(`MATCH (a)-[:KNOWS*1..3]->(b) RETURN b`)
	require.NoError(t, err)
	rel := stmt.Query.Clauses[0].Match.Pattern.Parts[0].Chain[0].Rel
	require.NotNil(t, rel.Detail.Range)
	require.NotNil(t, rel.Detail.Range.Min)
	require.NotNil(t, rel.Detail.Range.Max)
	assert.Equal(t, 1, *rel.Detail.Range.Min)
	assert.Equal(t, 3, *rel.Detail.Range.Max)
}

func TestParseCreateIndex(t *testing.T) {
	stmt, err := Parse(`CREATE INDEX ON :Person(name)`)
	require.NoError(t, err)
	require.NotNil(t, stmt.CreateIndex)
	assert.Equal(t, "Person", stmt.CreateIndex.Label)
	assert.Equal(t, "name", stmt.CreateIndex.Prop)
}

func TestParseCallYield(t *testing.T) {
	stmt, err := Parse(`CALL db_labels() YIELD label RETURN label`)
	require.NoError(t, err)
	call := stmt.Query.Clauses[0].Call
	require.NotNil(t, call)
	assert.Equal(t, "db_labels", call.Procedure)
	assert.Equal(t, []string{"label"}, call.Yield)
}

func TestParseOrderBySkipLimit(t *testing.T) {
	stmt, err := Parse(`MATCH (a) RETURN a.name ORDER BY a.name DESC SKIP 5 LIMIT 10`)
	require.NoError(t, err)
	body := stmt.Query.Clauses[1].Return.Body
	require.NotNil(t, body.Order)
	assert.True(t, body.Order.Items[0].Desc)
	require.NotNil(t, body.Skip)
	require.NotNil(t, body.Limit)
}

func TestParseDetachDelete(t *testing.T) {
	stmt, err := Parse(`MATCH (a) DETACH DELETE a`)
	require.NoError(t, err)
	del := stmt.Query.Clauses[1].Delete
	require.NotNil(t, del)
	assert.True(t, del.Detach)
}

func TestParseInvalidQueryReturnsParseError(t *testing.T) {
	_, err := Parse(`MATCH (a RETURN a`)
	require.Error(t, err)
}
