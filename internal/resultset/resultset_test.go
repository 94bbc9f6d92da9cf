package resultset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

func TestFormatValueScalarsUseValueString(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(value.NewNull(), nil))
	assert.Equal(t, "42", FormatValue(value.NewInt(42), nil))
	assert.Equal(t, `"hi"`, FormatValue(value.NewString("hi"), nil))
}

func TestFormatValueNodeExpandsLabelsAndProps(t *testing.T) {
	sc := schema.New()
	person := sc.InternLabel("Person")
	name := sc.InternProp("name")
	store := graphstore.New(sc)
	id := store.CreateNode([]schema.LabelID{person}, map[schema.PropKeyID]value.Value{name: value.NewString("Ada")})

	resolver := StoreResolver{Store: store}
	got := FormatValue(value.NewNodeRef(id), resolver)
	assert.Equal(t, `(id:0:Person {name:"Ada"})`, got)
}

func TestFormatValueEdgeExpandsTypeAndProps(t *testing.T) {
	sc := schema.New()
	knows := sc.InternType("KNOWS")
	since := sc.InternProp("since")
	store := graphstore.New(sc)
	a := store.CreateNode(nil, nil)
	b := store.CreateNode(nil, nil)
	eid, err := store.CreateEdge(knows, a, b, map[schema.PropKeyID]value.Value{since: value.NewInt(2020)})
	require.NoError(t, err)

	resolver := StoreResolver{Store: store}
	got := FormatValue(value.NewEdgeRef(eid), resolver)
	assert.Equal(t, `[id:0:KNOWS {since:2020}]`, got)
}

func TestFormatValueMissingEntityFallsBackToBareForm(t *testing.T) {
	resolver := StoreResolver{Store: graphstore.New(schema.New())}
	got := FormatValue(value.NewNodeRef(999), resolver)
	assert.Equal(t, "(id:999)", got)
}

func row(vals ...value.Value) record.Record {
	r := record.New(len(vals))
	for i, v := range vals {
		r.Set(i, v)
	}
	return r
}

func TestDistinctKeepsFirstOccurrence(t *testing.T) {
	rs := New([]string{"n"})
	rs.Add(row(value.NewInt(1)))
	rs.Add(row(value.NewInt(2)))
	rs.Add(row(value.NewInt(1)))
	rs.Distinct()
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, int64(1), rs.Rows[0].Get(0).Int())
	assert.Equal(t, int64(2), rs.Rows[1].Get(0).Int())
}

func TestOrderByIsStable(t *testing.T) {
	rs := New([]string{"n"})
	rs.Add(row(value.NewInt(2)))
	rs.Add(row(value.NewInt(1)))
	rs.Add(row(value.NewInt(1)))
	rs.OrderBy(func(a, b record.Record) bool { return a.Get(0).Int() < b.Get(0).Int() })
	require.Len(t, rs.Rows, 3)
	assert.Equal(t, []int64{1, 1, 2}, []int64{rs.Rows[0].Get(0).Int(), rs.Rows[1].Get(0).Int(), rs.Rows[2].Get(0).Int()})
}

func TestSkipLimitWindows(t *testing.T) {
	rs := New([]string{"n"})
	for _, n := range []int64{1, 2, 3, 4, 5} {
		rs.Add(row(value.NewInt(n)))
	}
	rs.SkipLimit(1, 2)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, int64(2), rs.Rows[0].Get(0).Int())
	assert.Equal(t, int64(3), rs.Rows[1].Get(0).Int())
}

func TestSkipLimitUnboundedWithNegativeLimit(t *testing.T) {
	rs := New([]string{"n"})
	for _, n := range []int64{1, 2, 3} {
		rs.Add(row(value.NewInt(n)))
	}
	rs.SkipLimit(1, -1)
	require.Len(t, rs.Rows, 2)
}

func TestStringRendersHeaderAndRows(t *testing.T) {
	rs := New([]string{"n"})
	rs.Add(row(value.NewInt(1)))
	got := rs.String(nil)
	assert.Equal(t, "n\n1", got)
}

func TestStringWithNoRowsReportsNoResults(t *testing.T) {
	rs := New([]string{"n"})
	assert.Equal(t, "No results.", rs.String(nil))
}
