package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

func TestCreateAllocatesNodeAndEdge(t *testing.T) {
	g := newTestGraph()
	child := &Once{Width: 0}
	op := &Create{
		Store: g.store,
		Child: child,
		Nodes: []CreateNodeSpec{
			{Slot: 0, Labels: []schema.LabelID{g.person}, Props: map[schema.PropKeyID]*expr.Expr{
				g.name: expr.NewConst(value.NewString("Dave")),
			}},
		},
		Edges: []CreateEdgeSpec{
			{SrcSlot: 0, DstSlot: 1, Type: g.knows},
		},
		Width: 2,
	}
	// Edge needs two node slots; widen the plan to create a second node too.
	op.Nodes = append(op.Nodes, CreateNodeSpec{Slot: 1, Labels: []schema.LabelID{g.person}})

	rows := drain(t, op)
	require.Len(t, rows, 1)
	daveID := rows[0].Get(0).RefID()
	node, ok := g.store.GetNode(daveID)
	require.True(t, ok)
	assert.Equal(t, value.NewString("Dave"), node.Props[g.name])
}

func TestCreateFlushesMatrixForSameQueryTraversal(t *testing.T) {
	g := newTestGraph()
	child := &Once{Width: 0}
	op := &Create{
		Store: g.store,
		Child: child,
		Nodes: []CreateNodeSpec{
			{Slot: 0, Labels: []schema.LabelID{g.person}},
			{Slot: 1, Labels: []schema.LabelID{g.person}},
		},
		Edges: []CreateEdgeSpec{
			{SrcSlot: 0, DstSlot: 1, Type: g.knows},
		},
		Width: 2,
	}
	rows := drain(t, op)
	require.Len(t, rows, 1)
	src := rows[0].Get(0).RefID()
	dst := rows[0].Get(1).RefID()

	// No explicit FlushPending call here: Create.Next must have already
	// flushed, or this traversal would still see the pre-write matrix.
	m := unionMatrix(g.store, []schema.TypeID{g.knows})
	_, ok := m.Get(int64(src), int64(dst))
	assert.True(t, ok)
}

func TestUpdateSetsPropertyAndLabel(t *testing.T) {
	g := newTestGraph()
	rec := oneNodeRecord(g.bob)
	child := &sliceOp{rows: []record.Record{rec}}
	op := &Update{
		Store: g.store,
		Child: child,
		Properties: []SetPropertyItem{
			{Slot: 0, Kind: graphstore.NodeEntity, Key: g.name, Value: expr.NewConst(value.NewString("Bobby"))},
		},
		Labels: []SetLabelItem{
			{Slot: 0, Labels: []schema.LabelID{g.admin}},
		},
	}
	out := drain(t, op)
	require.Len(t, out, 1)

	node, ok := g.store.GetNode(g.bob)
	require.True(t, ok)
	assert.Equal(t, value.NewString("Bobby"), node.Props[g.name])
	assert.Contains(t, node.Labels, g.admin)
}

func TestDeleteMarksNodeZombie(t *testing.T) {
	g := newTestGraph()
	_ = g.store.DeleteEdge(g.ab)
	_ = g.store.DeleteEdge(g.bc)
	rec := oneNodeRecord(g.carol)
	child := &sliceOp{rows: []record.Record{rec}}
	op := &Delete{
		Store: g.store,
		Child: child,
		Items: []DeleteItem{{Expr: expr.NewVariadic(0, false, 0, "")}},
	}
	out := drain(t, op)
	require.Len(t, out, 1)

	_, ok := g.store.GetNode(g.carol)
	assert.False(t, ok)
}

func TestDeleteAttachedNodeWithoutDetachFails(t *testing.T) {
	g := newTestGraph()
	rec := oneNodeRecord(g.bob)
	child := &sliceOp{rows: []record.Record{rec}}
	op := &Delete{
		Store: g.store,
		Child: child,
		Items: []DeleteItem{{Expr: expr.NewVariadic(0, false, 0, "")}},
	}
	ctx := bgCtx()
	require.NoError(t, op.Open(ctx))
	_, err := op.Next(ctx)
	assert.Error(t, err)
}
