package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

func TestCondTraverseOneHop(t *testing.T) {
	g := newTestGraph()
	child := &sliceOp{rows: []record.Record{oneNodeRecord(g.alice)}}
	op := &CondTraverse{
		Store: g.store,
		Desc: TraverseDesc{
			SrcSlot: 0, DstSlot: 1, EdgeSlot: 2, EdgeSlotBound: true,
			RelTypes: []schema.TypeID{g.knows},
		},
		Child: child,
		Width: 3,
	}
	rows := drain(t, op)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, g.bob, rows[0].Get(1).RefID())
		assert.Equal(t, g.ab, rows[0].Get(2).RefID())
	}
}

func TestCondTraverseTranspose(t *testing.T) {
	g := newTestGraph()
	child := &sliceOp{rows: []record.Record{oneNodeRecord(g.bob)}}
	op := &CondTraverse{
		Store: g.store,
		Desc: TraverseDesc{
			SrcSlot: 0, DstSlot: 1,
			RelTypes:  []schema.TypeID{g.knows},
			Transpose: true,
		},
		Child: child,
		Width: 2,
	}
	rows := drain(t, op)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, g.alice, rows[0].Get(1).RefID())
	}
}

func TestCondTraverseUntypedUnionsEveryRelation(t *testing.T) {
	g := newTestGraph()
	likes := g.sc.InternType("LIKES")
	_, _ = g.store.CreateEdge(likes, g.alice, g.carol, nil)
	g.store.FlushPending()

	child := &sliceOp{rows: []record.Record{oneNodeRecord(g.alice)}}
	op := &CondTraverse{
		Store: g.store,
		Desc:  TraverseDesc{SrcSlot: 0, DstSlot: 1},
		Child: child,
		Width: 2,
	}
	rows := drain(t, op)
	var dsts []uint64
	for _, r := range rows {
		dsts = append(dsts, r.Get(1).RefID())
	}
	assert.ElementsMatch(t, []uint64{g.bob, g.carol}, dsts)
}

func TestCondTraverseYieldsOneRowPerParallelEdge(t *testing.T) {
	g := newTestGraph()
	extra, _ := g.store.CreateEdge(g.knows, g.alice, g.bob, nil)
	g.store.FlushPending()

	child := &sliceOp{rows: []record.Record{oneNodeRecord(g.alice)}}
	op := &CondTraverse{
		Store: g.store,
		Desc: TraverseDesc{
			SrcSlot: 0, DstSlot: 1, EdgeSlot: 2, EdgeSlotBound: true,
			RelTypes: []schema.TypeID{g.knows},
		},
		Child: child,
		Width: 3,
	}
	rows := drain(t, op)
	var edges []uint64
	for _, r := range rows {
		assert.Equal(t, g.bob, r.Get(1).RefID())
		edges = append(edges, r.Get(2).RefID())
	}
	assert.ElementsMatch(t, []uint64{g.ab, extra}, edges)
}

func TestCondVarLenTraverseRespectsHopBounds(t *testing.T) {
	g := newTestGraph()
	child := &sliceOp{rows: []record.Record{oneNodeRecord(g.alice)}}
	op := &CondVarLenTraverse{
		Store: g.store,
		Desc: TraverseDesc{
			SrcSlot: 0, DstSlot: 1,
			RelTypes: []schema.TypeID{g.knows},
			MinHops:  1, MaxHops: 2,
		},
		Child: child,
		Width: 2,
	}
	rows := drain(t, op)
	var dsts []uint64
	for _, r := range rows {
		dsts = append(dsts, r.Get(1).RefID())
	}
	assert.ElementsMatch(t, []uint64{g.bob, g.carol}, dsts)
}

func TestCondVarLenTraverseMinHopsExcludesDirectNeighbor(t *testing.T) {
	g := newTestGraph()
	child := &sliceOp{rows: []record.Record{oneNodeRecord(g.alice)}}
	op := &CondVarLenTraverse{
		Store: g.store,
		Desc: TraverseDesc{
			SrcSlot: 0, DstSlot: 1,
			RelTypes: []schema.TypeID{g.knows},
			MinHops:  2, MaxHops: 2,
		},
		Child: child,
		Width: 2,
	}
	rows := drain(t, op)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, g.carol, rows[0].Get(1).RefID())
	}
}

func TestExpandIntoConfirmsAdjacency(t *testing.T) {
	g := newTestGraph()
	rec := record.New(2)
	rec.Set(0, value.NewNodeRef(g.alice))
	rec.Set(1, value.NewNodeRef(g.bob))
	child := &sliceOp{rows: []record.Record{rec}}
	op := &ExpandInto{
		Store: g.store,
		Desc:  TraverseDesc{SrcSlot: 0, DstSlot: 1, RelTypes: []schema.TypeID{g.knows}},
		Child: child,
	}
	rows := drain(t, op)
	assert.Len(t, rows, 1)
}

func TestExpandIntoWidensForNewlyBoundEdgeSlot(t *testing.T) {
	g := newTestGraph()
	rec := record.New(2)
	rec.Set(0, value.NewNodeRef(g.alice))
	rec.Set(1, value.NewNodeRef(g.bob))
	child := &sliceOp{rows: []record.Record{rec}}
	op := &ExpandInto{
		Store: g.store,
		Desc:  TraverseDesc{SrcSlot: 0, DstSlot: 1, EdgeSlot: 2, EdgeSlotBound: true, RelTypes: []schema.TypeID{g.knows}},
		Child: child,
		Width: 3,
	}
	rows := drain(t, op)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, g.ab, rows[0].Get(2).RefID())
	}
}

func TestExpandIntoYieldsOneRowPerParallelEdge(t *testing.T) {
	g := newTestGraph()
	extra, _ := g.store.CreateEdge(g.knows, g.alice, g.bob, nil)
	g.store.FlushPending()

	rec := record.New(2)
	rec.Set(0, value.NewNodeRef(g.alice))
	rec.Set(1, value.NewNodeRef(g.bob))
	child := &sliceOp{rows: []record.Record{rec}}
	op := &ExpandInto{
		Store: g.store,
		Desc:  TraverseDesc{SrcSlot: 0, DstSlot: 1, EdgeSlot: 2, EdgeSlotBound: true, RelTypes: []schema.TypeID{g.knows}},
		Child: child,
		Width: 3,
	}
	rows := drain(t, op)
	var edges []uint64
	for _, r := range rows {
		edges = append(edges, r.Get(2).RefID())
	}
	assert.ElementsMatch(t, []uint64{g.ab, extra}, edges)
}

func TestExpandIntoRejectsNonAdjacentPair(t *testing.T) {
	g := newTestGraph()
	rec := record.New(2)
	rec.Set(0, value.NewNodeRef(g.alice))
	rec.Set(1, value.NewNodeRef(g.carol))
	child := &sliceOp{rows: []record.Record{rec}}
	op := &ExpandInto{
		Store: g.store,
		Desc:  TraverseDesc{SrcSlot: 0, DstSlot: 1, RelTypes: []schema.TypeID{g.knows}},
		Child: child,
	}
	rows := drain(t, op)
	assert.Len(t, rows, 0)
}
