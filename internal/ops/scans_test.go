package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritamzico/graphcypher/internal/value"
)

func TestAllNodeScanVisitsEveryLiveNode(t *testing.T) {
	g := newTestGraph()
	op := &AllNodeScan{Store: g.store, Slot: 0, Width: 1}
	rows := drain(t, op)
	assert.Len(t, rows, 3)
	var ids []uint64
	for _, r := range rows {
		ids = append(ids, r.Get(0).RefID())
	}
	assert.ElementsMatch(t, []uint64{g.alice, g.bob, g.carol}, ids)
}

func TestAllNodeScanSkipsDeletedNode(t *testing.T) {
	g := newTestGraph()
	_ = g.store.DeleteEdge(g.ab)
	_ = g.store.DeleteEdge(g.bc)
	_, _ = g.store.DeleteNode(g.bob, false)
	op := &AllNodeScan{Store: g.store, Slot: 0, Width: 1}
	rows := drain(t, op)
	assert.Len(t, rows, 2)
}

func TestNodeByLabelScanFiltersByLabel(t *testing.T) {
	g := newTestGraph()
	op := &NodeByLabelScan{Store: g.store, Label: g.admin, Slot: 0, Width: 1}
	rows := drain(t, op)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, g.alice, rows[0].Get(0).RefID())
	}
}

func TestNodeByIndexScanAppliesPredicate(t *testing.T) {
	g := newTestGraph()
	op := &NodeByIndexScan{
		Store: g.store, Label: g.person, Prop: g.name,
		Pred: PredEQ, Operand: value.NewString("Bob"),
		Slot: 0, Width: 1,
	}
	rows := drain(t, op)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, g.bob, rows[0].Get(0).RefID())
	}
}

func TestNodeByIndexScanGreaterThan(t *testing.T) {
	g := newTestGraph()
	op := &NodeByIndexScan{
		Store: g.store, Label: g.person, Prop: g.name,
		Pred: PredGT, Operand: value.NewString("Bob"),
		Slot: 0, Width: 1,
	}
	rows := drain(t, op)
	assert.Len(t, rows, 1)
	assert.Equal(t, g.carol, rows[0].Get(0).RefID())
}

func TestScanResetRewindsCursor(t *testing.T) {
	g := newTestGraph()
	op := &AllNodeScan{Store: g.store, Slot: 0, Width: 1}
	first := drain(t, op)
	if err := op.Reset(bgCtx()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	second := drain(t, op)
	assert.Equal(t, len(first), len(second))
}
