package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/procedure"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/value"
)

func TestOnceEmitsExactlyOneRow(t *testing.T) {
	op := &Once{Width: 2}
	rows := drain(t, op)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Len())
}

func TestUnwindProducesOneRowPerItem(t *testing.T) {
	child := &Once{Width: 0}
	op := &Unwind{
		Child: child,
		Items: []*expr.Expr{
			expr.NewConst(value.NewInt(1)),
			expr.NewConst(value.NewInt(2)),
			expr.NewConst(value.NewInt(3)),
		},
		Slot:  0,
		Width: 1,
	}
	rows := drain(t, op)
	require.Len(t, rows, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{rows[0].Get(0).Int(), rows[1].Get(0).Int(), rows[2].Get(0).Int()})
}

func TestCartesianCrossesBothSides(t *testing.T) {
	left := &sliceOp{rows: []record.Record{intRow(1), intRow(2)}}
	rightRows := []record.Record{recAtSlot(1, 10), recAtSlot(1, 20)}
	right := &sliceOp{rows: rightRows}
	op := &Cartesian{Left: left, Right: right, RightSlots: []int{1}, Width: 2}
	out := drain(t, op)
	require.Len(t, out, 4)
	assert.Equal(t, int64(1), out[0].Get(0).Int())
	assert.Equal(t, int64(10), out[0].Get(1).Int())
	assert.Equal(t, int64(1), out[1].Get(0).Int())
	assert.Equal(t, int64(20), out[1].Get(1).Int())
}

func TestCartesianEmptyRightYieldsNoRows(t *testing.T) {
	left := &sliceOp{rows: []record.Record{intRow(1)}}
	right := &sliceOp{rows: nil}
	op := &Cartesian{Left: left, Right: right, Width: 1}
	out := drain(t, op)
	assert.Len(t, out, 0)
}

func TestProcedureCallYieldsDeclaredOutputs(t *testing.T) {
	reg := procedure.New()
	proc, ok := reg.Lookup("db.labels")
	require.True(t, ok)

	g := newTestGraph()
	child := &Once{Width: 0}
	op := &ProcedureCall{
		Child:       child,
		Proc:        proc,
		OutputSlots: []int{0},
		Schema:      g.sc,
		Width:       1,
	}
	rows := drain(t, op)
	var labels []string
	for _, r := range rows {
		labels = append(labels, r.Get(0).Str())
	}
	assert.ElementsMatch(t, []string{"Person", "Admin"}, labels)
}

func recAtSlot(slot int, n int64) record.Record {
	r := record.New(slot + 1)
	r.Set(slot, value.NewInt(n))
	return r
}
