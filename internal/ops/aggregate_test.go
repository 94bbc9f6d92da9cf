package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/funcs"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/value"
)

func TestAggregateGroupsByKeyAndSumsPerGroup(t *testing.T) {
	reg := funcs.New()
	sumCtor, ok := reg.LookupAggregate("sum")
	require.True(t, ok)

	rows := []record.Record{
		keyValRow("a", 1), keyValRow("a", 2), keyValRow("b", 10),
	}
	child := &sliceOp{rows: rows}
	op := &Aggregate{
		Child:    child,
		KeyExprs: []*expr.Expr{expr.NewVariadic(0, false, 0, "")},
		AggExprs: []*expr.Expr{expr.NewAggregateOp("sum", sumCtor, false, expr.NewVariadic(1, false, 0, ""))},
	}
	out := drain(t, op)
	require.Len(t, out, 2)

	sums := map[string]int64{}
	for _, r := range out {
		sums[r.Get(0).Str()] = r.Get(1).Int()
	}
	assert.Equal(t, int64(3), sums["a"])
	assert.Equal(t, int64(10), sums["b"])
}

func TestAggregateImplicitGroupEmitsOneRowOverEmptyInput(t *testing.T) {
	reg := funcs.New()
	countCtor, ok := reg.LookupAggregate("count")
	require.True(t, ok)

	child := &sliceOp{rows: nil}
	op := &Aggregate{
		Child:    child,
		AggExprs: []*expr.Expr{expr.NewAggregateOp("count", countCtor, false)},
	}
	out := drain(t, op)
	if assert.Len(t, out, 1) {
		assert.Equal(t, int64(0), out[0].Get(0).Int())
	}
}

func TestAggregateRejectsResetAfterDraining(t *testing.T) {
	reg := funcs.New()
	countCtor, _ := reg.LookupAggregate("count")
	child := &sliceOp{rows: []record.Record{keyValRow("a", 1)}}
	op := &Aggregate{
		Child:    child,
		KeyExprs: []*expr.Expr{expr.NewVariadic(0, false, 0, "")},
		AggExprs: []*expr.Expr{expr.NewAggregateOp("count", countCtor, false, expr.NewVariadic(1, false, 0, ""))},
	}
	_ = drain(t, op)
	err := op.Reset(bgCtx())
	assert.Error(t, err)
}

func keyValRow(k string, v int64) record.Record {
	r := record.New(2)
	r.Set(0, value.NewString(k))
	r.Set(1, value.NewInt(v))
	return r
}
