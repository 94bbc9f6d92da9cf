package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/value"
)

func TestFilterKeepsOnlyTruthyRows(t *testing.T) {
	rows := []record.Record{intRow(1), intRow(2), intRow(3)}
	child := &sliceOp{rows: rows}
	pred := expr.NewScalarOp("gt2", func(args []value.Value) (value.Value, error) {
		return value.NewBool(args[0].Int() > 2), nil
	}, expr.NewVariadic(0, false, 0, ""))
	op := &Filter{Child: child, Pred: pred}
	out := drain(t, op)
	if assert.Len(t, out, 1) {
		assert.Equal(t, int64(3), out[0].Get(0).Int())
	}
}

func TestProjectEvaluatesEachExpr(t *testing.T) {
	child := &sliceOp{rows: []record.Record{intRow(5)}}
	doubled := expr.NewScalarOp("double", func(args []value.Value) (value.Value, error) {
		return value.NewInt(args[0].Int() * 2), nil
	}, expr.NewVariadic(0, false, 0, ""))
	op := &Project{Child: child, Exprs: []*expr.Expr{doubled, expr.NewConst(value.NewString("k"))}}
	out := drain(t, op)
	if assert.Len(t, out, 1) {
		assert.Equal(t, int64(10), out[0].Get(0).Int())
		assert.Equal(t, "k", out[0].Get(1).Str())
	}
}

func intRow(n int64) record.Record {
	r := record.New(1)
	r.Set(0, value.NewInt(n))
	return r
}
