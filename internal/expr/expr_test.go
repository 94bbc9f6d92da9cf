package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/funcs"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

type fakeResolver struct {
	nodeProps map[uint64]map[schema.PropKeyID]value.Value
}

func (f fakeResolver) NodeProperty(id uint64, key schema.PropKeyID) value.Value {
	if props, ok := f.nodeProps[id]; ok {
		if v, ok := props[key]; ok {
			return v
		}
	}
	return value.NewNull()
}
func (f fakeResolver) EdgeProperty(uint64, schema.PropKeyID) value.Value { return value.NewNull() }

func TestEvaluateConstAndVariadic(t *testing.T) {
	rec := record.New(1)
	rec.Set(0, value.NewInt(42))
	v, err := Evaluate(NewConst(value.NewString("x")), rec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", v.Str())

	v, err = Evaluate(NewVariadic(0, false, 0, ""), rec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int())
}

func TestEvaluatePropertyAccess(t *testing.T) {
	sc := schema.New()
	nameKey := sc.InternProp("name")
	res := fakeResolver{nodeProps: map[uint64]map[schema.PropKeyID]value.Value{
		7: {nameKey: value.NewString("Ada")},
	}}
	rec := record.New(1)
	rec.Set(0, value.NewNodeRef(7))

	v, err := Evaluate(NewVariadic(0, true, nameKey, "name"), rec, res, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ada", v.Str())
}

func TestEvaluateScalarOp(t *testing.T) {
	reg := funcs.New()
	addFn, _ := reg.Lookup("add")
	e := NewScalarOp("add", addFn, NewConst(value.NewInt(2)), NewConst(value.NewInt(3)))
	v, err := Evaluate(e, record.New(0), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Int())
}

func TestAggregateStepAndReduce(t *testing.T) {
	reg := funcs.New()
	sumCtor, _ := reg.LookupAggregate("sum")
	agg := NewAggregateOp("sum", sumCtor, false, NewVariadic(0, false, 0, ""))

	state := NewAggState()
	rec := record.New(1)
	for _, n := range []int64{1, 2, 3} {
		rec.Set(0, value.NewInt(n))
		require.NoError(t, Aggregate(agg, rec, nil, state))
	}
	Reduce(agg, state)

	v, err := Evaluate(agg, rec, nil, state)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.Int())
}

func TestEvaluateAggregateBeforeReduceFails(t *testing.T) {
	reg := funcs.New()
	sumCtor, _ := reg.LookupAggregate("sum")
	agg := NewAggregateOp("sum", sumCtor, false, NewVariadic(0, false, 0, ""))
	state := NewAggState()
	_, err := Evaluate(agg, record.New(1), nil, state)
	require.Error(t, err)
}

func TestContainsAggregateDetection(t *testing.T) {
	reg := funcs.New()
	addFn, _ := reg.Lookup("add")
	sumCtor, _ := reg.LookupAggregate("sum")
	plain := NewScalarOp("add", addFn, NewConst(value.NewInt(1)), NewConst(value.NewInt(2)))
	assert.False(t, ContainsAggregate(plain))

	withAgg := NewScalarOp("add", addFn, NewAggregateOp("sum", sumCtor, false, NewConst(value.NewInt(1))), NewConst(value.NewInt(1)))
	assert.True(t, ContainsAggregate(withAgg))
}
