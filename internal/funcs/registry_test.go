package funcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/value"
)

func TestScalarLookupCaseInsensitive(t *testing.T) {
	r := New()
	fn, ok := r.Lookup("ToUpper")
	require.True(t, ok)
	v, err := fn([]value.Value{value.NewString("abc")})
	require.NoError(t, err)
	assert.Equal(t, "ABC", v.Str())
}

func TestAddPromotesToFloat(t *testing.T) {
	r := New()
	fn, _ := r.Lookup("add")
	v, err := fn([]value.Value{value.NewInt(1), value.NewFloat(2.5)})
	require.NoError(t, err)
	assert.Equal(t, value.Float, v.Kind())
	assert.Equal(t, 3.5, v.Float())
}

func TestAddIntegerStaysInt(t *testing.T) {
	r := New()
	fn, _ := r.Lookup("add")
	v, err := fn([]value.Value{value.NewInt(1), value.NewInt(2)})
	require.NoError(t, err)
	assert.Equal(t, value.Int, v.Kind())
	assert.Equal(t, int64(3), v.Int())
}

func TestCountAggregateSkipsNull(t *testing.T) {
	r := New()
	ctor, ok := r.LookupAggregate("count")
	require.True(t, ok)
	agg := ctor(false)
	agg.Step([]value.Value{value.NewInt(1)})
	agg.Step([]value.Value{value.NewNull()})
	agg.Step([]value.Value{value.NewInt(2)})
	assert.Equal(t, int64(2), agg.Finalize().Int())
}

func TestCountDistinctDedupes(t *testing.T) {
	r := New()
	ctor, _ := r.LookupAggregate("count")
	agg := ctor(true)
	agg.Step([]value.Value{value.NewInt(1)})
	agg.Step([]value.Value{value.NewInt(1)})
	agg.Step([]value.Value{value.NewInt(2)})
	assert.Equal(t, int64(2), agg.Finalize().Int())
}

func TestCollectSkipsNullsAndSerializes(t *testing.T) {
	r := New()
	ctor, _ := r.LookupAggregate("collect")
	agg := ctor(false)
	agg.Step([]value.Value{value.NewInt(1)})
	agg.Step([]value.Value{value.NewNull()})
	agg.Step([]value.Value{value.NewInt(2)})
	assert.Equal(t, "[1, 2]", agg.Finalize().Str())
}

func TestMaxUsesTotalOrder(t *testing.T) {
	r := New()
	ctor, _ := r.LookupAggregate("max")
	agg := ctor(false)
	agg.Step([]value.Value{value.NewInt(3)})
	agg.Step([]value.Value{value.NewInt(7)})
	agg.Step([]value.Value{value.NewInt(2)})
	assert.Equal(t, int64(7), agg.Finalize().Int())
}

func TestUnknownFunctionNotFound(t *testing.T) {
	r := New()
	_, ok := r.Lookup("nonexistentFn")
	assert.False(t, ok)
}
