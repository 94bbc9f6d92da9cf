package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/value"
)

func TestPendingFlushVisibility(t *testing.T) {
	m := New(4, 4)
	m.SetElement(0, 1, value.NewBool(true))

	// Not visible before flush? Get forces a flush itself (§4.3), so this
	// exercises the façade's own guarantee rather than raw map access.
	v, ok := m.Get(0, 1)
	require.True(t, ok)
	assert.True(t, v.Bool())
}

func TestRemoveElementZombieUntilFlush(t *testing.T) {
	m := New(4, 4)
	m.SetElement(1, 2, value.NewBool(true))
	m.Flush()
	m.RemoveElement(1, 2)

	// Internally the cell is a zombie until Flush runs; Get forces that
	// flush so the tombstone is always observed by readers.
	_, ok := m.Get(1, 2)
	assert.False(t, ok)
}

func TestMXMBooleanExistence(t *testing.T) {
	// A: 0->1, B: 1->2. A*B over ANY_PAIR_BOOL should yield 0->2.
	a := New(3, 3)
	a.SetElement(0, 1, value.NewBool(true))
	b := New(3, 3)
	b.SetElement(1, 2, value.NewBool(true))

	c := New(3, 3)
	MXM(c, nil, nil, AnyPairBool, a, b, Descriptor{})

	v, ok := c.Get(0, 2)
	require.True(t, ok)
	assert.True(t, v.Bool())

	_, ok = c.Get(0, 1)
	assert.False(t, ok)
}

func TestTransposeSwapsRowAndColumn(t *testing.T) {
	a := New(2, 2)
	a.SetElement(0, 1, value.NewInt(5))
	tr := Transpose(a)
	v, ok := tr.Get(1, 0)
	require.True(t, ok)
	assert.Equal(t, int64(5), v.Int())
}

func TestReduceScalarSum(t *testing.T) {
	a := New(3, 3)
	a.SetElement(0, 0, value.NewInt(2))
	a.SetElement(1, 1, value.NewInt(3))
	a.SetElement(2, 2, value.NewInt(4))
	sum := ReduceScalar(PlusTimesInt64.Monoid, a)
	assert.Equal(t, int64(9), sum.Int())
}

func TestElementWiseAddUnion(t *testing.T) {
	a := New(2, 2)
	a.SetElement(0, 0, value.NewBool(true))
	b := New(2, 2)
	b.SetElement(0, 1, value.NewBool(true))

	c := New(2, 2)
	ElementWiseAdd(c, nil, nil, boolOr, a, b, Descriptor{})

	_, ok1 := c.Get(0, 0)
	_, ok2 := c.Get(0, 1)
	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestExtractTuplesDeterministicOrder(t *testing.T) {
	a := New(3, 3)
	a.SetElement(2, 0, value.NewInt(1))
	a.SetElement(0, 2, value.NewInt(2))
	a.SetElement(0, 0, value.NewInt(3))
	tuples := a.ExtractTuples()
	require.Len(t, tuples, 3)
	assert.Equal(t, int64(0), tuples[0].Row)
	assert.Equal(t, int64(0), tuples[0].Col)
	assert.Equal(t, int64(2), tuples[2].Row)
}
