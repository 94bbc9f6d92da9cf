package record

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritamzico/graphcypher/internal/value"
)

func TestNewRecordSlotsAreNull(t *testing.T) {
	r := New(3)
	assert.Equal(t, 3, r.Len())
	for i := 0; i < 3; i++ {
		assert.True(t, r.Get(i).IsNull())
	}
}

func TestSetThenGet(t *testing.T) {
	r := New(2)
	r.Set(0, value.NewInt(7))
	r.Set(1, value.NewString("x"))
	assert.Equal(t, int64(7), r.Get(0).Int())
	assert.Equal(t, "x", r.Get(1).Str())
}

func TestCloneIsIndependent(t *testing.T) {
	r := New(1)
	r.Set(0, value.NewInt(1))
	c := r.Clone()
	c.Set(0, value.NewInt(2))
	assert.Equal(t, int64(1), r.Get(0).Int())
	assert.Equal(t, int64(2), c.Get(0).Int())
}

func TestWithWidenedPreservesExistingSlotsAndAddsNulls(t *testing.T) {
	r := New(1)
	r.Set(0, value.NewInt(5))
	w := r.WithWidened(3)
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, int64(5), w.Get(0).Int())
	assert.True(t, w.Get(1).IsNull())
}

func TestWithWidenedToSmallerOrEqualWidthClones(t *testing.T) {
	r := New(2)
	w := r.WithWidened(2)
	assert.Equal(t, 2, w.Len())
}

func TestEqualComparesSlotsWithKeyEquality(t *testing.T) {
	a := New(2)
	a.Set(0, value.NewInt(1))
	a.Set(1, value.NewNull())
	b := New(2)
	b.Set(0, value.NewInt(1))
	b.Set(1, value.NewNull())
	assert.True(t, Equal(a, b))

	c := New(2)
	c.Set(0, value.NewInt(2))
	assert.False(t, Equal(a, c))
}

func TestEqualRejectsDifferentWidths(t *testing.T) {
	a := New(1)
	b := New(2)
	assert.False(t, Equal(a, b))
}

func TestFingerprintIsStableAndDistinguishesRecords(t *testing.T) {
	a := New(1)
	a.Set(0, value.NewInt(1))
	b := New(1)
	b.Set(0, value.NewInt(1))
	c := New(1)
	c.Set(0, value.NewInt(2))

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
