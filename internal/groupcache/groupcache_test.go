package groupcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/value"
)

func keyRecord(n int64) record.Record {
	r := record.New(1)
	r.Set(0, value.NewInt(n))
	return r
}

func TestFindOrCreateReturnsSameGroupForSameKey(t *testing.T) {
	c := New(0)
	g1 := c.FindOrCreate(keyRecord(1))
	g2 := c.FindOrCreate(keyRecord(1))
	assert.Same(t, g1, g2)
	assert.Equal(t, 1, c.Len())
}

func TestFindOrCreateDistinguishesDistinctKeys(t *testing.T) {
	c := New(0)
	g1 := c.FindOrCreate(keyRecord(1))
	g2 := c.FindOrCreate(keyRecord(2))
	assert.NotSame(t, g1, g2)
	assert.Equal(t, 2, c.Len())
}

func TestGroupsPreservesInsertionOrder(t *testing.T) {
	c := New(0)
	var created []*Group
	for _, n := range []int64{3, 1, 2} {
		created = append(created, c.FindOrCreate(keyRecord(n)))
	}
	require.Equal(t, created, c.Groups())
}

func TestFindOrCreateSurvivesLRUEviction(t *testing.T) {
	// Small LRU capacity: exercise many more distinct keys than the LRU can
	// hold hot, then re-query an old key. The authoritative map must still
	// find it rather than minting a second Group for the same key.
	c := New(2)
	var first []*Group
	for _, n := range []int64{1, 2, 3, 4, 5, 6, 7, 8} {
		first = append(first, c.FindOrCreate(keyRecord(n)))
	}
	again := c.FindOrCreate(keyRecord(1))
	assert.Same(t, first[0], again)
	assert.Equal(t, 8, c.Len())
}

func TestEachGroupGetsItsOwnFreshAggState(t *testing.T) {
	c := New(0)
	g1 := c.FindOrCreate(keyRecord(1))
	g2 := c.FindOrCreate(keyRecord(2))
	assert.NotSame(t, g1.State, g2.State)
}
