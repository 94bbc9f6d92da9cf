// Package groupcache implements the group-key → Group cache of §4.8: a
// keyed mapping from a grouping-key fingerprint to a Group, collision-
// resolved by full key comparison, with insertion-order iteration.
//
// Grounded on the teacher's schema package's "LRU lookup cache in front of
// an authoritative map" shape (itself grounded on AKJUS-bsc-erigon's use of
// github.com/hashicorp/golang-lru/v2, per SPEC_FULL's domain-stack
// section): the LRU speeds up re-finding a hot group's key, but §4.8's "a
// Group is created exactly once per distinct key" invariant must hold even
// once the LRU evicts a bucket, so the buckets themselves live in an
// ordinary map and the LRU only caches which buckets were touched most
// recently.
package groupcache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/record"
)

// Group is (key-vector of Values, aggregate-context-vector) per §3; the
// aggregate-context-vector is the *expr.AggState each aggregate expression
// in the plan's projection steps into.
type Group struct {
	Key   record.Record
	State *expr.AggState
}

type entry struct {
	key   record.Record
	group *Group
}

// Cache is the grouping cache of §4.8. Zero value is not usable; use New.
type Cache struct {
	buckets map[uint64][]*entry
	recent  *lru.Cache[uint64, []*entry]
	order   []*Group
}

// New creates an empty Cache. capacity bounds the LRU's hot-bucket table,
// not the number of groups it can hold — every bucket is also kept in the
// authoritative map, so a cold lookup always still finds its Group.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 4096
	}
	l, _ := lru.New[uint64, []*entry](capacity)
	return &Cache{buckets: make(map[uint64][]*entry), recent: l}
}

// FindOrCreate returns the Group for key, creating one (with a fresh
// AggState) if this is the first time key has been seen — "a Group is
// created exactly once per distinct key" (§4.8 invariant).
func (c *Cache) FindOrCreate(key record.Record) *Group {
	fp := record.Fingerprint(key)

	if bucket, ok := c.recent.Get(fp); ok {
		if g, ok := findInBucket(bucket, key); ok {
			return g
		}
	}
	bucket := c.buckets[fp]
	if g, ok := findInBucket(bucket, key); ok {
		c.recent.Add(fp, bucket)
		return g
	}

	g := &Group{Key: key, State: expr.NewAggState()}
	bucket = append(bucket, &entry{key: key, group: g})
	c.buckets[fp] = bucket
	c.recent.Add(fp, bucket)
	c.order = append(c.order, g)
	return g
}

func findInBucket(bucket []*entry, key record.Record) (*Group, bool) {
	for _, e := range bucket {
		if record.Equal(e.key, key) {
			return e.group, true
		}
	}
	return nil, false
}

// Groups returns every Group in insertion order (§4.8's "cache's order of
// iteration matches insertion order").
func (c *Cache) Groups() []*Group { return c.order }

// Len reports the number of distinct groups created so far.
func (c *Cache) Len() int { return len(c.order) }
