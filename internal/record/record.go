// Package record implements the fixed-schema tuple of tagged Values that
// flows between pull operators (§3, §4.1).
package record

import "github.com/ritamzico/graphcypher/internal/value"

// Record is a fixed-length sequence of value.Value slots. Slot indices are
// assigned once by the plan builder and are stable across the whole
// operator tree of a single query (§3's "Record" lifecycle). Records are
// plain value types: Go's garbage collector owns the backing Values, so
// there is no separate record_free — Close/discard is a no-op left in the
// Operator contract only to mirror §4.7's vocabulary for parity with the
// spec's pull-engine description.
type Record struct {
	slots []value.Value
}

// New allocates a Record with len slots, every slot NULL.
func New(len int) Record {
	slots := make([]value.Value, len)
	return Record{slots: slots}
}

// Len reports the declared width.
func (r Record) Len() int { return len(r.slots) }

// Get returns the value at slot i.
func (r Record) Get(i int) value.Value { return r.slots[i] }

// Set replaces slot i. Go values have no destructor, so "freeing the old
// value first" (§4.1) is automatic; Set simply overwrites.
func (r Record) Set(i int, v value.Value) { r.slots[i] = v }

// Clone returns an independent copy whose slot mutations do not affect r.
func (r Record) Clone() Record {
	slots := make([]value.Value, len(r.slots))
	copy(slots, r.slots)
	return Record{slots: slots}
}

// WithWidened returns a copy of r widened to n slots (n >= r.Len()), used
// when an operator (e.g. CondTraverse) produces a record of a different
// declared width than its child.
func (r Record) WithWidened(n int) Record {
	if n <= len(r.slots) {
		return r.Clone()
	}
	slots := make([]value.Value, n)
	copy(slots, r.slots)
	return Record{slots: slots}
}

// Equal implements DISTINCT's full-record structural equality (§4.7):
// NULL != NULL except inside DISTINCT, where two NULLs collapse (§8
// property 7) — callers needing that Cypher rule use value.KeyEqual slot
// by slot, which is exactly what this does.
func Equal(a, b Record) bool {
	if len(a.slots) != len(b.slots) {
		return false
	}
	for i := range a.slots {
		if !value.KeyEqual(a.slots[i], b.slots[i]) {
			return false
		}
	}
	return true
}

// Fingerprint combines every slot's fingerprint into one digest, used by
// DISTINCT and the grouping cache (§4.8) as a lookup shortcut ahead of the
// exact Equal compare.
func Fingerprint(r Record) uint64 {
	h := uint64(14695981039346656037)
	const prime = 1099511628211
	for _, v := range r.slots {
		h ^= v.Fingerprint()
		h *= prime
	}
	return h
}
