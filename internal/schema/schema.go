// Package schema interns label names, relationship-type names, and
// property-key names into dense integer ids (§2 component #4), and keeps
// the secondary-index registry (§6 "Index operations"). The plan builder
// does not consult the registry and never emits NodeByIndexScan.
package schema

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ritamzico/graphcypher/internal/gqerr"
)

// LabelID, TypeID and PropKeyID are dense ids assigned by Schema's interning
// tables, used to index the per-label/per-type matrix vectors (§3's
// "Graph" — "a vector of per-label boolean matrices indexed by label-id").
type (
	LabelID   int
	TypeID    int
	PropKeyID int
)

// Schema owns the three interning tables and the secondary index registry.
// All methods are safe for concurrent use; Schema's own RWMutex guards its
// maps. Interning a new name happens while a plan is built, before the
// engine takes the graph store's lock (§5), so that lock does not cover it.
type Schema struct {
	mu sync.RWMutex

	labelIDs map[string]LabelID
	labels   []string

	typeIDs map[string]TypeID
	types   []string

	propIDs map[string]PropKeyID
	props   []string

	indices      map[indexKey]*Index
	indexLookup  *lru.Cache[indexKey, *Index]
}

type indexKey struct {
	label LabelID
	prop  PropKeyID
}

// Index is a secondary index record on (label, prop). The real backing
// structure (a sorted tree, a hash map, ...) is intentionally out of scope
// — background index population is explicitly non-goal territory (spec
// §1); Index only records that the (label, prop) pair is registered. It
// holds no node-id → value entries; NodeByIndexScan produces its rows from
// the label scan and the nodes' live property values.
type Index struct {
	Label LabelID
	Prop  PropKeyID
}

// New creates an empty Schema.
func New() *Schema {
	cache, _ := lru.New[indexKey, *Index](256)
	return &Schema{
		labelIDs:    make(map[string]LabelID),
		typeIDs:     make(map[string]TypeID),
		propIDs:     make(map[string]PropKeyID),
		indices:     make(map[indexKey]*Index),
		indexLookup: cache,
	}
}

// InternLabel returns the id for name, allocating a new one if unseen.
func (s *Schema) InternLabel(name string) LabelID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.labelIDs[name]; ok {
		return id
	}
	id := LabelID(len(s.labels))
	s.labels = append(s.labels, name)
	s.labelIDs[name] = id
	return id
}

// LookupLabel returns the id for name without allocating; ok is false if
// name was never interned.
func (s *Schema) LookupLabel(name string) (LabelID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.labelIDs[name]
	return id, ok
}

// LabelName reverses InternLabel.
func (s *Schema) LabelName(id LabelID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labels[id]
}

// LabelCount reports how many distinct labels have been interned.
func (s *Schema) LabelCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.labels)
}

// InternType returns the id for a relationship-type name, allocating one if
// unseen.
func (s *Schema) InternType(name string) TypeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.typeIDs[name]; ok {
		return id
	}
	id := TypeID(len(s.types))
	s.types = append(s.types, name)
	s.typeIDs[name] = id
	return id
}

// LookupType mirrors LookupLabel for relationship types.
func (s *Schema) LookupType(name string) (TypeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.typeIDs[name]
	return id, ok
}

// TypeName reverses InternType.
func (s *Schema) TypeName(id TypeID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.types[id]
}

// TypeCount reports how many distinct relationship types have been
// interned.
func (s *Schema) TypeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.types)
}

// InternProp returns the id for a property-key name, allocating one if
// unseen.
func (s *Schema) InternProp(name string) PropKeyID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.propIDs[name]; ok {
		return id
	}
	id := PropKeyID(len(s.props))
	s.props = append(s.props, name)
	s.propIDs[name] = id
	return id
}

// LookupProp mirrors LookupLabel for property keys.
func (s *Schema) LookupProp(name string) (PropKeyID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.propIDs[name]
	return id, ok
}

// PropName reverses InternProp.
func (s *Schema) PropName(id PropKeyID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.props[id]
}

// Labels returns every interned label name, in interning order (id order).
func (s *Schema) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Types returns every interned relationship-type name, in interning order.
func (s *Schema) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.types))
	copy(out, s.types)
	return out
}

// PropKeys returns every interned property-key name, in interning order.
func (s *Schema) PropKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.props))
	copy(out, s.props)
	return out
}

// AllTypeIDs returns every interned relationship-type id, in interning
// order — used when a traversal hop names no :TYPE and must walk the
// union of every relation matrix (CondTraverse, §4.7).
func (s *Schema) AllTypeIDs() []TypeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TypeID, len(s.types))
	for i := range s.types {
		out[i] = TypeID(i)
	}
	return out
}

// IndexDescriptor names a registered secondary index by label and prop name.
type IndexDescriptor struct {
	Label string
	Prop  string
}

// Indexes lists every registered secondary index.
func (s *Schema) Indexes() []IndexDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]IndexDescriptor, 0, len(s.indices))
	for k := range s.indices {
		out = append(out, IndexDescriptor{Label: s.labels[k.label], Prop: s.props[k.prop]})
	}
	return out
}

// CreateIndex registers an index on (label, prop). It is an error to
// create one that already exists (§7 ConstraintError).
func (s *Schema) CreateIndex(label LabelID, prop PropKeyID) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := indexKey{label, prop}
	if _, ok := s.indices[key]; ok {
		return nil, gqerr.Constraint("IndexAlreadyExists", "index on label %d, prop %d already exists", label, prop)
	}
	idx := &Index{Label: label, Prop: prop}
	s.indices[key] = idx
	s.indexLookup.Add(key, idx)
	return idx, nil
}

// DropIndex removes an index; dropping one that doesn't exist is a
// ConstraintError.
func (s *Schema) DropIndex(label LabelID, prop PropKeyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := indexKey{label, prop}
	if _, ok := s.indices[key]; !ok {
		return gqerr.Constraint("IndexDoesNotExist", "no index on label %d, prop %d", label, prop)
	}
	delete(s.indices, key)
	s.indexLookup.Remove(key)
	return nil
}

// LookupIndex returns the index on (label, prop), consulting the LRU
// lookup cache before falling back to the authoritative map — the same
// "most recently used (label,prop) index lookup" caching SPEC_FULL's
// domain-stack section describes, grounded on AKJUS-bsc-erigon's use of
// golang-lru.
func (s *Schema) LookupIndex(label LabelID, prop PropKeyID) (*Index, bool) {
	key := indexKey{label, prop}
	if idx, ok := s.indexLookup.Get(key); ok {
		return idx, true
	}
	s.mu.RLock()
	idx, ok := s.indices[key]
	s.mu.RUnlock()
	if ok {
		s.indexLookup.Add(key, idx)
	}
	return idx, ok
}
