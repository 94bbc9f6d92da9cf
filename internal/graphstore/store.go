// Package graphstore is the graph store of §4.2: per-label node matrices,
// per-type relation matrices, node/edge property stores, the id allocator,
// and the pending-updates/zombie machinery described in §3 and §9.
//
// Grounded on the teacher's internal/graph/probabilistic_adjacency_list_graph.go
// (map-based adjacency with Clone()-based snapshotting for conditioned
// queries) generalized from a single probability-weighted adjacency map to
// label/type-indexed matrix.Matrix instances, per SPEC_FULL's component #3.
package graphstore

import (
	"sync"

	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/matrix"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// NodeData is the read-only view of a live node.
type NodeData struct {
	ID     uint64
	Labels []schema.LabelID
	Props  map[schema.PropKeyID]value.Value
}

// EdgeData is the read-only view of a live edge.
type EdgeData struct {
	ID       uint64
	Type     schema.TypeID
	Src, Dst uint64
	Props    map[schema.PropKeyID]value.Value
}

type multiKey struct {
	typ      schema.TypeID
	src, dst uint64
}

// Store is the process-lifetime graph (§3's "Graph: process-lifetime,
// mutated only under a write-lock"). Zero value is not usable; use New.
type Store struct {
	mu sync.RWMutex // §5's multi-reader/single-writer lock

	Schema *schema.Schema

	labelMatrices map[schema.LabelID]*matrix.Matrix
	relMatrices   map[schema.TypeID]*matrix.Matrix
	capacity      int64

	nodes map[uint64]*nodeEntry
	edges map[uint64]*edgeEntry

	// multiEdges preserves every parallel edge of a given (type,src,dst)
	// triple; the relation matrix cell holds only the smallest id (§4.2),
	// per SPEC_FULL supplement #3 this side table lets CondTraverse over a
	// bound edge alias still enumerate every parallel edge.
	multiEdges map[multiKey][]uint64

	nextNodeID uint64
	nextEdgeID uint64
}

type nodeEntry struct {
	labels  []schema.LabelID
	props   map[schema.PropKeyID]value.Value
	deleted bool
}

type edgeEntry struct {
	typ     schema.TypeID
	src     uint64
	dst     uint64
	props   map[schema.PropKeyID]value.Value
	deleted bool
}

// New creates an empty store.
func New(s *schema.Schema) *Store {
	return &Store{
		Schema:        s,
		labelMatrices: make(map[schema.LabelID]*matrix.Matrix),
		relMatrices:   make(map[schema.TypeID]*matrix.Matrix),
		nodes:         make(map[uint64]*nodeEntry),
		edges:         make(map[uint64]*edgeEntry),
		multiEdges:    make(map[multiKey][]uint64),
	}
}

// RLock/RUnlock/Lock/Unlock expose §5's reader/writer lock. internal/engine
// takes the shared lock for a read-only query and the exclusive lock for
// any query with a write clause, both before the operator tree opens, and
// holds it until every row is drained; the exclusive lock is not deferred
// to the first write. The accessors below take no lock of their own.
func (s *Store) RLock()   { s.mu.RLock() }
func (s *Store) RUnlock() { s.mu.RUnlock() }
func (s *Store) Lock()    { s.mu.Lock() }
func (s *Store) Unlock()  { s.mu.Unlock() }

func (s *Store) growCapacity(id uint64) {
	need := int64(id) + 1
	if need <= s.capacity {
		return
	}
	s.capacity = need
	for _, m := range s.labelMatrices {
		m.Resize(need, need)
	}
	for _, m := range s.relMatrices {
		m.Resize(need, need)
	}
}

func (s *Store) labelMatrix(l schema.LabelID) *matrix.Matrix {
	m, ok := s.labelMatrices[l]
	if !ok {
		m = matrix.New(s.capacity, s.capacity)
		s.labelMatrices[l] = m
	}
	return m
}

// LabelMatrix returns the per-label diagonal selector matrix (§3), creating
// it empty if the label has never been used. Read-only callers (the
// planner, scans) should prefer this over touching labelMatrices directly.
func (s *Store) LabelMatrix(l schema.LabelID) *matrix.Matrix {
	if m, ok := s.labelMatrices[l]; ok {
		return m
	}
	return matrix.New(s.capacity, s.capacity)
}

func (s *Store) relMatrix(t schema.TypeID) *matrix.Matrix {
	m, ok := s.relMatrices[t]
	if !ok {
		m = matrix.New(s.capacity, s.capacity)
		s.relMatrices[t] = m
	}
	return m
}

// RelationMatrix returns the per-type integer relation matrix (§3).
func (s *Store) RelationMatrix(t schema.TypeID) *matrix.Matrix {
	if m, ok := s.relMatrices[t]; ok {
		return m
	}
	return matrix.New(s.capacity, s.capacity)
}

// CreateNode allocates a node id, sets its labels and properties, and
// queues the corresponding label-matrix diagonal entries. Must be called
// under Lock (the write lock).
func (s *Store) CreateNode(labels []schema.LabelID, props map[schema.PropKeyID]value.Value) uint64 {
	id := s.nextNodeID
	s.nextNodeID++
	s.growCapacity(id)

	propsCopy := make(map[schema.PropKeyID]value.Value, len(props))
	for k, v := range props {
		propsCopy[k] = v
	}

	s.nodes[id] = &nodeEntry{labels: append([]schema.LabelID(nil), labels...), props: propsCopy}

	for _, l := range labels {
		s.labelMatrix(l).SetElement(int64(id), int64(id), value.NewBool(true))
	}
	return id
}

// CreateEdge allocates an edge id between two existing nodes and queues the
// relation-matrix entry. Must be called under Lock.
func (s *Store) CreateEdge(typ schema.TypeID, src, dst uint64, props map[schema.PropKeyID]value.Value) (uint64, error) {
	if _, ok := s.nodes[src]; !ok {
		return 0, gqerr.Type("UnknownEntity", "source node %d does not exist", src)
	}
	if _, ok := s.nodes[dst]; !ok {
		return 0, gqerr.Type("UnknownEntity", "destination node %d does not exist", dst)
	}

	id := s.nextEdgeID
	s.nextEdgeID++

	propsCopy := make(map[schema.PropKeyID]value.Value, len(props))
	for k, v := range props {
		propsCopy[k] = v
	}
	s.edges[id] = &edgeEntry{typ: typ, src: src, dst: dst, props: propsCopy}

	key := multiKey{typ, src, dst}
	existing := s.multiEdges[key]
	s.multiEdges[key] = append(existing, id)

	m := s.relMatrix(typ)
	if len(existing) == 0 {
		m.SetElement(int64(src), int64(dst), value.NewInt(int64(id)))
	} else {
		// Keep the smallest id in the cell, per §4.2 ("the smallest such
		// if multiple edges exist"); the multiEdges side table still
		// remembers every parallel edge.
		smallest := id
		for _, e := range s.multiEdges[key] {
			if e < smallest {
				smallest = e
			}
		}
		m.SetElement(int64(src), int64(dst), value.NewInt(int64(smallest)))
	}
	return id, nil
}

// DeleteNode marks a node a zombie (§3's "Deleted entities remain
// physically until a synchronization point"). It is an error to delete a
// node with live edges unless detach is true (SPEC_FULL supplement #4,
// resolving §9 Open Question 4 in favor of "error"). The returned int is
// the number of edges DETACH cascaded into deleting, so a caller reporting
// §6's RelationshipsDeleted stat doesn't need its own copy of
// edgesTouching.
func (s *Store) DeleteNode(id uint64, detach bool) (int, error) {
	n, ok := s.nodes[id]
	if !ok || n.deleted {
		return 0, gqerr.Type("UnknownEntity", "node %d does not exist", id)
	}

	attached := s.edgesTouching(id)
	if len(attached) > 0 && !detach {
		return 0, gqerr.Validation("DeleteAttachedNode", "node %d has %d attached edge(s); use DETACH DELETE", id, len(attached))
	}
	for _, e := range attached {
		_ = s.DeleteEdge(e)
	}

	n.deleted = true
	for _, l := range n.labels {
		s.labelMatrix(l).RemoveElement(int64(id), int64(id))
	}
	return len(attached), nil
}

func (s *Store) edgesTouching(node uint64) []uint64 {
	var out []uint64
	for id, e := range s.edges {
		if e.deleted {
			continue
		}
		if e.src == node || e.dst == node {
			out = append(out, id)
		}
	}
	return out
}

// DeleteEdge marks an edge a zombie and queues removal of its relation
// matrix cell (if it was the representative entry for that cell).
func (s *Store) DeleteEdge(id uint64) error {
	e, ok := s.edges[id]
	if !ok || e.deleted {
		return gqerr.Type("UnknownEntity", "edge %d does not exist", id)
	}
	e.deleted = true

	key := multiKey{e.typ, e.src, e.dst}
	remaining := s.multiEdges[key][:0]
	for _, other := range s.multiEdges[key] {
		if other != id {
			remaining = append(remaining, other)
		}
	}
	s.multiEdges[key] = remaining

	m := s.relMatrix(e.typ)
	if len(remaining) == 0 {
		m.RemoveElement(int64(e.src), int64(e.dst))
		delete(s.multiEdges, key)
	} else {
		smallest := remaining[0]
		for _, other := range remaining[1:] {
			if other < smallest {
				smallest = other
			}
		}
		m.SetElement(int64(e.src), int64(e.dst), value.NewInt(int64(smallest)))
	}
	return nil
}

// AddLabel attaches a label to a live node in place (Cypher SET n:Label),
// queuing the corresponding label-matrix diagonal entry. A no-op if the
// node already carries the label; the returned bool tells the caller
// whether a label was actually added, for §6's LabelsAdded stat.
func (s *Store) AddLabel(id uint64, l schema.LabelID) (bool, error) {
	n, ok := s.nodes[id]
	if !ok || n.deleted {
		return false, gqerr.Type("UnknownEntity", "node %d does not exist", id)
	}
	for _, have := range n.labels {
		if have == l {
			return false, nil
		}
	}
	n.labels = append(n.labels, l)
	s.labelMatrix(l).SetElement(int64(id), int64(id), value.NewBool(true))
	return true, nil
}

// EntityKind distinguishes which property store SetProperty touches.
type EntityKind int

const (
	NodeEntity EntityKind = iota
	EdgeEntity
)

// SetProperty writes a property on a live node or edge.
func (s *Store) SetProperty(kind EntityKind, id uint64, key schema.PropKeyID, v value.Value) error {
	switch kind {
	case NodeEntity:
		n, ok := s.nodes[id]
		if !ok || n.deleted {
			return gqerr.Type("UnknownEntity", "node %d does not exist", id)
		}
		n.props[key] = v
	case EdgeEntity:
		e, ok := s.edges[id]
		if !ok || e.deleted {
			return gqerr.Type("UnknownEntity", "edge %d does not exist", id)
		}
		e.props[key] = v
	default:
		return gqerr.Internal("unknown entity kind %d", kind)
	}
	return nil
}

// GetNode returns a node's data; ok is false if absent or a zombie (§4.2
// "id-not-found returns a well-defined absent sentinel").
func (s *Store) GetNode(id uint64) (NodeData, bool) {
	n, ok := s.nodes[id]
	if !ok || n.deleted {
		return NodeData{}, false
	}
	return NodeData{ID: id, Labels: n.labels, Props: n.props}, true
}

// GetEdge returns an edge's data; ok is false if absent or a zombie.
func (s *Store) GetEdge(id uint64) (EdgeData, bool) {
	e, ok := s.edges[id]
	if !ok || e.deleted {
		return EdgeData{}, false
	}
	return EdgeData{ID: id, Type: e.typ, Src: e.src, Dst: e.dst, Props: e.props}, true
}

// ParallelEdges returns every live edge id sharing (type, src, dst),
// in allocation order (oldest first), per SPEC_FULL supplement #3.
func (s *Store) ParallelEdges(typ schema.TypeID, src, dst uint64) []uint64 {
	ids := s.multiEdges[multiKey{typ, src, dst}]
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.edges[id]; ok && !e.deleted {
			out = append(out, id)
		}
	}
	return out
}

// AllNodeIDs returns every live node id, ascending (AllNodeScan, §4.7),
// skipping zombies.
func (s *Store) AllNodeIDs() []uint64 {
	out := make([]uint64, 0, len(s.nodes))
	for id, n := range s.nodes {
		if !n.deleted {
			out = append(out, id)
		}
	}
	sortUint64(out)
	return out
}

// NodesWithLabel returns every live node id carrying label l, ascending
// (NodeByLabelScan, §4.7).
func (s *Store) NodesWithLabel(l schema.LabelID) []uint64 {
	m := s.LabelMatrix(l)
	tuples := m.ExtractTuples()
	out := make([]uint64, 0, len(tuples))
	for _, t := range tuples {
		if n, ok := s.nodes[uint64(t.Row)]; ok && !n.deleted {
			out = append(out, uint64(t.Row))
		}
	}
	return out
}

// FlushPending flushes every label and relation matrix, per §4.2's
// graph_flush_pending. Must be called before any mxm on a matrix carrying
// pending writes; the pull engine's mutation operators call this after
// each row's writes (§4.7).
func (s *Store) FlushPending() {
	for _, m := range s.labelMatrices {
		m.Flush()
	}
	for _, m := range s.relMatrices {
		m.Flush()
	}
}

func sortUint64(xs []uint64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
