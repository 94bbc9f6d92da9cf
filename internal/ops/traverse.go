package ops

import (
	"context"

	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/matrix"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// TraverseDesc is planner.Descriptor compiled down to record slots: the
// plan builder resolves every alias to a stable slot index once, so the
// operators in this file never see an alias again.
type TraverseDesc struct {
	SrcSlot, DstSlot, EdgeSlot int
	EdgeSlotBound              bool
	RelTypes                   []schema.TypeID // empty means "every known type" (no :TYPE in the pattern)
	Transpose                  bool
	MinHops, MaxHops           int // MaxHops -1 means unbounded
	Variable                   bool
}

// unionMatrix builds the relation matrix CondTraverse/ExpandInto walk: the
// single named type's matrix, or the MIN-monoid union of every relation
// matrix in the schema when no :TYPE was named (§4.7's CondTraverse over
// an untyped relationship pattern). Built fresh per call rather than
// cached, since writes may have landed since the last traversal within
// the same query (CREATE ... WITH ... MATCH).
func unionMatrix(store *graphstore.Store, types []schema.TypeID) *matrix.Matrix {
	if len(types) == 1 {
		return store.RelationMatrix(types[0])
	}
	if len(types) == 0 {
		types = store.Schema.AllTypeIDs()
	}
	if len(types) == 0 {
		return matrix.New(0, 0)
	}
	out := store.RelationMatrix(types[0]).Dup()
	minPlus := func(a, b value.Value) value.Value {
		if a.Int() < b.Int() {
			return a
		}
		return b
	}
	for _, t := range types[1:] {
		matrix.ElementWiseAdd(out, nil, nil, minPlus, out, store.RelationMatrix(t), matrix.Descriptor{})
	}
	return out
}

// oneHopTuples traverses src across m (transposing first when desc asks
// for the reverse direction), expressed as the one-hot row vector times
// relation matrix product §1's architecture calls for: a 1×n row vector
// with a single set bit at src, multiplied through m via VXM under the
// MIN_FIRSTJ_INT64 semiring (multiply passes the matrix cell — the
// smallest representative edge id — straight through; the MIN monoid
// only matters if more than one contributing row reaches the same
// column, which a one-hot vector never triggers). ExtractTuples then
// yields (dst, edgeID) pairs directly, the same shape CondTraverse needs.
func oneHopTuples(m *matrix.Matrix, src int64, transpose bool) []matrix.Tuple {
	rows, cols := m.Dims()
	v := matrix.New(1, rows)
	v.SetElement(0, src, value.NewInt(1))
	w := matrix.New(1, cols)
	matrix.VXM(w, nil, nil, matrix.MinFirstJInt64, v, m, matrix.Descriptor{TransposeB: transpose})
	return w.ExtractTuples()
}

// hopEdges enumerates every live edge connecting parent to discovered, in
// the true graph direction (transpose flips which end is the stored
// source), across every type in types (every schema type when types is
// empty). The relation matrix cell a hop is found through only carries
// the single smallest representative edge id (§4.2); a bound edge alias
// must still see every parallel edge (SPEC_FULL supplement #3), so
// CondTraverse/ExpandInto call this instead of reusing the matrix cell's
// value whenever Desc.EdgeSlotBound is set.
func hopEdges(store *graphstore.Store, types []schema.TypeID, parent, discovered uint64, transpose bool) []uint64 {
	realSrc, realDst := parent, discovered
	if transpose {
		realSrc, realDst = discovered, parent
	}
	if len(types) == 0 {
		types = store.Schema.AllTypeIDs()
	}
	var out []uint64
	for _, t := range types {
		out = append(out, store.ParallelEdges(t, realSrc, realDst)...)
	}
	return out
}

// CondTraverse expands a bound source node across one relationship hop,
// emitting one output record per destination reached (§4.7's
// CondTraverse). Descriptors with a bound edge alias emit one record per
// parallel edge between the pair, carrying that edge's id through EdgeSlot.
type CondTraverse struct {
	Store *graphstore.Store
	Desc  TraverseDesc
	Child Operator
	Width int

	curParent record.Record
	pending   []condHop
	pos       int
}

// condHop is one (destination, edge) pair CondTraverse is
// about to emit a row for; EdgeID is only meaningful when Desc.EdgeSlotBound.
type condHop struct {
	Dst    uint64
	EdgeID uint64
}

func (o *CondTraverse) Open(ctx context.Context) error {
	if err := o.Child.Open(ctx); err != nil {
		return err
	}
	o.pending = nil
	o.pos = 0
	return nil
}

func (o *CondTraverse) Next(ctx context.Context) (record.Record, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return record.Record{}, err
		}
		if o.pos < len(o.pending) {
			h := o.pending[o.pos]
			o.pos++
			out := o.curParent.WithWidened(o.Width)
			out.Set(o.Desc.DstSlot, value.NewNodeRef(h.Dst))
			if o.Desc.EdgeSlotBound {
				out.Set(o.Desc.EdgeSlot, value.NewEdgeRef(h.EdgeID))
			}
			return out, nil
		}
		parent, err := o.Child.Next(ctx)
		if err != nil {
			return record.Record{}, err
		}
		o.curParent = parent
		src := parent.Get(o.Desc.SrcSlot).RefID()
		m := unionMatrix(o.Store, o.Desc.RelTypes)
		tuples := oneHopTuples(m, int64(src), o.Desc.Transpose)
		o.pending = o.pending[:0]
		for _, t := range tuples {
			dst := uint64(t.Col)
			if !o.Desc.EdgeSlotBound {
				o.pending = append(o.pending, condHop{Dst: dst})
				continue
			}
			edges := hopEdges(o.Store, o.Desc.RelTypes, src, dst, o.Desc.Transpose)
			if len(edges) == 0 {
				edges = []uint64{uint64(t.Value.Int())}
			}
			for _, e := range edges {
				o.pending = append(o.pending, condHop{Dst: dst, EdgeID: e})
			}
		}
		o.pos = 0
	}
}

func (o *CondTraverse) Reset(ctx context.Context) error {
	o.pending = nil
	o.pos = 0
	return o.Child.Reset(ctx)
}
func (o *CondTraverse) Close() error { return o.Child.Close() }

// CondVarLenTraverse is CondTraverse's variable-length counterpart
// (§4.7's CondVarLenTraverse): a breadth-first walk bounded by
// [MinHops,MaxHops], each distinct node emitted once per source at the
// first depth it was discovered (an unbounded MaxHops walks until the
// BFS frontier empties, which a finite graph always does).
type CondVarLenTraverse struct {
	Store *graphstore.Store
	Desc  TraverseDesc
	Child Operator
	Width int

	curParent record.Record
	results   []uint64
	pos       int
}

func (o *CondVarLenTraverse) Open(ctx context.Context) error {
	if err := o.Child.Open(ctx); err != nil {
		return err
	}
	o.results = nil
	o.pos = 0
	return nil
}

func (o *CondVarLenTraverse) Next(ctx context.Context) (record.Record, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return record.Record{}, err
		}
		if o.pos < len(o.results) {
			dst := o.results[o.pos]
			o.pos++
			out := o.curParent.WithWidened(o.Width)
			out.Set(o.Desc.DstSlot, value.NewNodeRef(dst))
			return out, nil
		}
		parent, err := o.Child.Next(ctx)
		if err != nil {
			return record.Record{}, err
		}
		o.curParent = parent
		src := parent.Get(o.Desc.SrcSlot).RefID()
		o.results = o.bfs(src)
		o.pos = 0
	}
}

func (o *CondVarLenTraverse) bfs(src uint64) []uint64 {
	type item struct {
		id    uint64
		depth int
	}
	m := unionMatrix(o.Store, o.Desc.RelTypes)
	visited := map[uint64]bool{src: true}
	queue := []item{{src, 0}}
	var out []uint64
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if o.Desc.MaxHops >= 0 && cur.depth >= o.Desc.MaxHops {
			continue
		}
		for _, t := range oneHopTuples(m, int64(cur.id), o.Desc.Transpose) {
			nb := uint64(t.Col)
			if visited[nb] {
				continue
			}
			visited[nb] = true
			depth := cur.depth + 1
			if depth >= o.Desc.MinHops {
				out = append(out, nb)
			}
			queue = append(queue, item{nb, depth})
		}
	}
	return out
}

func (o *CondVarLenTraverse) Reset(ctx context.Context) error {
	o.results = nil
	o.pos = 0
	return o.Child.Reset(ctx)
}
func (o *CondVarLenTraverse) Close() error { return o.Child.Close() }

// ExpandInto checks adjacency between two already-bound endpoints rather
// than producing new rows (§4.7's ExpandInto — both pattern ends were
// already bound by an earlier part of the same pattern, e.g.
// `(a)-->(b)-->(a)`).
type ExpandInto struct {
	Store *graphstore.Store
	Desc  TraverseDesc
	Child Operator
	Width int // only needed when Desc.EdgeSlotBound names a slot the child record doesn't carry yet

	curRec  record.Record
	pending []uint64
	pos     int
}

func (o *ExpandInto) Open(ctx context.Context) error {
	if err := o.Child.Open(ctx); err != nil {
		return err
	}
	o.pending = nil
	o.pos = 0
	return nil
}

func (o *ExpandInto) Next(ctx context.Context) (record.Record, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return record.Record{}, err
		}
		if o.pos < len(o.pending) {
			edgeID := o.pending[o.pos]
			o.pos++
			if !o.Desc.EdgeSlotBound {
				return o.curRec, nil
			}
			out := o.curRec.WithWidened(o.Width)
			out.Set(o.Desc.EdgeSlot, value.NewEdgeRef(edgeID))
			return out, nil
		}
		rec, err := o.Child.Next(ctx)
		if err != nil {
			return record.Record{}, err
		}
		src := rec.Get(o.Desc.SrcSlot).RefID()
		dst := rec.Get(o.Desc.DstSlot).RefID()
		r, c := int64(src), int64(dst)
		if o.Desc.Transpose {
			r, c = c, r
		}
		m := unionMatrix(o.Store, o.Desc.RelTypes)
		v, ok := m.Get(r, c)
		if !ok {
			continue
		}
		o.curRec = rec
		if o.Desc.EdgeSlotBound {
			o.pending = hopEdges(o.Store, o.Desc.RelTypes, src, dst, o.Desc.Transpose)
			if len(o.pending) == 0 {
				o.pending = []uint64{uint64(v.Int())}
			}
		} else {
			o.pending = []uint64{0}
		}
		o.pos = 0
	}
}

func (o *ExpandInto) Reset(ctx context.Context) error {
	o.pending = nil
	o.pos = 0
	return o.Child.Reset(ctx)
}
func (o *ExpandInto) Close() error { return o.Child.Close() }
