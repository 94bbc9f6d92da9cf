// Package matrix is the thin façade of §4.3 over the sparse-matrix kernel.
// The real system delegates mxm/vxm/reduce/transpose to an external
// GraphBLAS-style kernel (§1 lists it as an out-of-scope black box); this
// package is that black box's in-process stand-in, built directly against
// Go's map-based sparse representation rather than a binding to a real
// kernel library, since no example repo in the corpus ships one (see
// DESIGN.md).
package matrix

import (
	"sort"
	"sync"

	"github.com/ritamzico/graphcypher/internal/value"
)

// cell addresses one (row, col) entry.
type cell struct {
	row, col int64
}

// Matrix is a rows×cols sparse matrix over a semiring's carrier values.
// Writes (SetElement/RemoveElement) land in an unsorted pending buffer
// (GLOSSARY: "Pending tuple") rather than the live map; any operation that
// reads the matrix (Get, mxm, vxm, reduce, transpose, extract_tuples,
// element-wise ops) calls Flush first, satisfying §4.3's flush guarantee.
// RemoveElement marks a tombstone (GLOSSARY: "Zombie") that Flush applies
// by deleting the cell from the live map.
type Matrix struct {
	mu    sync.Mutex
	rows  int64
	cols  int64
	cells map[cell]value.Value

	pendingSet    []pendingSet
	pendingRemove map[cell]struct{}
}

type pendingSet struct {
	cell
	v value.Value
}

// New allocates an empty rows×cols matrix.
func New(rows, cols int64) *Matrix {
	return &Matrix{
		rows:          rows,
		cols:          cols,
		cells:         make(map[cell]value.Value),
		pendingRemove: make(map[cell]struct{}),
	}
}

// Dims reports the current shape.
func (m *Matrix) Dims() (rows, cols int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows, m.cols
}

// Resize grows the matrix to at least newRows×newCols. Matrix dimensions
// only grow monotonically within a query (§3 Graph invariants); shrinking
// is rejected as a no-op to preserve that invariant rather than an error,
// since the caller (graphstore, re-sizing for a freshly allocated id) never
// legitimately asks to shrink.
func (m *Matrix) Resize(newRows, newCols int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if newRows > m.rows {
		m.rows = newRows
	}
	if newCols > m.cols {
		m.cols = newCols
	}
}

// SetElement queues an insertion/update of (i,j) to v. It is not visible to
// readers (Get, mxm, ...) until Flush runs.
func (m *Matrix) SetElement(i, j int64, v value.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cell{i, j}
	delete(m.pendingRemove, c)
	m.pendingSet = append(m.pendingSet, pendingSet{c, v})
}

// RemoveElement queues a tombstone for (i,j): the cell remains physically
// present (a zombie) until Flush.
func (m *Matrix) RemoveElement(i, j int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cell{i, j}
	m.pendingRemove[c] = struct{}{}
}

// Flush drains the pending buffer in insertion order into the live matrix
// and clears the tombstone set, per §9's "Pending updates + zombies"
// design note. Called automatically by every read operation; exported so
// graphstore.Store.FlushPending (§4.2) can force it explicitly too.
func (m *Matrix) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
}

func (m *Matrix) flushLocked() {
	for c := range m.pendingRemove {
		delete(m.cells, c)
	}
	for _, p := range m.pendingSet {
		if _, tomb := m.pendingRemove[p.cell]; tomb {
			continue
		}
		m.cells[p.cell] = p.v
	}
	m.pendingSet = m.pendingSet[:0]
	m.pendingRemove = make(map[cell]struct{})
}

// Get returns the element at (i,j), flushing first.
func (m *Matrix) Get(i, j int64) (value.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
	v, ok := m.cells[cell{i, j}]
	return v, ok
}

// Clear empties the matrix, discarding pending state too.
func (m *Matrix) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells = make(map[cell]value.Value)
	m.pendingSet = nil
	m.pendingRemove = make(map[cell]struct{})
}

// Dup returns a deep, independent copy (already flushed).
func (m *Matrix) Dup() *Matrix {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
	out := New(m.rows, m.cols)
	for c, v := range m.cells {
		out.cells[c] = v
	}
	return out
}

// Tuple is one (row, col, value) entry produced by ExtractTuples.
type Tuple struct {
	Row, Col int64
	Value    value.Value
}

// ExtractTuples returns every live cell, flushing first. Order is
// unspecified beyond being deterministic for a given snapshot (sorted by
// row then col, so callers get reproducible traversal order without the
// façade needing to track insertion order separately).
func (m *Matrix) ExtractTuples() []Tuple {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
	out := make([]Tuple, 0, len(m.cells))
	for c, v := range m.cells {
		out = append(out, Tuple{Row: c.row, Col: c.col, Value: v})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Row != out[b].Row {
			return out[a].Row < out[b].Row
		}
		return out[a].Col < out[b].Col
	})
	return out
}

// Descriptor selects transpose/mask/accum modifiers on an operation, per
// §4.3's "Descriptors select: transpose A, transpose B, replace C,
// complement mask."
type Descriptor struct {
	TransposeA  bool
	TransposeB  bool
	Replace     bool
	ComplementMask bool
}

func (m *Matrix) rowLocked(aliasTranspose bool, r int64) map[int64]value.Value {
	out := make(map[int64]value.Value)
	if !aliasTranspose {
		for c, v := range m.cells {
			if c.row == r {
				out[c.col] = v
			}
		}
	} else {
		for c, v := range m.cells {
			if c.col == r {
				out[c.row] = v
			}
		}
	}
	return out
}

// Transpose writes B = A^T into a freshly-allocated matrix (the façade
// always allocates a destination rather than aliasing, sidestepping the
// "kernel may require a temporary duplicate when C aliases A" concern in
// §4.3 by never aliasing in the first place).
func Transpose(a *Matrix) *Matrix {
	a.Flush()
	a.mu.Lock()
	defer a.mu.Unlock()
	out := New(a.cols, a.rows)
	for c, v := range a.cells {
		out.cells[cell{row: c.col, col: c.row}] = v
	}
	return out
}

// MXM computes C<mask> = accum(C, A·B) under semiring sr, honoring desc's
// transpose flags. mask may be nil (no masking). accum may be nil, meaning
// "replace": the product overwrites C's prior value at each touched cell
// rather than combining with it.
func MXM(c *Matrix, mask *Matrix, accum *Monoid, sr Semiring, a, b *Matrix, desc Descriptor) {
	a.Flush()
	b.Flush()
	if mask != nil {
		mask.Flush()
	}

	a.mu.Lock()
	aCells := make(map[cell]value.Value, len(a.cells))
	for k, v := range a.cells {
		aCells[k] = v
	}
	a.mu.Unlock()

	b.mu.Lock()
	bCells := make(map[cell]value.Value, len(b.cells))
	for k, v := range b.cells {
		bCells[k] = v
	}
	b.mu.Unlock()

	if desc.TransposeA {
		aCells = transposeCells(aCells)
	}
	if desc.TransposeB {
		bCells = transposeCells(bCells)
	}

	// Group A's entries by row and B's entries by row (== the contraction
	// index), so for each (i,k) in A we visit every (k,j) in B.
	aByRow := make(map[int64][]cell)
	for ck := range aCells {
		aByRow[ck.row] = append(aByRow[ck.row], ck)
	}
	bByRow := make(map[int64][]cell)
	for ck := range bCells {
		bByRow[ck.row] = append(bByRow[ck.row], ck)
	}

	acc := make(map[cell]value.Value)
	for i, aRowCells := range aByRow {
		for _, ac := range aRowCells {
			k := ac.col
			for _, bc := range bByRow[k] {
				j := bc.col
				prod := sr.Multiply(aCells[ac], bCells[bc])
				dst := cell{i, j}
				if prev, ok := acc[dst]; ok {
					acc[dst] = sr.Monoid.Plus(prev, prod)
				} else {
					acc[dst] = prod
				}
			}
		}
	}

	applyMasked(c, acc, mask, accum, desc)
}

func transposeCells(in map[cell]value.Value) map[cell]value.Value {
	out := make(map[cell]value.Value, len(in))
	for c, v := range in {
		out[cell{row: c.col, col: c.row}] = v
	}
	return out
}

// applyMasked writes acc into c, respecting an optional mask/complement
// and an optional accumulate monoid (nil means replace).
func applyMasked(c *Matrix, acc map[cell]value.Value, mask *Matrix, accum *Monoid, desc Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushLocked()

	var maskCells map[cell]struct{}
	if mask != nil {
		mask.mu.Lock()
		maskCells = make(map[cell]struct{}, len(mask.cells))
		for mc, mv := range mask.cells {
			if mv.Truthy() {
				maskCells[mc] = struct{}{}
			}
		}
		mask.mu.Unlock()
	}

	if desc.Replace {
		c.cells = make(map[cell]value.Value)
	}

	for dst, v := range acc {
		if maskCells != nil {
			_, inMask := maskCells[dst]
			if desc.ComplementMask {
				inMask = !inMask
			}
			if !inMask {
				continue
			}
		}
		if accum != nil {
			if prev, ok := c.cells[dst]; ok {
				c.cells[dst] = accum.Plus(prev, v)
				continue
			}
		}
		c.cells[dst] = v
	}
}

// VXM computes w<mask> = accum(w, v·A): a row-vector (1×n Matrix) times A.
func VXM(w *Matrix, mask *Matrix, accum *Monoid, sr Semiring, v, a *Matrix, desc Descriptor) {
	MXM(w, mask, accum, sr, v, a, desc)
}

// MXV computes w<mask> = accum(w, A·v): A times a column-vector (n×1
// Matrix).
func MXV(w *Matrix, mask *Matrix, accum *Monoid, sr Semiring, a, v *Matrix, desc Descriptor) {
	MXM(w, mask, accum, sr, a, v, desc)
}

// ReduceScalar folds every live entry through monoid, per §4.3's
// reduce_scalar.
func ReduceScalar(mo Monoid, a *Matrix) value.Value {
	a.Flush()
	a.mu.Lock()
	defer a.mu.Unlock()
	acc := mo.Identity
	first := true
	for _, v := range a.cells {
		if first {
			acc = v
			first = false
			continue
		}
		acc = mo.Plus(acc, v)
	}
	return acc
}

// ElementWiseAdd computes the union (§4.3): C<mask> = accum(C, A ⊕ B) via
// op, where cells present in either A or B contribute, and cells in both
// combine through op.
func ElementWiseAdd(c *Matrix, mask *Matrix, accum *Monoid, op func(a, b value.Value) value.Value, a, b *Matrix, desc Descriptor) {
	a.Flush()
	b.Flush()
	a.mu.Lock()
	aCells := cloneCells(a.cells)
	a.mu.Unlock()
	b.mu.Lock()
	bCells := cloneCells(b.cells)
	b.mu.Unlock()

	acc := make(map[cell]value.Value, len(aCells)+len(bCells))
	for k, v := range aCells {
		acc[k] = v
	}
	for k, v := range bCells {
		if prev, ok := acc[k]; ok {
			acc[k] = op(prev, v)
		} else {
			acc[k] = v
		}
	}
	applyMasked(c, acc, mask, accum, desc)
}

// ElementWiseMult computes the intersection (§4.3): only cells present in
// both A and B contribute, combined through op.
func ElementWiseMult(c *Matrix, mask *Matrix, accum *Monoid, op func(a, b value.Value) value.Value, a, b *Matrix, desc Descriptor) {
	a.Flush()
	b.Flush()
	a.mu.Lock()
	aCells := cloneCells(a.cells)
	a.mu.Unlock()
	b.mu.Lock()
	bCells := cloneCells(b.cells)
	b.mu.Unlock()

	acc := make(map[cell]value.Value)
	for k, v := range aCells {
		if bv, ok := bCells[k]; ok {
			acc[k] = op(v, bv)
		}
	}
	applyMasked(c, acc, mask, accum, desc)
}

func cloneCells(in map[cell]value.Value) map[cell]value.Value {
	out := make(map[cell]value.Value, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// NNZ reports the number of live (non-tombstoned) entries after flushing —
// used by tests and by the planner's cost estimation.
func (m *Matrix) NNZ() int {
	m.Flush()
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cells)
}
