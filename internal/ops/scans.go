package ops

import (
	"context"
	"io"

	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// AllNodeScan emits one record per live node, NodeRef bound into Slot
// (§4.7's AllNodeScan).
type AllNodeScan struct {
	Store *graphstore.Store
	Slot  int
	Width int

	ids []uint64
	pos int
}

func (o *AllNodeScan) Open(ctx context.Context) error {
	o.ids = o.Store.AllNodeIDs()
	o.pos = 0
	return nil
}

func (o *AllNodeScan) Next(ctx context.Context) (record.Record, error) {
	if err := checkCancelled(ctx); err != nil {
		return record.Record{}, err
	}
	if o.pos >= len(o.ids) {
		return record.Record{}, io.EOF
	}
	id := o.ids[o.pos]
	o.pos++
	rec := record.New(o.Width)
	rec.Set(o.Slot, value.NewNodeRef(id))
	return rec, nil
}

func (o *AllNodeScan) Reset(ctx context.Context) error { return o.Open(ctx) }
func (o *AllNodeScan) Close() error                    { o.ids = nil; return nil }

// NodeByLabelScan emits one record per live node carrying Label (§4.7's
// NodeByLabelScan), read off the label's diagonal selector matrix via
// graphstore.Store.NodesWithLabel.
type NodeByLabelScan struct {
	Store *graphstore.Store
	Label schema.LabelID
	Slot  int
	Width int

	ids []uint64
	pos int
}

func (o *NodeByLabelScan) Open(ctx context.Context) error {
	o.ids = o.Store.NodesWithLabel(o.Label)
	o.pos = 0
	return nil
}

func (o *NodeByLabelScan) Next(ctx context.Context) (record.Record, error) {
	if err := checkCancelled(ctx); err != nil {
		return record.Record{}, err
	}
	if o.pos >= len(o.ids) {
		return record.Record{}, io.EOF
	}
	id := o.ids[o.pos]
	o.pos++
	rec := record.New(o.Width)
	rec.Set(o.Slot, value.NewNodeRef(id))
	return rec, nil
}

func (o *NodeByLabelScan) Reset(ctx context.Context) error { return o.Open(ctx) }
func (o *NodeByLabelScan) Close() error                    { o.ids = nil; return nil }

// IndexPredicate selects how NodeByIndexScan compares a node's indexed
// property against Operand.
type IndexPredicate int

const (
	PredEQ IndexPredicate = iota
	PredLT
	PredLE
	PredGT
	PredGE
)

// NodeByIndexScan emits nodes carrying Label whose Prop satisfies Pred
// against Operand (§6 "Index operations"). The index registry
// (internal/schema) only tracks that the (label,prop) pair is indexed, and
// the plan builder never emits this operator; row production reads live
// property values off the label scan,
// filtering as it goes, per internal/schema.Index's doc comment.
type NodeByIndexScan struct {
	Store   *graphstore.Store
	Label   schema.LabelID
	Prop    schema.PropKeyID
	Pred    IndexPredicate
	Operand value.Value
	Slot    int
	Width   int

	ids []uint64
	pos int
}

func (o *NodeByIndexScan) Open(ctx context.Context) error {
	o.ids = o.ids[:0]
	for _, id := range o.Store.NodesWithLabel(o.Label) {
		n, ok := o.Store.GetNode(id)
		if !ok {
			continue
		}
		v, ok := n.Props[o.Prop]
		if !ok {
			continue
		}
		if matchPredicate(o.Pred, v, o.Operand) {
			o.ids = append(o.ids, id)
		}
	}
	o.pos = 0
	return nil
}

func (o *NodeByIndexScan) Next(ctx context.Context) (record.Record, error) {
	if err := checkCancelled(ctx); err != nil {
		return record.Record{}, err
	}
	if o.pos >= len(o.ids) {
		return record.Record{}, io.EOF
	}
	id := o.ids[o.pos]
	o.pos++
	rec := record.New(o.Width)
	rec.Set(o.Slot, value.NewNodeRef(id))
	return rec, nil
}

func (o *NodeByIndexScan) Reset(ctx context.Context) error { return o.Open(ctx) }
func (o *NodeByIndexScan) Close() error                    { o.ids = nil; return nil }

func matchPredicate(pred IndexPredicate, v, operand value.Value) bool {
	cmp := value.Compare(v, operand)
	if cmp == value.Incomparable {
		return false
	}
	switch pred {
	case PredEQ:
		return cmp == value.Equal
	case PredLT:
		return cmp == value.Less
	case PredLE:
		return cmp == value.Less || cmp == value.Equal
	case PredGT:
		return cmp == value.Greater
	case PredGE:
		return cmp == value.Greater || cmp == value.Equal
	default:
		return false
	}
}
