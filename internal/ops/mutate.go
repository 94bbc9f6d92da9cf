package ops

import (
	"context"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// MutationStats accumulates the counters §6's result envelope reports
// (NodesCreated, PropertiesSet, ...). One instance is shared by every
// write operator internal/plan compiles into a single statement, so a
// query chaining CREATE ... SET ... DELETE reports one combined total
// rather than per-clause figures the caller would have to sum itself.
type MutationStats struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
	LabelsAdded          int
}

// CreateNodeSpec describes one node pattern of a CREATE clause, compiled
// down to a record slot and per-property expressions (§4.7's Create).
type CreateNodeSpec struct {
	Slot   int
	Labels []schema.LabelID
	Props  map[schema.PropKeyID]*expr.Expr
}

// CreateEdgeSpec describes one relationship pattern of a CREATE clause.
// SrcSlot/DstSlot may name either an entity already bound earlier in the
// same query or a node this same Create call is about to create — the
// plan builder orders Nodes before Edges so the slot is always populated
// by the time an edge spec reads it.
type CreateEdgeSpec struct {
	Slot             int
	SlotBound        bool
	Type             schema.TypeID
	SrcSlot, DstSlot int
	Props            map[schema.PropKeyID]*expr.Expr
}

// Create materializes new nodes and edges into the store, once per child
// record (§4.7's Create). The caller (internal/engine) holds the store's
// write lock for the query's whole execution; Create never locks itself.
type Create struct {
	Store    *graphstore.Store
	Child    Operator
	Nodes    []CreateNodeSpec
	Edges    []CreateEdgeSpec
	Resolver expr.Resolver
	Width    int
	Stats    *MutationStats
}

func (o *Create) Open(ctx context.Context) error { return o.Child.Open(ctx) }

func (o *Create) Next(ctx context.Context) (record.Record, error) {
	if err := checkCancelled(ctx); err != nil {
		return record.Record{}, err
	}
	parent, err := o.Child.Next(ctx)
	if err != nil {
		return record.Record{}, err
	}
	out := parent.WithWidened(o.Width)

	for _, n := range o.Nodes {
		props, err := evalPropMap(n.Props, out, o.Resolver)
		if err != nil {
			return record.Record{}, err
		}
		id := o.Store.CreateNode(n.Labels, props)
		out.Set(n.Slot, value.NewNodeRef(id))
		if o.Stats != nil {
			o.Stats.NodesCreated++
			o.Stats.PropertiesSet += len(props)
			o.Stats.LabelsAdded += len(n.Labels)
		}
	}
	for _, e := range o.Edges {
		props, err := evalPropMap(e.Props, out, o.Resolver)
		if err != nil {
			return record.Record{}, err
		}
		src := out.Get(e.SrcSlot).RefID()
		dst := out.Get(e.DstSlot).RefID()
		id, err := o.Store.CreateEdge(e.Type, src, dst, props)
		if err != nil {
			return record.Record{}, err
		}
		if e.SlotBound {
			out.Set(e.Slot, value.NewEdgeRef(id))
		}
		if o.Stats != nil {
			o.Stats.RelationshipsCreated++
			o.Stats.PropertiesSet += len(props)
		}
	}
	o.Store.FlushPending()
	return out, nil
}

func (o *Create) Reset(ctx context.Context) error { return o.Child.Reset(ctx) }
func (o *Create) Close() error                    { return o.Child.Close() }

func evalPropMap(exprs map[schema.PropKeyID]*expr.Expr, rec record.Record, resolver expr.Resolver) (map[schema.PropKeyID]value.Value, error) {
	out := make(map[schema.PropKeyID]value.Value, len(exprs))
	for k, e := range exprs {
		v, err := expr.Evaluate(e, rec, resolver, nil)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// SetPropertyItem assigns one property of a bound node or edge (SET
// n.prop = expr).
type SetPropertyItem struct {
	Slot  int
	Kind  graphstore.EntityKind
	Key   schema.PropKeyID
	Value *expr.Expr
}

// SetLabelItem attaches one or more labels to a bound node (SET n:Label).
type SetLabelItem struct {
	Slot   int
	Labels []schema.LabelID
}

// Update applies SET items to already-bound entities, once per child
// record (§4.7's Update).
type Update struct {
	Store      *graphstore.Store
	Child      Operator
	Properties []SetPropertyItem
	Labels     []SetLabelItem
	Resolver   expr.Resolver
	Stats      *MutationStats
}

func (o *Update) Open(ctx context.Context) error { return o.Child.Open(ctx) }

func (o *Update) Next(ctx context.Context) (record.Record, error) {
	if err := checkCancelled(ctx); err != nil {
		return record.Record{}, err
	}
	rec, err := o.Child.Next(ctx)
	if err != nil {
		return record.Record{}, err
	}
	for _, item := range o.Properties {
		v, err := expr.Evaluate(item.Value, rec, o.Resolver, nil)
		if err != nil {
			return record.Record{}, err
		}
		id := rec.Get(item.Slot).RefID()
		if err := o.Store.SetProperty(item.Kind, id, item.Key, v); err != nil {
			return record.Record{}, err
		}
		if o.Stats != nil {
			o.Stats.PropertiesSet++
		}
	}
	for _, item := range o.Labels {
		id := rec.Get(item.Slot).RefID()
		for _, l := range item.Labels {
			added, err := o.Store.AddLabel(id, l)
			if err != nil {
				return record.Record{}, err
			}
			if added && o.Stats != nil {
				o.Stats.LabelsAdded++
			}
		}
	}
	o.Store.FlushPending()
	return rec, nil
}

func (o *Update) Reset(ctx context.Context) error { return o.Child.Reset(ctx) }
func (o *Update) Close() error                    { return o.Child.Close() }

// DeleteItem names one entity-valued expression to delete.
type DeleteItem struct {
	Expr *expr.Expr
}

// Delete removes bound nodes/edges, once per child record (§4.7's
// Delete). Deleted entities remain readable as zombies for the rest of
// the same query (§3) — Delete never mutates the record it passes
// through, only the store.
type Delete struct {
	Store    *graphstore.Store
	Child    Operator
	Items    []DeleteItem
	Detach   bool
	Resolver expr.Resolver
	Stats    *MutationStats
}

func (o *Delete) Open(ctx context.Context) error { return o.Child.Open(ctx) }

func (o *Delete) Next(ctx context.Context) (record.Record, error) {
	if err := checkCancelled(ctx); err != nil {
		return record.Record{}, err
	}
	rec, err := o.Child.Next(ctx)
	if err != nil {
		return record.Record{}, err
	}
	for _, item := range o.Items {
		v, err := expr.Evaluate(item.Expr, rec, o.Resolver, nil)
		if err != nil {
			return record.Record{}, err
		}
		switch v.Kind() {
		case value.NodeRef:
			cascaded, err := o.Store.DeleteNode(v.RefID(), o.Detach)
			if err != nil {
				return record.Record{}, err
			}
			if o.Stats != nil {
				o.Stats.NodesDeleted++
				o.Stats.RelationshipsDeleted += cascaded
			}
		case value.EdgeRef:
			if err := o.Store.DeleteEdge(v.RefID()); err != nil {
				return record.Record{}, err
			}
			if o.Stats != nil {
				o.Stats.RelationshipsDeleted++
			}
		}
	}
	o.Store.FlushPending()
	return rec, nil
}

func (o *Delete) Reset(ctx context.Context) error { return o.Child.Reset(ctx) }
func (o *Delete) Close() error                    { return o.Child.Close() }

// MergeNodeSpec is a single-node MERGE pattern's match/create template.
// internal/plan restricts Props to literal values (no outer-scope
// variable reference), since a fresh lookup scan has no row to read an
// outer binding from.
type MergeNodeSpec struct {
	Slot   int
	Labels []schema.LabelID
	Props  map[schema.PropKeyID]*expr.Expr
}

// Merge finds or creates one node per child record, matching on Node's
// labels and properties (§4.7's Merge, scoped to the single-node-pattern
// case — see DESIGN.md). A match runs OnMatchProps/OnMatchLabels; a
// fresh create runs OnCreateProps/OnCreateLabels.
type Merge struct {
	Store *graphstore.Store
	Child Operator
	Node  MergeNodeSpec

	OnMatchProps   []SetPropertyItem
	OnMatchLabels  []SetLabelItem
	OnCreateProps  []SetPropertyItem
	OnCreateLabels []SetLabelItem

	Resolver expr.Resolver
	Width    int
	Stats    *MutationStats
}

func (o *Merge) Open(ctx context.Context) error { return o.Child.Open(ctx) }

func (o *Merge) Next(ctx context.Context) (record.Record, error) {
	if err := checkCancelled(ctx); err != nil {
		return record.Record{}, err
	}
	parent, err := o.Child.Next(ctx)
	if err != nil {
		return record.Record{}, err
	}
	props, err := evalPropMap(o.Node.Props, parent, o.Resolver)
	if err != nil {
		return record.Record{}, err
	}

	id, found := o.findMatch(props)
	out := parent.WithWidened(o.Width)
	if found {
		out.Set(o.Node.Slot, value.NewNodeRef(id))
		if err := o.applyProps(out, id, o.OnMatchProps); err != nil {
			return record.Record{}, err
		}
		if err := o.applyLabels(id, o.OnMatchLabels); err != nil {
			return record.Record{}, err
		}
		o.Store.FlushPending()
		return out, nil
	}

	id = o.Store.CreateNode(o.Node.Labels, props)
	out.Set(o.Node.Slot, value.NewNodeRef(id))
	if o.Stats != nil {
		o.Stats.NodesCreated++
		o.Stats.PropertiesSet += len(props)
		o.Stats.LabelsAdded += len(o.Node.Labels)
	}
	if err := o.applyProps(out, id, o.OnCreateProps); err != nil {
		return record.Record{}, err
	}
	if err := o.applyLabels(id, o.OnCreateLabels); err != nil {
		return record.Record{}, err
	}
	o.Store.FlushPending()
	return out, nil
}

// findMatch looks for a live node carrying every label in o.Node.Labels
// and an exact (KeyEqual) match on every property in props. Scoped to
// NodesWithLabel(first label) when any label was named, else a full
// AllNodeIDs scan.
func (o *Merge) findMatch(props map[schema.PropKeyID]value.Value) (uint64, bool) {
	var candidates []uint64
	if len(o.Node.Labels) > 0 {
		candidates = o.Store.NodesWithLabel(o.Node.Labels[0])
	} else {
		candidates = o.Store.AllNodeIDs()
	}
	for _, id := range candidates {
		n, ok := o.Store.GetNode(id)
		if !ok {
			continue
		}
		if !hasAllLabels(n.Labels, o.Node.Labels) {
			continue
		}
		if propsMatch(n.Props, props) {
			return id, true
		}
	}
	return 0, false
}

func hasAllLabels(have, want []schema.LabelID) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func propsMatch(have, want map[schema.PropKeyID]value.Value) bool {
	for k, v := range want {
		hv, ok := have[k]
		if !ok || !value.KeyEqual(hv, v) {
			return false
		}
	}
	return true
}

func (o *Merge) applyProps(out record.Record, id uint64, items []SetPropertyItem) error {
	for _, item := range items {
		v, err := expr.Evaluate(item.Value, out, o.Resolver, nil)
		if err != nil {
			return err
		}
		if err := o.Store.SetProperty(item.Kind, id, item.Key, v); err != nil {
			return err
		}
		if o.Stats != nil {
			o.Stats.PropertiesSet++
		}
	}
	return nil
}

func (o *Merge) applyLabels(id uint64, items []SetLabelItem) error {
	for _, item := range items {
		for _, l := range item.Labels {
			added, err := o.Store.AddLabel(id, l)
			if err != nil {
				return err
			}
			if added && o.Stats != nil {
				o.Stats.LabelsAdded++
			}
		}
	}
	return nil
}

func (o *Merge) Reset(ctx context.Context) error { return o.Child.Reset(ctx) }
func (o *Merge) Close() error                    { return o.Child.Close() }
