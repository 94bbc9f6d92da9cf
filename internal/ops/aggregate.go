package ops

import (
	"context"
	"io"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/groupcache"
	"github.com/ritamzico/graphcypher/internal/record"
)

// Aggregate groups the child stream by KeyExprs and steps AggExprs per
// group (§4.7's Aggregate, state machine INIT -> DRAINING_CHILD ->
// EMITTING -> DONE). Output width is len(KeyExprs)+len(AggExprs): key
// values occupy the leading slots in KeyExprs order, finalized aggregate
// results follow in AggExprs order. Groups are emitted in first-seen
// order (§4.8), matching groupcache.Cache.Groups.
type Aggregate struct {
	Child    Operator
	KeyExprs []*expr.Expr
	AggExprs []*expr.Expr
	Resolver expr.Resolver

	cache   *groupcache.Cache
	pos     int
	drained bool
}

func (o *Aggregate) Open(ctx context.Context) error {
	if err := o.Child.Open(ctx); err != nil {
		return err
	}
	o.cache = groupcache.New(0)
	o.pos = 0
	o.drained = false
	return nil
}

func (o *Aggregate) drain(ctx context.Context) error {
	for {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		rec, err := o.Child.Next(ctx)
		if err == io.EOF {
			o.drained = true
			if len(o.KeyExprs) == 0 && len(o.cache.Groups()) == 0 {
				// Cypher's implicit (no-key) aggregation always reports one
				// row, even over zero input rows (count(*) over nothing is
				// 0, not no rows).
				o.cache.FindOrCreate(record.New(0))
			}
			return nil
		}
		if err != nil {
			return err
		}
		key := record.New(len(o.KeyExprs))
		for i, e := range o.KeyExprs {
			v, err := expr.Evaluate(e, rec, o.Resolver, nil)
			if err != nil {
				return err
			}
			key.Set(i, v)
		}
		g := o.cache.FindOrCreate(key)
		for _, e := range o.AggExprs {
			if err := expr.Aggregate(e, rec, o.Resolver, g.State); err != nil {
				return err
			}
		}
	}
}

func (o *Aggregate) Next(ctx context.Context) (record.Record, error) {
	if !o.drained {
		if err := o.drain(ctx); err != nil {
			return record.Record{}, err
		}
	}
	groups := o.cache.Groups()
	if o.pos >= len(groups) {
		return record.Record{}, io.EOF
	}
	g := groups[o.pos]
	o.pos++

	out := record.New(len(o.KeyExprs) + len(o.AggExprs))
	for i := 0; i < len(o.KeyExprs); i++ {
		out.Set(i, g.Key.Get(i))
	}
	for i, e := range o.AggExprs {
		expr.Reduce(e, g.State)
		v, err := expr.Evaluate(e, record.Record{}, o.Resolver, g.State)
		if err != nil {
			return record.Record{}, err
		}
		out.Set(len(o.KeyExprs)+i, v)
	}
	return out, nil
}

// Reset is only valid before the first Next call — once draining or
// emitting has started, the grouping cache is not safely rewindable
// (§4.7's "not resettable mid-stream" note on materializing operators).
func (o *Aggregate) Reset(ctx context.Context) error {
	if o.drained || o.pos > 0 {
		return gqerr.Internal("Aggregate cannot be reset mid-stream")
	}
	return o.Child.Reset(ctx)
}

func (o *Aggregate) Close() error {
	o.cache = nil
	return o.Child.Close()
}
