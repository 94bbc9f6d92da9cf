package ops

import (
	"context"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/record"
)

// Filter drops records whose predicate evaluates falsy (§4.7's Filter;
// Truthy() is Cypher's NULL/false-are-falsy coercion).
type Filter struct {
	Child    Operator
	Pred     *expr.Expr
	Resolver expr.Resolver
}

func (o *Filter) Open(ctx context.Context) error { return o.Child.Open(ctx) }

func (o *Filter) Next(ctx context.Context) (record.Record, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return record.Record{}, err
		}
		rec, err := o.Child.Next(ctx)
		if err != nil {
			return record.Record{}, err
		}
		v, err := expr.Evaluate(o.Pred, rec, o.Resolver, nil)
		if err != nil {
			return record.Record{}, err
		}
		if v.Truthy() {
			return rec, nil
		}
	}
}

func (o *Filter) Reset(ctx context.Context) error { return o.Child.Reset(ctx) }
func (o *Filter) Close() error                    { return o.Child.Close() }

// Project evaluates Exprs against each child record, producing a record
// of len(Exprs) slots (§4.7's Project) — the shape RETURN/WITH compile
// to once grouping, if any, has already happened.
type Project struct {
	Child    Operator
	Exprs    []*expr.Expr
	Resolver expr.Resolver
}

func (o *Project) Open(ctx context.Context) error { return o.Child.Open(ctx) }

func (o *Project) Next(ctx context.Context) (record.Record, error) {
	rec, err := o.Child.Next(ctx)
	if err != nil {
		return record.Record{}, err
	}
	out := record.New(len(o.Exprs))
	for i, e := range o.Exprs {
		v, err := expr.Evaluate(e, rec, o.Resolver, nil)
		if err != nil {
			return record.Record{}, err
		}
		out.Set(i, v)
	}
	return out, nil
}

func (o *Project) Reset(ctx context.Context) error { return o.Child.Reset(ctx) }
func (o *Project) Close() error                    { return o.Child.Close() }
