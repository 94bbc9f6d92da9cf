package ops

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/metrics"
	"github.com/ritamzico/graphcypher/internal/planlog"
	"github.com/ritamzico/graphcypher/internal/procedure"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

func evalArgs(exprs []*expr.Expr, rec record.Record, resolver expr.Resolver) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, e := range exprs {
		v, err := expr.Evaluate(e, rec, resolver, nil)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Once seeds a pipeline with exactly one empty record, the entry point for
// a clause list that opens with CREATE/UNWIND/CALL/MERGE/SET/DELETE rather than a MATCH
// (there is no scan to pull from, only a single row to hang the rest of
// the chain off of).
type Once struct {
	Width int

	done bool
}

func (o *Once) Open(ctx context.Context) error { o.done = false; return nil }

func (o *Once) Next(ctx context.Context) (record.Record, error) {
	if o.done {
		return record.Record{}, io.EOF
	}
	o.done = true
	return record.New(o.Width), nil
}

func (o *Once) Reset(ctx context.Context) error { o.done = false; return nil }
func (o *Once) Close() error                    { return nil }

// Unwind expands a list expression into one output row per element
// (§4.7's Unwind). Items is compiled once per list literal at plan-build
// time, re-evaluated against every parent record so an element expression
// referencing a bound variable still works (UNWIND [a.x, a.y] AS v).
type Unwind struct {
	Child    Operator
	Items    []*expr.Expr
	Slot     int
	Resolver expr.Resolver
	Width    int

	curParent record.Record
	pos       int
	haveRow   bool
}

func (o *Unwind) Open(ctx context.Context) error {
	o.pos = 0
	o.haveRow = false
	return o.Child.Open(ctx)
}

func (o *Unwind) Next(ctx context.Context) (record.Record, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return record.Record{}, err
		}
		if o.haveRow && o.pos < len(o.Items) {
			v, err := expr.Evaluate(o.Items[o.pos], o.curParent, o.Resolver, nil)
			if err != nil {
				return record.Record{}, err
			}
			o.pos++
			out := o.curParent.WithWidened(o.Width)
			out.Set(o.Slot, v)
			return out, nil
		}
		parent, err := o.Child.Next(ctx)
		if err != nil {
			return record.Record{}, err
		}
		o.curParent = parent
		o.haveRow = true
		o.pos = 0
	}
}

func (o *Unwind) Reset(ctx context.Context) error {
	o.pos = 0
	o.haveRow = false
	return o.Child.Reset(ctx)
}
func (o *Unwind) Close() error { return o.Child.Close() }

// Cartesian joins two disconnected pattern parts by cross product (§4.7's
// Cartesian — e.g. MATCH (a), (b) with no path between them). Right is
// materialized once per Open since it must be re-walked for every Left
// row; RightSlots names the slots Right populates that Left's own slot
// range doesn't already cover.
type Cartesian struct {
	Left, Right Operator
	RightSlots  []int
	Width       int

	rightRows []record.Record
	curLeft   record.Record
	pos       int
	haveLeft  bool
	started   bool
}

func (o *Cartesian) Open(ctx context.Context) error {
	if err := o.Left.Open(ctx); err != nil {
		return err
	}
	if err := o.Right.Open(ctx); err != nil {
		return err
	}
	o.rightRows = nil
	for {
		rec, err := o.Right.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		o.rightRows = append(o.rightRows, rec)
	}
	o.pos = 0
	o.haveLeft = false
	o.started = false
	return nil
}

func (o *Cartesian) Next(ctx context.Context) (record.Record, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return record.Record{}, err
		}
		if o.haveLeft && o.pos < len(o.rightRows) {
			right := o.rightRows[o.pos]
			o.pos++
			o.started = true
			out := o.curLeft.WithWidened(o.Width)
			for _, slot := range o.RightSlots {
				out.Set(slot, right.Get(slot))
			}
			return out, nil
		}
		left, err := o.Left.Next(ctx)
		if err != nil {
			return record.Record{}, err
		}
		o.curLeft = left
		o.haveLeft = true
		o.pos = 0
	}
}

func (o *Cartesian) Reset(ctx context.Context) error {
	if o.started {
		return gqerr.Internal("Cartesian cannot be reset mid-stream")
	}
	if err := o.Left.Reset(ctx); err != nil {
		return err
	}
	return o.Right.Reset(ctx)
}

func (o *Cartesian) Close() error {
	o.rightRows = nil
	if err := o.Left.Close(); err != nil {
		return err
	}
	return o.Right.Close()
}

// ProcedureCall invokes a registered procedure once per child record
// (§6's CALL), projecting its declared outputs into OutputSlots (a slot
// of -1 means that output wasn't YIELDed and is dropped).
type ProcedureCall struct {
	Child       Operator
	Proc        *procedure.Procedure
	Args        []*expr.Expr
	OutputSlots []int
	Schema      *schema.Schema
	Resolver    expr.Resolver
	Width       int

	curParent record.Record
	inst      procedure.Instance
}

func (o *ProcedureCall) Open(ctx context.Context) error {
	o.inst = nil
	return o.Child.Open(ctx)
}

func (o *ProcedureCall) Next(ctx context.Context) (record.Record, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return record.Record{}, err
		}
		if o.inst != nil {
			row, ok, err := o.inst.Step()
			if err != nil {
				return record.Record{}, err
			}
			if !ok {
				o.inst.Free()
				o.inst = nil
				continue
			}
			out := o.curParent.WithWidened(o.Width)
			for i, slot := range o.OutputSlots {
				if slot >= 0 && i < len(row) {
					out.Set(slot, row[i])
				}
			}
			return out, nil
		}

		parent, err := o.Child.Next(ctx)
		if err != nil {
			return record.Record{}, err
		}
		o.curParent = parent

		vals, err := evalArgs(o.Args, parent, o.Resolver)
		if err != nil {
			return record.Record{}, err
		}
		inst, err := o.Proc.Call(o.Schema, vals)
		if err != nil {
			return record.Record{}, err
		}
		o.inst = inst
	}
}

func (o *ProcedureCall) Reset(ctx context.Context) error {
	if o.inst != nil {
		o.inst.Free()
		o.inst = nil
	}
	return o.Child.Reset(ctx)
}

func (o *ProcedureCall) Close() error {
	if o.inst != nil {
		o.inst.Free()
		o.inst = nil
	}
	return o.Child.Close()
}

// ProduceResults is the root of every operator tree (§4.7's
// ProduceResults): it pulls the final projection, logs and counts each
// row, and otherwise passes records through unchanged for the caller
// (internal/engine) to collect into a resultset.ResultSet.
type ProduceResults struct {
	Child   Operator
	QueryID uuid.UUID
	Log     *planlog.Logger
	Metrics *metrics.Metrics
}

func (o *ProduceResults) Open(ctx context.Context) error { return o.Child.Open(ctx) }

func (o *ProduceResults) Next(ctx context.Context) (record.Record, error) {
	rec, err := o.Child.Next(ctx)
	produced := err == nil
	if o.Log != nil {
		o.Log.OperatorPull(o.QueryID, "ProduceResults", produced)
	}
	if produced && o.Metrics != nil {
		o.Metrics.RowsProduced.Inc()
		o.Metrics.OperatorPulls.WithLabelValues("ProduceResults").Inc()
	}
	return rec, err
}

func (o *ProduceResults) Reset(ctx context.Context) error { return o.Child.Reset(ctx) }
func (o *ProduceResults) Close() error                    { return o.Child.Close() }
