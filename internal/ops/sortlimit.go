package ops

import (
	"context"
	"io"
	"sort"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/value"
)

// SortKey is one ORDER BY term.
type SortKey struct {
	Expr       *expr.Expr
	Descending bool
}

// Sort materializes the full child stream and emits it back in order
// (§4.7's Sort — stable, and not resettable after the first Next for the
// same reason Aggregate isn't). Ties fall through remaining keys in
// order; NULL sorts last under ASC and first under DESC, and two non-NULL
// values that do not compare tie on that key.
type Sort struct {
	Child    Operator
	Keys     []SortKey
	Resolver expr.Resolver

	rows         []record.Record
	pos          int
	materialized bool
}

func (o *Sort) Open(ctx context.Context) error {
	if err := o.Child.Open(ctx); err != nil {
		return err
	}
	o.rows = nil
	o.pos = 0
	o.materialized = false
	return nil
}

type sortRow struct {
	rec  record.Record
	keys []value.Value
}

func (o *Sort) materialize(ctx context.Context) error {
	var rows []sortRow
	for {
		if err := checkCancelled(ctx); err != nil {
			return err
		}
		rec, err := o.Child.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		keys := make([]value.Value, len(o.Keys))
		for i, k := range o.Keys {
			v, err := expr.Evaluate(k.Expr, rec, o.Resolver, nil)
			if err != nil {
				return err
			}
			keys[i] = v
		}
		rows = append(rows, sortRow{rec: rec, keys: keys})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for idx, k := range o.Keys {
			less, done := lessKey(rows[i].keys[idx], rows[j].keys[idx], k.Descending)
			if done {
				return less
			}
		}
		return false
	})
	o.rows = make([]record.Record, len(rows))
	for i, r := range rows {
		o.rows[i] = r.rec
	}
	o.materialized = true
	return nil
}

// lessKey orders a, b under a single ORDER BY term. done is false when a
// and b tie on this term and the caller should fall through to the next
// key. NULL (Incomparable against everything) sorts after every real
// value under ASC and before every real value under DESC.
func lessKey(a, b value.Value, desc bool) (less, done bool) {
	cmp := value.Compare(a, b)
	if cmp == value.Incomparable {
		aNull, bNull := a.IsNull(), b.IsNull()
		if aNull == bNull {
			return false, false
		}
		if desc {
			return aNull, true
		}
		return bNull, true
	}
	if cmp == value.Equal {
		return false, false
	}
	less = cmp == value.Less
	if desc {
		less = !less
	}
	return less, true
}

func (o *Sort) Next(ctx context.Context) (record.Record, error) {
	if !o.materialized {
		if err := o.materialize(ctx); err != nil {
			return record.Record{}, err
		}
	}
	if o.pos >= len(o.rows) {
		return record.Record{}, io.EOF
	}
	r := o.rows[o.pos]
	o.pos++
	return r, nil
}

func (o *Sort) Reset(ctx context.Context) error {
	if o.materialized && o.pos > 0 {
		return gqerr.Internal("Sort cannot be reset mid-stream")
	}
	o.rows = nil
	o.materialized = false
	return o.Child.Reset(ctx)
}

func (o *Sort) Close() error { o.rows = nil; return o.Child.Close() }

// Skip drops the first N records (§4.7's Skip). A negative N is rejected
// at build time by internal/plan, never here.
type Skip struct {
	Child Operator
	N     int

	skipped int
}

func (o *Skip) Open(ctx context.Context) error { o.skipped = 0; return o.Child.Open(ctx) }

func (o *Skip) Next(ctx context.Context) (record.Record, error) {
	for o.skipped < o.N {
		if _, err := o.Child.Next(ctx); err != nil {
			return record.Record{}, err
		}
		o.skipped++
	}
	return o.Child.Next(ctx)
}

func (o *Skip) Reset(ctx context.Context) error { o.skipped = 0; return o.Child.Reset(ctx) }
func (o *Skip) Close() error                    { return o.Child.Close() }

// Limit caps output at N records, counted after Skip (§4.7's Limit — 0
// emits nothing, negative is rejected at build time).
type Limit struct {
	Child Operator
	N     int

	emitted int
}

func (o *Limit) Open(ctx context.Context) error { o.emitted = 0; return o.Child.Open(ctx) }

func (o *Limit) Next(ctx context.Context) (record.Record, error) {
	if o.emitted >= o.N {
		return record.Record{}, io.EOF
	}
	rec, err := o.Child.Next(ctx)
	if err != nil {
		return record.Record{}, err
	}
	o.emitted++
	return rec, nil
}

func (o *Limit) Reset(ctx context.Context) error { o.emitted = 0; return o.Child.Reset(ctx) }
func (o *Limit) Close() error                    { return o.Child.Close() }
