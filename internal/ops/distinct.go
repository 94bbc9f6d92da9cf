package ops

import (
	"context"
	"io"

	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/record"
)

// Distinct suppresses records structurally equal to one already emitted
// (§4.7's Distinct): full-record equality, with NULLs collapsing against
// each other per §8 property 7 (record.Equal already implements that
// rule via value.KeyEqual). Seen records accumulate for the operator's
// lifetime, so Distinct is not resettable once consumption has started.
type Distinct struct {
	Child Operator

	seen    map[uint64][]record.Record
	started bool
}

func (o *Distinct) Open(ctx context.Context) error {
	o.seen = make(map[uint64][]record.Record)
	o.started = false
	return o.Child.Open(ctx)
}

func (o *Distinct) Next(ctx context.Context) (record.Record, error) {
	for {
		if err := checkCancelled(ctx); err != nil {
			return record.Record{}, err
		}
		rec, err := o.Child.Next(ctx)
		if err == io.EOF {
			return record.Record{}, io.EOF
		}
		if err != nil {
			return record.Record{}, err
		}
		o.started = true
		fp := record.Fingerprint(rec)
		dup := false
		for _, prior := range o.seen[fp] {
			if record.Equal(prior, rec) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		o.seen[fp] = append(o.seen[fp], rec)
		return rec, nil
	}
}

func (o *Distinct) Reset(ctx context.Context) error {
	if o.started {
		return gqerr.Internal("Distinct cannot be reset mid-stream")
	}
	o.seen = make(map[uint64][]record.Record)
	return o.Child.Reset(ctx)
}

func (o *Distinct) Close() error { o.seen = nil; return o.Child.Close() }
