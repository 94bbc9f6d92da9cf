package funcs

import (
	"math"
	"sort"
	"strings"

	"github.com/ritamzico/graphcypher/internal/value"
)

// distinctGuard wraps an Aggregate so Step silently drops an argument
// tuple it has already seen, implementing the "distinct?" flag of §4.4
// without every aggregate kind reimplementing dedup.
type distinctGuard struct {
	inner Aggregate
	seen  map[uint64][][]value.Value
}

func (d *distinctGuard) Step(args []value.Value) {
	fp := fingerprintArgs(args)
	for _, prior := range d.seen[fp] {
		if sameArgs(prior, args) {
			return
		}
	}
	d.seen[fp] = append(d.seen[fp], append([]value.Value(nil), args...))
	d.inner.Step(args)
}

func (d *distinctGuard) Finalize() value.Value { return d.inner.Finalize() }

func fingerprintArgs(args []value.Value) uint64 {
	var h uint64 = 1469598103934665603
	for _, a := range args {
		h ^= a.Fingerprint()
		h *= 1099511628211
	}
	return h
}

func sameArgs(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !value.KeyEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func maybeDistinct(distinct bool, inner Aggregate) Aggregate {
	if !distinct {
		return inner
	}
	return &distinctGuard{inner: inner, seen: make(map[uint64][][]value.Value)}
}

type countAgg struct{ n int64 }

func (c *countAgg) Step(args []value.Value) {
	if len(args) == 0 || !args[0].IsNull() {
		c.n++
	}
}
func (c *countAgg) Finalize() value.Value { return value.NewInt(c.n) }

type sumAgg struct {
	sum     float64
	wasInt  bool
	anySeen bool
}

func (s *sumAgg) Step(args []value.Value) {
	if len(args) == 0 || args[0].IsNull() {
		return
	}
	if !s.anySeen {
		s.wasInt = args[0].Kind() == value.Int
		s.anySeen = true
	} else if args[0].Kind() != value.Int {
		s.wasInt = false
	}
	s.sum += args[0].AsFloat64()
}
func (s *sumAgg) Finalize() value.Value {
	if s.wasInt {
		return value.NewInt(int64(s.sum))
	}
	return value.NewFloat(s.sum)
}

type avgAgg struct {
	sum   float64
	count int64
}

func (a *avgAgg) Step(args []value.Value) {
	if len(args) == 0 || args[0].IsNull() {
		return
	}
	a.sum += args[0].AsFloat64()
	a.count++
}
func (a *avgAgg) Finalize() value.Value {
	if a.count == 0 {
		return value.NewNull()
	}
	return value.NewFloat(a.sum / float64(a.count))
}

type minMaxAgg struct {
	best  value.Value
	seen  bool
	isMax bool
}

func (m *minMaxAgg) Step(args []value.Value) {
	if len(args) == 0 || args[0].IsNull() {
		return
	}
	if !m.seen {
		m.best = args[0]
		m.seen = true
		return
	}
	cmp := value.Compare(args[0], m.best)
	if cmp == value.Incomparable {
		return
	}
	if (m.isMax && cmp == value.Greater) || (!m.isMax && cmp == value.Less) {
		m.best = args[0]
	}
}
func (m *minMaxAgg) Finalize() value.Value {
	if !m.seen {
		return value.NewNull()
	}
	return m.best
}

// collectAgg builds an ordered collection. Per SPEC_FULL supplement #2,
// collect(NULL) skips nulls. Value has no LIST kind (§3's seven-kind
// union), so the result is serialized in the §6 result-row list
// convention ("[v1, v2, ...]") and returned as STRING — the same
// representation a client would see if a list value were ever printed.
type collectAgg struct {
	items []value.Value
}

func (c *collectAgg) Step(args []value.Value) {
	if len(args) == 0 || args[0].IsNull() {
		return
	}
	c.items = append(c.items, args[0])
}
func (c *collectAgg) Finalize() value.Value {
	parts := make([]string, len(c.items))
	for i, v := range c.items {
		parts[i] = v.String()
	}
	return value.NewString("[" + strings.Join(parts, ", ") + "]")
}

type sampleAgg struct {
	samples []float64
}

func (s *sampleAgg) Step(args []value.Value) {
	if len(args) == 0 || args[0].IsNull() {
		return
	}
	s.samples = append(s.samples, args[0].AsFloat64())
}

func (s *sampleAgg) sorted() []float64 {
	out := append([]float64(nil), s.samples...)
	sort.Float64s(out)
	return out
}

func percentile(sorted []float64, p float64, continuous bool) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p * float64(len(sorted)-1)
	if !continuous {
		idx := int(math.Round(rank))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		return sorted[idx]
	}
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func stddev(samples []float64, population bool) float64 {
	n := len(samples)
	if n < 2 && !population {
		return 0
	}
	if n == 0 {
		return 0
	}
	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	var sq float64
	for _, v := range samples {
		d := v - mean
		sq += d * d
	}
	divisor := float64(n - 1)
	if population {
		divisor = float64(n)
	}
	if divisor <= 0 {
		return 0
	}
	return math.Sqrt(sq / divisor)
}

func registerAggregates(r *Registry) {
	r.registerAggregate("count", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &countAgg{})
	})
	r.registerAggregate("countdistinct", func(bool) Aggregate {
		return maybeDistinct(true, &countAgg{})
	})
	r.registerAggregate("sum", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &sumAgg{})
	})
	r.registerAggregate("avg", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &avgAgg{})
	})
	r.registerAggregate("min", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &minMaxAgg{isMax: false})
	})
	r.registerAggregate("max", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &minMaxAgg{isMax: true})
	})
	r.registerAggregate("collect", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &collectAgg{})
	})
	r.registerAggregate("collectdistinct", func(bool) Aggregate {
		return maybeDistinct(true, &collectAgg{})
	})
	r.registerAggregate("stdev", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &stdevAgg{population: false})
	})
	r.registerAggregate("stdevp", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &stdevAgg{population: true})
	})
	r.registerAggregate("percentilecont", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &percentileAgg{continuous: true})
	})
	r.registerAggregate("percentiledisc", func(distinct bool) Aggregate {
		return maybeDistinct(distinct, &percentileAgg{continuous: false})
	})
}

type stdevAgg struct {
	sampleAgg
	population bool
}

func (s *stdevAgg) Finalize() value.Value {
	return value.NewFloat(stddev(s.samples, s.population))
}

// percentileAgg takes (value, percentile) pairs per row; the percentile
// argument is expected constant across a group (Cypher's own contract),
// so the last one seen wins.
type percentileAgg struct {
	sampleAgg
	continuous bool
	p          float64
}

func (p *percentileAgg) Step(args []value.Value) {
	if len(args) != 2 || args[0].IsNull() {
		return
	}
	p.sampleAgg.Step(args[:1])
	if !args[1].IsNull() {
		p.p = args[1].AsFloat64()
	}
}

func (p *percentileAgg) Finalize() value.Value {
	return value.NewFloat(percentile(p.sorted(), p.p, p.continuous))
}
