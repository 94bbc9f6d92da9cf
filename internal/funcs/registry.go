// Package funcs is the function registry of §4.4: a name→scalar-function
// table and a name→aggregate-constructor table, both resolved
// case-insensitively at plan-build time.
//
// Grounded on the teacher's query.Reducer family (internal/query/reducer.go)
// generalized from a one-shot Reduce([]Result) batch interface to the
// streaming step/finalize shape §4.4 requires (aggregates see one record
// at a time as the child operator is pulled).
package funcs

import (
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/value"
)

// Scalar is a pure, side-effect-free scalar function (§4.4).
type Scalar func(args []value.Value) (value.Value, error)

// Aggregate is a per-call aggregation context: step accumulates one row's
// arguments, finalize produces the aggregate's result exactly once. A
// single context is never stepped after finalize (§4.5 invariant).
type Aggregate interface {
	Step(args []value.Value)
	Finalize() value.Value
}

// AggregateConstructor builds a fresh Aggregate context; distinct, when
// true, makes the returned Aggregate drop repeated arguments in Step itself
// (distinctGuard keeps the dedup set), so callers pass every row through.
type AggregateConstructor func(distinct bool) Aggregate

// Registry is the process-wide function table, populated once at startup.
// Registry is free of mutable state once built: Lookup/LookupAggregate are
// safe for concurrent readers with no locking.
type Registry struct {
	scalars    map[string]Scalar
	aggregates map[string]AggregateConstructor
}

// New builds a Registry with every built-in in §4.4's minimum list
// registered.
func New() *Registry {
	r := &Registry{
		scalars:    make(map[string]Scalar),
		aggregates: make(map[string]AggregateConstructor),
	}
	registerArithmetic(r)
	registerString(r)
	registerPredicates(r)
	registerAggregates(r)
	return r
}

func (r *Registry) registerScalar(name string, fn Scalar) {
	r.scalars[name] = fn
}

func (r *Registry) registerAggregate(name string, ctor AggregateConstructor) {
	r.aggregates[name] = ctor
}

// Lookup resolves a scalar function by case-insensitive name.
func (r *Registry) Lookup(name string) (Scalar, bool) {
	fn, ok := r.scalars[lower(name)]
	return fn, ok
}

// LookupAggregate resolves an aggregate constructor by case-insensitive
// name.
func (r *Registry) LookupAggregate(name string) (AggregateConstructor, bool) {
	ctor, ok := r.aggregates[lower(name)]
	return ctor, ok
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func arityError(name string, want, got int) error {
	return gqerr.Validation("ArityMismatch", "%s expects %d argument(s), got %d", name, want, got)
}

func typeError(name string, v value.Value) error {
	return gqerr.Type("BadArgumentType", "%s cannot accept a value of kind %s", name, v.Kind())
}
