// Package expr is the arithmetic expression engine of §4.5: a tree of
// constants, variadic entity/property references, scalar function calls,
// and aggregate function calls, each evaluated against a record.
//
// Grounded on the teacher's query package (internal/query/query.go's
// typed-query-object-to-Execute(ctx, graph) shape) generalized from a
// fixed handful of named query kinds to a general expression tree, with
// aggregate state management modeled on §4.8's Group
// "(key-vector, aggregate-context-vector)" — a group's aggregate state
// lives in an AggState the caller owns per group, not on the Expr tree
// itself, so one compiled expression tree is safely reused across every
// group a query produces.
package expr

import (
	"github.com/ritamzico/graphcypher/internal/funcs"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// Kind tags an expression node.
type Kind int

const (
	KindConst Kind = iota
	KindVariadic
	KindScalarOp
	KindAggregateOp
)

// Expr is one node of the expression tree (§3's "Expression tree").
type Expr struct {
	Kind Kind

	// KindConst
	Const value.Value

	// KindVariadic: record[Slot], optionally narrowed to a property.
	Slot    int
	HasProp bool
	Prop    schema.PropKeyID
	PropRaw string // for error messages, and resolution of the built-in entity accessors

	// KindScalarOp / KindAggregateOp
	FuncName string
	Func     funcs.Scalar
	AggCtor  funcs.AggregateConstructor
	Distinct bool
	Args     []*Expr
}

// Resolver looks up a property on an entity reference, per §4.2's
// graph_get_node/graph_get_edge — missing properties evaluate to NULL,
// per Cypher's usual "no such key" semantics, not an error.
type Resolver interface {
	NodeProperty(id uint64, key schema.PropKeyID) value.Value
	EdgeProperty(id uint64, key schema.PropKeyID) value.Value
}

// AggState holds one group's aggregate contexts and finalized results
// (§4.8's "aggregate-context-vector" for a single Group), keyed by the
// Expr identity within the shared, plan-wide compiled tree.
type AggState struct {
	contexts map[*Expr]funcs.Aggregate
	finals   map[*Expr]value.Value
}

// NewAggState creates an empty per-group aggregate state.
func NewAggState() *AggState {
	return &AggState{contexts: make(map[*Expr]funcs.Aggregate), finals: make(map[*Expr]value.Value)}
}

func (s *AggState) contextFor(e *Expr) funcs.Aggregate {
	if ctx, ok := s.contexts[e]; ok {
		return ctx
	}
	ctx := e.AggCtor(e.Distinct)
	s.contexts[e] = ctx
	return ctx
}

// Evaluate computes e's value against rec (§4.5's evaluate). Aggregate
// nodes must already have been reduced into state.finals via Reduce;
// evaluating one before that is an engine invariant violation.
func Evaluate(e *Expr, rec record.Record, res Resolver, state *AggState) (value.Value, error) {
	switch e.Kind {
	case KindConst:
		return e.Const, nil
	case KindVariadic:
		entity := rec.Get(e.Slot)
		if !e.HasProp {
			return entity, nil
		}
		switch entity.Kind() {
		case value.NodeRef:
			return res.NodeProperty(entity.RefID(), e.Prop), nil
		case value.EdgeRef:
			return res.EdgeProperty(entity.RefID(), e.Prop), nil
		case value.Null:
			return value.NewNull(), nil
		default:
			return value.Value{}, gqerr.Type("PropertyAccessOnScalar", "cannot access property %q on a %s value", e.PropRaw, entity.Kind())
		}
	case KindScalarOp:
		args := make([]value.Value, len(e.Args))
		for i, a := range e.Args {
			v, err := Evaluate(a, rec, res, state)
			if err != nil {
				return value.Value{}, err
			}
			args[i] = v
		}
		return e.Func(args)
	case KindAggregateOp:
		if state == nil {
			return value.Value{}, gqerr.Internal("aggregate expression evaluated outside a group context")
		}
		v, ok := state.finals[e]
		if !ok {
			return value.Value{}, gqerr.Internal("aggregate expression evaluated before reduce")
		}
		return v, nil
	default:
		return value.Value{}, gqerr.Internal("unknown expression kind %d", e.Kind)
	}
}

// Aggregate walks e and, for every aggregate OP node found (including
// nested inside scalar subtrees), evaluates its arguments against rec and
// steps its per-group context (§4.5's aggregate(expr, record)).
func Aggregate(e *Expr, rec record.Record, res Resolver, state *AggState) error {
	switch e.Kind {
	case KindConst, KindVariadic:
		return nil
	case KindScalarOp:
		for _, a := range e.Args {
			if err := Aggregate(a, rec, res, state); err != nil {
				return err
			}
		}
		return nil
	case KindAggregateOp:
		args := make([]value.Value, len(e.Args))
		for i, a := range e.Args {
			v, err := Evaluate(a, rec, res, state)
			if err != nil {
				return err
			}
			args[i] = v
		}
		state.contextFor(e).Step(args)
		return nil
	default:
		return gqerr.Internal("unknown expression kind %d", e.Kind)
	}
}

// Reduce walks e and finalizes every aggregate OP node's context exactly
// once, caching the result in state.finals (§4.5's reduce(expr) /
// invariant "never stepped after finalize").
func Reduce(e *Expr, state *AggState) {
	switch e.Kind {
	case KindConst, KindVariadic:
		return
	case KindScalarOp:
		for _, a := range e.Args {
			Reduce(a, state)
		}
	case KindAggregateOp:
		if _, done := state.finals[e]; done {
			return
		}
		state.finals[e] = state.contextFor(e).Finalize()
	}
}

// ContainsAggregate reports whether e (or any descendant) is an
// aggregate OP node — the plan builder uses this to decide whether a
// projection requires an Aggregate operator.
func ContainsAggregate(e *Expr) bool {
	switch e.Kind {
	case KindAggregateOp:
		return true
	case KindScalarOp:
		for _, a := range e.Args {
			if ContainsAggregate(a) {
				return true
			}
		}
	}
	return false
}

// NewConst builds a constant leaf.
func NewConst(v value.Value) *Expr { return &Expr{Kind: KindConst, Const: v} }

// NewVariadic builds a variadic reference to record[slot], optionally
// narrowed to a property.
func NewVariadic(slot int, hasProp bool, propKey schema.PropKeyID, propRaw string) *Expr {
	return &Expr{Kind: KindVariadic, Slot: slot, HasProp: hasProp, Prop: propKey, PropRaw: propRaw}
}

// NewScalarOp builds a scalar function-call node.
func NewScalarOp(name string, fn funcs.Scalar, args ...*Expr) *Expr {
	return &Expr{Kind: KindScalarOp, FuncName: name, Func: fn, Args: args}
}

// NewAggregateOp builds an aggregate function-call node.
func NewAggregateOp(name string, ctor funcs.AggregateConstructor, distinct bool, args ...*Expr) *Expr {
	return &Expr{Kind: KindAggregateOp, FuncName: name, AggCtor: ctor, Distinct: distinct, Args: args}
}
