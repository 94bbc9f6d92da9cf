// Package ops implements the pull-operator tree of §4.7: one struct per
// operator kind, each satisfying Operator's Open/Next/Reset/Close
// contract. internal/plan compiles an AST into a tree of these; the
// engine pulls ProduceResults at the root until it sees io.EOF.
//
// The Next-returns-io.EOF shape is the idiomatic Go pull-iterator
// convention (database/sql.Rows, bufio.Scanner-adjacent) and matches the
// pull-engine shape dolthub-go-mysql-server's sql.RowIter takes for the
// same problem (RowIter.Next() (sql.Row, error), io.EOF on exhaustion) —
// its rowexec implementations were filtered from the retrieval pack, but
// the convention survives in its _test.go files.
package ops

import (
	"context"

	"github.com/ritamzico/graphcypher/internal/expr"
	"github.com/ritamzico/graphcypher/internal/gqerr"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// Operator is the shared contract of §4.7: Open is one-shot and
// propagates to children; Next pulls one record (io.EOF signals
// exhaustion and must be idempotent — callers may call Next again after
// EOF and keep receiving EOF); Reset re-opens a resettable operator
// (Aggregate, Sort and Distinct only accept a Reset before their first
// Next, since they materialize state across the whole child stream); and
// Close releases anything an operator owns.
type Operator interface {
	Open(ctx context.Context) error
	Next(ctx context.Context) (record.Record, error)
	Reset(ctx context.Context) error
	Close() error
}

// checkCancelled implements the per-pull cancellation check of §5: a
// query's context is consulted between every record produced, not just
// at start, so a long-running scan can be aborted mid-stream.
func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return gqerr.Cancelled()
	default:
		return nil
	}
}

// storeResolver adapts a graph store to expr.Resolver, the property
// lookup seam n.prop/r.prop expressions need (§4.5).
type storeResolver struct {
	store *graphstore.Store
}

// NewResolver builds the expr.Resolver every expression-evaluating
// operator in this package needs.
func NewResolver(store *graphstore.Store) expr.Resolver {
	return storeResolver{store: store}
}

func (r storeResolver) NodeProperty(id uint64, key schema.PropKeyID) value.Value {
	n, ok := r.store.GetNode(id)
	if !ok {
		return value.NewNull()
	}
	if v, ok := n.Props[key]; ok {
		return v
	}
	return value.NewNull()
}

func (r storeResolver) EdgeProperty(id uint64, key schema.PropKeyID) value.Value {
	e, ok := r.store.GetEdge(id)
	if !ok {
		return value.NewNull()
	}
	if v, ok := e.Props[key]; ok {
		return v
	}
	return value.NewNull()
}
