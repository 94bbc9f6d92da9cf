// Package engine is the top-level façade tying parser -> querygraph ->
// planner -> plan -> ops -> resultset together (§5's query lifecycle),
// grounded on the teacher's pgraph.go (a PGraph struct wrapping a graph
// model + parser, exposing one Query method) and internal/engine/engine.go
// (an InferenceEngine wrapping Execute/ExecuteWithContext over a
// query.Query). The teacher's engine had no locking concerns since its
// graph model is read-only after Load; this one centralizes the store's
// single read/write lock here rather than in any one operator, since a
// write query's whole pipeline — not just its Create/Update/Delete nodes —
// must run under Lock for the duration of the pull.
package engine

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ritamzico/graphcypher/internal/cypher"
	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/metrics"
	"github.com/ritamzico/graphcypher/internal/ops"
	"github.com/ritamzico/graphcypher/internal/plan"
	"github.com/ritamzico/graphcypher/internal/planlog"
	"github.com/ritamzico/graphcypher/internal/procedure"
	"github.com/ritamzico/graphcypher/internal/resultset"
	"github.com/ritamzico/graphcypher/internal/schema"
)

// Engine owns one graph's store/schema plus the procedure registry every
// compiled plan resolves names against; the plan compiler builds a fresh
// function registry for each query. Safe for
// concurrent Execute calls: the store's own RWMutex (held per-query by
// this package, never by the operators) is what actually serializes
// writers against readers.
type Engine struct {
	Store   *graphstore.Store
	Schema  *schema.Schema
	Procs   *procedure.Registry
	Log     *planlog.Logger
	Metrics *metrics.Metrics

	resolver resultset.StoreResolver
}

// New creates an empty graph with its own schema, the shape the teacher's
// pgraph.New constructs a fresh graph.ProbAdjListGraph for.
func New(log *planlog.Logger, m *metrics.Metrics) *Engine {
	sc := schema.New()
	store := graphstore.New(sc)
	return &Engine{
		Store:    store,
		Schema:   sc,
		Procs:    procedure.New(),
		Log:      log,
		Metrics:  m,
		resolver: resultset.StoreResolver{Store: store},
	}
}

// Execute parses, plans, and runs one Cypher statement end to end,
// returning the (header, rows, stats) envelope of §6.
func (e *Engine) Execute(ctx context.Context, query string) (*resultset.ResultSet, error) {
	id := uuid.New()
	start := time.Now()
	if e.Log != nil {
		e.Log.QueryStart(id, query)
	}

	rs, err := e.execute(ctx, id, query)

	elapsed := time.Since(start)
	if err != nil {
		if e.Metrics != nil {
			e.Metrics.QueriesFailed.Inc()
		}
		if e.Log != nil {
			e.Log.QueryFailed(id, err, elapsed)
		}
		return nil, err
	}
	if e.Metrics != nil {
		e.Metrics.QueriesExecuted.Inc()
		e.Metrics.QueryDuration.Observe(elapsed.Seconds())
	}
	if e.Log != nil {
		e.Log.QueryComplete(id, query, len(rs.Rows), elapsed)
	}
	rs.Stats.ExecutionTimeMs = float64(elapsed.Microseconds()) / 1000
	return rs, nil
}

func (e *Engine) execute(ctx context.Context, id uuid.UUID, query string) (*resultset.ResultSet, error) {
	stmt, err := cypher.Parse(query)
	if err != nil {
		return nil, err
	}

	p, err := plan.Build(stmt, e.Store, e.Schema, nil, e.Procs)
	if err != nil {
		return nil, err
	}

	if p.Index != nil {
		return e.executeIndexOp(p.Index)
	}

	if p.Mutates {
		e.Store.Lock()
		defer e.Store.Unlock()
	} else {
		e.Store.RLock()
		defer e.Store.RUnlock()
		if e.Metrics != nil {
			e.Metrics.ReadersActive.Inc()
			defer e.Metrics.ReadersActive.Dec()
		}
	}

	root := &ops.ProduceResults{Child: p.Root, QueryID: id, Log: e.Log, Metrics: e.Metrics}
	rs, err := e.drain(ctx, root, p.Header)
	if err != nil {
		return nil, err
	}
	if p.Stats != nil {
		rs.Stats.NodesCreated = p.Stats.NodesCreated
		rs.Stats.NodesDeleted = p.Stats.NodesDeleted
		rs.Stats.RelationshipsCreated = p.Stats.RelationshipsCreated
		rs.Stats.RelationshipsDeleted = p.Stats.RelationshipsDeleted
		rs.Stats.PropertiesSet = p.Stats.PropertiesSet
		rs.Stats.LabelsAdded = p.Stats.LabelsAdded
	}
	return rs, nil
}

// drain pulls root to completion, collecting every row into a ResultSet.
// A write-only plan (empty Header) still runs every row through — its
// operators' side effects are what the caller actually wants — and its
// rows are collected into the ResultSet under the empty header like any
// other plan's.
func (e *Engine) drain(ctx context.Context, root ops.Operator, header []string) (*resultset.ResultSet, error) {
	if err := root.Open(ctx); err != nil {
		return nil, err
	}
	defer root.Close()

	rs := resultset.New(header)
	for {
		rec, err := root.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rs.Add(rec)
	}
	return rs, nil
}

func (e *Engine) executeIndexOp(op *plan.IndexOp) (*resultset.ResultSet, error) {
	e.Store.Lock()
	defer e.Store.Unlock()

	rs := resultset.New(nil)
	if op.Create {
		if _, err := e.Schema.CreateIndex(op.Label, op.Prop); err != nil {
			return nil, err
		}
		rs.Stats.IndicesCreated = 1
		return rs, nil
	}
	if err := e.Schema.DropIndex(op.Label, op.Prop); err != nil {
		return nil, err
	}
	rs.Stats.IndicesDropped = 1
	return rs, nil
}

// Serialize renders a result set's rows per §6's textual row format,
// resolving NodeRef/EdgeRef values against this engine's own store.
func (e *Engine) Serialize(rs *resultset.ResultSet) []string {
	out := make([]string, len(rs.Rows))
	for i, rec := range rs.Rows {
		out[i] = resultset.SerializeRow(rec, e.resolver)
	}
	return out
}
