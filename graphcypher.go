// Package graphcypher is the module's top-level façade, grounded on the
// teacher's pgraph.go: a thin wrapper exposing New/Query/MarshalResultJSON
// so cmd/graphql-cli and cmd/graphqld share one entry point rather than
// reaching into internal/engine directly. The teacher's Load/Save pair
// (JSON (de)serialization of a whole probabilistic graph) has no
// counterpart here — this engine is a live, mutating store rather than a
// value loaded once and queried, so persistence is out of scope (see
// DESIGN.md); New is the only constructor.
package graphcypher

import (
	"context"
	"encoding/json"

	"github.com/ritamzico/graphcypher/internal/engine"
	"github.com/ritamzico/graphcypher/internal/metrics"
	"github.com/ritamzico/graphcypher/internal/planlog"
	"github.com/ritamzico/graphcypher/internal/resultset"
)

// ResultSet is re-exported so callers never need to import internal/resultset
// directly, the same re-export idiom pgraph.go uses for internal/result's
// types (Result, PathResult, ...).
type ResultSet = resultset.ResultSet

// DB wraps one graph's engine: its store, schema, and the logging/metrics
// collectors every query runs through.
type DB struct {
	Engine *engine.Engine
}

// New creates an empty graph, the counterpart to the teacher's pgraph.New
// (which wraps graph.CreateProbAdjListGraph()). log and m may be nil.
func New(log *planlog.Logger, m *metrics.Metrics) *DB {
	return &DB{Engine: engine.New(log, m)}
}

// Query parses, plans, and executes one Cypher statement against this
// graph (the teacher's PGraph.Query, generalized from ParseLine's single
// typed Result to the (header, rows, stats) envelope §6 describes).
func (db *DB) Query(ctx context.Context, query string) (*ResultSet, error) {
	return db.Engine.Execute(ctx, query)
}

// jsonResult is the wire shape for one query response: the header row,
// every data row rendered per §6's serialization rules, and the mutation/
// timing summary — the generalization of the teacher's jsonResult
// {Kind, Data} envelope to a single shape every query produces, rather
// than one envelope shape per DSL result kind.
type jsonResult struct {
	Header []string        `json:"header"`
	Rows   [][]string      `json:"rows"`
	Stats  resultset.Stats `json:"stats"`
}

// MarshalResultJSON renders rs the way cmd/graphqld's /query handler
// needs: a header, one
// serialized-field slice per row (via resultset.FormatValue, expanding node/
// edge references to their full literal form), and the stats envelope.
func (db *DB) MarshalResultJSON(rs *ResultSet) ([]byte, error) {
	jr := jsonResult{Header: rs.Header, Stats: rs.Stats}
	jr.Rows = make([][]string, len(rs.Rows))
	resolver := resultset.StoreResolver{Store: db.Engine.Store}
	for i, rec := range rs.Rows {
		row := make([]string, rec.Len())
		for c := 0; c < rec.Len(); c++ {
			row[c] = resultset.FormatValue(rec.Get(c), resolver)
		}
		jr.Rows[i] = row
	}
	return json.Marshal(jr)
}
