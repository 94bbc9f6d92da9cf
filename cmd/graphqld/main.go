// Command graphqld is the HTTP front end for the graph-cypher query
// engine, grounded on the teacher's cmd/server/main.go (a stdlib
// net/http server with CORS middleware and one POST /query handler)
// reimplemented under github.com/spf13/cobra per SPEC_FULL's ambient CLI
// section, and exposing the Prometheus collectors internal/metrics wires
// via promhttp.HandlerFor on /metrics. Unlike the teacher's stateless
// "graph travels in the request body" design, this server holds a map of
// named in-memory graphs across requests, since there is no JSON graph
// wire format to round-trip through the client (see graphcypher.go).
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	graphcypher "github.com/ritamzico/graphcypher"
	"github.com/ritamzico/graphcypher/internal/metrics"
	"github.com/ritamzico/graphcypher/internal/planlog"
)

var allowedOrigins = []string{
	"http://localhost:5173",
}

// server holds every named graph a client has created, guarded by mu since
// requests for different graphs (and concurrent requests for the same one)
// arrive on separate goroutines — graphcypher.DB/engine.Engine only
// serialize access to one graph's own store, not across the map.
type server struct {
	mu     sync.Mutex
	graphs map[string]*graphcypher.DB
	log    *planlog.Logger
	m      *metrics.Metrics
}

func newServer(log *planlog.Logger, m *metrics.Metrics) *server {
	return &server{graphs: make(map[string]*graphcypher.DB), log: log, m: m}
}

func (s *server) graph(name string) *graphcypher.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, ok := s.graphs[name]
	if !ok {
		db = graphcypher.New(s.log, s.m)
		s.graphs[name] = db
	}
	return db
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Graph string `json:"graph"`
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Graph == "" {
		writeError(w, http.StatusBadRequest, "missing field: graph")
		return
	}
	if body.Query == "" {
		writeError(w, http.StatusBadRequest, "missing field: query")
		return
	}

	db := s.graph(body.Graph)
	rs, err := db.Query(r.Context(), body.Query)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b, err := db.MarshalResultJSON(rs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func run(port int) error {
	z, err := zap.NewProduction()
	if err != nil {
		z = zap.NewNop()
	}
	log := planlog.New(z)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	s := newServer(log, m)

	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("graphqld listening on %s\n", addr)
	return http.ListenAndServe(addr, corsMiddleware(mux))
}

func main() {
	var port int
	root := &cobra.Command{
		Use:   "graphqld",
		Short: "HTTP server for the graph-cypher query engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(port)
		},
	}
	root.Flags().IntVar(&port, "port", 8080, "port to listen on")
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
