// Package server exposes the graph store's read API over HTTP: pattern
// queries, provenance traces, schema introspection, plan execution, and
// snapshot export/import.
package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chainloom/chainloom/internal/snapshot"
	"github.com/chainloom/chainloom/pkg/cypher"
	"github.com/chainloom/chainloom/pkg/graph"
	"github.com/chainloom/chainloom/pkg/planner"
	"github.com/chainloom/chainloom/pkg/trace"
)

// Server wires the graph components behind HTTP handlers. All handlers
// are read-only against the graph except snapshot import, which
// replaces it wholesale.
type Server struct {
	store     *graph.Store
	index     *graph.Index
	queries   *cypher.Engine
	tracer    *trace.Tracer
	plans     *planner.Executor
	snapshots snapshot.Store
	logger    *slog.Logger
}

// New creates a Server over the given store and snapshot backend.
func New(store *graph.Store, snapshots snapshot.Store, logger *slog.Logger) *Server {
	index := graph.NewIndex(store)
	return &Server{
		store:     store,
		index:     index,
		queries:   cypher.NewEngine(store),
		tracer:    trace.NewTracer(store, index),
		plans:     planner.NewExecutor(store, index),
		snapshots: snapshots,
		logger:    logger,
	}
}

// Handler returns the routed HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /trace/{id}", s.handleTrace)
	mux.HandleFunc("GET /schema", s.handleSchema)
	mux.HandleFunc("GET /schema/description", s.handleSchemaDescription)
	mux.HandleFunc("GET /nodes", s.handleNodes)
	mux.HandleFunc("GET /nodes/{id}", s.handleNodeByID)
	mux.HandleFunc("GET /nodes/{id}/relationships", s.handleNodeRelationships)
	mux.HandleFunc("GET /relationships", s.handleRelationships)
	mux.HandleFunc("POST /plan", s.handlePlan)
	mux.HandleFunc("POST /system/export", s.handleExport)
	mux.HandleFunc("POST /system/import", s.handleImport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.recoveryMiddleware(s.loggingMiddleware(mux))
}
