package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chainloom/chainloom/internal/metrics"
	"github.com/chainloom/chainloom/internal/snapshot"
	"github.com/chainloom/chainloom/pkg/planner"
	"github.com/chainloom/chainloom/pkg/trace"
)

type queryRequest struct {
	Query string `json:"query"`
}

// handleQuery executes a pattern query. Unrecognized text is not an
// HTTP error: the response carries outcome "unrecognized" and an empty
// binding list, mirroring the engine's fail-open contract.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := s.queries.Execute(req.Query)
	metrics.QueriesExecuted.WithLabelValues(string(res.Outcome)).Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"outcome":  res.Outcome,
		"bindings": res.Bindings,
		"count":    len(res.Bindings),
	})
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	lineage, err := s.tracer.Trace(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, trace.ErrProductNotFound) {
			metrics.TracesExecuted.WithLabelValues("not_found").Inc()
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.TracesExecuted.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, lineage)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Schema())
}

func (s *Server) handleSchemaDescription(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"description": planner.DescribeSchema(s.store),
	})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	nodes := s.store.AllNodes(r.URL.Query().Get("label"))
	writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes, "count": len(nodes)})
}

func (s *Server) handleNodeByID(w http.ResponseWriter, r *http.Request) {
	node, ok := s.store.NodeByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleNodeRelationships(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.store.NodeByID(id); !ok {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	types := r.URL.Query()["type"]
	writeJSON(w, http.StatusOK, s.index.Neighborhood(id, types...))
}

func (s *Server) handleRelationships(w http.ResponseWriter, r *http.Request) {
	rels := s.store.AllRelationships(r.URL.Query().Get("type"))
	writeJSON(w, http.StatusOK, map[string]any{"relationships": rels, "count": len(rels)})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var plan planner.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan body")
		return
	}

	results := s.plans.Execute(plan)
	metrics.PlansExecuted.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "count": len(results)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if err := s.snapshots.Save(s.store); err != nil {
		s.logger.Error("snapshot export failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	schema := s.store.Schema()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"nodes":         schema.NodeCount,
		"relationships": schema.RelationshipCount,
	})
}

// handleImport replaces the live graph with the snapshot backend's
// contents. Validation happens against a staging store, so a malformed
// snapshot reports 400 and leaves the graph as it was.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := s.snapshots.Load(s.store); err != nil {
		metrics.SnapshotLoads.WithLabelValues("error").Inc()
		s.logger.Error("snapshot import failed", "err", err)
		if errors.Is(err, snapshot.ErrMalformedSnapshot) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.SnapshotLoads.WithLabelValues("ok").Inc()

	schema := s.store.Schema()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"nodes":         schema.NodeCount,
		"relationships": schema.RelationshipCount,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
