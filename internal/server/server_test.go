package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainloom/chainloom/internal/snapshot"
	"github.com/chainloom/chainloom/pkg/graph"
)

func newTestServer(t *testing.T) (*graph.Store, *snapshot.FileStore, http.Handler) {
	t.Helper()

	store := graph.NewStore()
	store.CreateNode("Supplier", graph.Properties{"id": "SUP001", "name": "Tuscany Leather Co.", "location": "Florence, Italy"})
	store.CreateNode("Material", graph.Properties{"id": "MAT001", "name": "Premium Calf Leather"})
	store.CreateNode("Factory", graph.Properties{"id": "FAC001", "name": "Atelier Milano"})
	store.CreateNode("Product", graph.Properties{"id": "PRD001", "name": "Heritage Handbag"})
	store.CreateNode("Certification", graph.Properties{"id": "CRT001", "name": "ISO 9001"})
	require.NoError(t, store.CreateRelationship("SUP001", "MAT001", "PROVIDES", nil))
	require.NoError(t, store.CreateRelationship("MAT001", "FAC001", "SUPPLIED_TO", nil))
	require.NoError(t, store.CreateRelationship("FAC001", "PRD001", "MANUFACTURES", nil))
	require.NoError(t, store.CreateRelationship("FAC001", "CRT001", "HAS_CERTIFICATION", nil))

	snaps := snapshot.NewFileStore(filepath.Join(t.TempDir(), "graph.json"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store, snaps, New(store, snaps, logger).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestQueryEndpoint(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodPost, "/query", queryRequest{
		Query: `MATCH (s:Supplier) RETURN s`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "matched", body["outcome"])
	assert.Equal(t, float64(1), body["count"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestQueryEndpointFailsOpen(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodPost, "/query", queryRequest{Query: "bananas"})
	require.Equal(t, http.StatusOK, rec.Code, "unrecognized queries are not HTTP errors")
	assert.Equal(t, "unrecognized", body["outcome"])
	assert.Equal(t, float64(0), body["count"])
	assert.Empty(t, body["bindings"])
}

func TestQueryEndpointBadBody(t *testing.T) {
	_, _, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTraceEndpoint(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodGet, "/trace/PRD001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	factory := body["factory"].(map[string]any)
	assert.Equal(t, "FAC001", factory["id"])
	assert.Len(t, body["materials"], 1)
	assert.Len(t, body["suppliers"], 1)
	assert.Len(t, body["certifications"], 1)
}

func TestTraceEndpointNotFound(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodGet, "/trace/PRD404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "product not found")
}

func TestSchemaEndpoint(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodGet, "/schema", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5), body["nodeCount"])
	assert.Equal(t, float64(4), body["relationshipCount"])
}

func TestNodesEndpoint(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodGet, "/nodes?label=Supplier", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestNodeRelationshipsEndpoint(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodGet, "/nodes/FAC001/relationships?type=MANUFACTURES", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	outgoing := body["outgoing"].([]any)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "PRD001", outgoing[0].(map[string]any)["otherId"])
	assert.Empty(t, body["incoming"])
}

func TestPlanEndpoint(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodPost, "/plan", map[string]any{
		"intent":   "find suppliers",
		"entities": []string{"Supplier"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestExportImportRoundTrip(t *testing.T) {
	store, _, h := newTestServer(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/system/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	store.Clear()
	require.Equal(t, 0, store.Schema().NodeCount)

	rec, body := doJSON(t, h, http.MethodPost, "/system/import", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5), body["nodes"])
	assert.Equal(t, float64(4), body["relationships"])
	assert.Equal(t, 5, store.Schema().NodeCount)
}

func TestImportMalformedSnapshot(t *testing.T) {
	store, snaps, h := newTestServer(t)
	require.NoError(t, os.WriteFile(snaps.Path(), []byte(`{"nodes": "nope"}`), 0o644))

	rec, _ := doJSON(t, h, http.MethodPost, "/system/import", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 5, store.Schema().NodeCount, "live store keeps prior contents")
}

func TestHealthEndpoint(t *testing.T) {
	_, _, h := newTestServer(t)

	rec, body := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}
