package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/doxymark/internal/config"
	"github.com/dgallion1/doxymark/internal/pipeline"
)

func newTestServer(t *testing.T, token string) (*Server, *pipeline.Orchestrator) {
	t.Helper()
	cfg := config.Default()
	cfg.Directory = filepath.Join("..", "pipeline", "testdata", "xml")
	cfg.Output = filepath.Join(t.TempDir(), "api.md")

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, log)
	return NewServer(orch, token, log), orch
}

func do(s *Server, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := do(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusBeforeRun(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := do(s, http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRebuildRequiresToken(t *testing.T) {
	s, _ := newTestServer(t, "secret")

	assert.Equal(t, http.StatusUnauthorized, do(s, http.MethodPost, "/api/rebuild", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(s, http.MethodPost, "/api/rebuild", "wrong").Code)

	rec := do(s, http.MethodPost, "/api/rebuild", "secret")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var snap pipeline.ReportSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, pipeline.RunCompleted, snap.Status)
	assert.Equal(t, 1, snap.Written)
}

func TestStatusAfterRun(t *testing.T) {
	s, orch := newTestServer(t, "")
	report, err := orch.Run(context.Background())
	require.NoError(t, err)

	rec := do(s, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap pipeline.ReportSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, report.RunID, snap.RunID)
	assert.Equal(t, "single", snap.Mode)
}

func TestIndexAndDocs(t *testing.T) {
	s, orch := newTestServer(t, "")

	rec := do(s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing has been generated yet.")

	_, err := orch.Run(context.Background())
	require.NoError(t, err)

	rec = do(s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `<a href="/docs/api.md">api.md</a>`)

	rec = do(s, http.MethodGet, "/docs/api.md", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>api.md</title>")
	assert.Contains(t, body, `id="classA"`)
	assert.Contains(t, body, "<table>")
}

func TestDocsNotFound(t *testing.T) {
	s, _ := newTestServer(t, "")
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/docs/missing.md", "").Code)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/docs/notes.txt", "").Code)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/docs/../../etc/passwd", "").Code)
}

func TestStats(t *testing.T) {
	s, orch := newTestServer(t, "")
	_, err := orch.Run(context.Background())
	require.NoError(t, err)

	rec := do(s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap pipeline.StatsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Runs)
	assert.Equal(t, 0, snap.Failed)
}
