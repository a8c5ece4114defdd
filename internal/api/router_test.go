package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/loopcap/internal/eval"
	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/metrics"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/store"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func intp(i int) *int { return &i }

func attrs(motion, start, end string) *sequence.RawAttributes {
	return &sequence.RawAttributes{MotionType: motion, StartLoc: start, EndLoc: end}
}

func rotatedEntries() []sequence.RawEntry {
	return []sequence.RawEntry{
		{Word: "AA"},
		{Beat: intp(0), SequenceStartPosition: "alpha", EndPos: "alpha1"},
		{Beat: intp(1), StartPos: "alpha1", EndPos: "alpha5", Blue: attrs("pro", "n", "s"), Red: attrs("anti", "e", "w")},
		{Beat: intp(2), StartPos: "alpha5", EndPos: "alpha1", Blue: attrs("pro", "s", "n"), Red: attrs("anti", "w", "e")},
	}
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := SetupRouter(Deps{})

	w := do(t, r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestClassify(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := SetupRouter(Deps{Recorder: metrics.New(reg), Gatherer: reg})

	w := do(t, r, http.MethodPost, "/api/v1/classify", ClassifyRequest{Name: "AA", Entries: rotatedEntries()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Name   string      `json:"name"`
		Result loop.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AA", resp.Name)
	assert.Equal(t, loop.StrictRotated, resp.Result.LoopType)
	assert.Equal(t, []loop.Component{loop.Rotated}, resp.Result.Components)

	m := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), `loopcap_requests_total{outcome="ok",transport="http"} 1`)
	assert.Contains(t, m.Body.String(), `loopcap_classifications_total{confidence="strict",loop_type="STRICT_ROTATED"} 1`)
}

func TestClassifyBadRequest(t *testing.T) {
	r := SetupRouter(Deps{})

	w := do(t, r, http.MethodPost, "/api/v1/classify", map[string]any{"name": "x", "entries": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/classify", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsWithoutStore(t *testing.T) {
	r := SetupRouter(Deps{})

	w := do(t, r, http.MethodGet, "/api/v1/runs", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestRunsRoundTrip(t *testing.T) {
	s := newStore(t)
	_, _, err := s.Import(
		map[string][]sequence.RawEntry{"AA": rotatedEntries()},
		map[string]validation.Label{"AA": {Components: []string{"rotated"}}},
	)
	require.NoError(t, err)
	report, err := validation.Run(context.Background(), s, s, validation.Options{})
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(report, nil))

	r := SetupRouter(Deps{Runs: s})

	w := do(t, r, http.MethodGet, "/api/v1/runs?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Runs []store.RunRecord `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, report.RunID, list.Runs[0].RunID)

	w = do(t, r, http.MethodGet, "/api/v1/runs/"+report.RunID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, 1, one.Run.Matches)
	require.Len(t, one.Details, 1)
	assert.Equal(t, validation.StatusMatch, one.Details[0].Status)

	w = do(t, r, http.MethodGet, "/api/v1/runs/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/runs?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateWithoutStore(t *testing.T) {
	r := SetupRouter(Deps{})

	w := do(t, r, http.MethodPost, "/api/v1/validate", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

// 1. import a labeled corpus, 2. validate over HTTP, 3. the run is listed and
// the gate metrics are exported.
func TestValidateSavesRun(t *testing.T) {
	s := newStore(t)
	_, _, err := s.Import(
		map[string][]sequence.RawEntry{"AA": rotatedEntries()},
		map[string]validation.Label{
			"AA":    {Components: []string{"rotated"}},
			"GHOST": {Components: []string{"mirrored"}},
		},
	)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	r := SetupRouter(Deps{Runs: s, Validator: s, Workers: 2, Recorder: metrics.New(reg), Gatherer: reg})

	w := do(t, r, http.MethodPost, "/api/v1/validate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Report.Matches)
	assert.Equal(t, 1, resp.Report.NotFound)
	assert.True(t, resp.Gate.Passed, resp.Gate.Reason)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, resp.Report.RunID, runs[0].RunID)
	assert.True(t, runs[0].Gated)

	m := do(t, r, http.MethodGet, "/metrics", nil)
	assert.Contains(t, m.Body.String(), `loopcap_validation_runs_total{passed="true"} 1`)
	assert.Contains(t, m.Body.String(), `loopcap_validation_accuracy 1`)
	assert.Contains(t, m.Body.String(), `loopcap_validation_results_total{status="NOT_FOUND"} 1`)
}

func TestValidateStrictGate(t *testing.T) {
	s := newStore(t)
	_, _, err := s.Import(nil, map[string]validation.Label{"GHOST": {Components: []string{"rotated"}}})
	require.NoError(t, err)

	gate := eval.DefaultEvalConfig()
	gate.MaxNotFound = 0
	r := SetupRouter(Deps{Validator: s, Gate: &gate})

	w := do(t, r, http.MethodPost, "/api/v1/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Gate.Passed)
}
