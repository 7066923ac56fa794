package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/stock-screener/internal/config"
	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/importer"
	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/report"
	"github.com/sells-group/stock-screener/internal/store"
)

var testServerConfig = config.ServerConfig{CORSOrigins: []string{"https://app.example.com"}}

// newTestRouter seeds a SQLite store with the HPG fixture and returns a router over it.
func newTestRouter(t *testing.T, sc config.ServerConfig) (http.Handler, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	snap, err := importer.ReadFixtureFile(filepath.Join("testdata", "hpg.yaml"))
	require.NoError(t, err)
	_, err = importer.New(st).Import(context.Background(), snap)
	require.NoError(t, err)

	svc := report.New(st, report.Options{
		Now: func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) },
	})
	return buildRouter(st, svc, sc), st
}

func do(h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	h := buildRouter(nil, nil, testServerConfig)

	rr := do(h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthOnlyRouter_NoStockRoutes(t *testing.T) {
	h := buildRouter(nil, nil, testServerConfig)

	rr := do(h, http.MethodGet, "/stocks", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRequestID(t *testing.T) {
	h := buildRouter(nil, nil, testServerConfig)

	rr := do(h, http.MethodGet, "/health", nil)
	generated := rr.Header().Get(requestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, id, rr.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	h := buildRouter(nil, nil, testServerConfig)

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := buildRouter(nil, nil, config.ServerConfig{RateLimit: 0.001, Burst: 1})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", nil).Code)
	rr := do(h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

func TestListStocks(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig)

	rr := do(h, http.MethodGet, "/stocks", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Symbols []string `json:"symbols"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []string{"HPG"}, body.Symbols)
}

func TestDownloadSheet(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig)

	rr := do(h, http.MethodGet, "/stocks/hpg/sheet.xlsx", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="HPG.xlsx"`, rr.Header().Get("Content-Disposition"))

	_, err := grid.OpenWorkbook(rr.Body.Bytes(), "Model")
	assert.NoError(t, err)
}

func TestDownloadSheet_NotFound(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig)

	rr := do(h, http.MethodGet, "/stocks/NOPE/sheet.xlsx", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "stock not found")
}

func TestSaveAnalysis(t *testing.T) {
	h, st := newTestRouter(t, testServerConfig)

	rr := do(h, http.MethodPost, "/stocks/HPG/analysis", []byte(`{"pe_assumptions":[8,10,12]}`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var a model.Analysis
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &a))
	assert.Equal(t, []float64{8, 10, 12}, a.PEAssumptions)

	snap, err := st.LoadStock(context.Background(), "HPG")
	require.NoError(t, err)
	require.NotNil(t, snap.Analysis)
	assert.Equal(t, []float64{8, 10, 12}, snap.Analysis.PEAssumptions)
}

func TestSaveAnalysis_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"invalid json", "/stocks/HPG/analysis", `{`, http.StatusBadRequest},
		{"empty list", "/stocks/HPG/analysis", `{"pe_assumptions":[]}`, http.StatusBadRequest},
		{"negative", "/stocks/HPG/analysis", `{"pe_assumptions":[10,-2]}`, http.StatusBadRequest},
		{"unknown symbol", "/stocks/NOPE/analysis", `{"pe_assumptions":[10]}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h, http.MethodPost, tt.path, []byte(tt.body))
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestUploadSheet_RoundTrip(t *testing.T) {
	h, st := newTestRouter(t, testServerConfig)

	rr := do(h, http.MethodGet, "/stocks/HPG/sheet.xlsx", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodPost, "/stocks/HPG/sheet.xlsx", rr.Body.Bytes())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var a model.Analysis
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &a))
	assert.NotEmpty(t, a.PEAssumptions)
	require.NotNil(t, a.Inputs)
	assert.Equal(t, 27500.0, a.Inputs.CurrentPrice)

	snap, err := st.LoadStock(context.Background(), "HPG")
	require.NoError(t, err)
	require.NotNil(t, snap.Analysis)
	assert.Equal(t, a.PEAssumptions, snap.Analysis.PEAssumptions)
}

func TestUploadSheet_NotAWorkbook(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig)

	rr := do(h, http.MethodPost, "/stocks/HPG/sheet.xlsx", []byte("plain text"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadSheet_TooLarge(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig)

	body := []byte(strings.Repeat("x", maxUploadBytes+1))
	rr := do(h, http.MethodPost, "/stocks/HPG/sheet.xlsx", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestResolvePort(t *testing.T) {
	assert.Equal(t, 9090, resolvePort(9090, 8080))
	assert.Equal(t, 8080, resolvePort(0, 8080))
	assert.Equal(t, 0, resolvePort(0, 0))
}

func TestStartServer_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Find a free port.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- startServer(ctx, buildRouter(nil, nil, testServerConfig), port)
	}()

	// Wait for server to be ready.
	var ready bool
	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err == nil {
			resp.Body.Close()
			ready = resp.StatusCode == http.StatusOK
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, ready, "server did not become ready in time")

	// Trigger graceful shutdown.
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
