package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/edgescan/internal/adapters/httpapi"
	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/metrics"
)

type stubScanner struct {
	latest  *domain.ScanReport
	stake   float64
	minEdge float64
}

func (s *stubScanner) Scan(_ context.Context, stake, minEdge float64) domain.ScanReport {
	s.stake, s.minEdge = stake, minEdge
	r := domain.ScanReport{
		Stake:   stake,
		MinEdge: minEdge,
		Opportunities: []domain.Opportunity{
			{ID: "a", Ticker: "NBA-LAK", EventName: "Lakers", MarketPrice: 0.45, EdgePct: 33.3, ExpectedValue: stake * 0.15},
		},
		Stats: domain.ScanStats{Listings: 1, Labels: 1, Opportunities: 1},
	}
	s.latest = &r
	return r
}

func (s *stubScanner) Latest() (domain.ScanReport, bool) {
	if s.latest == nil {
		return domain.ScanReport{}, false
	}
	return *s.latest, true
}

type stubHistory struct {
	opps []domain.Opportunity
	err  error
}

func (h *stubHistory) SaveScan(context.Context, domain.ScanReport) error { return nil }
func (h *stubHistory) GetHistory(context.Context, time.Time, time.Time) ([]domain.Opportunity, error) {
	return h.opps, h.err
}
func (h *stubHistory) Close() error { return nil }

func newServer(s *stubScanner, h *stubHistory, m *metrics.Manager) *httpapi.Server {
	cfg := httpapi.Config{Stake: 10, MinEdge: 10}
	if h == nil {
		return httpapi.NewServer(cfg, s, nil, m)
	}
	return httpapi.NewServer(cfg, s, h, m)
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newServer(&stubScanner{}, nil, nil), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "last_scan")
}

func TestOpportunities_NoScanYet(t *testing.T) {
	rec, body := do(t, newServer(&stubScanner{}, nil, nil), http.MethodGet, "/api/v1/opportunities")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no scan yet", body["error"])
}

func TestScan_DefaultsAndOverrides(t *testing.T) {
	sc := &stubScanner{}
	srv := newServer(sc, nil, nil)

	rec, _ := do(t, srv, http.MethodPost, "/api/v1/scan")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10.0, sc.stake)
	assert.Equal(t, 10.0, sc.minEdge)

	rec, body := do(t, srv, http.MethodPost, "/api/v1/scan?stake=25&min_edge=5.5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25.0, sc.stake)
	assert.Equal(t, 5.5, sc.minEdge)

	opps := body["opportunities"].([]any)
	require.Len(t, opps, 1)
	first := opps[0].(map[string]any)
	assert.Equal(t, "NBA-LAK", first["ticker"])
	assert.InDelta(t, 3.75, first["expected_value"], 1e-9)

	// el scan queda como último report
	rec, body = do(t, srv, http.MethodGet, "/api/v1/opportunities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25.0, body["stake"])
}

func TestScan_InvalidParams(t *testing.T) {
	srv := newServer(&stubScanner{}, nil, nil)

	for _, target := range []string{
		"/api/v1/scan?stake=abc",
		"/api/v1/scan?stake=-1",
		"/api/v1/scan?min_edge=x",
	} {
		rec, _ := do(t, srv, http.MethodPost, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestScan_MethodNotAllowed(t *testing.T) {
	rec, _ := do(t, newServer(&stubScanner{}, nil, nil), http.MethodGet, "/api/v1/scan")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHistory(t *testing.T) {
	h := &stubHistory{opps: []domain.Opportunity{{Ticker: "NBA-LAK", EdgePct: 33.3}}}
	rec, body := do(t, newServer(&stubScanner{}, h, nil), http.MethodGet, "/api/v1/history?hours=6")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(6), body["hours"])
}

func TestHistory_Errors(t *testing.T) {
	rec, _ := do(t, newServer(&stubScanner{}, nil, nil), http.MethodGet, "/api/v1/history")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec, _ = do(t, newServer(&stubScanner{}, &stubHistory{}, nil), http.MethodGet, "/api/v1/history?hours=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, newServer(&stubScanner{}, &stubHistory{err: errors.New("db locked")}, nil), http.MethodGet, "/api/v1/history")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.NewManager()
	srv := newServer(&stubScanner{}, nil, m)

	do(t, srv, http.MethodGet, "/health")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `edgescan_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
