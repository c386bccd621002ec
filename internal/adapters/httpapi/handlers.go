package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

const (
	defaultHistoryHours = 24
	maxHistoryHours     = 24 * 14
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	}
	if r, ok := s.scanner.Latest(); ok {
		body["last_scan"] = r.StartedAt
		body["sample_prices"] = r.Stats.SamplePrices
	}
	respondJSON(w, http.StatusOK, body)
}

// latest devuelve el último report; 404 si todavía no hubo scans.
func (s *Server) latest(w http.ResponseWriter, _ *http.Request) {
	r, ok := s.scanner.Latest()
	if !ok {
		respondError(w, http.StatusNotFound, "no scan yet", nil)
		return
	}
	respondJSON(w, http.StatusOK, toReportJSON(r))
}

// scan ejecuta un scan bajo demanda. Query params: stake, min_edge.
func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	stake, err := floatParam(r, "stake", s.stake)
	if err != nil || stake <= 0 {
		respondError(w, http.StatusBadRequest, "invalid stake", err)
		return
	}
	minEdge, err := floatParam(r, "min_edge", s.minEdge)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid min_edge", err)
		return
	}

	report := s.scanner.Scan(r.Context(), stake, minEdge)
	respondJSON(w, http.StatusOK, toReportJSON(report))
}

// historyRange devuelve las oportunidades persistidas. Query param: hours.
func (s *Server) historyRange(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotImplemented, "storage disabled", nil)
		return
	}

	hours := defaultHistoryHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil || h <= 0 {
			respondError(w, http.StatusBadRequest, "invalid hours", err)
			return
		}
		hours = min(h, maxHistoryHours)
	}

	to := time.Now().UTC()
	from := to.Add(-time.Duration(hours) * time.Hour)
	opps, err := s.history.GetHistory(r.Context(), from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load history", err)
		return
	}

	out := make([]opportunityJSON, 0, len(opps))
	for _, o := range opps {
		out = append(out, toOpportunityJSON(o))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"opportunities": out,
		"count":         len(out),
		"hours":         hours,
	})
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("encode response", "err", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string, err error) {
	body := map[string]string{"error": msg}
	if err != nil {
		body["detail"] = err.Error()
	}
	respondJSON(w, status, body)
}

type opportunityJSON struct {
	ID                    string    `json:"id"`
	Ticker                string    `json:"ticker"`
	EventName             string    `json:"event_name"`
	MarketPrice           float64   `json:"market_price"`
	MarketImpliedProb     float64   `json:"market_implied_prob"`
	SportsbookOdds        float64   `json:"sportsbook_odds"`
	SportsbookImpliedProb float64   `json:"sportsbook_implied_prob"`
	EdgePct               float64   `json:"edge_pct"`
	ExpectedValue         float64   `json:"expected_value"`
	Stake                 float64   `json:"stake"`
	Recommendation        string    `json:"recommendation"`
	CreatedAt             time.Time `json:"created_at"`
}

type statsJSON struct {
	Listings        int  `json:"listings"`
	Labels          int  `json:"labels"`
	SamplePrices    bool `json:"sample_prices"`
	ListingsFailed  bool `json:"listings_failed"`
	ListingsPartial bool `json:"listings_partial"`
	BookUnavailable int  `json:"book_unavailable"`
	NoLiquidity     int  `json:"no_liquidity"`
	NoMatch         int  `json:"no_match"`
	BelowThreshold  int  `json:"below_threshold"`
}

type reportJSON struct {
	StartedAt     time.Time         `json:"started_at"`
	DurationMs    int64             `json:"duration_ms"`
	Stake         float64           `json:"stake"`
	MinEdge       float64           `json:"min_edge"`
	Opportunities []opportunityJSON `json:"opportunities"`
	Stats         statsJSON         `json:"stats"`
}

func toOpportunityJSON(o domain.Opportunity) opportunityJSON {
	return opportunityJSON{
		ID:                    o.ID,
		Ticker:                o.Ticker,
		EventName:             o.EventName,
		MarketPrice:           o.MarketPrice,
		MarketImpliedProb:     o.MarketImpliedProb,
		SportsbookOdds:        o.SportsbookOdds,
		SportsbookImpliedProb: o.SportsbookImpliedProb,
		EdgePct:               o.EdgePct,
		ExpectedValue:         o.ExpectedValue,
		Stake:                 o.Stake,
		Recommendation:        o.Recommendation,
		CreatedAt:             o.CreatedAt,
	}
}

func toReportJSON(r domain.ScanReport) reportJSON {
	opps := make([]opportunityJSON, 0, len(r.Opportunities))
	for _, o := range r.Opportunities {
		opps = append(opps, toOpportunityJSON(o))
	}
	return reportJSON{
		StartedAt:     r.StartedAt,
		DurationMs:    r.Duration.Milliseconds(),
		Stake:         r.Stake,
		MinEdge:       r.MinEdge,
		Opportunities: opps,
		Stats: statsJSON{
			Listings:        r.Stats.Listings,
			Labels:          r.Stats.Labels,
			SamplePrices:    r.Stats.SamplePrices,
			ListingsFailed:  r.Stats.ListingsFailed,
			ListingsPartial: r.Stats.ListingsPartial,
			BookUnavailable: r.Stats.BookUnavailable,
			NoLiquidity:     r.Stats.NoLiquidity,
			NoMatch:         r.Stats.NoMatch,
			BelowThreshold:  r.Stats.BelowThreshold,
		},
	}
}
