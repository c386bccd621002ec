package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/domain/strategy"
	"github.com/alejandrodnm/edgescan/internal/metrics"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

const defaultCallTimeout = 10 * time.Second

// Config contiene la configuración del scanner.
type Config struct {
	ScanInterval time.Duration
	Stake        float64 // usado por Run y RunOnce
	MinEdge      float64 // usado por Run y RunOnce
	Workers      int     // fetches de orderbook concurrentes (0 = 8)
	CallTimeout  time.Duration
	DryRun       bool

	// Now permite fijar el reloj en tests. nil = time.Now.
	Now func() time.Time
}

// Scanner es el orquestador del scan de edges Kalshi vs sportsbook.
type Scanner struct {
	cfg      Config
	listings ports.ListingProvider
	books    ports.BookProvider
	prices   ports.PriceProvider
	storage  ports.Storage // opcional
	notifier ports.Notifier
	metrics  *metrics.Manager // opcional

	mu     sync.RWMutex
	latest *domain.ScanReport
}

// New crea un Scanner con todas las dependencias inyectadas.
// storage y m pueden ser nil.
func New(
	cfg Config,
	listings ports.ListingProvider,
	books ports.BookProvider,
	prices ports.PriceProvider,
	storage ports.Storage,
	notifier ports.Notifier,
	m *metrics.Manager,
) *Scanner {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scanner{
		cfg:      cfg,
		listings: listings,
		books:    books,
		prices:   prices,
		storage:  storage,
		notifier: notifier,
		metrics:  m,
	}
}

// Scan ejecuta un scan completo y devuelve las oportunidades con edge >= minEdge
// en el orden de los listings. Nunca falla: las fuentes caídas se reflejan en
// report.Stats y un resultado vacío es válido.
//
// CallTimeout acota el PriceMap y cada orderbook. Los listings se paginan y el
// ListingProvider acota cada página por separado.
func (s *Scanner) Scan(ctx context.Context, stake, minEdge float64) domain.ScanReport {
	start := s.cfg.Now()
	edge := strategy.NewEdge(strategy.EdgeConfig{MinEdge: minEdge, Stake: stake, Now: s.cfg.Now})
	analyzer := NewAnalyzer(edge)

	report := domain.ScanReport{
		StartedAt: start,
		Stake:     edge.Stake(),
		MinEdge:   edge.MinEdge(),
	}

	prices := s.fetchPrices(ctx)
	report.Stats.Labels = prices.Len()
	report.Stats.SamplePrices = prices.Sample

	listings, err := s.listings.FetchListings(ctx)
	switch {
	case err != nil && len(listings) == 0:
		slog.Warn("listings unavailable, scan will be empty", "err", err)
		report.Stats.ListingsFailed = true
	case err != nil:
		slog.Warn("listings incomplete, scanning partial set", "listings", len(listings), "err", err)
		report.Stats.ListingsPartial = true
	}
	report.Stats.Listings = len(listings)

	results := fetchBooksConcurrent(ctx, s.books, listings, s.cfg.Workers, s.cfg.CallTimeout)

	opps := make([]domain.Opportunity, 0)
	for i, listing := range listings {
		res := results[i]
		switch res.status {
		case bookUnavailable:
			report.Stats.BookUnavailable++
			continue
		case bookNoLiquidity:
			report.Stats.NoLiquidity++
			continue
		}

		opp, out := analyzer.Analyze(listing, res.book, prices)
		switch out {
		case outcomeOpportunity:
			opps = append(opps, opp)
		case outcomeNoLiquidity:
			report.Stats.NoLiquidity++
		case outcomeNoMatch:
			report.Stats.NoMatch++
		case outcomeBelowThreshold:
			report.Stats.BelowThreshold++
		}
	}

	report.Opportunities = opps
	report.Stats.Opportunities = len(opps)
	report.Duration = s.cfg.Now().Sub(start)

	s.record(report)
	return report
}

// Latest devuelve el último report producido por Scan.
func (s *Scanner) Latest() (domain.ScanReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return domain.ScanReport{}, false
	}
	return *s.latest, true
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele.
// Si cfg.DryRun está activo, solo ejecuta un ciclo.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"dry_run", s.cfg.DryRun,
		"workers", s.cfg.Workers,
		"stake", s.cfg.Stake,
		"min_edge", s.cfg.MinEdge,
	)

	s.runCycle(ctx)
	if s.cfg.DryRun {
		return nil
	}

	if s.cfg.ScanInterval <= 0 {
		return fmt.Errorf("scanner.Run: invalid scan interval %s", s.cfg.ScanInterval)
	}
	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// RunOnce ejecuta exactamente un ciclo (scan, notificación y persistencia)
// y devuelve las oportunidades.
func (s *Scanner) RunOnce(ctx context.Context) []domain.Opportunity {
	return s.runCycle(ctx).Opportunities
}

// runCycle escanea con los parámetros configurados y notifica/persiste.
// Los fallos de notifier y storage no interrumpen el loop.
func (s *Scanner) runCycle(ctx context.Context) domain.ScanReport {
	report := s.Scan(ctx, s.cfg.Stake, s.cfg.MinEdge)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report.Opportunities); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	if s.storage != nil {
		if err := s.storage.SaveScan(ctx, report); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	attrs := []any{
		"opportunities", len(report.Opportunities),
		"listings", report.Stats.Listings,
		"labels", report.Stats.Labels,
		"no_match", report.Stats.NoMatch,
		"below_threshold", report.Stats.BelowThreshold,
		"duration", report.Duration.Round(time.Millisecond),
	}
	if best, ok := report.Best(); ok {
		attrs = append(attrs,
			"best", best.Ticker,
			"best_edge", fmt.Sprintf("%.1f%%", best.EdgePct),
		)
	}
	slog.Info("scan cycle complete", attrs...)
	return report
}

// fetchPrices obtiene el PriceMap del sportsbook; si falla usa el de ejemplo.
func (s *Scanner) fetchPrices(ctx context.Context) domain.PriceMap {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	prices, err := s.prices.FetchPrices(callCtx)
	if err != nil {
		slog.Warn("sportsbook unavailable, using sample prices", "err", err)
		return domain.SamplePriceMap()
	}
	return prices
}

func (s *Scanner) record(report domain.ScanReport) {
	s.mu.Lock()
	s.latest = &report
	s.mu.Unlock()
	s.metrics.ObserveScan(report)
}
