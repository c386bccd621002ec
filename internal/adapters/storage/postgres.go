package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS scans (
    id               BIGSERIAL PRIMARY KEY,
    started_at       TIMESTAMPTZ NOT NULL,
    duration_ms      BIGINT      NOT NULL DEFAULT 0,
    stake            DOUBLE PRECISION NOT NULL DEFAULT 0,
    min_edge         DOUBLE PRECISION NOT NULL DEFAULT 0,
    listings         INTEGER NOT NULL DEFAULT 0,
    labels           INTEGER NOT NULL DEFAULT 0,
    sample_prices    BOOLEAN NOT NULL DEFAULT FALSE,
    book_unavailable INTEGER NOT NULL DEFAULT 0,
    no_liquidity     INTEGER NOT NULL DEFAULT 0,
    no_match         INTEGER NOT NULL DEFAULT 0,
    below_threshold  INTEGER NOT NULL DEFAULT 0,
    opportunities    INTEGER NOT NULL DEFAULT 0,
    best_edge        DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS opportunities (
    ticker          VARCHAR(200) PRIMARY KEY,
    id              UUID NOT NULL,
    event_name      TEXT NOT NULL,
    market_price    DOUBLE PRECISION NOT NULL,
    sportsbook_odds DOUBLE PRECISION NOT NULL,
    sportsbook_prob DOUBLE PRECISION NOT NULL,
    edge_pct        DOUBLE PRECISION NOT NULL,
    expected_value  DOUBLE PRECISION NOT NULL,
    stake           DOUBLE PRECISION NOT NULL,
    recommendation  TEXT NOT NULL,
    first_seen      TIMESTAMPTZ NOT NULL,
    last_seen       TIMESTAMPTZ NOT NULL,
    peak_edge       DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_scans_at ON scans(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_last ON opportunities(last_seen DESC);
`

// PostgresStorage implementa ports.Storage sobre PostgreSQL (lib/pq).
// Mismo modelo que SQLiteStorage, para despliegues con varias instancias.
type PostgresStorage struct {
	db      *sql.DB
	changes *changeCache
}

// NewPostgresStorage conecta, verifica la conexión y aplica el schema.
func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("storage.NewPostgresStorage: dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage.NewPostgresStorage: open: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewPostgresStorage: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewPostgresStorage: apply schema: %w", err)
	}

	slog.Info("postgres storage initialized")
	return &PostgresStorage{db: db, changes: newChangeCache()}, nil
}

// SaveScan guarda el resumen del scan y hace upsert de las oportunidades que cambiaron.
func (s *PostgresStorage) SaveScan(ctx context.Context, r domain.ScanReport) error {
	best := 0.0
	if opp, ok := r.Best(); ok {
		best = opp.EdgePct
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (started_at, duration_ms, stake, min_edge, listings, labels,
			sample_prices, book_unavailable, no_liquidity, no_match, below_threshold,
			opportunities, best_edge)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.StartedAt.UTC(), r.Duration.Milliseconds(), r.Stake, r.MinEdge,
		r.Stats.Listings, r.Stats.Labels, r.Stats.SamplePrices,
		r.Stats.BookUnavailable, r.Stats.NoLiquidity, r.Stats.NoMatch, r.Stats.BelowThreshold,
		len(r.Opportunities), best,
	); err != nil {
		return fmt.Errorf("storage.SaveScan: insert scan: %w", err)
	}

	write, touch := s.changes.split(r.Opportunities)
	if len(write)+len(touch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, opp := range write {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO opportunities
				(ticker, id, event_name, market_price, sportsbook_odds, sportsbook_prob,
				 edge_pct, expected_value, stake, recommendation, first_seen, last_seen, peak_edge)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11, $7)
			ON CONFLICT (ticker) DO UPDATE SET
				id              = EXCLUDED.id,
				event_name      = EXCLUDED.event_name,
				market_price    = EXCLUDED.market_price,
				sportsbook_odds = EXCLUDED.sportsbook_odds,
				sportsbook_prob = EXCLUDED.sportsbook_prob,
				edge_pct        = EXCLUDED.edge_pct,
				expected_value  = EXCLUDED.expected_value,
				stake           = EXCLUDED.stake,
				recommendation  = EXCLUDED.recommendation,
				last_seen       = EXCLUDED.last_seen,
				peak_edge       = GREATEST(opportunities.peak_edge, EXCLUDED.edge_pct)`,
			opp.Ticker, opp.ID, opp.EventName, opp.MarketPrice,
			opp.SportsbookOdds, opp.SportsbookImpliedProb, opp.EdgePct,
			opp.ExpectedValue, opp.Stake, opp.Recommendation, seenAt(opp, now).UTC(),
		); err != nil {
			return fmt.Errorf("storage.SaveScan: upsert %s: %w", opp.Ticker, err)
		}
	}

	for _, opp := range touch {
		if _, err := tx.ExecContext(ctx,
			`UPDATE opportunities SET last_seen = GREATEST(last_seen, $1) WHERE ticker = $2`,
			seenAt(opp, now).UTC(), opp.Ticker,
		); err != nil {
			return fmt.Errorf("storage.SaveScan: touch %s: %w", opp.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveScan: commit: %w", err)
	}
	s.changes.commit(write)
	return nil
}

// GetHistory devuelve las oportunidades vistas por última vez en [from, to].
func (s *PostgresStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, id, event_name, market_price, sportsbook_odds, sportsbook_prob,
		       edge_pct, expected_value, stake, recommendation, last_seen
		FROM opportunities
		WHERE last_seen BETWEEN $1 AND $2
		ORDER BY edge_pct DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var opp domain.Opportunity
		if err := rows.Scan(
			&opp.Ticker, &opp.ID, &opp.EventName, &opp.MarketPrice,
			&opp.SportsbookOdds, &opp.SportsbookImpliedProb, &opp.EdgePct,
			&opp.ExpectedValue, &opp.Stake, &opp.Recommendation, &opp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}
		opp.MarketImpliedProb = opp.MarketPrice * 100
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}

// Close cierra el pool de conexiones.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
