package storage

// sqlite.go — histórico de scans en SQLite embebido.
//
//   - `scans`: una fila por scan con sus contadores.
//   - `opportunities`: una fila por ticker (UPSERT) con first_seen/last_seen y
//     el mayor edge observado. Solo se reescribe si el precio o el edge cambió;
//     si no, solo avanza last_seen.
//   - Prune al arrancar: scans > 30d, oportunidades no vistas en 14d.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scans (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at       TEXT    NOT NULL,
    duration_ms      INTEGER NOT NULL DEFAULT 0,
    stake            REAL    NOT NULL DEFAULT 0,
    min_edge         REAL    NOT NULL DEFAULT 0,
    listings         INTEGER NOT NULL DEFAULT 0,
    labels           INTEGER NOT NULL DEFAULT 0,
    sample_prices    INTEGER NOT NULL DEFAULT 0,
    book_unavailable INTEGER NOT NULL DEFAULT 0,
    no_liquidity     INTEGER NOT NULL DEFAULT 0,
    no_match         INTEGER NOT NULL DEFAULT 0,
    below_threshold  INTEGER NOT NULL DEFAULT 0,
    opportunities    INTEGER NOT NULL DEFAULT 0,
    best_edge        REAL    NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS opportunities (
    ticker          TEXT PRIMARY KEY,
    id              TEXT NOT NULL,
    event_name      TEXT NOT NULL,
    market_price    REAL NOT NULL,
    sportsbook_odds REAL NOT NULL,
    sportsbook_prob REAL NOT NULL,
    edge_pct        REAL NOT NULL,
    expected_value  REAL NOT NULL,
    stake           REAL NOT NULL,
    recommendation  TEXT NOT NULL,
    first_seen      TEXT NOT NULL,
    last_seen       TEXT NOT NULL,
    peak_edge       REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_scans_at  ON scans(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_last  ON opportunities(last_seen DESC);
CREATE INDEX IF NOT EXISTS idx_opp_edge  ON opportunities(edge_pct DESC);
`

const (
	retentionScans = 30 * 24 * time.Hour
	retentionOpps  = 14 * 24 * time.Hour

	// Ancho fijo: el orden lexicográfico coincide con el temporal.
	tsLayout = "2006-01-02T15:04:05.000000000Z"
)

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db      *sql.DB
	changes *changeCache
	now     func() time.Time
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema, limpia datos antiguos y precarga la cache.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db, changes: newChangeCache(), now: time.Now}
	s.pruneOld(context.Background())
	s.warmCache(context.Background())
	return s, nil
}

// SaveScan guarda el resumen del scan y hace upsert de las oportunidades que cambiaron.
func (s *SQLiteStorage) SaveScan(ctx context.Context, r domain.ScanReport) error {
	now := s.now().UTC()
	best := 0.0
	if opp, ok := r.Best(); ok {
		best = opp.EdgePct
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (started_at, duration_ms, stake, min_edge, listings, labels,
			sample_prices, book_unavailable, no_liquidity, no_match, below_threshold,
			opportunities, best_edge)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts(r.StartedAt), r.Duration.Milliseconds(), r.Stake, r.MinEdge,
		r.Stats.Listings, r.Stats.Labels, boolInt(r.Stats.SamplePrices),
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

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO opportunities
			(ticker, id, event_name, market_price, sportsbook_odds, sportsbook_prob,
			 edge_pct, expected_value, stake, recommendation, first_seen, last_seen, peak_edge)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			id              = excluded.id,
			event_name      = excluded.event_name,
			market_price    = excluded.market_price,
			sportsbook_odds = excluded.sportsbook_odds,
			sportsbook_prob = excluded.sportsbook_prob,
			edge_pct        = excluded.edge_pct,
			expected_value  = excluded.expected_value,
			stake           = excluded.stake,
			recommendation  = excluded.recommendation,
			last_seen       = excluded.last_seen,
			peak_edge       = MAX(peak_edge, excluded.edge_pct)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: prepare upsert: %w", err)
	}
	defer upsert.Close()

	for _, opp := range write {
		seen := seenAt(opp, now)
		if _, err := upsert.ExecContext(ctx,
			opp.Ticker, opp.ID, opp.EventName, opp.MarketPrice,
			opp.SportsbookOdds, opp.SportsbookImpliedProb, opp.EdgePct,
			opp.ExpectedValue, opp.Stake, opp.Recommendation,
			ts(seen), // first_seen: ignorado en ON CONFLICT
			ts(seen),
			opp.EdgePct,
		); err != nil {
			return fmt.Errorf("storage.SaveScan: upsert %s: %w", opp.Ticker, err)
		}
	}

	// Sin cambios de precio/edge: solo avanza last_seen.
	for _, opp := range touch {
		seen := ts(seenAt(opp, now))
		if _, err := tx.ExecContext(ctx,
			`UPDATE opportunities SET last_seen = ? WHERE ticker = ? AND last_seen < ?`,
			seen, opp.Ticker, seen,
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

// GetHistory devuelve las oportunidades vistas por última vez en [from, to],
// ordenadas por edge descendente.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, id, event_name, market_price, sportsbook_odds, sportsbook_prob,
		       edge_pct, expected_value, stake, recommendation, last_seen
		FROM opportunities
		WHERE last_seen BETWEEN ? AND ?
		ORDER BY edge_pct DESC
	`, ts(from), ts(to))
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var opp domain.Opportunity
		var lastSeen string
		if err := rows.Scan(
			&opp.Ticker, &opp.ID, &opp.EventName, &opp.MarketPrice,
			&opp.SportsbookOdds, &opp.SportsbookImpliedProb, &opp.EdgePct,
			&opp.ExpectedValue, &opp.Stake, &opp.Recommendation, &lastSeen,
		); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}
		opp.MarketImpliedProb = opp.MarketPrice * 100
		if opp.CreatedAt, err = time.Parse(tsLayout, lastSeen); err != nil {
			slog.Warn("storage.GetHistory: bad last_seen", "ticker", opp.Ticker, "value", lastSeen, "err", err)
		}
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}

// CountScans devuelve el número de scans guardados.
func (s *SQLiteStorage) CountScans(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage.CountScans: %w", err)
	}
	return n, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	now := s.now().UTC()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE started_at < ?`, ts(now.Add(-retentionScans))); err != nil {
		slog.Warn("storage.pruneOld: scans", "err", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM opportunities WHERE last_seen < ?`, ts(now.Add(-retentionOpps))); err != nil {
		slog.Warn("storage.pruneOld: opportunities", "err", err)
	}
}

// warmCache precarga la caché desde la DB para no reescribir tras un reinicio.
func (s *SQLiteStorage) warmCache(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx, `SELECT ticker, market_price, edge_pct FROM opportunities`)
	if err != nil {
		slog.Warn("storage.warmCache: query", "err", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var ticker string
		var price, edge float64
		if rows.Scan(&ticker, &price, &edge) == nil {
			s.changes.put(ticker, seenState{priceCents: priceCents(price), edge: edge})
		}
	}
}

// seenAt es el instante de la observación; now si la oportunidad no lo trae.
func seenAt(opp domain.Opportunity, now time.Time) time.Time {
	if opp.CreatedAt.IsZero() {
		return now
	}
	return opp.CreatedAt
}

func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
