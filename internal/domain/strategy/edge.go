package strategy

import (
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/google/uuid"
)

const (
	DefaultMinEdge = 10.0 // %
	DefaultStake   = 10.0 // USD
)

// EdgeConfig configura la estrategia de edge.
type EdgeConfig struct {
	MinEdge float64 // edge mínimo en %, inclusivo
	Stake   float64
	// Now permite fijar el reloj en tests. nil = time.Now.
	Now func() time.Time
}

// Edge compara el best ask YES de Kalshi con la probabilidad implícita del sportsbook.
type Edge struct {
	minEdge float64
	stake   float64
	now     func() time.Time
}

// NewEdge crea la estrategia. Un Stake <= 0 usa DefaultStake.
// MinEdge se respeta tal cual (0 o negativo es válido: deja pasar todo).
func NewEdge(cfg EdgeConfig) *Edge {
	if cfg.Stake <= 0 {
		cfg.Stake = DefaultStake
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Edge{minEdge: cfg.MinEdge, stake: cfg.Stake, now: cfg.Now}
}

// Evaluate implementa Strategy.
func (s *Edge) Evaluate(listing domain.Listing, bestAskCents int, americanOdds float64) (domain.Opportunity, bool) {
	marketPrice := domain.CentsToPrice(bestAskCents)
	refProb := domain.ImpliedProbability(americanOdds)
	edge := domain.EdgePercentage(refProb, marketPrice)

	if edge < s.minEdge {
		return domain.Opportunity{}, false
	}

	ev := domain.ExpectedValue(refProb, marketPrice)

	return domain.Opportunity{
		ID:                    uuid.NewString(),
		EventName:             listing.Title,
		Ticker:                listing.Ticker,
		MarketPrice:           marketPrice,
		MarketImpliedProb:     marketPrice * 100,
		SportsbookOdds:        americanOdds,
		SportsbookImpliedProb: refProb * 100,
		EdgePct:               edge,
		ExpectedValue:         ev * s.stake,
		Recommendation:        domain.Recommend(marketPrice),
		Stake:                 s.stake,
		CreatedAt:             s.now(),
	}, true
}

// MinEdge devuelve el umbral configurado.
func (s *Edge) MinEdge() float64 { return s.minEdge }

// Stake devuelve el stake configurado.
func (s *Edge) Stake() float64 { return s.stake }
