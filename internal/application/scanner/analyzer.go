package scanner

import (
	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/domain/strategy"
)

// outcome es el resultado de analizar un listing con su book.
type outcome int

const (
	outcomeOpportunity outcome = iota
	outcomeNoLiquidity
	outcomeNoMatch
	outcomeBelowThreshold
)

// Analyzer asocia un listing con una cuota del sportsbook y delega la
// evaluación del edge en una Strategy inyectada.
type Analyzer struct {
	strategy strategy.Strategy
}

// NewAnalyzer crea un Analyzer que delega en la strategy dada.
func NewAnalyzer(s strategy.Strategy) *Analyzer {
	return &Analyzer{strategy: s}
}

// Analyze evalúa un listing. Solo devuelve una oportunidad con outcomeOpportunity.
func (a *Analyzer) Analyze(listing domain.Listing, book domain.OrderBook, prices domain.PriceMap) (domain.Opportunity, outcome) {
	ask, ok := book.BestAskCents()
	if !ok {
		return domain.Opportunity{}, outcomeNoLiquidity
	}

	odds, ok := domain.MatchEvent(listing.Title, prices)
	if !ok {
		return domain.Opportunity{}, outcomeNoMatch
	}

	opp, ok := a.strategy.Evaluate(listing, ask, odds)
	if !ok {
		return domain.Opportunity{}, outcomeBelowThreshold
	}
	return opp, outcomeOpportunity
}
