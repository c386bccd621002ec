package scanner

import (
	"testing"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/domain/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(minEdge float64) *Analyzer {
	return NewAnalyzer(strategy.NewEdge(strategy.EdgeConfig{MinEdge: minEdge, Stake: 10}))
}

func makeBook(cents ...int) domain.OrderBook {
	ob := domain.OrderBook{Ticker: "T"}
	for _, c := range cents {
		ob.YesAsks = append(ob.YesAsks, domain.BookLevel{PriceCents: c, Size: 50})
	}
	return ob
}

func TestAnalyzer_Outcomes(t *testing.T) {
	listing := domain.Listing{Ticker: "NBA-LAK", Title: "Lakers"}
	pm := prices("Lakers", -150)

	tests := []struct {
		name    string
		listing domain.Listing
		book    domain.OrderBook
		want    outcome
	}{
		{"opportunity at best ask", listing, makeBook(60, 45), outcomeOpportunity},
		{"below threshold", listing, makeBook(55), outcomeBelowThreshold},
		{"empty book", listing, makeBook(), outcomeNoLiquidity},
		{"no match", domain.Listing{Ticker: "X", Title: "Celtics"}, makeBook(45), outcomeNoMatch},
	}

	a := newTestAnalyzer(10)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := a.Analyze(tt.listing, tt.book, pm)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzer_UsesLowestAsk(t *testing.T) {
	opp, out := newTestAnalyzer(10).Analyze(
		domain.Listing{Ticker: "NBA-LAK", Title: "Lakers"},
		makeBook(52, 45, 48),
		prices("Lakers", -150),
	)
	require.Equal(t, outcomeOpportunity, out)
	assert.InDelta(t, 0.45, opp.MarketPrice, 1e-9)
}

func TestAnalyzer_TokenOverlapMatch(t *testing.T) {
	opp, out := newTestAnalyzer(10).Analyze(
		domain.Listing{Ticker: "KXNBA-LAL", Title: "Will the Los Angeles Lakers win?"},
		makeBook(40),
		prices("Boston Celtics", 100, "Los Angeles Lakers", -120),
	)
	require.Equal(t, outcomeOpportunity, out)
	assert.Equal(t, -120.0, opp.SportsbookOdds)
}
