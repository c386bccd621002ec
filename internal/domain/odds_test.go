package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- ImpliedProbability ---

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		name string
		odds float64
		want float64
	}{
		{"favorite -150", -150, 0.60},
		{"favorite -110", -110, 110.0 / 210.0},
		{"heavy favorite -300", -300, 0.75},
		{"underdog +150", 150, 0.40},
		{"underdog +300", 300, 0.25},
		{"even +100", 100, 0.50},
		{"zero falls into positive branch", 0, 0.50},
		{"fractional odds", -125.5, 125.5 / 225.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ImpliedProbability(tt.odds), 1e-9)
		})
	}
}

func TestImpliedProbability_AlwaysInUnitInterval(t *testing.T) {
	for odds := -10000.0; odds <= 10000; odds += 37.5 {
		p := ImpliedProbability(odds)
		assert.Greater(t, p, 0.0, "odds=%v", odds)
		assert.LessOrEqual(t, p, 1.0, "odds=%v", odds)
	}
}

// --- EdgePercentage ---

func TestEdgePercentage_ZeroMarketPrice(t *testing.T) {
	assert.Equal(t, 0.0, EdgePercentage(0.6, 0))
	assert.Equal(t, 0.0, EdgePercentage(0, 0))
	assert.Equal(t, 0.0, EdgePercentage(1, 0))
}

func TestEdgePercentage_Formula(t *testing.T) {
	assert.InDelta(t, 20.0, EdgePercentage(0.6, 0.5), 1e-9)
	assert.InDelta(t, 9.0909, EdgePercentage(0.6, 0.55), 1e-4)
	assert.InDelta(t, 33.3333, EdgePercentage(0.6, 0.45), 1e-4)
}

func TestEdgePercentage_NegativeWhenMarketOverprices(t *testing.T) {
	assert.Less(t, EdgePercentage(0.4, 0.5), 0.0)
}

// --- ExpectedValue ---

func TestExpectedValue_PerUnit(t *testing.T) {
	// 0.6×0.55 − 0.4×0.45 = 0.33 − 0.18 = 0.15
	assert.InDelta(t, 0.15, ExpectedValue(0.6, 0.45), 1e-9)
}

func TestExpectedValue_FairPriceIsZero(t *testing.T) {
	assert.InDelta(t, 0.0, ExpectedValue(0.5, 0.5), 1e-12)
}
