package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderBook_BestAskCents(t *testing.T) {
	ob := OrderBook{YesAsks: []BookLevel{
		{PriceCents: 48, Size: 10},
		{PriceCents: 45, Size: 3},
		{PriceCents: 50, Size: 100},
	}}
	price, ok := ob.BestAskCents()
	assert.True(t, ok)
	assert.Equal(t, 45, price)
	assert.Equal(t, 3, ob.DepthAtBest())
}

func TestOrderBook_BestAskSkipsEmptyLevels(t *testing.T) {
	ob := OrderBook{YesAsks: []BookLevel{
		{PriceCents: 40, Size: 0},
		{PriceCents: 0, Size: 10},
		{PriceCents: 55, Size: 7},
	}}
	price, ok := ob.BestAskCents()
	assert.True(t, ok)
	assert.Equal(t, 55, price)
}

func TestOrderBook_NoLiquidity(t *testing.T) {
	_, ok := OrderBook{}.BestAskCents()
	assert.False(t, ok)
	assert.Equal(t, 0, OrderBook{}.DepthAtBest())
}

func TestCentsToPrice(t *testing.T) {
	assert.InDelta(t, 0.45, CentsToPrice(45), 1e-12)
	assert.Equal(t, 1.0, CentsToPrice(100))
}
