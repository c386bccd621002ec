package kalshi

import (
	"strings"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// filterSports convierte los DTOs a domain.Listing descartando los que no
// contienen ninguna keyword (case-insensitive) en el título.
func filterSports(raw []market, keywords []string) []domain.Listing {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	out := make([]domain.Listing, 0, len(raw))
	for _, m := range raw {
		if !containsAny(strings.ToLower(m.Title), lowered) {
			continue
		}
		out = append(out, domain.Listing{
			Ticker:      m.Ticker,
			Title:       m.Title,
			EventTicker: m.EventTicker,
			Category:    m.Category,
		})
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// mapOrderBook deriva los asks YES desde los bids NO: ask = 100 − bid.
func mapOrderBook(ticker string, raw orderbookResponse) domain.OrderBook {
	ob := domain.OrderBook{Ticker: ticker}
	for _, lvl := range raw.Orderbook.No {
		if len(lvl) < 2 {
			continue
		}
		price := 100 - lvl[0]
		if price <= 0 || price >= 100 || lvl[1] <= 0 {
			continue
		}
		ob.YesAsks = append(ob.YesAsks, domain.BookLevel{PriceCents: price, Size: lvl[1]})
	}
	return ob
}
