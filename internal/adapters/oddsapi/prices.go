package oddsapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// FetchPrices consulta todos los deportes en paralelo y los mezcla en el
// orden configurado. Un deporte que falla se omite; si fallan todos, error.
func (c *Client) FetchPrices(ctx context.Context) (domain.PriceMap, error) {
	type sportResult struct {
		prices domain.PriceMap
		err    error
	}

	results := make([]sportResult, len(c.sports))
	var wg sync.WaitGroup
	for i, sport := range c.sports {
		wg.Add(1)
		go func(i int, sport string) {
			defer wg.Done()
			pm, err := c.fetchSport(ctx, sport)
			results[i] = sportResult{prices: pm, err: err}
		}(i, sport)
	}
	wg.Wait()

	merged := domain.NewPriceMap()
	var errs []error
	for i, r := range results {
		if r.err != nil {
			slog.Warn("sport odds unavailable", "sport", c.sports[i], "err", r.err)
			errs = append(errs, r.err)
			continue
		}
		merged.Merge(r.prices)
	}

	if len(c.sports) > 0 && len(errs) == len(c.sports) {
		return domain.PriceMap{}, fmt.Errorf("oddsapi.FetchPrices: all sports failed: %w", errors.Join(errs...))
	}

	slog.Info("sportsbook prices fetched", "labels", merged.Len(), "sports_failed", len(errs))
	return merged, nil
}

func (c *Client) fetchSport(ctx context.Context, sport string) (domain.PriceMap, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("regions", c.regions)
	q.Set("markets", "h2h")
	q.Set("oddsFormat", "american")
	u := fmt.Sprintf("%s/v4/sports/%s/odds?%s", c.baseURL, url.PathEscape(sport), q.Encode())

	var events []event
	if err := c.http.GetJSON(ctx, u, &events); err != nil {
		return domain.PriceMap{}, fmt.Errorf("sport %s: %w", sport, err)
	}
	return toPriceMap(events, c.bookmaker), nil
}

// toPriceMap toma, por evento, el bookmaker preferido (o el primero) y
// registra cada outcome h2h con el nombre del equipo como label.
func toPriceMap(events []event, preferred string) domain.PriceMap {
	pm := domain.NewPriceMap()
	for _, ev := range events {
		bm, ok := pickBookmaker(ev.Bookmakers, preferred)
		if !ok {
			continue
		}
		for _, m := range bm.Markets {
			if m.Key != "h2h" {
				continue
			}
			for _, o := range m.Outcomes {
				if o.Name == "" {
					continue
				}
				pm.Set(o.Name, o.Price)
			}
		}
	}
	return pm
}

func pickBookmaker(books []bookmaker, preferred string) (bookmaker, bool) {
	if len(books) == 0 {
		return bookmaker{}, false
	}
	if preferred != "" {
		for _, b := range books {
			if b.Key == preferred {
				return b, true
			}
		}
	}
	return books[0], true
}
