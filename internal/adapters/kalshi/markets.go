package kalshi

// markets.go — listings y orderbooks.
//
// Kalshi no publica asks: un ask YES a P centavos es un bid NO a 100−P.
// FetchOrderBook deriva los asks YES a partir de los bids NO.

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

const pageSize = 200

// FetchListings devuelve los mercados abiertos de deportes.
// Pagina con cursor hasta agotarlo o hasta MaxPages. Cada página tiene su
// propio timeout; si una falla se devuelven las anteriores junto con el error.
func (c *Client) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	var all []domain.Listing
	cursor := ""
	total := 0

	for page := 0; page < c.maxPages; page++ {
		q := url.Values{}
		q.Set("status", "open")
		q.Set("limit", strconv.Itoa(pageSize))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp marketsResponse
		if err := c.http.GetJSON(ctx, c.baseURL+"/markets?"+q.Encode(), &resp); err != nil {
			return all, fmt.Errorf("kalshi.FetchListings: page %d: %w", page+1, err)
		}

		total += len(resp.Markets)
		all = append(all, filterSports(resp.Markets, c.keywords)...)

		slog.Debug("fetched kalshi markets page",
			"page", page+1,
			"count", len(resp.Markets),
			"sports", len(all),
		)

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	slog.Info("kalshi listings fetched", "scanned", total, "sports", len(all))
	return all, nil
}

// FetchOrderBook devuelve los asks YES de un mercado.
func (c *Client) FetchOrderBook(ctx context.Context, ticker string) (domain.OrderBook, error) {
	u := fmt.Sprintf("%s/markets/%s/orderbook", c.baseURL, url.PathEscape(ticker))

	var resp orderbookResponse
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("kalshi.FetchOrderBook %s: %w", ticker, err)
	}
	return mapOrderBook(ticker, resp), nil
}
