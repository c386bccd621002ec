package scanner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

var (
	fixedNow = time.Date(2026, 10, 16, 18, 30, 0, 0, time.UTC)
	errDown  = errors.New("source down")
)

type fakeListings struct {
	listings []domain.Listing
	err      error
}

func (f *fakeListings) FetchListings(context.Context) ([]domain.Listing, error) {
	return f.listings, f.err
}

// fakeBooks devuelve un book con un único ask al precio configurado por ticker.
// Los tickers en fail devuelven error; los ausentes, un book vacío.
type fakeBooks struct {
	asks  map[string]int
	fail  map[string]bool
	delay time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeBooks) FetchOrderBook(ctx context.Context, ticker string) (domain.OrderBook, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.OrderBook{}, ctx.Err()
		}
	}
	if f.fail[ticker] {
		return domain.OrderBook{}, errDown
	}
	book := domain.OrderBook{Ticker: ticker}
	if cents, ok := f.asks[ticker]; ok {
		book.YesAsks = []domain.BookLevel{{PriceCents: cents, Size: 100}}
	}
	return book, nil
}

type fakePrices struct {
	prices domain.PriceMap
	err    error
}

func (f *fakePrices) FetchPrices(context.Context) (domain.PriceMap, error) {
	return f.prices, f.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls [][]domain.Opportunity
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, opps []domain.Opportunity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, opps)
	return f.err
}

type fakeStorage struct {
	mu      sync.Mutex
	reports []domain.ScanReport
	err     error
}

func (f *fakeStorage) SaveScan(_ context.Context, r domain.ScanReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r)
	return f.err
}

func (f *fakeStorage) GetHistory(context.Context, time.Time, time.Time) ([]domain.Opportunity, error) {
	return nil, nil
}

func (f *fakeStorage) Close() error { return nil }

func prices(pairs ...any) domain.PriceMap {
	pm := domain.NewPriceMap()
	for i := 0; i < len(pairs); i += 2 {
		pm.Set(pairs[i].(string), float64(pairs[i+1].(int)))
	}
	return pm
}
