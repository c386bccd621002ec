package scanner

// concurrent.go — worker pool para el fetch de orderbooks.
//
// Cada listing necesita su propio request al venue. Los resultados se
// reensamblan por índice: el orden de salida es el de los listings.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

const defaultWorkers = 8

// bookStatus distingue explícitamente los resultados de cada fetch.
type bookStatus int

const (
	bookFetched bookStatus = iota
	bookUnavailable
	bookNoLiquidity
)

type bookResult struct {
	book   domain.OrderBook
	status bookStatus
	err    error
}

// fetchBooksConcurrent pide el book de cada listing con a lo sumo `workers`
// requests en vuelo. Cada llamada tiene su propio timeout.
func fetchBooksConcurrent(
	ctx context.Context,
	books ports.BookProvider,
	listings []domain.Listing,
	workers int,
	callTimeout time.Duration,
) []bookResult {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(listings) {
		workers = len(listings)
	}

	results := make([]bookResult, len(listings))
	workCh := make(chan int, len(listings))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				results[idx] = fetchOne(ctx, books, listings[idx].Ticker, callTimeout)
			}
		}()
	}

	for i := range listings {
		workCh <- i
	}
	close(workCh)
	wg.Wait()

	slog.Debug("orderbooks fetched", "listings", len(listings), "workers", workers)
	return results
}

func fetchOne(ctx context.Context, books ports.BookProvider, ticker string, timeout time.Duration) bookResult {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	book, err := books.FetchOrderBook(callCtx, ticker)
	if err != nil {
		slog.Debug("orderbook unavailable", "ticker", ticker, "err", err)
		return bookResult{status: bookUnavailable, err: err}
	}
	if _, ok := book.BestAskCents(); !ok {
		return bookResult{book: book, status: bookNoLiquidity}
	}
	return bookResult{book: book, status: bookFetched}
}
