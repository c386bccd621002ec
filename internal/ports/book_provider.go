package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// BookProvider obtiene el orderbook YES de un mercado de Kalshi.
type BookProvider interface {
	// FetchOrderBook devuelve el book del ticker dado. Un book sin niveles
	// no es un error: significa que no hay liquidez.
	FetchOrderBook(ctx context.Context, ticker string) (domain.OrderBook, error)
}
