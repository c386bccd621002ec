package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// ListingProvider obtiene los mercados abiertos de Kalshi relevantes para deportes.
type ListingProvider interface {
	// FetchListings pagina hasta obtener todos los listings abiertos
	// cuyo título contiene alguna de las keywords configuradas.
	// Si una página falla devuelve los listings ya obtenidos junto con el error.
	FetchListings(ctx context.Context) ([]domain.Listing, error)
}
