package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// PriceProvider obtiene las cuotas americanas del sportsbook para todos los deportes configurados.
type PriceProvider interface {
	// FetchPrices agrega los deportes en un único PriceMap. Un deporte que falla
	// se omite; solo devuelve error si no se pudo obtener ninguno.
	FetchPrices(ctx context.Context) (domain.PriceMap, error)
}
