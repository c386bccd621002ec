package ports

import (
	"context"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Notifier presenta las oportunidades encontradas al usuario.
type Notifier interface {
	// Notify recibe las oportunidades de un scan en el orden en que se encontraron.
	Notify(ctx context.Context, opportunities []domain.Opportunity) error
}
