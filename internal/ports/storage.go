package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Storage persiste el histórico de scans.
type Storage interface {
	// SaveScan persiste el resumen del scan y sus oportunidades.
	SaveScan(ctx context.Context, report domain.ScanReport) error

	// GetHistory devuelve las oportunidades registradas en el rango de tiempo dado,
	// ordenadas por edge descendente.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
