package storage

import (
	"strings"

	"github.com/alejandrodnm/edgescan/internal/ports"
)

// Open elige el backend según el DSN: postgres:// o postgresql:// usan
// PostgresStorage; cualquier otra cosa es una ruta de SQLite.
func Open(dsn string) (ports.Storage, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresStorage(dsn)
	}
	return NewSQLiteStorage(dsn)
}
