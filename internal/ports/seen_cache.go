package ports

import "context"

// SeenCache recuerda qué alertas ya se enviaron para no repetirlas.
type SeenCache interface {
	// MarkSeen registra key y devuelve true si es la primera vez que se ve
	// dentro de la ventana de retención.
	MarkSeen(ctx context.Context, key string) (bool, error)
	// Forget borra key para que la próxima MarkSeen vuelva a devolver true.
	Forget(ctx context.Context, key string) error
	Close() error
}
