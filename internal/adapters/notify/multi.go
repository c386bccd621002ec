package notify

import (
	"context"
	"errors"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

// Multi reparte cada lote a varios notifiers. Un fallo no corta a los demás;
// los errores se devuelven agregados.
type Multi struct {
	notifiers []ports.Notifier
}

// NewMulti ignora los notifiers nil.
func NewMulti(notifiers ...ports.Notifier) *Multi {
	m := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Notify implementa ports.Notifier.
func (m *Multi) Notify(ctx context.Context, opportunities []domain.Opportunity) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, opportunities); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len devuelve el número de destinos.
func (m *Multi) Len() int {
	return len(m.notifiers)
}
