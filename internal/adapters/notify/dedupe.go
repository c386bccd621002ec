package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/edgescan/internal/domain"
	"github.com/alejandrodnm/edgescan/internal/ports"
)

// Dedupe filtra las oportunidades ya alertadas antes de pasarlas al notifier
// interno. La clave es (ticker, tramo de edge): un salto de tramo vuelve a alertar.
type Dedupe struct {
	next ports.Notifier
	seen ports.SeenCache
}

// NewDedupe envuelve next con el cache de vistos.
func NewDedupe(next ports.Notifier, seen ports.SeenCache) *Dedupe {
	return &Dedupe{next: next, seen: seen}
}

// Notify implementa ports.Notifier. Si el cache falla, la oportunidad se
// considera nueva. Si next falla, las claves marcadas se liberan para que el
// siguiente ciclo vuelva a intentarlo.
func (d *Dedupe) Notify(ctx context.Context, opportunities []domain.Opportunity) error {
	fresh := make([]domain.Opportunity, 0, len(opportunities))
	var marked []string
	for _, opp := range opportunities {
		key := dedupeKey(opp)
		isNew, err := d.seen.MarkSeen(ctx, key)
		if err != nil {
			slog.Warn("seen cache error", "ticker", opp.Ticker, "err", err)
			isNew = true
		} else if isNew {
			marked = append(marked, key)
		}
		if isNew {
			fresh = append(fresh, opp)
		}
	}

	if len(fresh) == 0 {
		return nil
	}
	slog.Debug("dedupe", "in", len(opportunities), "fresh", len(fresh))

	if err := d.next.Notify(ctx, fresh); err != nil {
		for _, key := range marked {
			if ferr := d.seen.Forget(ctx, key); ferr != nil {
				slog.Warn("seen cache forget error", "key", key, "err", ferr)
			}
		}
		return err
	}
	return nil
}

func dedupeKey(opp domain.Opportunity) string {
	return fmt.Sprintf("%s:%d", opp.Ticker, opp.EdgeBucket())
}
