package storage

import (
	"math"
	"sync"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// edgeChangePct es el cambio relativo de edge a partir del cual se reescribe.
const edgeChangePct = 0.05

// seenState es el último estado persistido de un ticker.
type seenState struct {
	priceCents int
	edge       float64
}

// changeCache evita reescribir oportunidades que no cambiaron entre ciclos.
type changeCache struct {
	mu    sync.Mutex
	state map[string]seenState
}

func newChangeCache() *changeCache {
	return &changeCache{state: make(map[string]seenState)}
}

func (c *changeCache) put(ticker string, st seenState) {
	c.mu.Lock()
	c.state[ticker] = st
	c.mu.Unlock()
}

// split separa las oportunidades nuevas o con precio/edge distinto (write) de
// las que no cambiaron (touch). Un cambio de edge menor a edgeChangePct se
// ignora. No modifica la caché: eso lo hace commit tras persistir.
func (c *changeCache) split(opps []domain.Opportunity) (write, touch []domain.Opportunity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, opp := range opps {
		if prev, ok := c.state[opp.Ticker]; ok {
			st := stateOf(opp)
			if prev.priceCents == st.priceCents && relChange(prev.edge, st.edge) < edgeChangePct {
				touch = append(touch, opp)
				continue
			}
		}
		write = append(write, opp)
	}
	return write, touch
}

// commit registra como persistido el estado de opps.
func (c *changeCache) commit(opps []domain.Opportunity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, opp := range opps {
		c.state[opp.Ticker] = stateOf(opp)
	}
}

func stateOf(opp domain.Opportunity) seenState {
	return seenState{priceCents: priceCents(opp.MarketPrice), edge: opp.EdgePct}
}

func priceCents(price float64) int {
	return int(math.Round(price * 100))
}

// relChange devuelve el cambio relativo entre dos valores (0.0 – ∞).
func relChange(old, new float64) float64 {
	if old == 0 {
		return 1.0
	}
	return math.Abs(new-old) / math.Abs(old)
}
