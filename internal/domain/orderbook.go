package domain

// BookLevel es un nivel de precio del lado YES, en centavos (0–100).
type BookLevel struct {
	PriceCents int
	Size       int
}

// OrderBook representa el libro YES de un mercado de Kalshi.
// Solo guarda asks: es lo único que el evaluador necesita para comprar YES.
type OrderBook struct {
	Ticker  string
	YesAsks []BookLevel // sin orden garantizado
}

// BestAskCents devuelve el menor precio de compra YES con tamaño disponible.
// Devuelve ok=false si el book no tiene liquidez.
func (ob OrderBook) BestAskCents() (price int, ok bool) {
	for _, lvl := range ob.YesAsks {
		if lvl.Size <= 0 || lvl.PriceCents <= 0 || lvl.PriceCents > 100 {
			continue
		}
		if !ok || lvl.PriceCents < price {
			price = lvl.PriceCents
			ok = true
		}
	}
	return price, ok
}

// DepthAtBest devuelve el número de contratos disponibles al mejor ask.
func (ob OrderBook) DepthAtBest() int {
	best, ok := ob.BestAskCents()
	if !ok {
		return 0
	}
	total := 0
	for _, lvl := range ob.YesAsks {
		if lvl.PriceCents == best && lvl.Size > 0 {
			total += lvl.Size
		}
	}
	return total
}
