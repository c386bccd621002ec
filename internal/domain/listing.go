package domain

// Listing es un mercado binario abierto en Kalshi tal como lo entrega el ListingProvider.
type Listing struct {
	Ticker      string
	Title       string
	EventTicker string // informativo, solo para logs
	Category    string
}

// CentsToPrice convierte un precio en centavos a probabilidad (0–1).
func CentsToPrice(cents int) float64 {
	return float64(cents) / 100.0
}
