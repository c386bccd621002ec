package domain

import (
	"fmt"
	"time"
)

// Opportunity es una discrepancia Kalshi vs sportsbook que supera el umbral de edge.
// Es un valor inmutable: cada scan produce oportunidades nuevas, sin identidad entre scans.
type Opportunity struct {
	ID        string
	EventName string // título del listing
	Ticker    string

	MarketPrice       float64 // best ask YES, 0–1
	MarketImpliedProb float64 // 0–100; igual a MarketPrice×100 porque el precio ya es probabilidad

	SportsbookOdds        float64 // cuota americana original
	SportsbookImpliedProb float64 // 0–100

	EdgePct        float64
	ExpectedValue  float64 // en moneda, para Stake
	Recommendation string
	Stake          float64
	CreatedAt      time.Time
}

// EVPerUnit devuelve el EV por unidad apostada.
func (o Opportunity) EVPerUnit() float64 {
	if o.Stake == 0 {
		return 0
	}
	return o.ExpectedValue / o.Stake
}

// EdgeBucket agrupa el edge en tramos de 5 puntos. Se usa para no repetir alertas
// de la misma oportunidad mientras el edge no cambie de tramo.
func (o Opportunity) EdgeBucket() int {
	return int(o.EdgePct / 5)
}

// Recommend construye el texto de recomendación para comprar YES a price.
func Recommend(price float64) string {
	return fmt.Sprintf("BUY YES @ $%.2f", price)
}

// TruncateTitle recorta un título a maxLen caracteres; si está vacío usa el ticker.
func TruncateTitle(title, ticker string, maxLen int) string {
	t := title
	if t == "" {
		t = ticker
	}
	if len(t) > maxLen {
		t = t[:maxLen-3] + "..."
	}
	return t
}
