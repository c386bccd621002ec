package domain

import "time"

// ScanStats cuenta por qué se descartó cada listing en un scan.
// Ninguna de estas causas es un error: son resultados normales.
type ScanStats struct {
	Listings        int  // listings recibidos del ListingProvider
	Labels          int  // labels en el PriceMap usado
	SamplePrices    bool // el sportsbook falló y se usó SamplePriceMap
	ListingsFailed  bool // el ListingProvider falló (scan vacío)
	ListingsPartial bool // el ListingProvider falló a mitad; se usan los ya obtenidos
	BookUnavailable int  // fetch del orderbook falló o expiró
	NoLiquidity     int  // book sin asks YES
	NoMatch         int  // sin label equivalente en el sportsbook
	BelowThreshold  int  // edge < minEdge
	Opportunities   int
}

// ScanReport es el resultado completo de un scan.
type ScanReport struct {
	StartedAt     time.Time
	Duration      time.Duration
	Stake         float64
	MinEdge       float64
	Opportunities []Opportunity // en el orden de iteración de los listings
	Stats         ScanStats
}

// Best devuelve la oportunidad con mayor edge, o ok=false si no hay ninguna.
func (r ScanReport) Best() (Opportunity, bool) {
	if len(r.Opportunities) == 0 {
		return Opportunity{}, false
	}
	best := r.Opportunities[0]
	for _, o := range r.Opportunities[1:] {
		if o.EdgePct > best.EdgePct {
			best = o
		}
	}
	return best, true
}
