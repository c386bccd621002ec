package domain

// PriceMap es el mapping label → cuota americana devuelto por el sportsbook.
// Conserva el orden de inserción: el matcher por tokens depende de él.
// Un Set sobre un label existente sobreescribe la cuota pero mantiene la posición.
type PriceMap struct {
	labels []string
	odds   map[string]float64

	// Sample es true cuando el mapping es el fallback fijo, no datos reales.
	Sample bool
}

// NewPriceMap crea un PriceMap vacío.
func NewPriceMap() PriceMap {
	return PriceMap{odds: make(map[string]float64)}
}

// Set inserta o sobreescribe la cuota de un label.
func (pm *PriceMap) Set(label string, odds float64) {
	if pm.odds == nil {
		pm.odds = make(map[string]float64)
	}
	if _, exists := pm.odds[label]; !exists {
		pm.labels = append(pm.labels, label)
	}
	pm.odds[label] = odds
}

// Get devuelve la cuota exacta para el label (case y whitespace sensitive).
func (pm PriceMap) Get(label string) (float64, bool) {
	v, ok := pm.odds[label]
	return v, ok
}

// Len devuelve el número de labels distintos.
func (pm PriceMap) Len() int {
	return len(pm.labels)
}

// Labels devuelve los labels en orden de inserción.
func (pm PriceMap) Labels() []string {
	out := make([]string, len(pm.labels))
	copy(out, pm.labels)
	return out
}

// Each recorre el mapping en orden de inserción hasta que fn devuelva false.
func (pm PriceMap) Each(fn func(label string, odds float64) bool) {
	for _, l := range pm.labels {
		if !fn(l, pm.odds[l]) {
			return
		}
	}
}

// Merge copia los labels de other al final, respetando su orden.
// Los labels repetidos sobreescriben la cuota existente.
func (pm *PriceMap) Merge(other PriceMap) {
	other.Each(func(label string, odds float64) bool {
		pm.Set(label, odds)
		return true
	})
}

// SamplePriceMap devuelve el mapping fijo usado cuando el sportsbook no responde.
// Marcado con Sample=true para que nunca se confunda con precios reales.
func SamplePriceMap() PriceMap {
	pm := NewPriceMap()
	pm.Sample = true
	pm.Set("Kansas City Chiefs Win", -150)
	pm.Set("Buffalo Bills Win", 130)
	pm.Set("Los Angeles Lakers Win", -120)
	pm.Set("Boston Celtics Win", 100)
	pm.Set("New York Yankees Win", -140)
	pm.Set("Los Angeles Dodgers Win", 120)
	return pm
}
