package domain

import "math"

// ImpliedProbability convierte una cuota americana a probabilidad implícita (0–1).
//
//	+150 → 100/250 = 0.40
//	-150 → 150/250 = 0.60
//
// Una cuota de 0 cae en la rama positiva y devuelve 0.5.
func ImpliedProbability(americanOdds float64) float64 {
	if americanOdds >= 0 {
		return 100 / (americanOdds + 100)
	}
	abs := math.Abs(americanOdds)
	return abs / (abs + 100)
}

// EdgePercentage devuelve cuánto (en %) la probabilidad de referencia supera
// al precio de mercado. Positivo = el mercado infravalora el outcome.
// Con marketPrice == 0 devuelve 0 en vez de dividir por cero.
func EdgePercentage(referenceProb, marketPrice float64) float64 {
	if marketPrice == 0 {
		return 0
	}
	return (referenceProb/marketPrice - 1) * 100
}

// ExpectedValue devuelve el EV por unidad apostada al comprar YES a marketPrice
// cuando la probabilidad real es referenceProb.
//
//	EV = p × (1 − m) − (1 − p) × m
func ExpectedValue(referenceProb, marketPrice float64) float64 {
	payoutIfWin := 1 - marketPrice
	return referenceProb*payoutIfWin - (1-referenceProb)*marketPrice
}
