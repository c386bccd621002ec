package strategy

import "github.com/alejandrodnm/edgescan/internal/domain"

// Strategy define el contrato para evaluar un par listing/cuota ya emparejado.
// Devuelve ok=false cuando el par no es una oportunidad; no es un error.
type Strategy interface {
	Evaluate(listing domain.Listing, bestAskCents int, americanOdds float64) (domain.Opportunity, bool)
}
