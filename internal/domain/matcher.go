package domain

import "strings"

// minSharedTokens es el mínimo de palabras comunes para aceptar un label.
const minSharedTokens = 2

// MatchEvent busca la cuota del sportsbook que corresponde al título de un listing.
//
// Orden de prioridad:
//  1. Match exacto: el título es literalmente un label del mapping.
//  2. Overlap de tokens: el PRIMER label (en orden de inserción) que comparte
//     al menos dos palabras con el título, sin distinguir mayúsculas.
//
// El paso 2 es una heurística: gana el primer candidato que califica, no el de
// mayor overlap. Cambiarlo altera qué oportunidades salen con inputs ambiguos.
func MatchEvent(title string, prices PriceMap) (odds float64, ok bool) {
	if v, exact := prices.Get(title); exact {
		return v, true
	}

	titleTokens := tokenSet(title)
	if len(titleTokens) < minSharedTokens {
		return 0, false
	}

	prices.Each(func(label string, v float64) bool {
		if sharedTokens(titleTokens, tokenSet(label)) >= minSharedTokens {
			odds, ok = v, true
			return false
		}
		return true
	})
	return odds, ok
}

// tokenSet pasa a minúsculas y separa por whitespace.
func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func sharedTokens(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}
