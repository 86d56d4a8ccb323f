package services

import (
	"strings"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
)

// PeggedCurrencyTable is a read-only lookup from currency code to its
// fixed-ratio definition. It is populated once from the durable store at
// startup and never mutated afterwards, so lookups need no locking.
type PeggedCurrencyTable struct {
	pegs map[string]domain.PeggedCurrency
}

// NewPeggedCurrencyTable builds the table from loaded definitions. Codes
// are normalised to upper case.
func NewPeggedCurrencyTable(defs []domain.PeggedCurrency) *PeggedCurrencyTable {
	pegs := make(map[string]domain.PeggedCurrency, len(defs))
	for _, d := range defs {
		d.CurrencyCode = strings.ToUpper(d.CurrencyCode)
		d.AnchorCurrencyCode = strings.ToUpper(d.AnchorCurrencyCode)
		pegs[d.CurrencyCode] = d
	}
	return &PeggedCurrencyTable{pegs: pegs}
}

// Lookup returns the peg for a currency, if one is defined.
func (t *PeggedCurrencyTable) Lookup(currencyCode string) (domain.PeggedCurrency, bool) {
	peg, ok := t.pegs[strings.ToUpper(currencyCode)]
	return peg, ok
}
