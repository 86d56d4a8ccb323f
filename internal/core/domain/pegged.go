package domain

import "github.com/shopspring/decimal"

// PeggedCurrency defines a fixed-ratio relationship set by policy rather
// than quoted by a market: 1 unit of CurrencyCode equals Rate units of
// AnchorCurrencyCode. Definitions are loaded once and never mutated.
type PeggedCurrency struct {
	CurrencyCode       string          `json:"currencyCode"`
	AnchorCurrencyCode string          `json:"anchorCurrencyCode"`
	Rate               decimal.Decimal `json:"rate"`
}
