package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxRate is the database representation of a published exchange rate.
// The (source, frequency, currency_code, rate_date) tuple is unique.
type FxRate struct {
	Source       string          `json:"source"`
	Frequency    string          `json:"frequency"`
	CurrencyCode string          `json:"currencyCode"`
	RateDate     time.Time       `json:"rateDate"`
	Rate         decimal.Decimal `json:"rate"`
}

// PeggedCurrency is the database representation of a fixed-ratio currency
// definition. currency_code is the primary key.
type PeggedCurrency struct {
	CurrencyCode       string          `json:"currencyCode"`
	AnchorCurrencyCode string          `json:"anchorCurrencyCode"`
	Rate               decimal.Decimal `json:"rate"`
}
