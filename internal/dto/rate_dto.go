package dto

import (
	"time"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateResponse defines the structure for API responses containing a
// resolved exchange rate.
type RateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Date             string          `json:"date"`
	Source           string          `json:"source"`
	Frequency        string          `json:"frequency"`
	Rate             decimal.Decimal `json:"rate"`
}

// ToRateResponse builds the response DTO for a resolved rate.
func ToRateResponse(from, to string, date time.Time, source string, freq domain.Frequency, rate decimal.Decimal) RateResponse {
	return RateResponse{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Date:             date.Format("2006-01-02"),
		Source:           source,
		Frequency:        string(freq),
		Rate:             rate,
	}
}

// CorrectRateRequest defines the structure for correcting a single stored
// rate. Unlike ingestion, a correction may overwrite an existing value.
type CorrectRateRequest struct {
	Source       string          `json:"source" binding:"required"`
	Frequency    string          `json:"frequency" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currency"`
	RateDate     time.Time       `json:"rateDate" binding:"required"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
}

// EnsureHistoryRequest asks the service to guarantee rate history back to
// MinDate for the given sources (all sources when omitted).
type EnsureHistoryRequest struct {
	MinDate time.Time `json:"minDate" binding:"required"`
	Sources []string  `json:"sources"`
}

// EnsureHistoryResponse reports whether every targeted (source, frequency)
// pair now covers the requested minimum date.
type EnsureHistoryResponse struct {
	Covered bool `json:"covered"`
}
