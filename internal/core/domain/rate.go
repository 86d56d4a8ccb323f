package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency defines the publication cadence of a rate series. A Weekly,
// BiWeekly or Monthly rate applies uniformly to every day in its period.
type Frequency string

const (
	Daily    Frequency = "DAILY"
	Weekly   Frequency = "WEEKLY"
	BiWeekly Frequency = "BIWEEKLY"
	Monthly  Frequency = "MONTHLY"
)

// ParseFrequency maps a case-insensitive string to a Frequency.
// The second return value reports whether the input was recognised.
func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(strings.ToUpper(s)) {
	case Daily, Weekly, BiWeekly, Monthly:
		return Frequency(strings.ToUpper(s)), true
	}
	return "", false
}

// QuoteType defines how a source quotes against its base currency.
type QuoteType string

const (
	// Direct quotes express foreign currency per unit of the base currency.
	Direct QuoteType = "DIRECT"
	// Indirect quotes express base currency per unit of the foreign currency.
	Indirect QuoteType = "INDIRECT"
)

// FxRate is a single published exchange rate: the value quoted by a source,
// at a given cadence, for one currency against that source's base currency,
// effective on a given day. Dates are truncated to day granularity.
type FxRate struct {
	Source       string          `json:"source"`
	Frequency    Frequency       `json:"frequency"`
	CurrencyCode string          `json:"currencyCode"`
	RateDate     time.Time       `json:"rateDate"`
	Rate         decimal.Decimal `json:"rate"`
}

// Day returns the rate's effective date truncated to day granularity in UTC.
func (r FxRate) Day() time.Time {
	return TruncateToDay(r.RateDate)
}

// TruncateToDay drops the time-of-day component; it is never significant.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ProviderDescriptor is the identity a rate provider declares about itself:
// which source it represents, the currency it quotes against, the direction
// of its quotes, and the cadences it can serve. Callers branch on the
// declared capability set, never on the provider's concrete type.
type ProviderDescriptor struct {
	Source       string      `json:"source"`
	BaseCurrency string      `json:"baseCurrency"`
	QuoteType    QuoteType   `json:"quoteType"`
	Frequencies  []Frequency `json:"frequencies"`
}

// Supports reports whether the descriptor declares the given frequency.
func (d ProviderDescriptor) Supports(freq Frequency) bool {
	for _, f := range d.Frequencies {
		if f == freq {
			return true
		}
	}
	return false
}
