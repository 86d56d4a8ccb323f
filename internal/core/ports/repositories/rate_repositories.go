package repositories

import (
	"context"
	"time"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
)

// FxRateReader defines read operations for durable rate data
type FxRateReader interface {
	// FindRatesInRange retrieves every stored rate with
	// from <= rate_date < to, across all sources and frequencies.
	FindRatesInRange(ctx context.Context, from, to time.Time) ([]domain.FxRate, error)
}

// FxRateWriter defines write operations for durable rate data
type FxRateWriter interface {
	// SaveRates persists a batch of rates. Saving a tuple that already
	// exists is a no-op, so replayed batches are safe.
	SaveRates(ctx context.Context, rates []domain.FxRate) error

	// UpsertRate persists a single rate, overwriting any stored value for
	// its exact tuple. Used only by the correction path.
	UpsertRate(ctx context.Context, rate domain.FxRate) error
}

// PeggedCurrencyReader defines read access to pegged-currency definitions
type PeggedCurrencyReader interface {
	// ListPeggedCurrencies returns every fixed-ratio currency definition.
	ListPeggedCurrencies(ctx context.Context) ([]domain.PeggedCurrency, error)
}

// FxRateRepositoryFacade combines all rate-related repository interfaces
// This is a facade for clients that need access to all operations
type FxRateRepositoryFacade interface {
	FxRateReader
	FxRateWriter
	PeggedCurrencyReader
}
