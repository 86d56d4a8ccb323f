package services

import (
	"context"
	"time"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FxRateReaderSvc defines the read side of the rate service
type FxRateReaderSvc interface {
	// GetRate resolves the exchange rate between two currencies for a given
	// day, source and frequency. It returns apperrors.ErrNotFound when no
	// rate is available even after on-demand ingestion.
	GetRate(ctx context.Context, fromCode, toCode string, date time.Time, source string, freq domain.Frequency) (decimal.Decimal, error)
}

// FxRateRefresherSvc defines the ingestion-facing side of the rate service
type FxRateRefresherSvc interface {
	// UpdateRates fetches the most recent batch for every known source and
	// frequency. Per-source failures are logged and do not block the rest.
	UpdateRates(ctx context.Context) error

	// EnsureMinimumDateRange guarantees history back to minDate for the
	// targeted sources (all sources when the slice is empty). It reports
	// true iff every targeted (source, frequency) pair now covers minDate.
	EnsureMinimumDateRange(ctx context.Context, minDate time.Time, sources []string) (bool, error)
}

// FxRateCorrectorSvc defines the single-rate correction operation
type FxRateCorrectorSvc interface {
	// UpdateSingleRate overwrites the stored value for the record's exact
	// tuple in the in-memory store, the durable store and the month cache.
	UpdateSingleRate(ctx context.Context, rate domain.FxRate) error
}

// FxRateSvcFacade combines all rate service interfaces
// This is a facade for clients that need access to all operations
type FxRateSvcFacade interface {
	FxRateReaderSvc
	FxRateRefresherSvc
	FxRateCorrectorSvc
}
