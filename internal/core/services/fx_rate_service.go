package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finsvc/fx_rates_app/internal/apperrors"
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	portsproviders "github.com/finsvc/fx_rates_app/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// defaultLookbackDays is the margin subtracted from the requested date when
// a resolution miss triggers on-demand ingestion.
const defaultLookbackDays = 7

// FxRateService is the public face of the rate engine. It validates input,
// delegates resolution to the RateResolver, and applies the retry policy:
// a resolution miss expands the store once via the ingestion service, then
// resolution is retried exactly once.
type FxRateService struct {
	resolver     *RateResolver
	ingestion    *IngestionService
	providers    portsproviders.Registry
	lookbackDays int
}

// NewFxRateService creates a new FxRateService.
func NewFxRateService(resolver *RateResolver, ingestion *IngestionService, providers portsproviders.Registry, lookbackDays int) *FxRateService {
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}
	return &FxRateService{
		resolver:     resolver,
		ingestion:    ingestion,
		providers:    providers,
		lookbackDays: lookbackDays,
	}
}

// GetRate resolves the exchange rate between two currencies for a given
// day. A first miss triggers a targeted history expansion and one retry; a
// second miss surfaces as apperrors.ErrNotFound ("no rate available").
// Malformed currency codes fail fast with apperrors.ErrValidation, which
// callers must keep distinct from "not found".
func (s *FxRateService) GetRate(ctx context.Context, fromCode, toCode string, date time.Time, source string, freq domain.Frequency) (decimal.Decimal, error) {
	fromCode, err := normalizeCurrencyCode(fromCode)
	if err != nil {
		return decimal.Decimal{}, err
	}
	toCode, err = normalizeCurrencyCode(toCode)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if err := s.checkSourceFrequency(source, freq); err != nil {
		return decimal.Decimal{}, err
	}
	date = domain.TruncateToDay(date)

	rate, err := s.resolver.Resolve(fromCode, toCode, date, source, freq)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNoRateFound) {
		return decimal.Decimal{}, err
	}

	// Expand the store back past the requested date, then retry once.
	target := date.AddDate(0, 0, -s.lookbackDays)
	if _, ingestErr := s.ingestion.EnsureMinimumDateRange(ctx, target, []string{source}); ingestErr != nil {
		return decimal.Decimal{}, fmt.Errorf("on-demand ingestion failed: %w", ingestErr)
	}

	rate, err = s.resolver.Resolve(fromCode, toCode, date, source, freq)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoRateFound) || errors.Is(err, apperrors.ErrUnsupportedCurrency) {
			return decimal.Decimal{}, fmt.Errorf("%w: no rate available for %s/%s", apperrors.ErrNotFound, fromCode, toCode)
		}
		return decimal.Decimal{}, err
	}
	return rate, nil
}

// UpdateRates refreshes the "latest" batch for every known source and
// frequency; per-source failures are logged and do not block the others.
func (s *FxRateService) UpdateRates(ctx context.Context) error {
	return s.ingestion.RefreshLatest(ctx)
}

// EnsureMinimumDateRange guarantees history back to minDate for the
// targeted sources. An empty sources slice targets every known source.
func (s *FxRateService) EnsureMinimumDateRange(ctx context.Context, minDate time.Time, sources []string) (bool, error) {
	return s.ingestion.EnsureMinimumDateRange(ctx, minDate, sources)
}

// UpdateSingleRate applies an explicit correction: the record's tuple is
// overwritten in the rate store, the durable store and the month cache,
// bypassing the conflict rule that protects normal ingestion.
func (s *FxRateService) UpdateSingleRate(ctx context.Context, rate domain.FxRate) error {
	code, err := normalizeCurrencyCode(rate.CurrencyCode)
	if err != nil {
		return err
	}
	rate.CurrencyCode = code
	if rate.Rate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: corrected rate must be positive", apperrors.ErrValidation)
	}
	if err := s.checkSourceFrequency(rate.Source, rate.Frequency); err != nil {
		return err
	}
	return s.ingestion.CorrectRate(ctx, rate)
}

// checkSourceFrequency rejects unknown sources and frequencies the source's
// provider does not declare. The latter is a configuration fault, kept
// distinct from "no rate found".
func (s *FxRateService) checkSourceFrequency(source string, freq domain.Frequency) error {
	provider, ok := s.providers[source]
	if !ok {
		return fmt.Errorf("%w: unknown source %q", apperrors.ErrValidation, source)
	}
	if !provider.Descriptor().Supports(freq) {
		return fmt.Errorf("%w: %s does not publish %s rates", apperrors.ErrUnsupportedFrequency, source, freq)
	}
	return nil
}

func normalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return "", fmt.Errorf("%w: malformed currency code %q", apperrors.ErrValidation, code)
		}
	}
	return code, nil
}
