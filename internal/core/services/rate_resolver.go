package services

import (
	"fmt"
	"time"

	"github.com/finsvc/fx_rates_app/internal/apperrors"
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	portsproviders "github.com/finsvc/fx_rates_app/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// RateResolver combines direct lookup, backward date fallback,
// pegged-currency recursion and base-currency triangulation into a single
// resolution algorithm over the in-memory RateStore. It never performs I/O;
// when it reports apperrors.ErrNoRateFound the caller decides whether to
// ingest more history and retry.
type RateResolver struct {
	store     *RateStore
	pegged    *PeggedCurrencyTable
	cache     *MonthlyCache
	providers portsproviders.Registry
}

// NewRateResolver creates a RateResolver over the given state and provider
// descriptors.
func NewRateResolver(store *RateStore, pegged *PeggedCurrencyTable, cache *MonthlyCache, providers portsproviders.Registry) *RateResolver {
	return &RateResolver{
		store:     store,
		pegged:    pegged,
		cache:     cache,
		providers: providers,
	}
}

// Resolve returns the rate converting fromCode into toCode on the given day
// under the source's quotes at the given frequency.
//
// Expected data-dependent outcomes are apperrors.ErrNoRateFound (the walk
// exhausted the known history) and apperrors.ErrUnsupportedCurrency (no
// rates and no peg for the lookup currency). Anything else is a fault.
func (r *RateResolver) Resolve(fromCode, toCode string, date time.Time, source string, freq domain.Frequency) (decimal.Decimal, error) {
	return r.resolve(fromCode, toCode, date, source, freq, make(map[string]struct{}))
}

func (r *RateResolver) resolve(fromCode, toCode string, date time.Time, source string, freq domain.Frequency, visited map[string]struct{}) (decimal.Decimal, error) {
	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}

	provider, ok := r.providers[source]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: unknown source %q", apperrors.ErrValidation, source)
	}
	desc := provider.Descriptor()
	base := desc.BaseCurrency

	// Neither side is the source's base currency: triangulate both legs
	// through it and multiply. Any leg failure propagates.
	if fromCode != base && toCode != base {
		left, err := r.resolve(fromCode, base, date, source, freq, visited)
		if err != nil {
			return decimal.Decimal{}, err
		}
		right, err := r.resolve(base, toCode, date, source, freq, visited)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return left.Mul(right), nil
	}

	lookup := fromCode
	if fromCode == base {
		lookup = toCode
	}

	// Pegged definitions recurse back into this algorithm, so a pair of
	// mutually pegged currencies would otherwise loop forever. Currencies
	// on the current call stack are rejected deterministically.
	if _, seen := visited[lookup]; seen {
		return decimal.Decimal{}, fmt.Errorf("%w: pegged-currency cycle at %s", apperrors.ErrUnsupportedCurrency, lookup)
	}
	visited[lookup] = struct{}{}
	defer delete(visited, lookup)

	if !r.store.HasCurrency(source, freq, lookup) {
		return r.resolveViaPeg(fromCode, toCode, lookup, base, date, source, freq, visited)
	}

	floor, err := r.store.MinDate(source, freq)
	if err != nil {
		// The pair has rates but no floor: bookkeeping was bypassed.
		return decimal.Decimal{}, err
	}

	// Walk backward day by day to the floor; the nearest earlier published
	// value covers dates the series skips (weekends, coarser cadences).
	for day := domain.TruncateToDay(date); !day.Before(floor); day = day.AddDate(0, 0, -1) {
		if v, ok := r.cache.Get(lookup, day, source, freq); ok {
			return orient(v, desc.QuoteType, toCode == base), nil
		}
		if v, ok := r.store.Lookup(source, freq, lookup, day); ok {
			return orient(v, desc.QuoteType, toCode == base), nil
		}
	}

	return decimal.Decimal{}, fmt.Errorf("%w: %s/%s for %s as of %s",
		apperrors.ErrNoRateFound, fromCode, toCode, source, domain.TruncateToDay(date).Format("2006-01-02"))
}

// resolveViaPeg handles a lookup currency with no stored rates at all: if a
// fixed-ratio definition exists, the pair is resolved through the peg's
// anchor; otherwise the currency is simply not supported by this source.
func (r *RateResolver) resolveViaPeg(fromCode, toCode, lookup, base string, date time.Time, source string, freq domain.Frequency, visited map[string]struct{}) (decimal.Decimal, error) {
	peg, ok := r.pegged.Lookup(lookup)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s has no rates under %s/%s and no peg",
			apperrors.ErrUnsupportedCurrency, lookup, source, freq)
	}

	nonLookup := fromCode
	if lookup == fromCode {
		nonLookup = toCode
	}
	leg, err := r.resolve(nonLookup, peg.AnchorCurrencyCode, date, source, freq, visited)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if leg.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: zero leg rate resolving %s via peg anchor %s",
			apperrors.ErrNoRateFound, lookup, peg.AnchorCurrencyCode)
	}

	if toCode == base {
		return peg.Rate.Div(leg), nil
	}
	return leg.Div(peg.Rate), nil
}

// orient converts a stored quote into the requested direction. The stored
// value's meaning depends on the source's quote type; toIsBase says which
// side of the requested pair is the source's base currency.
func orient(value decimal.Decimal, quoteType domain.QuoteType, toIsBase bool) decimal.Decimal {
	asIs := (quoteType == domain.Direct && toIsBase) || (quoteType == domain.Indirect && !toIsBase)
	if asIs {
		return value
	}
	return decimal.NewFromInt(1).Div(value)
}
