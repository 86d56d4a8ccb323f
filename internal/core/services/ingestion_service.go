package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finsvc/fx_rates_app/internal/apperrors"
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	portsproviders "github.com/finsvc/fx_rates_app/internal/core/ports/providers"
	portsrepo "github.com/finsvc/fx_rates_app/internal/core/ports/repositories"
	"golang.org/x/sync/singleflight"
)

// defaultRefreshWindowDays bounds the rolling "latest" window fetched by
// RefreshLatest when no width is configured.
const defaultRefreshWindowDays = 5

// IngestionService makes sure the RateStore, the durable store and the
// month cache hold enough history before resolution is attempted or
// retried. All ingestion is reactive; nothing is fetched ahead of need.
//
// Provider fetches for a given (source, frequency) pair are single-flight:
// a second caller asking for a pair already being fetched waits for and
// reuses the in-flight result instead of issuing a duplicate provider call.
type IngestionService struct {
	store             *RateStore
	cache             *MonthlyCache
	repo              portsrepo.FxRateRepositoryFacade
	providers         portsproviders.Registry
	logger            *slog.Logger
	refreshWindowDays int
	inflight          singleflight.Group
}

// NewIngestionService creates an IngestionService.
func NewIngestionService(store *RateStore, cache *MonthlyCache, repo portsrepo.FxRateRepositoryFacade, providers portsproviders.Registry, logger *slog.Logger, refreshWindowDays int) *IngestionService {
	if refreshWindowDays <= 0 {
		refreshWindowDays = defaultRefreshWindowDays
	}
	return &IngestionService{
		store:             store,
		cache:             cache,
		repo:              repo,
		providers:         providers,
		logger:            logger,
		refreshWindowDays: refreshWindowDays,
	}
}

// EnsureMinimumDateRange guarantees history back to minDate for every
// frequency of every targeted source (all registered sources when sources
// is empty). It reports true iff every targeted pair now covers minDate.
// Unlike the best-effort refresh, a caller is waiting on a specific answer
// here, so the first pair failure aborts the call.
func (s *IngestionService) EnsureMinimumDateRange(ctx context.Context, minDate time.Time, sources []string) (bool, error) {
	minDate = domain.TruncateToDay(minDate)
	if len(sources) == 0 {
		sources = s.providers.Sources()
	}

	covered := true
	for _, source := range sources {
		provider, ok := s.providers[source]
		if !ok {
			return false, fmt.Errorf("%w: unknown source %q", apperrors.ErrValidation, source)
		}
		desc := provider.Descriptor()
		for _, freq := range desc.Frequencies {
			ok, err := s.ensurePair(ctx, provider, freq, minDate)
			if err != nil {
				return false, fmt.Errorf("ensuring history for %s/%s: %w", desc.Source, freq, err)
			}
			covered = covered && ok
		}
	}
	return covered, nil
}

// ensurePair brings one (source, frequency) pair's floor down to minDate:
// no-op when already covered, then a cheap reload from durable storage,
// then a provider fetch for the missing range as a last resort.
func (s *IngestionService) ensurePair(ctx context.Context, provider portsproviders.RateProvider, freq domain.Frequency, minDate time.Time) (bool, error) {
	desc := provider.Descriptor()

	floor, tracked := s.currentFloor(desc.Source, freq)
	if tracked && !minDate.Before(floor) {
		return true, nil
	}

	if err := s.reloadFromDurable(ctx, minDate, floor); err != nil {
		return false, err
	}
	floor, tracked = s.currentFloor(desc.Source, freq)
	if tracked && !minDate.Before(floor) {
		return true, nil
	}

	from, to := minDate, floor
	if to.Before(from) {
		from, to = to, from
	}

	key := desc.Source + "|" + string(freq)
	_, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		records, err := provider.FetchHistorical(ctx, freq, from, to)
		if err != nil {
			return nil, fmt.Errorf("provider fetch failed: %w", err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %s/%s %s..%s", apperrors.ErrEmptyProviderBatch,
				desc.Source, freq, from.Format("2006-01-02"), to.Format("2006-01-02"))
		}
		return nil, s.absorb(ctx, records)
	})
	if err != nil {
		return false, err
	}

	floor, tracked = s.currentFloor(desc.Source, freq)
	return tracked && !minDate.Before(floor), nil
}

// currentFloor reads the pair's floor, mapping "never tracked" to today so
// range arithmetic has a usable upper bound.
func (s *IngestionService) currentFloor(source string, freq domain.Frequency) (time.Time, bool) {
	floor, err := s.store.MinDate(source, freq)
	if err != nil {
		return domain.TruncateToDay(time.Now()), false
	}
	return floor, true
}

// reloadFromDurable replays durable history for [from, to] through the
// store before paying for a provider call.
func (s *IngestionService) reloadFromDurable(ctx context.Context, from, to time.Time) (err error) {
	records, err := s.repo.FindRatesInRange(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("reloading rates from durable store: %w", err)
	}
	_, conflicts := s.store.Load(records)
	for _, c := range conflicts {
		s.logger.Warn("Conflicting duplicate during durable reload", slog.String("error", c.Error()))
	}
	return nil
}

// RefreshLatest fetches the most recent batch for every frequency of every
// registered source. Failures are logged per source and do not block the
// remaining sources.
func (s *IngestionService) RefreshLatest(ctx context.Context) error {
	for source, provider := range s.providers {
		desc := provider.Descriptor()
		for _, freq := range desc.Frequencies {
			records, err := provider.FetchLatest(ctx, freq)
			if err != nil {
				s.logger.Error("Latest-batch fetch failed",
					slog.String("source", source),
					slog.String("frequency", string(freq)),
					slog.String("error", err.Error()))
				continue
			}
			if len(records) == 0 {
				s.logger.Info("No new rates from source",
					slog.String("source", source),
					slog.String("frequency", string(freq)))
				continue
			}
			if err := s.absorb(ctx, records); err != nil {
				s.logger.Error("Failed to absorb latest batch",
					slog.String("source", source),
					slog.String("frequency", string(freq)),
					slog.String("error", err.Error()))
			}
		}
	}
	return nil
}

// RefreshWindow returns the rolling window [today-refreshWindowDays, today]
// a "latest" fetch should cover. Exposed for provider adapters.
func (s *IngestionService) RefreshWindow() (time.Time, time.Time) {
	today := domain.TruncateToDay(time.Now())
	return today.AddDate(0, 0, -s.refreshWindowDays), today
}

// CorrectRate unconditionally overwrites the record's exact tuple in the
// rate store, persists the new value durably, and patches only that single
// day in the month cache, leaving the rest of the cached month untouched.
func (s *IngestionService) CorrectRate(ctx context.Context, rate domain.FxRate) error {
	s.store.Replace(rate)
	if err := s.repo.UpsertRate(ctx, rate); err != nil {
		return fmt.Errorf("persisting corrected rate: %w", err)
	}
	s.cache.Upsert(rate)
	return nil
}

// absorb runs one fetched batch through the standard ingestion steps:
// insert via Put (conflicts are collected, not fatal for the batch), lower
// the floors, persist the newly added records, then populate the month
// cache grouped by (currency, year, month).
func (s *IngestionService) absorb(ctx context.Context, records []domain.FxRate) error {
	var added []domain.FxRate
	var conflicts []error
	for _, r := range records {
		ok, err := s.store.Put(r)
		if err != nil {
			conflicts = append(conflicts, err)
			continue
		}
		if ok {
			added = append(added, r)
		}
		s.store.LowerMinDateIfNeeded(r.Source, r.Frequency, r.Day())
	}
	for _, c := range conflicts {
		s.logger.Warn("Conflicting duplicate in ingested batch", slog.String("error", c.Error()))
	}
	if len(added) == 0 {
		return nil
	}

	if err := s.repo.SaveRates(ctx, added); err != nil {
		return fmt.Errorf("persisting ingested batch: %w", err)
	}

	type group struct {
		currency string
		year     int
		month    time.Month
		source   string
		freq     domain.Frequency
	}
	grouped := make(map[group][]domain.FxRate)
	for _, r := range added {
		day := r.Day()
		g := group{currency: r.CurrencyCode, year: day.Year(), month: day.Month(), source: r.Source, freq: r.Frequency}
		grouped[g] = append(grouped[g], r)
	}
	for g, rs := range grouped {
		s.cache.StoreMonth(rs, g.currency, g.year, g.month, g.source, g.freq)
	}
	return nil
}
