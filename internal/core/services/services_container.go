package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
	portsproviders "github.com/finsvc/fx_rates_app/internal/core/ports/providers"
	portsrepo "github.com/finsvc/fx_rates_app/internal/core/ports/repositories"
	portssvc "github.com/finsvc/fx_rates_app/internal/core/ports/services"
	"github.com/finsvc/fx_rates_app/pkg/config"
)

// warmLoadMultiplier widens the startup bulk load beyond the ingestion
// lookback so typical fallback walks start warm.
const warmLoadMultiplier = 12

// NewServiceContainer creates a service container with properly initialized
// dependencies: the rate store warm-loaded from the durable store, the
// pegged-currency table loaded once, and the resolver and ingestion
// services wired over them.
func NewServiceContainer(ctx context.Context, cfg *config.Config, repo portsrepo.FxRateRepositoryFacade, providers portsproviders.Registry, logger *slog.Logger) (*portssvc.ServiceContainer, error) {
	store := NewRateStore(cfg.RateDecimalScale, cfg.ConflictCompareScale)
	cache := NewMonthlyCache(cfg.CacheTTL)

	pegs, err := repo.ListPeggedCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading pegged currencies: %w", err)
	}
	pegged := NewPeggedCurrencyTable(pegs)

	today := domain.TruncateToDay(time.Now())
	warmFrom := today.AddDate(0, 0, -cfg.LookbackDays*warmLoadMultiplier)
	records, err := repo.FindRatesInRange(ctx, warmFrom, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("warm-loading rate history: %w", err)
	}
	added, conflicts := store.Load(records)
	for _, c := range conflicts {
		logger.Warn("Conflicting duplicate during warm load", slog.String("error", c.Error()))
	}
	logger.Info("Rate store warm-loaded",
		slog.Int("records", added),
		slog.Int("pegged_currencies", len(pegs)),
		slog.Time("from", warmFrom))

	resolver := NewRateResolver(store, pegged, cache, providers)
	ingestion := NewIngestionService(store, cache, repo, providers, logger, cfg.RefreshWindowDays)

	container := &portssvc.ServiceContainer{}
	container.FxRate = NewFxRateService(resolver, ingestion, providers, cfg.LookbackDays)
	return container, nil
}

// Helper to check interface implementations at compile time
var _ portssvc.FxRateSvcFacade = (*FxRateService)(nil)
