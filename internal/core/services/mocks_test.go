package services_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock FxRateRepository ---
type MockFxRateRepository struct {
	mock.Mock
}

func (m *MockFxRateRepository) FindRatesInRange(ctx context.Context, from, to time.Time) ([]domain.FxRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FxRate), args.Error(1)
}

func (m *MockFxRateRepository) SaveRates(ctx context.Context, rates []domain.FxRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

func (m *MockFxRateRepository) UpsertRate(ctx context.Context, rate domain.FxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockFxRateRepository) ListPeggedCurrencies(ctx context.Context) ([]domain.PeggedCurrency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeggedCurrency), args.Error(1)
}

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
	desc domain.ProviderDescriptor
}

func (m *MockRateProvider) Descriptor() domain.ProviderDescriptor {
	return m.desc
}

func (m *MockRateProvider) FetchLatest(ctx context.Context, freq domain.Frequency) ([]domain.FxRate, error) {
	args := m.Called(ctx, freq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FxRate), args.Error(1)
}

func (m *MockRateProvider) FetchHistorical(ctx context.Context, freq domain.Frequency, from, to time.Time) ([]domain.FxRate, error) {
	args := m.Called(ctx, freq, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FxRate), args.Error(1)
}

// ecbDescriptor mirrors the shape of the real ECB adapter: EUR base,
// indirect quotes.
func ecbDescriptor(freqs ...domain.Frequency) domain.ProviderDescriptor {
	if len(freqs) == 0 {
		freqs = []domain.Frequency{domain.Daily}
	}
	return domain.ProviderDescriptor{
		Source:       "ECB",
		BaseCurrency: "EUR",
		QuoteType:    domain.Indirect,
		Frequencies:  freqs,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
