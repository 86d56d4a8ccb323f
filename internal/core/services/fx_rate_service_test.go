package services_test

import (
	"context"
	"testing"

	"github.com/finsvc/fx_rates_app/internal/apperrors"
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	portsproviders "github.com/finsvc/fx_rates_app/internal/core/ports/providers"
	"github.com/finsvc/fx_rates_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FxRateServiceTestSuite struct {
	suite.Suite
	store    *services.RateStore
	cache    *services.MonthlyCache
	repo     *MockFxRateRepository
	provider *MockRateProvider
	svc      *services.FxRateService
	ctx      context.Context
}

func (s *FxRateServiceTestSuite) SetupTest() {
	s.store = services.NewRateStore(5, 10)
	s.cache = services.NewMonthlyCache(services.DefaultCacheTTL)
	s.repo = new(MockFxRateRepository)
	s.provider = &MockRateProvider{desc: ecbDescriptor()}
	providers := portsproviders.Registry{"ECB": s.provider}

	resolver := services.NewRateResolver(s.store, services.NewPeggedCurrencyTable(nil), s.cache, providers)
	ingestion := services.NewIngestionService(s.store, s.cache, s.repo, providers, testLogger(), 5)
	s.svc = services.NewFxRateService(resolver, ingestion, providers, 7)
	s.ctx = context.Background()
}

func (s *FxRateServiceTestSuite) seed(rate domain.FxRate) {
	_, err := s.store.Put(rate)
	s.Require().NoError(err)
	s.store.LowerMinDateIfNeeded(rate.Source, rate.Frequency, rate.Day())
}

func (s *FxRateServiceTestSuite) TestGetRateMalformedCodeFailsFast() {
	for _, code := range []string{"", "US", "DOLLARS", "U1D", "u$!"} {
		_, err := s.svc.GetRate(s.ctx, code, "EUR", day(2024, 1, 15), "ECB", domain.Daily)
		s.Require().Error(err, "code %q", code)
		s.ErrorIs(err, apperrors.ErrValidation)
	}
	s.provider.AssertNotCalled(s.T(), "FetchHistorical", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *FxRateServiceTestSuite) TestGetRateNormalizesCase() {
	s.seed(domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
		RateDate: day(2024, 1, 15), Rate: decimal.RequireFromString("1.0856"),
	})

	v, err := s.svc.GetRate(s.ctx, "eur", " usd ", day(2024, 1, 15), "ECB", domain.Daily)
	s.Require().NoError(err)
	s.True(v.Equal(decimal.RequireFromString("1.0856")))
}

func (s *FxRateServiceTestSuite) TestGetRateUnknownSource() {
	_, err := s.svc.GetRate(s.ctx, "EUR", "USD", day(2024, 1, 15), "BOGUS", domain.Daily)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *FxRateServiceTestSuite) TestGetRateUndeclaredFrequency() {
	// The ECB descriptor in these tests only declares daily quotes.
	_, err := s.svc.GetRate(s.ctx, "EUR", "USD", day(2024, 1, 15), "ECB", domain.Monthly)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnsupportedFrequency)
}

func (s *FxRateServiceTestSuite) TestGetRateResolvesWithoutIngestion() {
	s.seed(domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
		RateDate: day(2024, 1, 15), Rate: decimal.RequireFromString("1.0856"),
	})

	v, err := s.svc.GetRate(s.ctx, "EUR", "USD", day(2024, 1, 15), "ECB", domain.Daily)
	s.Require().NoError(err)
	s.True(v.Equal(decimal.RequireFromString("1.0856")))

	s.repo.AssertNotCalled(s.T(), "FindRatesInRange", mock.Anything, mock.Anything, mock.Anything)
	s.provider.AssertNotCalled(s.T(), "FetchHistorical", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *FxRateServiceTestSuite) TestGetRateIngestsOnMissAndRetries() {
	// Known history starts Mar 1; the request is for Feb 15, so the first
	// resolution misses and triggers an expansion back to Feb 8.
	s.seed(domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
		RateDate: day(2024, 3, 1), Rate: decimal.RequireFromString("1.0850"),
	})

	s.repo.On("FindRatesInRange", mock.Anything, day(2024, 2, 8), day(2024, 3, 2)).
		Return([]domain.FxRate{
			{
				Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
				RateDate: day(2024, 2, 8), Rate: decimal.RequireFromString("1.0700"),
			},
			{
				Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
				RateDate: day(2024, 2, 14), Rate: decimal.RequireFromString("1.0790"),
			},
		}, nil)

	v, err := s.svc.GetRate(s.ctx, "EUR", "USD", day(2024, 2, 15), "ECB", domain.Daily)
	s.Require().NoError(err)
	// Feb 15 has no published value; the retry walks back to Feb 14.
	s.True(v.Equal(decimal.RequireFromString("1.0790")))

	s.repo.AssertExpectations(s.T())
}

func (s *FxRateServiceTestSuite) TestGetRateNotFoundAfterRetry() {
	s.seed(domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
		RateDate: day(2024, 3, 1), Rate: decimal.RequireFromString("1.0850"),
	})

	// Expansion succeeds but brings nothing for the requested pair.
	s.repo.On("FindRatesInRange", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.FxRate{{
			Source: "ECB", Frequency: domain.Daily, CurrencyCode: "GBP",
			RateDate: day(2024, 2, 8), Rate: decimal.RequireFromString("0.8500"),
		}}, nil)

	_, err := s.svc.GetRate(s.ctx, "EUR", "USD", day(2024, 2, 15), "ECB", domain.Daily)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *FxRateServiceTestSuite) TestGetRateUnsupportedCurrencyDoesNotTriggerIngestion() {
	s.seed(domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
		RateDate: day(2024, 1, 15), Rate: decimal.RequireFromString("1.0856"),
	})

	// A currency with no rates and no peg is not a miss the retry policy can
	// fix; it surfaces immediately.
	_, err := s.svc.GetRate(s.ctx, "EUR", "XXX", day(2024, 1, 15), "ECB", domain.Daily)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
	s.repo.AssertNotCalled(s.T(), "FindRatesInRange", mock.Anything, mock.Anything, mock.Anything)
}

func (s *FxRateServiceTestSuite) TestUpdateRatesDelegatesToRefresh() {
	s.provider.On("FetchLatest", mock.Anything, domain.Daily).
		Return([]domain.FxRate{{
			Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
			RateDate: day(2024, 6, 3), Rate: decimal.RequireFromString("1.0850"),
		}}, nil)
	s.repo.On("SaveRates", mock.Anything, mock.Anything).Return(nil)

	err := s.svc.UpdateRates(s.ctx)
	s.Require().NoError(err)

	_, ok := s.store.Lookup("ECB", domain.Daily, "USD", day(2024, 6, 3))
	s.True(ok)
}

func (s *FxRateServiceTestSuite) TestEnsureMinimumDateRangeDelegates() {
	s.seed(domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
		RateDate: day(2024, 1, 1), Rate: decimal.RequireFromString("1.0850"),
	})

	covered, err := s.svc.EnsureMinimumDateRange(s.ctx, day(2024, 2, 1), []string{"ECB"})
	s.Require().NoError(err)
	s.True(covered)
}

func (s *FxRateServiceTestSuite) TestUpdateSingleRateValidations() {
	valid := domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
		RateDate: day(2024, 6, 10), Rate: decimal.RequireFromString("1.1000"),
	}

	bad := valid
	bad.CurrencyCode = "US"
	err := s.svc.UpdateSingleRate(s.ctx, bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	bad = valid
	bad.Rate = decimal.Zero
	err = s.svc.UpdateSingleRate(s.ctx, bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	bad = valid
	bad.Rate = decimal.RequireFromString("-1.5")
	err = s.svc.UpdateSingleRate(s.ctx, bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	bad = valid
	bad.Source = "BOGUS"
	err = s.svc.UpdateSingleRate(s.ctx, bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	bad = valid
	bad.Frequency = domain.Monthly
	err = s.svc.UpdateSingleRate(s.ctx, bad)
	s.ErrorIs(err, apperrors.ErrUnsupportedFrequency)

	s.repo.AssertNotCalled(s.T(), "UpsertRate", mock.Anything, mock.Anything)
}

func (s *FxRateServiceTestSuite) TestUpdateSingleRateAppliesCorrection() {
	s.seed(domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "USD",
		RateDate: day(2024, 6, 10), Rate: decimal.RequireFromString("1.0500"),
	})

	corrected := domain.FxRate{
		Source: "ECB", Frequency: domain.Daily, CurrencyCode: "usd",
		RateDate: day(2024, 6, 10), Rate: decimal.RequireFromString("1.1000"),
	}
	s.repo.On("UpsertRate", mock.Anything, mock.MatchedBy(func(r domain.FxRate) bool {
		return r.CurrencyCode == "USD" && r.Rate.Equal(decimal.RequireFromString("1.1000"))
	})).Return(nil)

	err := s.svc.UpdateSingleRate(s.ctx, corrected)
	s.Require().NoError(err)
	s.repo.AssertExpectations(s.T())

	v, ok := s.store.Lookup("ECB", domain.Daily, "USD", day(2024, 6, 10))
	s.Require().True(ok)
	s.True(v.Equal(decimal.RequireFromString("1.1000")))

	// Subsequent resolutions see the corrected value.
	got, err := s.svc.GetRate(s.ctx, "EUR", "USD", day(2024, 6, 10), "ECB", domain.Daily)
	s.Require().NoError(err)
	s.True(got.Equal(decimal.RequireFromString("1.1000")))
}

func TestFxRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FxRateServiceTestSuite))
}
