package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/finsvc/fx_rates_app/internal/apperrors"
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	portssvc "github.com/finsvc/fx_rates_app/internal/core/ports/services"
	"github.com/finsvc/fx_rates_app/internal/handlers"
	"github.com/finsvc/fx_rates_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockFxRateService mocks the full rate service facade.
type MockFxRateService struct {
	mock.Mock
}

func (m *MockFxRateService) GetRate(ctx context.Context, fromCode, toCode string, date time.Time, source string, freq domain.Frequency) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode, date, source, freq)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFxRateService) UpdateRates(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFxRateService) EnsureMinimumDateRange(ctx context.Context, minDate time.Time, sources []string) (bool, error) {
	args := m.Called(ctx, minDate, sources)
	return args.Bool(0), args.Error(1)
}

func (m *MockFxRateService) UpdateSingleRate(ctx context.Context, rate domain.FxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

type RateHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	svc    *MockFxRateService
}

func (s *RateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.svc = new(MockFxRateService)
	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{FxRate: s.svc})
}

func (s *RateHandlerTestSuite) serve(method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RateHandlerTestSuite) TestGetRateSuccess() {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	s.svc.On("GetRate", mock.Anything, "EUR", "USD", date, "ECB", domain.Daily).
		Return(decimal.RequireFromString("1.0856"), nil)

	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/USD?source=ECB&date=2024-01-15", "")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"fromCurrencyCode":"EUR"`)
	s.Contains(w.Body.String(), `"toCurrencyCode":"USD"`)
	s.Contains(w.Body.String(), `"date":"2024-01-15"`)
	s.Contains(w.Body.String(), `"rate":"1.0856"`)
	s.svc.AssertExpectations(s.T())
}

func (s *RateHandlerTestSuite) TestGetRateDefaultsToDailyAndToday() {
	s.svc.On("GetRate", mock.Anything, "EUR", "USD", mock.Anything, "ECB", domain.Daily).
		Return(decimal.RequireFromString("1.0856"), nil)

	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/USD?source=ECB", "")

	s.Equal(http.StatusOK, w.Code)
	s.svc.AssertExpectations(s.T())
}

func (s *RateHandlerTestSuite) TestGetRateExplicitFrequency() {
	s.svc.On("GetRate", mock.Anything, "EUR", "USD", mock.Anything, "ECB", domain.Monthly).
		Return(decimal.RequireFromString("1.0800"), nil)

	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/USD?source=ECB&frequency=MONTHLY", "")

	s.Equal(http.StatusOK, w.Code)
	s.svc.AssertExpectations(s.T())
}

func (s *RateHandlerTestSuite) TestGetRateMissingSource() {
	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/USD", "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.svc.AssertNotCalled(s.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RateHandlerTestSuite) TestGetRateInvalidFrequency() {
	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/USD?source=ECB&frequency=HOURLY", "")

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateHandlerTestSuite) TestGetRateInvalidDate() {
	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/USD?source=ECB&date=15-01-2024", "")

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateHandlerTestSuite) TestGetRateNotFound() {
	s.svc.On("GetRate", mock.Anything, "EUR", "XYZ", mock.Anything, "ECB", domain.Daily).
		Return(decimal.Decimal{}, apperrors.ErrNotFound)

	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/XYZ?source=ECB", "")

	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), "No rate available")
}

func (s *RateHandlerTestSuite) TestGetRateUnsupportedCurrencyMapsToNotFound() {
	s.svc.On("GetRate", mock.Anything, "EUR", "XYZ", mock.Anything, "ECB", domain.Daily).
		Return(decimal.Decimal{}, apperrors.ErrUnsupportedCurrency)

	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/XYZ?source=ECB", "")

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RateHandlerTestSuite) TestGetRateServiceValidationError() {
	s.svc.On("GetRate", mock.Anything, "EUR", "USD", mock.Anything, "SNB", domain.Daily).
		Return(decimal.Decimal{}, apperrors.ErrValidation)

	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/USD?source=SNB", "")

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateHandlerTestSuite) TestGetRateUnexpectedError() {
	s.svc.On("GetRate", mock.Anything, "EUR", "USD", mock.Anything, "ECB", domain.Daily).
		Return(decimal.Decimal{}, errors.New("boom"))

	w := s.serve(http.MethodGet, "/api/v1/rates/EUR/USD?source=ECB", "")

	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *RateHandlerTestSuite) TestRefreshRates() {
	s.svc.On("UpdateRates", mock.Anything).Return(nil)

	w := s.serve(http.MethodPost, "/api/v1/rates/refresh", "")

	s.Equal(http.StatusAccepted, w.Code)
	s.svc.AssertExpectations(s.T())
}

func (s *RateHandlerTestSuite) TestRefreshRatesFailure() {
	s.svc.On("UpdateRates", mock.Anything).Return(errors.New("boom"))

	w := s.serve(http.MethodPost, "/api/v1/rates/refresh", "")

	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *RateHandlerTestSuite) TestEnsureHistory() {
	minDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.svc.On("EnsureMinimumDateRange", mock.Anything, minDate, []string{"ECB"}).
		Return(true, nil)

	w := s.serve(http.MethodPost, "/api/v1/rates/ensure-history",
		`{"minDate":"2024-01-01T00:00:00Z","sources":["ECB"]}`)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"covered":true`)
	s.svc.AssertExpectations(s.T())
}

func (s *RateHandlerTestSuite) TestEnsureHistoryMissingMinDate() {
	w := s.serve(http.MethodPost, "/api/v1/rates/ensure-history", `{"sources":["ECB"]}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.svc.AssertNotCalled(s.T(), "EnsureMinimumDateRange", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RateHandlerTestSuite) TestEnsureHistoryUnknownSource() {
	s.svc.On("EnsureMinimumDateRange", mock.Anything, mock.Anything, []string{"BOGUS"}).
		Return(false, apperrors.ErrValidation)

	w := s.serve(http.MethodPost, "/api/v1/rates/ensure-history",
		`{"minDate":"2024-01-01T00:00:00Z","sources":["BOGUS"]}`)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateHandlerTestSuite) TestCorrectRate() {
	s.svc.On("UpdateSingleRate", mock.Anything, mock.MatchedBy(func(r domain.FxRate) bool {
		return r.Source == "ECB" &&
			r.Frequency == domain.Daily &&
			r.CurrencyCode == "USD" &&
			r.Rate.Equal(decimal.RequireFromString("1.1"))
	})).Return(nil)

	w := s.serve(http.MethodPut, "/api/v1/rates/correction",
		`{"source":"ECB","frequency":"DAILY","currencyCode":"USD","rateDate":"2024-06-10T00:00:00Z","rate":1.1}`)

	s.Equal(http.StatusNoContent, w.Code)
	s.svc.AssertExpectations(s.T())
}

func (s *RateHandlerTestSuite) TestCorrectRateRejectsMalformedCurrency() {
	// Lower-case codes fail the custom "currency" binding validator before
	// the service is reached.
	w := s.serve(http.MethodPut, "/api/v1/rates/correction",
		`{"source":"ECB","frequency":"DAILY","currencyCode":"usd","rateDate":"2024-06-10T00:00:00Z","rate":1.1}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.svc.AssertNotCalled(s.T(), "UpdateSingleRate", mock.Anything, mock.Anything)
}

func (s *RateHandlerTestSuite) TestCorrectRateRejectsUnknownFrequency() {
	w := s.serve(http.MethodPut, "/api/v1/rates/correction",
		`{"source":"ECB","frequency":"HOURLY","currencyCode":"USD","rateDate":"2024-06-10T00:00:00Z","rate":1.1}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.svc.AssertNotCalled(s.T(), "UpdateSingleRate", mock.Anything, mock.Anything)
}

func (s *RateHandlerTestSuite) TestCorrectRateValidationErrorFromService() {
	s.svc.On("UpdateSingleRate", mock.Anything, mock.Anything).
		Return(apperrors.ErrUnsupportedFrequency)

	w := s.serve(http.MethodPut, "/api/v1/rates/correction",
		`{"source":"ECB","frequency":"MONTHLY","currencyCode":"USD","rateDate":"2024-06-10T00:00:00Z","rate":1.1}`)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateHandlerTestSuite) TestHealthEndpoint() {
	w := s.serve(http.MethodGet, "/health", "")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func TestRateHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RateHandlerTestSuite))
}
