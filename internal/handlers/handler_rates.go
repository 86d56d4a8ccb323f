package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/finsvc/fx_rates_app/internal/apperrors"
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	portssvc "github.com/finsvc/fx_rates_app/internal/core/ports/services"
	"github.com/finsvc/fx_rates_app/internal/dto"
	"github.com/finsvc/fx_rates_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to exchange rates.
type rateHandler struct {
	fxRateService portssvc.FxRateSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(svc portssvc.FxRateSvcFacade) *rateHandler {
	return &rateHandler{
		fxRateService: svc,
	}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, svc portssvc.FxRateSvcFacade) {
	h := newRateHandler(svc)

	rates := rg.Group("/rates")
	{
		rates.GET("/:from/:to", h.getRate)
		rates.POST("/refresh", h.refreshRates)
		rates.POST("/ensure-history", h.ensureHistory)
		rates.PUT("/correction", h.correctRate)
	}
}

// getRate godoc
// @Summary Resolve an exchange rate
// @Description Resolves the exchange rate between two currencies for a given date, source and frequency
// @Tags rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   date query string false "Rate date (YYYY-MM-DD), defaults to today"
// @Param   source query string true "Source identifier (e.g. ECB)"
// @Param   frequency query string false "Frequency (DAILY, WEEKLY, BIWEEKLY, MONTHLY), defaults to DAILY"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No rate available"
// @Failure 500 {object} map[string]string "Failed to resolve rate"
// @Router /rates/{from}/{to} [get]
func (h *rateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	source := c.Query("source")
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source query parameter is required"})
		return
	}

	freq := domain.Daily
	if freqStr := c.Query("frequency"); freqStr != "" {
		parsed, ok := domain.ParseFrequency(freqStr)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid frequency: " + freqStr})
			return
		}
		freq = parsed
	}

	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	logger = logger.With(
		slog.String("from_code", fromCode),
		slog.String("to_code", toCode),
		slog.String("source", source),
		slog.String("frequency", string(freq)),
	)
	logger.Info("Received request to resolve rate")

	rate, err := h.fxRateService.GetRate(c.Request.Context(), fromCode, toCode, date, source, freq)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnsupportedFrequency):
			logger.Warn("Validation error resolving rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound),
			errors.Is(err, apperrors.ErrNoRateFound),
			errors.Is(err, apperrors.ErrUnsupportedCurrency):
			logger.Warn("No rate available", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate available"})
		default:
			logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve rate"})
		}
		return
	}

	logger.Info("Rate resolved successfully")
	c.JSON(http.StatusOK, dto.ToRateResponse(fromCode, toCode, domain.TruncateToDay(date), source, freq, rate))
}

// refreshRates godoc
// @Summary Refresh latest rates
// @Description Fetches the most recent rate batch for every known source and frequency; per-source failures are logged and skipped
// @Tags rates
// @Produce  json
// @Success 202 {object} map[string]string
// @Failure 500 {object} map[string]string "Refresh failed"
// @Router /rates/refresh [post]
func (h *rateHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to refresh latest rates")

	if err := h.fxRateService.UpdateRates(c.Request.Context()); err != nil {
		logger.Error("Failed to refresh rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh rates"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh completed"})
}

// ensureHistory godoc
// @Summary Ensure rate history coverage
// @Description Guarantees rate history back to the given minimum date for the targeted sources
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   request body dto.EnsureHistoryRequest true "Coverage request"
// @Success 200 {object} dto.EnsureHistoryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Coverage attempt failed"
// @Router /rates/ensure-history [post]
func (h *rateHandler) ensureHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EnsureHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ensureHistory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to ensure rate history",
		slog.Time("min_date", req.MinDate),
		slog.Any("sources", req.Sources),
	)

	covered, err := h.fxRateService.EnsureMinimumDateRange(c.Request.Context(), req.MinDate, req.Sources)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error ensuring history", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to ensure rate history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ensure rate history"})
		return
	}

	c.JSON(http.StatusOK, dto.EnsureHistoryResponse{Covered: covered})
}

// correctRate godoc
// @Summary Correct a single stored rate
// @Description Overwrites the stored value for one (source, frequency, currency, date) tuple in the store, durable storage and cache
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   request body dto.CorrectRateRequest true "Corrected rate"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Correction failed"
// @Router /rates/correction [put]
func (h *rateHandler) correctRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CorrectRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for correctRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	freq, ok := domain.ParseFrequency(req.Frequency)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid frequency: " + req.Frequency})
		return
	}

	logger.Info("Received request to correct rate",
		slog.String("source", req.Source),
		slog.String("frequency", req.Frequency),
		slog.String("currency", req.CurrencyCode),
		slog.Time("rate_date", req.RateDate),
	)

	rate := domain.FxRate{
		Source:       req.Source,
		Frequency:    freq,
		CurrencyCode: req.CurrencyCode,
		RateDate:     req.RateDate,
		Rate:         req.Rate,
	}
	if err := h.fxRateService.UpdateSingleRate(c.Request.Context(), rate); err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrUnsupportedFrequency) {
			logger.Warn("Validation error correcting rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to correct rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to correct rate"})
		return
	}

	logger.Info("Rate corrected successfully")
	c.Status(http.StatusNoContent)
}
