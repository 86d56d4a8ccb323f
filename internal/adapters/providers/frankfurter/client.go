// Package frankfurter adapts the frankfurter.dev API (ECB reference rates)
// to the RateProvider port. The API is free and needs no authentication;
// see https://frankfurter.dev for usage details and rate limits.
package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/finsvc/fx_rates_app/internal/apperrors"
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Source is the source identifier this adapter registers under.
const Source = "ECB"

// Client fetches ECB reference rates from frankfurter.dev. The ECB quotes
// every currency against EUR (foreign units per euro), publishing on
// working days only; weekend and holiday gaps are the resolver's problem,
// not the provider's.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	latestWindowDays int
}

// NewClient creates a frankfurter.dev client. latestWindowDays is the width
// of the rolling window served by FetchLatest.
func NewClient(baseURL string, latestWindowDays int) *Client {
	if latestWindowDays <= 0 {
		latestWindowDays = 5
	}
	return &Client{
		baseURL:          baseURL,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		latestWindowDays: latestWindowDays,
	}
}

// Descriptor declares the adapter's identity: EUR base, indirect quotes,
// daily cadence only.
func (c *Client) Descriptor() domain.ProviderDescriptor {
	return domain.ProviderDescriptor{
		Source:       Source,
		BaseCurrency: "EUR",
		QuoteType:    domain.Indirect,
		Frequencies:  []domain.Frequency{domain.Daily},
	}
}

// FetchLatest retrieves the rolling window ending today.
func (c *Client) FetchLatest(ctx context.Context, freq domain.Frequency) ([]domain.FxRate, error) {
	today := domain.TruncateToDay(time.Now())
	return c.FetchHistorical(ctx, freq, today.AddDate(0, 0, -c.latestWindowDays), today)
}

// FetchHistorical retrieves every published rate with from <= date <= to
// via the time-series endpoint.
func (c *Client) FetchHistorical(ctx context.Context, freq domain.Frequency, from, to time.Time) ([]domain.FxRate, error) {
	if !c.Descriptor().Supports(freq) {
		return nil, fmt.Errorf("%w: %s does not publish %s rates", apperrors.ErrUnsupportedFrequency, Source, freq)
	}

	reqURL := fmt.Sprintf("%s/%s..%s?base=EUR",
		c.baseURL, from.Format("2006-01-02"), to.Format("2006-01-02"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rates from frankfurter: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading frankfurter response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from frankfurter: %s", resp.StatusCode, string(body))
	}

	// rates: date string (YYYY-MM-DD) -> currency -> value
	var payload struct {
		Rates map[string]map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing frankfurter response: %w", err)
	}

	var out []domain.FxRate
	for dateStr, byCurrency := range payload.Rates {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing rate date %q: %w", dateStr, err)
		}
		for currency, value := range byCurrency {
			out = append(out, domain.FxRate{
				Source:       Source,
				Frequency:    freq,
				CurrencyCode: currency,
				RateDate:     domain.TruncateToDay(day),
				Rate:         decimal.NewFromFloat(value),
			})
		}
	}
	return out, nil
}
