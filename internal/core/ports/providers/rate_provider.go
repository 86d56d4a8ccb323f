package providers

import (
	"context"
	"time"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
)

// RateProvider is the port an upstream rate source implements. A provider
// quotes every currency against its descriptor's base currency and serves
// only the frequencies its descriptor declares; calling a fetch method with
// an undeclared frequency is a caller fault.
type RateProvider interface {
	// Descriptor returns the provider's declared identity and capabilities.
	Descriptor() domain.ProviderDescriptor

	// FetchLatest retrieves the provider's most recent batch for the given
	// frequency (a short rolling window for daily series). An empty result
	// means the provider has no new data.
	FetchLatest(ctx context.Context, freq domain.Frequency) ([]domain.FxRate, error)

	// FetchHistorical retrieves every rate the provider has for the given
	// frequency with from <= date <= to. An empty result is a legitimate
	// "no data in this range" answer; callers decide whether that is fatal.
	FetchHistorical(ctx context.Context, freq domain.Frequency, from, to time.Time) ([]domain.FxRate, error)
}

// Registry indexes providers by their source identifier.
type Registry map[string]RateProvider

// Sources returns the registered source identifiers.
func (r Registry) Sources() []string {
	out := make([]string, 0, len(r))
	for src := range r {
		out = append(out, src)
	}
	return out
}
