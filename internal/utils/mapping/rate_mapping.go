package mapping

import (
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	"github.com/finsvc/fx_rates_app/internal/models"
)

// ToModelFxRate converts a domain FxRate to a model FxRate
func ToModelFxRate(d domain.FxRate) models.FxRate {
	return models.FxRate{
		Source:       d.Source,
		Frequency:    string(d.Frequency),
		CurrencyCode: d.CurrencyCode,
		RateDate:     d.Day(),
		Rate:         d.Rate,
	}
}

// ToDomainFxRate converts a model FxRate to a domain FxRate
func ToDomainFxRate(m models.FxRate) domain.FxRate {
	return domain.FxRate{
		Source:       m.Source,
		Frequency:    domain.Frequency(m.Frequency),
		CurrencyCode: m.CurrencyCode,
		RateDate:     domain.TruncateToDay(m.RateDate),
		Rate:         m.Rate,
	}
}

// ToDomainPeggedCurrency converts a model PeggedCurrency to its domain form
func ToDomainPeggedCurrency(m models.PeggedCurrency) domain.PeggedCurrency {
	return domain.PeggedCurrency{
		CurrencyCode:       m.CurrencyCode,
		AnchorCurrencyCode: m.AnchorCurrencyCode,
		Rate:               m.Rate,
	}
}
