package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
	"github.com/finsvc/fx_rates_app/internal/models"
	"github.com/finsvc/fx_rates_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFxRateRepository implements the repositories.FxRateRepositoryFacade
// interface using pgxpool.
type PgxFxRateRepository struct {
	db *pgxpool.Pool
}

// NewFxRateRepository creates a new PgxFxRateRepository.
func NewFxRateRepository(db *pgxpool.Pool) *PgxFxRateRepository {
	return &PgxFxRateRepository{db: db}
}

// FindRatesInRange retrieves every stored rate with from <= rate_date < to.
func (r *PgxFxRateRepository) FindRatesInRange(ctx context.Context, from, to time.Time) ([]domain.FxRate, error) {
	query := `
		SELECT source, frequency, currency_code, rate_date, rate
		FROM fx_rates
		WHERE rate_date >= $1 AND rate_date < $2
		ORDER BY rate_date
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying rates in range: %w", err)
	}
	defer rows.Close()

	var rates []domain.FxRate
	for rows.Next() {
		var m models.FxRate
		if err := rows.Scan(&m.Source, &m.Frequency, &m.CurrencyCode, &m.RateDate, &m.Rate); err != nil {
			return nil, fmt.Errorf("error scanning rate row: %w", err)
		}
		rates = append(rates, mapping.ToDomainFxRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate rows: %w", err)
	}
	return rates, nil
}

// SaveRates persists a batch of rates. The insert is idempotent on the
// exact tuple: re-saving an existing (source, frequency, currency, date)
// row is a no-op.
func (r *PgxFxRateRepository) SaveRates(ctx context.Context, rates []domain.FxRate) error {
	if len(rates) == 0 {
		return nil
	}
	query := `
		INSERT INTO fx_rates (source, frequency, currency_code, rate_date, rate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source, frequency, currency_code, rate_date) DO NOTHING
	`
	batch := &pgx.Batch{}
	for _, rate := range rates {
		m := mapping.ToModelFxRate(rate)
		batch.Queue(query, m.Source, m.Frequency, m.CurrencyCode, m.RateDate, m.Rate)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range rates {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error inserting rate batch: %w", err)
		}
	}
	return nil
}

// UpsertRate overwrites the stored value for the rate's exact tuple.
// Used only by the correction path.
func (r *PgxFxRateRepository) UpsertRate(ctx context.Context, rate domain.FxRate) error {
	query := `
		INSERT INTO fx_rates (source, frequency, currency_code, rate_date, rate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source, frequency, currency_code, rate_date)
		DO UPDATE SET rate = EXCLUDED.rate
	`
	m := mapping.ToModelFxRate(rate)
	if _, err := r.db.Exec(ctx, query, m.Source, m.Frequency, m.CurrencyCode, m.RateDate, m.Rate); err != nil {
		return fmt.Errorf("error upserting corrected rate: %w", err)
	}
	return nil
}

// ListPeggedCurrencies returns every fixed-ratio currency definition.
func (r *PgxFxRateRepository) ListPeggedCurrencies(ctx context.Context) ([]domain.PeggedCurrency, error) {
	query := `
		SELECT currency_code, anchor_currency_code, rate
		FROM pegged_currencies
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying pegged currencies: %w", err)
	}
	defer rows.Close()

	var pegs []domain.PeggedCurrency
	for rows.Next() {
		var m models.PeggedCurrency
		if err := rows.Scan(&m.CurrencyCode, &m.AnchorCurrencyCode, &m.Rate); err != nil {
			return nil, fmt.Errorf("error scanning pegged currency row: %w", err)
		}
		pegs = append(pegs, mapping.ToDomainPeggedCurrency(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pegged currency rows: %w", err)
	}
	return pegs, nil
}
