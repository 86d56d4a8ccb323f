package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/finsvc/fx_rates_app/internal/apperrors"
	"github.com/finsvc/fx_rates_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// pairKey identifies one rate series owner: a source at one frequency.
type pairKey struct {
	source    string
	frequency domain.Frequency
}

// RateStore is the authoritative in-memory index of every ingested rate for
// the lifetime of the process, plus one minimum-date floor per
// (source, frequency) pair. The floor is always <= the earliest date held
// for that pair; it bounds the resolver's backward date walk and tells the
// ingestion service whether more history is needed.
//
// All mutations for a given (source, frequency) pair are serialized through
// a per-pair lock so floor updates and duplicate detection cannot race.
type RateStore struct {
	mu    sync.RWMutex
	locks map[pairKey]*sync.Mutex

	// rates: pair -> currency -> day -> value
	rates    map[pairKey]map[string]map[time.Time]decimal.Decimal
	minDates map[pairKey]time.Time

	storeScale   int32 // scale rates are rounded to before storing
	compareScale int32 // coarser scale used only for duplicate comparison
}

// NewRateStore creates an empty RateStore. storeScale is the decimal scale
// values are kept at; compareScale is the scale two candidate values are
// rounded to when deciding whether they are the same rate.
func NewRateStore(storeScale, compareScale int32) *RateStore {
	return &RateStore{
		locks:        make(map[pairKey]*sync.Mutex),
		rates:        make(map[pairKey]map[string]map[time.Time]decimal.Decimal),
		minDates:     make(map[pairKey]time.Time),
		storeScale:   storeScale,
		compareScale: compareScale,
	}
}

// pairLock returns the mutation lock for a pair, creating it on first use.
func (s *RateStore) pairLock(key pairKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Put inserts a rate if its (source, frequency, currency, date) tuple is
// absent and reports whether it was newly added. A second value for an
// existing tuple is a no-op when it matches the stored one at compareScale,
// and an apperrors.ErrRateConflict otherwise.
func (s *RateStore) Put(rate domain.FxRate) (bool, error) {
	key := pairKey{source: rate.Source, frequency: rate.Frequency}
	day := rate.Day()
	value := rate.Rate.Round(s.storeScale)

	lock := s.pairLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	existing, exists := s.lookupLocked(key, rate.CurrencyCode, day)
	s.mu.RUnlock()

	if exists {
		if existing.Round(s.compareScale).Equal(value.Round(s.compareScale)) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s/%s %s %s has %s, got %s",
			apperrors.ErrRateConflict, rate.Source, rate.Frequency,
			rate.CurrencyCode, day.Format("2006-01-02"), existing, value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	byCurrency, ok := s.rates[key]
	if !ok {
		byCurrency = make(map[string]map[time.Time]decimal.Decimal)
		s.rates[key] = byCurrency
	}
	byDay, ok := byCurrency[rate.CurrencyCode]
	if !ok {
		byDay = make(map[time.Time]decimal.Decimal)
		byCurrency[rate.CurrencyCode] = byDay
	}
	byDay[day] = value
	return true, nil
}

// Replace unconditionally overwrites the value for the rate's exact tuple,
// bypassing conflict detection. Only the correction path may use it.
func (s *RateStore) Replace(rate domain.FxRate) {
	key := pairKey{source: rate.Source, frequency: rate.Frequency}
	day := rate.Day()

	lock := s.pairLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	byCurrency, ok := s.rates[key]
	if !ok {
		byCurrency = make(map[string]map[time.Time]decimal.Decimal)
		s.rates[key] = byCurrency
	}
	byDay, ok := byCurrency[rate.CurrencyCode]
	if !ok {
		byDay = make(map[time.Time]decimal.Decimal)
		byCurrency[rate.CurrencyCode] = byDay
	}
	byDay[day] = rate.Rate.Round(s.storeScale)
	if current, tracked := s.minDates[key]; !tracked || day.Before(current) {
		s.minDates[key] = day
	}
}

// Lookup returns the stored value for the exact tuple, if any.
func (s *RateStore) Lookup(source string, freq domain.Frequency, currency string, date time.Time) (decimal.Decimal, bool) {
	key := pairKey{source: source, frequency: freq}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(key, currency, domain.TruncateToDay(date))
}

func (s *RateStore) lookupLocked(key pairKey, currency string, day time.Time) (decimal.Decimal, bool) {
	byCurrency, ok := s.rates[key]
	if !ok {
		return decimal.Decimal{}, false
	}
	byDay, ok := byCurrency[currency]
	if !ok {
		return decimal.Decimal{}, false
	}
	v, ok := byDay[day]
	return v, ok
}

// HasCurrency reports whether any rate at all is held for the currency
// under the given source and frequency.
func (s *RateStore) HasCurrency(source string, freq domain.Frequency, currency string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byCurrency, ok := s.rates[pairKey{source: source, frequency: freq}]
	if !ok {
		return false
	}
	byDay, ok := byCurrency[currency]
	return ok && len(byDay) > 0
}

// MinDate returns the tracked floor for the pair. Consulting an untracked
// pair is a configuration fault, not a data gap.
func (s *RateStore) MinDate(source string, freq domain.Frequency) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	floor, ok := s.minDates[pairKey{source: source, frequency: freq}]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s/%s", apperrors.ErrMinDateMissing, source, freq)
	}
	return floor, nil
}

// LowerMinDateIfNeeded lowers the pair's floor to candidate when candidate
// precedes the current floor, or initialises it when none is tracked yet.
func (s *RateStore) LowerMinDateIfNeeded(source string, freq domain.Frequency, candidate time.Time) {
	key := pairKey{source: source, frequency: freq}
	day := domain.TruncateToDay(candidate)

	lock := s.pairLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.minDates[key]; !ok || day.Before(current) {
		s.minDates[key] = day
	}
}

// Load replays a bulk batch (typically from the durable store) through Put,
// lowering each pair's floor to the earliest date seen. Conflicting
// duplicates are collected rather than aborting the batch.
func (s *RateStore) Load(rates []domain.FxRate) (added int, conflicts []error) {
	for _, r := range rates {
		ok, err := s.Put(r)
		if err != nil {
			conflicts = append(conflicts, err)
			continue
		}
		if ok {
			added++
		}
		s.LowerMinDateIfNeeded(r.Source, r.Frequency, r.Day())
	}
	return added, conflicts
}
