package services

import (
	"sync"
	"time"

	"github.com/finsvc/fx_rates_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultCacheTTL is the sliding expiry window applied when none is
// configured: a month entry not touched for this long is treated as absent.
const DefaultCacheTTL = 30 * time.Minute

// monthKey identifies one cached month of one currency's series.
type monthKey struct {
	source    string
	frequency domain.Frequency
	currency  string
	year      int
	month     time.Month
}

// monthEntry holds the day-indexed rates of one month plus the last time
// the entry was read or written. Expiry is evaluated lazily on access;
// there is no background sweep.
type monthEntry struct {
	days       map[int]decimal.Decimal
	lastAccess time.Time
}

// MonthlyCache keeps recently used months of rate history in memory so that
// serial lookups clustered in the same calendar month stay off the rate
// store and providers. Entries are a derived, disposable view: eviction
// never loses data, the RateStore stays authoritative.
type MonthlyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[monthKey]*monthEntry
	now     func() time.Time
}

// NewMonthlyCache creates a cache with the given sliding TTL.
// A non-positive ttl falls back to DefaultCacheTTL.
func NewMonthlyCache(ttl time.Duration) *MonthlyCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MonthlyCache{
		ttl:     ttl,
		entries: make(map[monthKey]*monthEntry),
		now:     time.Now,
	}
}

// live returns the entry for key if it exists and has not expired,
// evicting it when the sliding window has lapsed. Callers hold c.mu.
func (c *MonthlyCache) live(key monthKey) *monthEntry {
	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().Sub(entry.lastAccess) > c.ttl {
		delete(c.entries, key)
		return nil
	}
	return entry
}

// Get returns the cached rate for the exact day, refreshing the month
// entry's last-access time. The second value is false when the month is not
// cached, has expired, or holds no rate for that day.
func (c *MonthlyCache) Get(currency string, date time.Time, source string, freq domain.Frequency) (decimal.Decimal, bool) {
	day := domain.TruncateToDay(date)
	key := monthKey{source: source, frequency: freq, currency: currency, year: day.Year(), month: day.Month()}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.live(key)
	if entry == nil {
		return decimal.Decimal{}, false
	}
	entry.lastAccess = c.now()
	v, ok := entry.days[day.Day()]
	return v, ok
}

// IsMonthCached reports whether a live entry exists for the month,
// refreshing its last-access time when it does.
func (c *MonthlyCache) IsMonthCached(currency string, year int, month time.Month, source string, freq domain.Frequency) bool {
	key := monthKey{source: source, frequency: freq, currency: currency, year: year, month: month}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.live(key)
	if entry == nil {
		return false
	}
	entry.lastAccess = c.now()
	return true
}

// StoreMonth replaces the entire cached month with the given records and
// resets last-access. Records outside the stated month are ignored.
func (c *MonthlyCache) StoreMonth(records []domain.FxRate, currency string, year int, month time.Month, source string, freq domain.Frequency) {
	key := monthKey{source: source, frequency: freq, currency: currency, year: year, month: month}
	days := make(map[int]decimal.Decimal, len(records))
	for _, r := range records {
		day := r.Day()
		if day.Year() != year || day.Month() != month || r.CurrencyCode != currency {
			continue
		}
		days[day.Day()] = r.Rate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &monthEntry{days: days, lastAccess: c.now()}
}

// Upsert inserts or overwrites exactly the day matching the record's date,
// creating the month entry when absent and leaving other days untouched.
func (c *MonthlyCache) Upsert(rate domain.FxRate) {
	day := rate.Day()
	key := monthKey{
		source:    rate.Source,
		frequency: rate.Frequency,
		currency:  rate.CurrencyCode,
		year:      day.Year(),
		month:     day.Month(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.live(key)
	if entry == nil {
		entry = &monthEntry{days: make(map[int]decimal.Decimal)}
		c.entries[key] = entry
	}
	entry.days[day.Day()] = rate.Rate
	entry.lastAccess = c.now()
}
