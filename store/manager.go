package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"

	"stockanalyze/market"
)

// DefaultStart is the first calendar day fetched for a symbol that has no
// cached history yet.
var DefaultStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Manager is the series store: it answers Get from the backend when the
// cached series is current, and otherwise fetches, validates, merges and
// persists before answering.
type Manager struct {
	backend Backend
	fetcher Fetcher
	start   time.Time
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// ManagerOption adjusts a Manager at construction.
type ManagerOption func(*Manager)

// WithStart overrides the default history start date.
func WithStart(t time.Time) ManagerOption {
	return func(m *Manager) { m.start = market.Day(t) }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(backend Backend, fetcher Fetcher, opts ...ManagerOption) *Manager {
	m := &Manager{
		backend: backend,
		fetcher: fetcher,
		start:   DefaultStart,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// symbolLock serializes fetch-merge-save per symbol. Different symbols
// proceed independently.
func (m *Manager) symbolLock(symbol string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[symbol]
	if !ok {
		l = &sync.Mutex{}
		m.locks[symbol] = l
	}
	return l
}

// lastTradingDay is the most recent weekday on or before t. Exchange
// holidays are not modeled; a holiday costs one redundant fetch, nothing
// more.
func lastTradingDay(t time.Time) time.Time {
	d := market.Day(t)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// Get returns the series for symbol, fetching fresh bars when the cache is
// missing or behind the most recent expected trading day. The second return
// reports whether a network fetch happened.
func (m *Manager) Get(ctx context.Context, symbol string) (*market.Series, bool, error) {
	lock := m.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	cached, err := m.backend.Load(ctx, symbol)
	if err != nil {
		return nil, false, err
	}

	expected := lastTradingDay(m.now())
	if len(cached) > 0 && !cached[len(cached)-1].Date.Before(expected) {
		return market.NewSeries(symbol, cached), false, nil
	}

	fetched, err := m.fetcher.FetchDaily(ctx, symbol, m.start, market.Day(m.now()))
	if err != nil {
		// A stale cache still answers; only an empty one fails.
		if len(cached) > 0 {
			log.Warn().Str("symbol", symbol).Err(err).Msg("fetch failed, serving cached bars")
			return market.NewSeries(symbol, cached), false, nil
		}
		return nil, false, fmt.Errorf("store: fetch %s: %w", symbol, err)
	}

	valid := validBars(symbol, fetched)
	if len(valid) == 0 && len(cached) == 0 {
		return nil, false, fmt.Errorf("store: %s: %w", symbol, market.ErrDataUnavailable)
	}

	merged := market.Merge(cached, valid)
	if err := m.backend.Save(ctx, symbol, merged); err != nil {
		return nil, false, err
	}
	log.Debug().Str("symbol", symbol).Int("fetched", len(valid)).Int("total", len(merged)).Msg("series refreshed")
	return market.NewSeries(symbol, merged), true, nil
}

// validBars normalizes fetched bars and drops the ones that fail validation,
// the same filtering applied to source rows with missing or non-positive
// prices.
func validBars(symbol string, bars []market.Bar) []market.Bar {
	out := bars[:0:0]
	for _, b := range bars {
		b = b.Normalize()
		if err := b.Validate(); err != nil {
			log.Debug().Str("symbol", symbol).Err(err).Msg("dropping invalid bar")
			continue
		}
		out = append(out, b)
	}
	return out
}

// Clear removes the cached series for symbol, or every symbol when empty.
func (m *Manager) Clear(ctx context.Context, symbol string) error {
	if symbol != "" {
		return m.backend.Delete(ctx, symbol)
	}
	symbols, err := m.backend.Symbols(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, sym := range symbols {
		if err := m.backend.Delete(ctx, sym); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", sym, err))
		}
	}
	return errors.Join(errs...)
}

// Backend exposes the underlying persistence layer, for the archive
// commands.
func (m *Manager) Backend() Backend { return m.backend }
