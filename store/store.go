package store

import (
	"context"
	"time"

	"stockanalyze/market"
)

// Backend persists per-symbol daily bar series. Load returns (nil, nil) for
// a symbol that was never cached; absence is not an error.
type Backend interface {
	Load(ctx context.Context, symbol string) ([]market.Bar, error)
	Save(ctx context.Context, symbol string, bars []market.Bar) error
	Delete(ctx context.Context, symbol string) error
	Symbols(ctx context.Context) ([]string, error)
	Close() error
}

// Fetcher pulls daily bars for a symbol over [start, end] from a market-data
// source. Implementations make a single attempt; retry policy lives with the
// caller.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error)
}
