// Package fetch loads many symbols through the series store concurrently.
package fetch

import (
	"context"
	"sync"

	"github.com/phuslu/log"

	"stockanalyze/market"
	"stockanalyze/store"
)

// DefaultWorkers bounds concurrent symbol fetches.
const DefaultWorkers = 5

// Result is the outcome for one symbol. Err is set when the symbol could not
// be loaded; the other symbols are unaffected.
type Result struct {
	Symbol  string
	Series  *market.Series
	Fetched bool
	Err     error
}

// Coordinator fans symbol loads out over a bounded worker pool.
type Coordinator struct {
	manager *store.Manager
	workers int
}

func New(manager *store.Manager, workers int) *Coordinator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Coordinator{manager: manager, workers: workers}
}

// Load pulls every symbol through the store and returns one Result per
// symbol, in input order. Context cancellation marks the not-yet-started
// symbols with ctx.Err(); merges already completed stay persisted.
func (c *Coordinator) Load(ctx context.Context, symbols []string) []Result {
	results := make([]Result, len(symbols))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				symbol := symbols[i]
				series, fetched, err := c.manager.Get(ctx, symbol)
				results[i] = Result{Symbol: symbol, Series: series, Fetched: fetched, Err: err}
				if err != nil {
					log.Warn().Str("symbol", symbol).Err(err).Msg("load failed")
				}
			}
		}()
	}

	for i := range symbols {
		select {
		case <-ctx.Done():
			results[i] = Result{Symbol: symbols[i], Err: ctx.Err()}
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}
