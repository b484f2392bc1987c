package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"TrendSentinel/internal/indicator"
	"TrendSentinel/internal/model"
)

// Snapshot is the scan result for one symbol: the raw series and the
// trailing-stop output aligned bar-for-bar. Err is set when the symbol was
// skipped (fetch failure or bad data); Points is nil in that case.
type Snapshot struct {
	Symbol string
	Series *model.PriceSeries
	Points []indicator.Point
	Err    error
}

// Collector fetches the watchlist and runs the trailing-stop engine per
// symbol. Each symbol gets its own series and engine run, so symbols can be
// processed in parallel.
type Collector struct {
	Fetcher   Fetcher
	Symbols   []string
	Days      int
	Indicator indicator.Config
	Workers   int
}

// NewCollector creates a Collector. workers bounds the number of symbols
// fetched and computed concurrently.
func NewCollector(fetcher Fetcher, symbols []string, days, workers int, cfg indicator.Config) *Collector {
	if workers <= 0 {
		workers = 5
	}
	if days <= 0 {
		days = 5
	}
	return &Collector{
		Fetcher:   fetcher,
		Symbols:   symbols,
		Days:      days,
		Indicator: cfg,
		Workers:   workers,
	}
}

// ScanAll processes the whole watchlist and returns one snapshot per symbol,
// in watchlist order. Symbols that fail carry their error in the snapshot
// rather than aborting the scan.
func (c *Collector) ScanAll(ctx context.Context) []*Snapshot {
	snaps := make([]*Snapshot, len(c.Symbols))
	sem := make(chan struct{}, c.Workers)
	var wg sync.WaitGroup

	for i, symbol := range c.Symbols {
		if ctx.Err() != nil {
			snaps[i] = &Snapshot{Symbol: symbol, Err: ctx.Err()}
			continue
		}
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			snaps[i] = c.scanOne(symbol)
		}(i, symbol)
	}
	wg.Wait()
	return snaps
}

// scanOne fetches, validates and computes one symbol.
func (c *Collector) scanOne(symbol string) *Snapshot {
	bars, err := c.Fetcher.FetchIntradayBars(symbol, c.Days)
	if err != nil {
		log.Printf("[WARN] fetch %s: %v", symbol, err)
		return &Snapshot{Symbol: symbol, Err: fmt.Errorf("fetch bars: %w", err)}
	}
	if err := indicator.ValidateBars(bars); err != nil {
		// A poisoned bar would corrupt every later stop; skip the symbol.
		log.Printf("[WARN] skipping %s: %v", symbol, err)
		return &Snapshot{Symbol: symbol, Err: err}
	}

	points, err := indicator.Compute(bars, c.Indicator)
	if err != nil {
		return &Snapshot{Symbol: symbol, Err: err}
	}

	return &Snapshot{
		Symbol: symbol,
		Series: &model.PriceSeries{
			Symbol:    symbol,
			Bars:      bars,
			FetchedAt: time.Now(),
		},
		Points: points,
	}
}
