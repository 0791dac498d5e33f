package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"weatherapp/datasource"
	"weatherapp/models"
)

// ForecastCollector periodically pulls forecasts for a set of cities through
// a source, which keeps a cached source warm.
type ForecastCollector struct {
	source       datasource.ForecastSource
	cities       []string
	interval     time.Duration
	fetchTimeout time.Duration
	onForecast   func(models.ForecastData)
	onError      func(error)
}

// NewForecastCollector creates a collector for the given cities
func NewForecastCollector(source datasource.ForecastSource, cities []string, interval time.Duration) *ForecastCollector {
	return &ForecastCollector{
		source:       source,
		cities:       cities,
		interval:     interval,
		fetchTimeout: 10 * time.Second,
	}
}

// SetFetchTimeout changes the timeout for a single fetch
func (fc *ForecastCollector) SetFetchTimeout(timeout time.Duration) {
	fc.fetchTimeout = timeout
}

// OnForecast registers a callback for every collected forecast
func (fc *ForecastCollector) OnForecast(fn func(models.ForecastData)) {
	fc.onForecast = fn
}

// OnError registers a callback for failed fetches
func (fc *ForecastCollector) OnError(fn func(error)) {
	fc.onError = fn
}

// Start begins collecting for all cities.
// The returned function stops collection and waits for it to finish.
func (fc *ForecastCollector) Start(ctx context.Context) func() {
	collectionCtx, cancelCollection := context.WithCancel(ctx)

	var wg sync.WaitGroup
	for _, city := range fc.cities {
		wg.Add(1)
		go fc.collect(collectionCtx, &wg, city)
	}

	return func() {
		cancelCollection()
		wg.Wait()
	}
}

// collect fetches immediately, then on every tick until ctx is done
func (fc *ForecastCollector) collect(ctx context.Context, wg *sync.WaitGroup, city string) {
	defer wg.Done()

	ticker := time.NewTicker(fc.interval)
	defer ticker.Stop()

	fc.fetchOnce(ctx, city)

	for {
		select {
		case <-ticker.C:
			fc.fetchOnce(ctx, city)
		case <-ctx.Done():
			return
		}
	}
}

func (fc *ForecastCollector) fetchOnce(ctx context.Context, city string) {
	fetchCtx, cancel := context.WithTimeout(ctx, fc.fetchTimeout)
	defer cancel()

	data, err := fc.source.FetchForecast(fetchCtx, city)
	if err != nil {
		if fc.onError != nil && ctx.Err() == nil {
			fc.onError(fmt.Errorf("error fetching from %s for %s: %w", fc.source.Name(), city, err))
		}
		return
	}

	if fc.onForecast != nil {
		fc.onForecast(data)
	}
}
