package cache

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"weatherapp/datasource"
	"weatherapp/models"
)

// CachedForecastSource wraps a ForecastSource and adds caching functionality
type CachedForecastSource struct {
	source         datasource.ForecastSource
	cache          map[string]forecastCacheEntry // key is lower-cased city name
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
	now            func() time.Time
}

// forecastCacheEntry represents a cached forecast with its timestamp
type forecastCacheEntry struct {
	Data      models.ForecastData
	Timestamp time.Time
}

// NewCachedForecastSource creates a new cached wrapper around a forecast source
func NewCachedForecastSource(source datasource.ForecastSource, cacheDuration time.Duration) *CachedForecastSource {
	return &CachedForecastSource{
		source:        source,
		cache:         make(map[string]forecastCacheEntry),
		cacheDuration: cacheDuration,
		now:           time.Now,
	}
}

// WithClock replaces the clock used to age entries
func (c *CachedForecastSource) WithClock(now func() time.Time) *CachedForecastSource {
	c.now = now
	return c
}

// Name returns the name of the underlying forecast source with [Cached] suffix
func (c *CachedForecastSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchForecast fetches forecast data, using cache when available
func (c *CachedForecastSource) FetchForecast(ctx context.Context, city string) (models.ForecastData, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(city))

	c.mutex.RLock()
	entry, found := c.cache[cacheKey]
	c.mutex.RUnlock()

	if found {
		age := c.now().Sub(entry.Timestamp)
		if age < c.cacheDuration {
			c.mutex.Lock()
			c.cacheHitCount++
			c.mutex.Unlock()

			log.Printf("Forecast cache HIT for %s from %s (age: %s)", city, c.source.Name(), age.Round(time.Second))
			return entry.Data, nil
		}
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	log.Printf("Forecast cache MISS for %s from %s, synthesizing...", city, c.source.Name())

	forecast, err := c.source.FetchForecast(ctx, city)
	if err != nil {
		return models.ForecastData{}, err
	}

	c.mutex.Lock()
	c.cache[cacheKey] = forecastCacheEntry{
		Data:      forecast,
		Timestamp: c.now(),
	}
	c.mutex.Unlock()

	return forecast, nil
}

// Prune drops expired entries and returns how many were removed
func (c *CachedForecastSource) Prune() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	pruned := 0
	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) >= c.cacheDuration {
			delete(c.cache, key)
			pruned++
		}
	}
	return pruned
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedForecastSource) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedForecastSource implements ForecastSource
var _ datasource.ForecastSource = (*CachedForecastSource)(nil)
