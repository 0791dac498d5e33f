package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weatherapp/api"
	"weatherapp/cache"
	"weatherapp/catalog"
	"weatherapp/collector"
	"weatherapp/datasource"
	"weatherapp/forecast"
	"weatherapp/session"
	"weatherapp/temporal"

	flag "github.com/spf13/pflag"
)

func main() {
	// Load environment variables from .env file
	datasource.LoadEnv()

	// Parse command line arguments
	configFile := flag.StringP("config", "c", "config.json", "Path to configuration file")
	port := flag.IntP("port", "p", 0, "Port to run the server on (overrides config)")
	catalogFile := flag.String("catalog", "", "Path to a JSON city catalog (overrides config)")
	cacheTTL := flag.Duration("cache-ttl", 0, "How long a synthesized forecast is reused (overrides config)")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	sessionIdle := flag.Duration("session-idle", 0, "Drop sessions idle for longer than this (overrides config)")
	flag.Parse()

	// Load configuration
	config, err := datasource.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment configuration: %v", err)
	}
	if *port != 0 {
		config.Port = *port
	}
	if *catalogFile != "" {
		config.CatalogFile = *catalogFile
	}
	if *cacheTTL > 0 {
		config.CacheTTL = datasource.Duration{Duration: *cacheTTL}
	}
	if *sessionIdle > 0 {
		config.SessionIdleTimeout = datasource.Duration{Duration: *sessionIdle}
	}
	if flag.CommandLine.Changed("rate-limit") {
		config.RateLimit.Enabled = *enableRateLimiting
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	cities, err := loadCatalog(config.CatalogFile)
	if err != nil {
		log.Fatalf("Failed to load city catalog: %v", err)
	}
	log.Printf("Loaded %d cities", len(cities.List()))

	synth := forecast.NewSynthesizer(temporal.SystemClock{}, nil)

	// Build the forecast source chain: synthetic -> rate limited -> cached
	var source datasource.ForecastSource = datasource.NewSyntheticSource(cities, synth)
	if config.RateLimit.Enabled {
		source = datasource.NewRateLimitedForecastSource(source, config.RateLimit.RPS, config.RateLimit.Burst)
		log.Println("Applied rate limiting to forecast source")
	}
	forecasts := cache.NewCachedForecastSource(source, config.CacheTTL.Duration)

	// Keep the forecast cache warm for every catalog city
	stopWarmer := func() {}
	if config.CacheTTL.Duration > 0 {
		names := make([]string, 0, len(cities.List()))
		for _, city := range cities.List() {
			names = append(names, city.Name)
		}
		warmer := collector.NewForecastCollector(forecasts, names, config.CacheTTL.Duration)
		warmer.OnError(func(err error) {
			log.Printf("Warning: %v", err)
		})
		stopWarmer = warmer.Start(context.Background())
	}

	sessions := api.NewSessionStore(func() *session.Session {
		return session.New(cities, synth)
	})

	server := api.NewServer(cities, sessions, forecasts, config.Port)
	if config.RateLimit.Enabled {
		server.SetRateLimit(config.RateLimit.RPS, config.RateLimit.Burst)
	}

	// Set up channels for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	// Periodically drop idle sessions and expired forecasts
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sessions.PruneIdleSessions(config.SessionIdleTimeout.Duration)
				if n := forecasts.Prune(); n > 0 {
					log.Printf("Pruned %d expired forecasts", n)
				}
			case <-done:
				return
			}
		}
	}()

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdownChan
	log.Printf("Shutting down due to %s signal", sig)
	close(done)
	stopWarmer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	hits, misses := forecasts.CacheStats()
	fmt.Printf("Forecast cache: %d hits, %d misses\n", hits, misses)
	fmt.Println("Shutdown complete")
}

// loadCatalog reads the configured catalog file, or the builtin cities
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}
