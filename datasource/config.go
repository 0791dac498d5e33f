package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Duration decodes from a JSON duration string such as "5m"
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts "90s" style strings or integer nanoseconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	}

	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	d.Duration = time.Duration(n)
	return nil
}

// MarshalJSON encodes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Config represents the application configuration
type Config struct {
	Port int `json:"port"`

	// CatalogFile is an optional JSON city catalog; the builtin one is used when empty
	CatalogFile string `json:"catalogFile"`

	// CacheTTL is how long a synthesized forecast is served before regenerating
	CacheTTL Duration `json:"cacheTTL"`

	RateLimit struct {
		Enabled bool    `json:"enabled"`
		RPS     float64 `json:"rps"`
		Burst   int     `json:"burst"`
	} `json:"rateLimit"`

	// SessionIdleTimeout is how long an untouched session is kept
	SessionIdleTimeout Duration `json:"sessionIdleTimeout"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{
		Port:               8080,
		CacheTTL:           Duration{5 * time.Minute},
		SessionIdleTimeout: Duration{30 * time.Minute},
	}
	config.RateLimit.Enabled = true
	config.RateLimit.RPS = 5
	config.RateLimit.Burst = 10
	return config
}

// LoadConfig loads configuration from a JSON file over the defaults.
// A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Config file %s not found, using defaults", filename)
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.CacheTTL.Duration < 0 {
		return fmt.Errorf("invalid cache TTL %s", c.CacheTTL)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit %.2f rps / burst %d", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	if c.SessionIdleTimeout.Duration <= 0 {
		return fmt.Errorf("invalid session idle timeout %s", c.SessionIdleTimeout)
	}
	return nil
}

// LoadEnv loads a .env file, if present, into the process environment
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

// ApplyEnv overrides config fields from WEATHERAPP_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("WEATHERAPP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WEATHERAPP_PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("WEATHERAPP_CATALOG"); v != "" {
		c.CatalogFile = v
	}
	if v := os.Getenv("WEATHERAPP_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid WEATHERAPP_CACHE_TTL: %w", err)
		}
		c.CacheTTL = Duration{ttl}
	}
	return c.Validate()
}
