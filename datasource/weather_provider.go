package datasource

import (
	"context"
	"errors"
	"fmt"

	"weatherapp/catalog"
	"weatherapp/forecast"
	"weatherapp/models"
)

// ErrCityNotFound is returned when a forecast is requested for a city outside the catalog
var ErrCityNotFound = errors.New("city not found")

// ForecastSource is an interface for services that can produce city forecasts
type ForecastSource interface {
	// FetchForecast returns the current snapshot, hourly and daily series for a city
	FetchForecast(ctx context.Context, city string) (models.ForecastData, error)

	// Name returns the source's name
	Name() string
}

// SyntheticSource implements ForecastSource by synthesizing data from catalog ranges
type SyntheticSource struct {
	catalog *catalog.Catalog
	synth   *forecast.Synthesizer
}

// NewSyntheticSource creates a new synthetic forecast source
func NewSyntheticSource(c *catalog.Catalog, synth *forecast.Synthesizer) *SyntheticSource {
	return &SyntheticSource{
		catalog: c,
		synth:   synth,
	}
}

// Name returns the source name
func (s *SyntheticSource) Name() string {
	return "Synthetic"
}

// FetchForecast synthesizes a forecast for the named city
func (s *SyntheticSource) FetchForecast(ctx context.Context, city string) (models.ForecastData, error) {
	if err := ctx.Err(); err != nil {
		return models.ForecastData{}, err
	}

	c, ok := s.catalog.Lookup(city)
	if !ok {
		return models.ForecastData{}, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}

	data := s.synth.Forecast(c)
	data.Provider = s.Name()
	return data, nil
}

var _ ForecastSource = (*SyntheticSource)(nil)
