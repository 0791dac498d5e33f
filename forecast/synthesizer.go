package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"weatherapp/models"
	"weatherapp/temporal"
)

const (
	// HourlySamples is the number of rows in an hourly series
	HourlySamples = 8
	// HourStride is the spacing between hourly rows
	HourStride = 3
	// ForecastDays is the length of the daily series
	ForecastDays = 3
)

var weekdays = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// RandomSource supplies uniform draws in [0,1)
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Synthesizer procedurally generates forecast data from catalog ranges
type Synthesizer struct {
	resolver *temporal.Resolver
	rng      RandomSource
}

// NewSynthesizer creates a synthesizer. A nil clock reads the host clock
// and a nil source uses the unseeded process-wide generator.
func NewSynthesizer(clock temporal.Clock, rng RandomSource) *Synthesizer {
	if rng == nil {
		rng = globalSource{}
	}
	return &Synthesizer{
		resolver: temporal.NewResolver(clock),
		rng:      rng,
	}
}

// Now returns the synthesizer's current instant
func (s *Synthesizer) Now() time.Time {
	return s.resolver.Now()
}

// Hourly produces 8 samples at a 3-hour stride starting at the city's current hour
func (s *Synthesizer) Hourly(city models.City, now time.Time) []models.HourlyObservation {
	bounds := city.Range(temporal.CurrentSeason(now))
	currentHour := s.resolver.LocalHour(city.Timezone, now)

	hours := make([]models.HourlyObservation, 0, HourlySamples)
	for i := 0; i < HourlySamples; i++ {
		hour := (currentHour + i*HourStride) % 24

		temp := roundHalfUp(float64(bounds.MinTemp) + float64(bounds.MaxTemp-bounds.MinTemp)*tempProgress(hour))
		humidity := s.between(bounds.MinHumidity, bounds.MaxHumidity)

		icon := models.NightTag
		if hour >= 6 && hour < 20 {
			icon = models.DayTag
		}

		hours = append(hours, models.HourlyObservation{
			Time:        fmt.Sprintf("%02d:00", hour),
			Temperature: temp,
			Humidity:    humidity,
			Icon:        icon,
		})
	}

	return hours
}

// Daily produces 3 days starting today, each with a freshly synthesized
// hourly series anchored at now rather than at that day.
func (s *Synthesizer) Daily(city models.City, now time.Time) []models.DailyObservation {
	bounds := city.Range(temporal.CurrentSeason(now))
	today := int(now.Weekday())

	days := make([]models.DailyObservation, 0, ForecastDays)
	for i := 0; i < ForecastDays; i++ {
		dayTemp := s.between(bounds.MinTemp, bounds.MaxTemp)
		nightTemp := s.between(bounds.MinTemp, dayTemp)
		condition := s.pick(city.Conditions)

		days = append(days, models.DailyObservation{
			Weekday:          weekdays[(today+i)%7],
			Condition:        condition,
			Description:      Describe(condition),
			DayTemperature:   dayTemp,
			NightTemperature: nightTemp,
			TemperatureText:  fmt.Sprintf("%d° / %d°", dayTemp, nightTemp),
			Hourly:           s.Hourly(city, now),
		})
	}

	return days
}

// Current takes the snapshot shown when a city is selected
func (s *Synthesizer) Current(city models.City, now time.Time) models.SelectedCity {
	bounds := city.Range(temporal.CurrentSeason(now))

	return models.SelectedCity{
		City:               city,
		CurrentTemperature: s.between(bounds.MinTemp, bounds.MaxTemp),
		CurrentCondition:   city.Conditions[0],
		LocalTime:          s.resolver.LocalTime(city.Timezone, now),
	}
}

// Forecast synthesizes the full bundle for a city at the clock's current instant
func (s *Synthesizer) Forecast(city models.City) models.ForecastData {
	now := s.resolver.Now()
	return models.ForecastData{
		City:    city.Name,
		Season:  temporal.CurrentSeason(now),
		Current: s.Current(city, now),
		Hourly:  s.Hourly(city, now),
		Daily:   s.Daily(city, now),
		Updated: now,
	}
}

// Describe maps a condition tag to its display text
func Describe(condition string) string {
	switch condition {
	case "sunny":
		return "Clear sky"
	case "rainy":
		return "Rain showers"
	case "cloudy":
		return "Cloudy"
	default:
		return "Partly cloudy"
	}
}

// tempProgress is the diurnal curve: flat until 06, rising to a 14:00 peak,
// then falling off linearly toward midnight.
func tempProgress(hour int) float64 {
	switch {
	case hour >= 6 && hour <= 14:
		return float64(hour-6) / 8
	case hour > 14:
		return 1 - float64(hour-14)/10
	default:
		return 0
	}
}

// between draws a rounded value in [lo, hi]
func (s *Synthesizer) between(lo, hi int) int {
	return roundHalfUp(float64(lo) + s.rng.Float64()*float64(hi-lo))
}

func (s *Synthesizer) pick(options []string) string {
	i := int(math.Floor(s.rng.Float64() * float64(len(options))))
	if i >= len(options) {
		i = len(options) - 1
	}
	return options[i]
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
