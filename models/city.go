package models

import (
	"fmt"
	"strings"
)

// Season is one of four fixed calendar buckets
type Season int

const (
	Winter Season = iota
	Spring
	Summer
	Fall
)

// NumSeasons is the size of a per-season lookup table
const NumSeasons = 4

var seasonNames = [NumSeasons]string{"winter", "spring", "summer", "fall"}

// Seasons lists every season in table order
func Seasons() []Season {
	return []Season{Winter, Spring, Summer, Fall}
}

func (s Season) String() string {
	if s < 0 || int(s) >= NumSeasons {
		return fmt.Sprintf("Season(%d)", int(s))
	}
	return seasonNames[s]
}

// MarshalText encodes the season by name
func (s Season) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= NumSeasons {
		return nil, fmt.Errorf("invalid season %d", int(s))
	}
	return []byte(seasonNames[s]), nil
}

// UnmarshalText decodes a season name
func (s *Season) UnmarshalText(text []byte) error {
	parsed, err := ParseSeason(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeason resolves a case-insensitive season name
func ParseSeason(name string) (Season, error) {
	for i, n := range seasonNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Season(i), nil
		}
	}
	return 0, fmt.Errorf("unknown season %q", name)
}

// SeasonalRange holds the temperature (°C) and humidity (%) bounds for one season
type SeasonalRange struct {
	MinTemp     int `json:"minTemp"`
	MaxTemp     int `json:"maxTemp"`
	MinHumidity int `json:"minHumidity"`
	MaxHumidity int `json:"maxHumidity"`

	// Set marks the entry as populated; a zero SeasonalRange is a missing season.
	Set bool `json:"-"`
}

// City is immutable catalog reference data
type City struct {
	Name       string                    `json:"name"`
	Region     string                    `json:"region,omitempty"`
	Country    string                    `json:"country"`
	Timezone   string                    `json:"timezone"`
	Ranges     [NumSeasons]SeasonalRange `json:"-"`
	Conditions []string                  `json:"conditions"`
}

// Range returns the city's ranges for a season. It panics when the season
// entry is missing, which a validated catalog never allows.
func (c City) Range(s Season) SeasonalRange {
	if s < 0 || int(s) >= NumSeasons || !c.Ranges[s].Set {
		panic(fmt.Sprintf("city %q has no range for season %s", c.Name, s))
	}
	return c.Ranges[s]
}

// DisplayName joins name, region and country for listings
func (c City) DisplayName() string {
	parts := []string{c.Name}
	if c.Region != "" {
		parts = append(parts, c.Region)
	}
	if c.Country != "" {
		parts = append(parts, c.Country)
	}
	return strings.Join(parts, ", ")
}
