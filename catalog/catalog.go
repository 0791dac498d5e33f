package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"weatherapp/models"
	"weatherapp/temporal"
)

// ErrInvalidCity marks catalog data that breaks a city invariant
var ErrInvalidCity = errors.New("invalid city")

// Catalog is a fixed, validated, ordered set of cities
type Catalog struct {
	cities []models.City
}

// New validates the cities and builds a catalog from them
func New(cities []models.City) (*Catalog, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidCity)
	}

	seen := make(map[string]bool, len(cities))
	copied := make([]models.City, 0, len(cities))
	for _, city := range cities {
		if err := Validate(city); err != nil {
			return nil, err
		}
		key := strings.ToLower(city.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate city %q", ErrInvalidCity, city.Name)
		}
		seen[key] = true

		city.Conditions = append([]string(nil), city.Conditions...)
		copied = append(copied, city)
	}

	return &Catalog{cities: copied}, nil
}

// Validate checks every invariant a City must hold before synthesis
func Validate(city models.City) error {
	if strings.TrimSpace(city.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCity)
	}
	if len(city.Conditions) == 0 {
		return fmt.Errorf("%w: %s has no conditions", ErrInvalidCity, city.Name)
	}
	for _, c := range city.Conditions {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: %s has a blank condition", ErrInvalidCity, city.Name)
		}
	}
	if err := temporal.ValidateTimezone(city.Timezone); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCity, city.Name, err)
	}

	for _, season := range models.Seasons() {
		r := city.Ranges[season]
		if !r.Set {
			return fmt.Errorf("%w: %s has no %s range", ErrInvalidCity, city.Name, season)
		}
		if r.MinTemp > r.MaxTemp {
			return fmt.Errorf("%w: %s %s temperature range [%d,%d]", ErrInvalidCity, city.Name, season, r.MinTemp, r.MaxTemp)
		}
		if r.MinHumidity < 0 || r.MaxHumidity > 100 || r.MinHumidity > r.MaxHumidity {
			return fmt.Errorf("%w: %s %s humidity range [%d,%d]", ErrInvalidCity, city.Name, season, r.MinHumidity, r.MaxHumidity)
		}
	}

	return nil
}

// List returns every city in catalog order
func (c *Catalog) List() []models.City {
	out := make([]models.City, len(c.cities))
	copy(out, c.cities)
	return out
}

// Find matches query case-insensitively as a substring of name or country.
// An empty query matches nothing.
func (c *Catalog) Find(query string) []models.City {
	q := strings.ToLower(query)
	if q == "" {
		return []models.City{}
	}

	matches := []models.City{}
	for _, city := range c.cities {
		if strings.Contains(strings.ToLower(city.Name), q) ||
			strings.Contains(strings.ToLower(city.Country), q) {
			matches = append(matches, city)
		}
	}
	return matches
}

// Lookup finds a city by case-insensitive exact name
func (c *Catalog) Lookup(name string) (models.City, bool) {
	for _, city := range c.cities {
		if strings.EqualFold(city.Name, strings.TrimSpace(name)) {
			return city, true
		}
	}
	return models.City{}, false
}

// rangeFile is the on-disk shape of one season's ranges
type rangeFile struct {
	Temp     [2]int `json:"temp"`
	Humidity [2]int `json:"humidity"`
}

// cityFile is the on-disk shape of a city
type cityFile struct {
	Name       string               `json:"name"`
	State      string               `json:"state"`
	Country    string               `json:"country"`
	Timezone   string               `json:"timezone"`
	Seasons    map[string]rangeFile `json:"seasons"`
	Conditions []string             `json:"conditions"`
}

// Load reads a JSON catalog file and validates it
func Load(filename string) (*Catalog, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []cityFile
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filename, err)
	}

	cities := make([]models.City, 0, len(entries))
	for _, entry := range entries {
		city, err := entry.toCity()
		if err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}

	return New(cities)
}

func (f cityFile) toCity() (models.City, error) {
	city := models.City{
		Name:       f.Name,
		Region:     f.State,
		Country:    f.Country,
		Timezone:   f.Timezone,
		Conditions: f.Conditions,
	}
	for name, r := range f.Seasons {
		season, err := models.ParseSeason(name)
		if err != nil {
			return models.City{}, fmt.Errorf("%w: %s: %v", ErrInvalidCity, f.Name, err)
		}
		city.Ranges[season] = models.SeasonalRange{
			MinTemp:     r.Temp[0],
			MaxTemp:     r.Temp[1],
			MinHumidity: r.Humidity[0],
			MaxHumidity: r.Humidity[1],
			Set:         true,
		}
	}
	return city, nil
}
