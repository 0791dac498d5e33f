package temporal

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	_ "time/tzdata"

	"weatherapp/models"
)

// ErrUnknownTimezone is returned when a zone identifier cannot be loaded
var ErrUnknownTimezone = errors.New("unknown timezone")

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock in host-local time
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time {
	return f()
}

// CurrentSeason buckets now's month in the location now carries.
// Season is global: it never depends on a city's timezone.
func CurrentSeason(now time.Time) models.Season {
	switch m := now.Month(); {
	case m >= time.March && m <= time.May:
		return models.Spring
	case m >= time.June && m <= time.August:
		return models.Summer
	case m >= time.September && m <= time.November:
		return models.Fall
	default:
		return models.Winter
	}
}

// LocalTime formats now as "HH:MM" in the named zone's civil time
func LocalTime(timezone string, now time.Time) (string, error) {
	loc, err := loadLocation(timezone)
	if err != nil {
		return "", err
	}
	return now.In(loc).Format("15:04"), nil
}

// ValidateTimezone reports whether the identifier names a loadable zone
func ValidateTimezone(timezone string) error {
	_, err := loadLocation(timezone)
	return err
}

var (
	locations   = make(map[string]*time.Location)
	locationsMu sync.RWMutex
)

func loadLocation(timezone string) (*time.Location, error) {
	locationsMu.RLock()
	loc, found := locations[timezone]
	locationsMu.RUnlock()
	if found {
		return loc, nil
	}

	// time.LoadLocation treats "" as UTC; a city must name its zone.
	if timezone == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrUnknownTimezone)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownTimezone, timezone, err)
	}

	locationsMu.Lock()
	locations[timezone] = loc
	locationsMu.Unlock()

	return loc, nil
}

// Resolver resolves city-local time, falling back to host-local time
// when the zone is unknown so a view can always render some clock.
type Resolver struct {
	clock Clock
}

// NewResolver creates a resolver reading the given clock
func NewResolver(clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Resolver{clock: clock}
}

// Now returns the clock's current instant
func (r *Resolver) Now() time.Time {
	return r.clock.Now()
}

// Season returns the current season
func (r *Resolver) Season() models.Season {
	return CurrentSeason(r.clock.Now())
}

// LocalTime returns "HH:MM" for the zone at now
func (r *Resolver) LocalTime(timezone string, now time.Time) string {
	return r.civil(timezone, now).Format("15:04")
}

// LocalHour returns the zone's current hour, 0-23
func (r *Resolver) LocalHour(timezone string, now time.Time) int {
	return r.civil(timezone, now).Hour()
}

func (r *Resolver) civil(timezone string, now time.Time) time.Time {
	loc, err := loadLocation(timezone)
	if err != nil {
		log.Printf("Warning: %v, using host-local time", err)
		return now.Local()
	}
	return now.In(loc)
}
