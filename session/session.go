package session

import (
	"errors"
	"fmt"

	"weatherapp/catalog"
	"weatherapp/forecast"
	"weatherapp/models"
)

var (
	// ErrInvalidTransition is returned for an event the current state does not accept
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrDayOutOfRange is returned when a day index is not in the daily forecast
	ErrDayOutOfRange = errors.New("day out of range")
)

// State is the focus of a session
type State int

const (
	Browsing State = iota
	CityView
	DayDetail
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case CityView:
		return "city"
	case DayDetail:
		return "day"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session holds which city and which day a single user is focused on.
// It is not safe for concurrent use; callers serialize events.
type Session struct {
	catalog *catalog.Catalog
	synth   *forecast.Synthesizer

	state   State
	query   string
	results []models.City

	city   *models.SelectedCity
	hourly []models.HourlyObservation
	daily  []models.DailyObservation
	day    *models.DailyObservation
}

// New starts a session in the Browsing state
func New(c *catalog.Catalog, synth *forecast.Synthesizer) *Session {
	return &Session{
		catalog: c,
		synth:   synth,
		state:   Browsing,
		results: []models.City{},
	}
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Search updates the search text and results while browsing
func (s *Session) Search(query string) ([]models.City, error) {
	if s.state != Browsing {
		return nil, fmt.Errorf("%w: search while in %s", ErrInvalidTransition, s.state)
	}
	s.query = query
	s.results = s.catalog.Find(query)
	return s.results, nil
}

// SelectCity moves from Browsing to CityView, taking the current snapshot
// and synthesizing the hourly and daily views once for this selection.
func (s *Session) SelectCity(city models.City) (models.SelectedCity, error) {
	if s.state != Browsing {
		return models.SelectedCity{}, fmt.Errorf("%w: select city while in %s", ErrInvalidTransition, s.state)
	}

	now := s.synth.Now()
	selected := s.synth.Current(city, now)

	s.city = &selected
	s.hourly = s.synth.Hourly(city, now)
	s.daily = s.synth.Daily(city, now)
	s.query = ""
	s.results = []models.City{}
	s.state = CityView

	return selected, nil
}

// SelectDay moves from CityView to DayDetail
func (s *Session) SelectDay(day models.DailyObservation) error {
	if s.state != CityView {
		return fmt.Errorf("%w: select day while in %s", ErrInvalidTransition, s.state)
	}
	s.day = &day
	s.state = DayDetail
	return nil
}

// SelectDayIndex selects the i-th day of the synthesized daily forecast
func (s *Session) SelectDayIndex(i int) (models.DailyObservation, error) {
	if s.state != CityView {
		return models.DailyObservation{}, fmt.Errorf("%w: select day while in %s", ErrInvalidTransition, s.state)
	}
	if i < 0 || i >= len(s.daily) {
		return models.DailyObservation{}, fmt.Errorf("%w: %d", ErrDayOutOfRange, i)
	}
	day := s.daily[i]
	return day, s.SelectDay(day)
}

// Back discards the selected day and returns to CityView
func (s *Session) Back() error {
	if s.state != DayDetail {
		return fmt.Errorf("%w: back while in %s", ErrInvalidTransition, s.state)
	}
	s.day = nil
	s.state = CityView
	return nil
}

// SelectedCity returns the city snapshot, if one is selected
func (s *Session) SelectedCity() (models.SelectedCity, bool) {
	if s.city == nil {
		return models.SelectedCity{}, false
	}
	return *s.city, true
}

// SelectedDay returns the drilled-in day, if any
func (s *Session) SelectedDay() (models.DailyObservation, bool) {
	if s.day == nil {
		return models.DailyObservation{}, false
	}
	return *s.day, true
}

// View is a read-only snapshot of a session for presentation
type View struct {
	State   State                      `json:"state"`
	Query   string                     `json:"query,omitempty"`
	Results []models.City              `json:"results,omitempty"`
	City    *models.SelectedCity       `json:"city,omitempty"`
	Hourly  []models.HourlyObservation `json:"hourly,omitempty"`
	Daily   []models.DailyObservation  `json:"daily,omitempty"`
	Day     *models.DailyObservation   `json:"day,omitempty"`
}

// View returns what the presentation layer should render in the current state
func (s *Session) View() View {
	v := View{State: s.state}

	switch s.state {
	case Browsing:
		v.Query = s.query
		v.Results = append([]models.City(nil), s.results...)
	case CityView:
		city := *s.city
		v.City = &city
		v.Hourly = s.hourly
		v.Daily = s.daily
	case DayDetail:
		city := *s.city
		day := *s.day
		v.City = &city
		v.Day = &day
	}

	return v
}
