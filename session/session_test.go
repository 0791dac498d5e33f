package session

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"weatherapp/catalog"
	"weatherapp/forecast"
	"weatherapp/temporal"
)

func newSession(t *testing.T) (*Session, *catalog.Catalog) {
	t.Helper()
	now := time.Date(2024, time.May, 4, 8, 0, 0, 0, time.UTC)
	c := catalog.Default()
	synth := forecast.NewSynthesizer(temporal.ClockFunc(func() time.Time { return now }), nil)
	return New(c, synth), c
}

func TestSelectionFlow(t *testing.T) {
	s, c := newSession(t)
	if s.State() != Browsing {
		t.Fatalf("expected Browsing, got %s", s.State())
	}

	results, err := s.Search("tok")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	selected, err := s.SelectCity(results[0])
	if err != nil {
		t.Fatalf("SelectCity failed: %v", err)
	}
	if s.State() != CityView || selected.Name != "Tokyo" {
		t.Fatalf("expected CityView on Tokyo, got %s on %s", s.State(), selected.Name)
	}
	if v := s.View(); v.Query != "" || len(v.Results) != 0 {
		t.Fatalf("expected search to be cleared, got %q %v", v.Query, v.Results)
	}

	view := s.View()
	if len(view.Hourly) != forecast.HourlySamples || len(view.Daily) != forecast.ForecastDays {
		t.Fatalf("unexpected view sizes %d/%d", len(view.Hourly), len(view.Daily))
	}

	d := view.Daily[1]
	if err := s.SelectDay(d); err != nil {
		t.Fatalf("SelectDay failed: %v", err)
	}
	if s.State() != DayDetail {
		t.Fatalf("expected DayDetail, got %s", s.State())
	}
	got, ok := s.SelectedDay()
	if !ok || !reflect.DeepEqual(got, d) {
		t.Fatalf("expected selected day %v, got %v", d, got)
	}

	if err := s.Back(); err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	if s.State() != CityView {
		t.Fatalf("expected CityView, got %s", s.State())
	}
	if _, ok := s.SelectedDay(); ok {
		t.Fatal("expected selected day to be cleared")
	}
	after, ok := s.SelectedCity()
	if !ok || !reflect.DeepEqual(after, selected) {
		t.Fatalf("expected selected city unchanged, got %+v", after)
	}

	tokyo, _ := c.Lookup("Tokyo")
	if _, err := s.SelectCity(tokyo); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	s, _ := newSession(t)

	if err := s.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected Back to fail while browsing, got %v", err)
	}
	if _, err := s.SelectDayIndex(0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected SelectDayIndex to fail while browsing, got %v", err)
	}
	if _, ok := s.SelectedCity(); ok {
		t.Fatal("expected no selected city while browsing")
	}

	results, _ := s.Search("london")
	if _, err := s.SelectCity(results[0]); err != nil {
		t.Fatalf("SelectCity failed: %v", err)
	}
	if _, err := s.Search("tokyo"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected search to fail in city view, got %v", err)
	}
	if err := s.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected Back to fail in city view, got %v", err)
	}
	if _, err := s.SelectDayIndex(3); !errors.Is(err, ErrDayOutOfRange) {
		t.Fatalf("expected ErrDayOutOfRange, got %v", err)
	}

	day, err := s.SelectDayIndex(2)
	if err != nil {
		t.Fatalf("SelectDayIndex failed: %v", err)
	}
	if err := s.SelectDay(day); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected second SelectDay to fail, got %v", err)
	}

	v := s.View()
	if v.State != DayDetail || v.Day == nil || v.Day.Weekday != day.Weekday || v.City.Name != "London" {
		t.Fatalf("unexpected detail view %+v", v)
	}
}

func TestEmptySearch(t *testing.T) {
	s, _ := newSession(t)
	results, err := s.Search("")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
