package forecast

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"weatherapp/catalog"
	"weatherapp/models"
	"weatherapp/temporal"
)

// sequence replays fixed draws in order, wrapping around
type sequence struct {
	values []float64
	next   int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func fixedClock(t time.Time) temporal.Clock {
	return temporal.ClockFunc(func() time.Time { return t })
}

func tokyo(t *testing.T) models.City {
	t.Helper()
	city, ok := catalog.Default().Lookup("Tokyo")
	if !ok {
		t.Fatal("Tokyo missing from builtin catalog")
	}
	return city
}

func TestHourlyShape(t *testing.T) {
	city := tokyo(t)
	// 21:30 UTC is 06:30 in Tokyo
	now := time.Date(2024, time.July, 10, 21, 30, 0, 0, time.UTC)
	s := NewSynthesizer(fixedClock(now), &sequence{values: []float64{0, 0.25, 0.5, 0.75, 0.999}})

	hours := s.Hourly(city, now)
	if len(hours) != HourlySamples {
		t.Fatalf("expected %d samples, got %d", HourlySamples, len(hours))
	}

	summer := city.Range(models.Summer)
	for i, h := range hours {
		wantHour := (6 + 3*i) % 24
		if h.Time != fmt.Sprintf("%02d:00", wantHour) {
			t.Errorf("sample %d: expected %02d:00, got %s", i, wantHour, h.Time)
		}
		if h.Temperature < summer.MinTemp || h.Temperature > summer.MaxTemp {
			t.Errorf("sample %d: temperature %d outside [%d,%d]", i, h.Temperature, summer.MinTemp, summer.MaxTemp)
		}
		if h.Humidity < summer.MinHumidity || h.Humidity > summer.MaxHumidity {
			t.Errorf("sample %d: humidity %d outside [%d,%d]", i, h.Humidity, summer.MinHumidity, summer.MaxHumidity)
		}
		wantIcon := models.NightTag
		if wantHour >= 6 && wantHour < 20 {
			wantIcon = models.DayTag
		}
		if h.Icon != wantIcon {
			t.Errorf("sample %d (%s): expected icon %s, got %s", i, h.Time, wantIcon, h.Icon)
		}
	}

	// 06:00 is the bottom of the curve, 14:00 is not sampled, 12:00 is 3/4 up
	if hours[0].Temperature != summer.MinTemp {
		t.Errorf("expected 06:00 at min temp %d, got %d", summer.MinTemp, hours[0].Temperature)
	}
	if want := roundHalfUp(24 + 7*0.75); hours[2].Temperature != want {
		t.Errorf("expected 12:00 at %d, got %d", want, hours[2].Temperature)
	}
}

func TestHourlyEveryStartHour(t *testing.T) {
	city := tokyo(t)
	base := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	s := NewSynthesizer(nil, nil)
	winter := city.Range(models.Winter)

	for h := 0; h < 24; h++ {
		now := base.Add(time.Duration(h) * time.Hour)
		hours := s.Hourly(city, now)
		start := (h + 9) % 24 // Tokyo is UTC+9
		for i, sample := range hours {
			want := (start + 3*i) % 24
			if sample.Time != fmt.Sprintf("%02d:00", want) {
				t.Fatalf("start %d sample %d: expected %02d:00, got %s", h, i, want, sample.Time)
			}
			if sample.Temperature < winter.MinTemp || sample.Temperature > winter.MaxTemp {
				t.Fatalf("start %d sample %d: temperature %d out of range", h, i, sample.Temperature)
			}
		}
	}
}

func TestHourlyDeterministic(t *testing.T) {
	city := tokyo(t)
	now := time.Date(2024, time.October, 3, 4, 0, 0, 0, time.UTC)
	draws := []float64{0.1, 0.9, 0.33, 0.5}

	a := NewSynthesizer(fixedClock(now), &sequence{values: draws}).Hourly(city, now)
	b := NewSynthesizer(fixedClock(now), &sequence{values: draws}).Hourly(city, now)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical output\n%v\n%v", a, b)
	}
}

func TestDaily(t *testing.T) {
	city := tokyo(t)
	// Saturday
	now := time.Date(2024, time.December, 28, 10, 0, 0, 0, time.UTC)
	s := NewSynthesizer(fixedClock(now), &sequence{values: []float64{0.999, 0.999, 0.999, 0.3, 0.1, 0.5, 0, 0, 0.4}})

	days := s.Daily(city, now)
	if len(days) != ForecastDays {
		t.Fatalf("expected %d days, got %d", ForecastDays, len(days))
	}

	wantNames := []string{"Saturday", "Sunday", "Monday"}
	winter := city.Range(models.Winter)
	for i, d := range days {
		if d.Weekday != wantNames[i] {
			t.Errorf("day %d: expected %s, got %s", i, wantNames[i], d.Weekday)
		}
		if d.NightTemperature > d.DayTemperature {
			t.Errorf("day %d: night %d above day %d", i, d.NightTemperature, d.DayTemperature)
		}
		if d.NightTemperature < winter.MinTemp || d.DayTemperature > winter.MaxTemp {
			t.Errorf("day %d: temperatures %d/%d outside range", i, d.DayTemperature, d.NightTemperature)
		}
		allowed := false
		for _, c := range city.Conditions {
			if c == d.Condition {
				allowed = true
			}
		}
		if !allowed {
			t.Errorf("day %d: condition %q not allowed", i, d.Condition)
		}
		if d.Description != Describe(d.Condition) {
			t.Errorf("day %d: description %q does not match %q", i, d.Description, d.Condition)
		}
		if len(d.Hourly) != HourlySamples {
			t.Errorf("day %d: expected %d hourly rows, got %d", i, HourlySamples, len(d.Hourly))
		}
		if d.TemperatureText != fmt.Sprintf("%d° / %d°", d.DayTemperature, d.NightTemperature) {
			t.Errorf("day %d: unexpected temperature text %q", i, d.TemperatureText)
		}
	}

	// first day draws 0.999 for day, night and condition
	if days[0].DayTemperature != winter.MaxTemp {
		t.Errorf("expected day temp %d, got %d", winter.MaxTemp, days[0].DayTemperature)
	}
	if days[0].Condition != "cloudy" {
		t.Errorf("expected last condition, got %s", days[0].Condition)
	}
}

func TestDailyRandomInvariants(t *testing.T) {
	now := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	s := NewSynthesizer(fixedClock(now), nil)

	for _, city := range catalog.Default().List() {
		bounds := city.Range(models.Winter)
		for n := 0; n < 200; n++ {
			for _, d := range s.Daily(city, now) {
				if d.NightTemperature > d.DayTemperature || d.NightTemperature < bounds.MinTemp || d.DayTemperature > bounds.MaxTemp {
					t.Fatalf("%s: bad temperatures %d/%d", city.Name, d.DayTemperature, d.NightTemperature)
				}
			}
		}
	}
}

func TestCurrent(t *testing.T) {
	city := tokyo(t)
	now := time.Date(2024, time.April, 1, 0, 15, 0, 0, time.UTC)
	s := NewSynthesizer(fixedClock(now), &sequence{values: []float64{0.5}})

	got := s.Current(city, now)
	if got.Name != "Tokyo" {
		t.Fatalf("expected Tokyo, got %s", got.Name)
	}
	if got.CurrentCondition != city.Conditions[0] {
		t.Fatalf("expected first condition, got %s", got.CurrentCondition)
	}
	if got.LocalTime != "09:15" {
		t.Fatalf("expected 09:15, got %s", got.LocalTime)
	}
	if got.CurrentTemperature != 18 {
		t.Fatalf("expected 18, got %d", got.CurrentTemperature)
	}
}

func TestForecastBundle(t *testing.T) {
	city := tokyo(t)
	now := time.Date(2024, time.September, 20, 12, 0, 0, 0, time.UTC)
	s := NewSynthesizer(fixedClock(now), nil)

	data := s.Forecast(city)
	if data.Season != models.Fall {
		t.Fatalf("expected fall, got %s", data.Season)
	}
	if !data.Updated.Equal(now) {
		t.Fatalf("expected updated %v, got %v", now, data.Updated)
	}
	if len(data.Hourly) != HourlySamples || len(data.Daily) != ForecastDays {
		t.Fatalf("unexpected bundle sizes %d/%d", len(data.Hourly), len(data.Daily))
	}
}

func TestDescribe(t *testing.T) {
	tests := map[string]string{
		"sunny":       "Clear sky",
		"rainy":       "Rain showers",
		"cloudy":      "Cloudy",
		"sunnyCloudy": "Partly cloudy",
		"":            "Partly cloudy",
	}
	for in, want := range tests {
		if got := Describe(in); got != want {
			t.Errorf("Describe(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTempProgress(t *testing.T) {
	tests := map[int]float64{0: 0, 5: 0, 6: 0, 10: 0.5, 14: 1, 19: 0.5, 23: 0.1}
	for hour, want := range tests {
		got := tempProgress(hour)
		if diff := got - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("tempProgress(%d) = %v, want %v", hour, got, want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := map[float64]int{2.5: 3, -2.5: -2, -2.6: -3, 0.49: 0, 4: 4}
	for in, want := range tests {
		if got := roundHalfUp(in); got != want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestMissingSeasonPanics(t *testing.T) {
	city := tokyo(t)
	city.Ranges[models.Summer] = models.SeasonalRange{}
	now := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing season")
		}
	}()
	NewSynthesizer(fixedClock(now), nil).Hourly(city, now)
}
