package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"weatherapp/models"
	"weatherapp/session"
)

func render(out io.Writer, v session.View) {
	switch v.State {
	case session.Browsing:
		if v.Query == "" {
			fmt.Fprintln(out, "Search for a city")
			return
		}
		if len(v.Results) == 0 {
			fmt.Fprintf(out, "No cities match %q\n", v.Query)
			return
		}
		for i, city := range v.Results {
			fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, city.Name, city.Country)
		}

	case session.CityView:
		renderHeader(out, v.City)
		renderHourly(out, v.Hourly)
		fmt.Fprintln(out, "\n3-Day Forecast")
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for i, d := range v.Daily {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, d.Weekday, d.Description, d.TemperatureText)
		}
		w.Flush()

	case session.DayDetail:
		renderHeader(out, v.City)
		fmt.Fprintf(out, "%s - Detailed Forecast\n", v.Day.Weekday)
		renderHourly(out, v.Day.Hourly)
	}
}

func renderHeader(out io.Writer, city *models.SelectedCity) {
	fmt.Fprintf(out, "%s, %s\n", city.Name, city.LocalTime)
	fmt.Fprintf(out, "%d°C %s\n\n", city.CurrentTemperature, city.CurrentCondition)
}

func renderHourly(out io.Writer, hours []models.HourlyObservation) {
	rows := [4][]string{{"time"}, {"sky"}, {"temp"}, {"humidity"}}
	for _, h := range hours {
		rows[0] = append(rows[0], h.Time)
		rows[1] = append(rows[1], h.Icon)
		rows[2] = append(rows[2], fmt.Sprintf("%d°", h.Temperature))
		rows[3] = append(rows[3], fmt.Sprintf("%d%%", h.Humidity))
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}
