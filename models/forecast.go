package models

import (
	"time"
)

// Day/night icon tags used by hourly rows only
const (
	DayTag   = "sunny"
	NightTag = "moon"
)

// HourlyObservation is a single synthesized 3-hour sample
type HourlyObservation struct {
	Time        string `json:"time"`        // "HH:00", 24h
	Temperature int    `json:"temperature"` // in Celsius
	Humidity    int    `json:"humidity"`    // percentage
	Icon        string `json:"icon"`        // DayTag or NightTag
}

// DailyObservation is one day of the multi-day forecast
type DailyObservation struct {
	Weekday          string              `json:"weekday"`
	Condition        string              `json:"condition"`
	Description      string              `json:"description"`
	DayTemperature   int                 `json:"dayTemperature"`
	NightTemperature int                 `json:"nightTemperature"`
	TemperatureText  string              `json:"temperatureText"`
	Hourly           []HourlyObservation `json:"hourly"`
}

// SelectedCity is the snapshot taken when a user picks a city
type SelectedCity struct {
	City
	CurrentTemperature int    `json:"currentTemperature"`
	CurrentCondition   string `json:"currentCondition"`
	LocalTime          string `json:"localTime"`
}

// ForecastData bundles everything synthesized for one city at one instant
type ForecastData struct {
	Provider string              `json:"provider"`
	City     string              `json:"city"`
	Season   Season              `json:"season"`
	Current  SelectedCity        `json:"current"`
	Hourly   []HourlyObservation `json:"hourly"`
	Daily    []DailyObservation  `json:"daily"`
	Updated  time.Time           `json:"updated"`
}
