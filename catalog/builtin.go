package catalog

import "weatherapp/models"

func seasons(winter, spring, summer, fall models.SeasonalRange) [models.NumSeasons]models.SeasonalRange {
	var out [models.NumSeasons]models.SeasonalRange
	out[models.Winter] = winter
	out[models.Spring] = spring
	out[models.Summer] = summer
	out[models.Fall] = fall
	return out
}

func r(minTemp, maxTemp, minHum, maxHum int) models.SeasonalRange {
	return models.SeasonalRange{
		MinTemp:     minTemp,
		MaxTemp:     maxTemp,
		MinHumidity: minHum,
		MaxHumidity: maxHum,
		Set:         true,
	}
}

// BuiltinCities returns the default city set
func BuiltinCities() []models.City {
	return []models.City{
		{
			Name:     "New York",
			Region:   "New York",
			Country:  "USA",
			Timezone: "America/New_York",
			Ranges: seasons(
				r(-2, 4, 65, 75),
				r(10, 18, 60, 70),
				r(22, 30, 65, 75),
				r(12, 20, 65, 75),
			),
			Conditions: []string{"sunny", "rainy", "cloudy"},
		},
		{
			Name:     "London",
			Region:   "England",
			Country:  "UK",
			Timezone: "Europe/London",
			Ranges: seasons(
				r(2, 8, 80, 90),
				r(8, 15, 70, 80),
				r(15, 23, 65, 75),
				r(10, 17, 75, 85),
			),
			Conditions: []string{"cloudy", "rainy", "sunnyCloudy"},
		},
		{
			Name:     "Tokyo",
			Country:  "Japan",
			Timezone: "Asia/Tokyo",
			Ranges: seasons(
				r(4, 12, 50, 60),
				r(14, 22, 65, 75),
				r(24, 31, 75, 85),
				r(16, 24, 70, 80),
			),
			Conditions: []string{"sunny", "rainy", "cloudy"},
		},
	}
}

// Default builds the catalog from BuiltinCities
func Default() *Catalog {
	c, err := New(BuiltinCities())
	if err != nil {
		panic(err)
	}
	return c
}
