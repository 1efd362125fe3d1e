package types

// HourlyForecast is one 3-hour sample of the first forecast day.
type HourlyForecast struct {
	Time        string  `json:"time"`
	Temp        float64 `json:"temp"`
	IconCode    string  `json:"icon"`
	Description string  `json:"desc"`
}

// DayForecast aggregates every sample that falls on Date.
type DayForecast struct {
	Date        string           `json:"date"`
	AvgTemp     float64          `json:"temp"`
	Description string           `json:"desc"`
	IconCode    string           `json:"icon"`
	Humidity    int              `json:"humidity"`
	WindSpeed   int              `json:"wind"`
	Hourly      []HourlyForecast `json:"hourly"`
}

// WeatherForecast holds at most MaxForecastDays days; only the first day
// carries hourly samples (at most MaxHourlySamples).
type WeatherForecast struct {
	City     string        `json:"city"`
	Forecast []DayForecast `json:"forecast"`
}

const (
	MaxForecastDays  = 5
	MaxHourlySamples = 8
)
