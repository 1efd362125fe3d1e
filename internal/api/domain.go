package api

import "github.com/FACorreiaa/trippy/internal/types"

// Models below only document response shapes for swag. Handlers build the
// same JSON through ErrorResponse and WriteJSONResponse.

// ErrorResponseDoc is the body written by ErrorResponse.
type ErrorResponseDoc struct {
	Success   bool   `json:"success" example:"false"`                                    // Always false.
	Error     string `json:"error" example:"Listing you requested for does not exist."` // User facing message.
	RequestID string `json:"request_id" example:"host/abc123-000001"`                   // chi request id.
}

// WeatherResponseDoc is returned by GET /ai/weather.
type WeatherResponseDoc struct {
	Forecast []types.DayForecast `json:"forecast"`
}

// WeatherErrorDoc is the weather endpoint's error body. It does not use the
// standard envelope so the page script can read it directly.
type WeatherErrorDoc struct {
	Error string `json:"error" example:"City not provided."`
}

// PingResponse is the liveness probe body.
type PingResponse struct {
	Status string `json:"status" example:"ok"`
}
