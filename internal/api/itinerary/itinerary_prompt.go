package itinerary

import (
	"encoding/json"
	"fmt"

	"github.com/FACorreiaa/trippy/internal/types"
)

// BuildPrompt renders the single planning prompt sent to the model.
func BuildPrompt(place types.Place, req types.TripRequest, forecast *types.WeatherForecast) (string, error) {
	days := []types.DayForecast{}
	if forecast != nil {
		days = forecast.Forecast
	}
	forecastJSON, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("marshal forecast: %w", err)
	}

	return fmt.Sprintf(`Plan a %d-day %s trip to %s, %s with a %s budget.
The 5-day weather forecast is: %s.
Return ONLY valid JSON (no explanations). Format:
{
  "tripName": "Trip to %s",
  "overview": "A short overview of the trip.",
  "weatherSummary": "Brief weather overview (1-2 lines).",
  "days": [
    {
      "dayNumber": 1,
      "theme": "Day theme",
      "activities": [
        { "name": "Activity", "description": "Short desc" }
      ],
      "foodSuggestions": [
        { "name": "Food/Restaurant", "description": "Short desc" }
      ],
      "hotelSuggestion": {
        "name": "Hotel Name",
        "description": "Short desc"
      }
    }
  ]
}
The "days" array must contain exactly %d entries numbered 1 to %d.`,
		req.Days, req.Category, place.Name, place.Country, req.Budget,
		forecastJSON,
		place.Name,
		req.Days, req.Days,
	), nil
}
