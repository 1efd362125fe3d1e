package types

import (
	"fmt"
	"strings"
)

type Activity struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Photo       *string `json:"photo"`
}

type DayPlan struct {
	DayNumber       int        `json:"dayNumber"`
	Theme           string     `json:"theme"`
	Activities      []Activity `json:"activities"`
	FoodSuggestions []Activity `json:"foodSuggestions"`
	HotelSuggestion *Activity  `json:"hotelSuggestion,omitempty"`
}

// ItineraryDocument is the trip plan produced by the language model.
// It is request-scoped and never persisted.
type ItineraryDocument struct {
	TripName       string    `json:"tripName"`
	Overview       string    `json:"overview"`
	WeatherSummary string    `json:"weatherSummary"`
	Days           []DayPlan `json:"days"`
}

// Validate checks the shape of an untrusted model response against the
// number of days that was asked for. Days are renumbered 1..N in the order
// the model listed them.
func (d *ItineraryDocument) Validate(days int) error {
	if strings.TrimSpace(d.TripName) == "" {
		return fmt.Errorf("%w: tripName is empty", ErrParse)
	}
	if len(d.Days) == 0 {
		return fmt.Errorf("%w: no days in itinerary", ErrParse)
	}
	if days > 0 && len(d.Days) != days {
		return fmt.Errorf("%w: expected %d days, got %d", ErrParse, days, len(d.Days))
	}
	for i := range d.Days {
		d.Days[i].DayNumber = i + 1
		day := d.Days[i]
		for _, a := range day.Activities {
			if strings.TrimSpace(a.Name) == "" {
				return fmt.Errorf("%w: day %d has an unnamed activity", ErrParse, day.DayNumber)
			}
		}
		for _, f := range day.FoodSuggestions {
			if strings.TrimSpace(f.Name) == "" {
				return fmt.Errorf("%w: day %d has an unnamed food suggestion", ErrParse, day.DayNumber)
			}
		}
	}
	return nil
}

// TripRequest is the trip-planner form.
type TripRequest struct {
	Destination string `json:"destination"`
	Budget      string `json:"budget"`
	Days        int    `json:"days"`
	Category    string `json:"category"`
}

// TripPlan is everything the result page needs.
type TripPlan struct {
	Place         Place              `json:"place"`
	ItineraryData *ItineraryDocument `json:"itineraryData"`
	WeatherData   *WeatherForecast   `json:"weatherData"`
}
