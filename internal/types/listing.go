package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Image struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Geometry is a GeoJSON point, coordinates are [lon, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func DefaultGeometry() Geometry {
	return Geometry{Type: "Point", Coordinates: [2]float64{0, 0}}
}

type ListingOverview struct {
	Inclusions  []string `json:"inclusions"`
	Themes      []string `json:"themes"`
	Description string   `json:"description"`
}

type ListingDay struct {
	Day   int    `json:"day"`
	Hotel string `json:"hotel"`
	Plan  string `json:"plan"`
	Meal  string `json:"meal"`
}

type Listing struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Image       *Image          `json:"image,omitempty"`
	Gallery     []Image         `json:"gallery"`
	Price       float64         `json:"price"`
	Location    string          `json:"location"`
	Country     string          `json:"country"`
	Geometry    Geometry        `json:"geometry"`
	Overview    ListingOverview `json:"overview"`
	Itinerary   []ListingDay    `json:"itinerary"`
	Inclusions  []string        `json:"inclusions"`
	Exclusions  []string        `json:"exclusions"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Owner       *UserAuth       `json:"owner,omitempty"`
	AvgRating   float64         `json:"avgRating"`
	Reviews     []Review        `json:"reviews,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// StringList accepts either a JSON string or an array of strings.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*s = StringList{}
		} else {
			*s = StringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// ListingInput is the create/update form. Inclusions and exclusions arrive
// as newline separated text.
type ListingInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *Image  `json:"image,omitempty"`
	Gallery     []Image `json:"gallery,omitempty"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	Overview    struct {
		Inclusions  StringList `json:"inclusions"`
		Themes      StringList `json:"themes"`
		Description string     `json:"description"`
	} `json:"overview"`
	Itinerary  []ListingDay `json:"itinerary"`
	Inclusions string       `json:"inclusions"`
	Exclusions string       `json:"exclusions"`
}

type ListingSearch struct {
	Country  string `json:"country"`
	Location string `json:"location"`
}

// ListingResult is returned by the write endpoints.
type ListingResult struct {
	Message string   `json:"message"`
	Listing *Listing `json:"listing,omitempty"`
}
