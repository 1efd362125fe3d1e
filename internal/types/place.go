package types

import (
	"strings"

	"github.com/google/uuid"
)

// Place is a destination the trip planner knows about. Read-only reference data.
type Place struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
}

// CityName is the primary segment of the place name, e.g. "Paris" for
// "Paris, Île-de-France".
func (p Place) CityName() string {
	name, _, _ := strings.Cut(p.Name, ",")
	return strings.TrimSpace(name)
}
