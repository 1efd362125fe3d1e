package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/trippy/internal/types"
)

// ExtractJSON returns the span from the first '{' to the last '}' in text.
// Models tend to wrap JSON in prose or code fences.
func ExtractJSON(text string) (string, error) {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last <= first {
		return "", fmt.Errorf("%w: no JSON object in model response", types.ErrParse)
	}
	return text[first : last+1], nil
}

// ParseItinerary extracts, decodes and validates a model response.
func ParseItinerary(text string, days int) (*types.ItineraryDocument, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var doc types.ItineraryDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParse, err)
	}
	if err := doc.Validate(days); err != nil {
		return nil, err
	}
	return &doc, nil
}
