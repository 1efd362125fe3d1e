package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
	"github.com/FACorreiaa/trippy/internal/types"
)

var ErrNoMatch = errors.New("no geocoding match")

// Geocoder turns a free-text location into a point.
type Geocoder interface {
	Forward(ctx context.Context, query string) (types.Geometry, error)
}

var _ Geocoder = (*MapboxClient)(nil)

// MapboxClient calls the Mapbox v5 forward geocoding endpoint.
type MapboxClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewMapboxClient(baseURL, token string, timeout time.Duration) *MapboxClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MapboxClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type featureCollection struct {
	Features []struct {
		Geometry types.Geometry `json:"geometry"`
	} `json:"features"`
}

// Forward returns the best match only.
func (c *MapboxClient) Forward(ctx context.Context, query string) (types.Geometry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.Geometry{}, ErrNoMatch
	}

	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.baseURL, url.PathEscape(query), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.Geometry{}, fmt.Errorf("build mapbox request: %w", err)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		metrics.Get().RecordUpstream(ctx, "mapbox", "error", time.Since(start).Seconds())
		return types.Geometry{}, fmt.Errorf("mapbox request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		metrics.Get().RecordUpstream(ctx, "mapbox", "error", time.Since(start).Seconds())
		return types.Geometry{}, fmt.Errorf("mapbox returned status %d", res.StatusCode)
	}
	metrics.Get().RecordUpstream(ctx, "mapbox", "ok", time.Since(start).Seconds())

	var fc featureCollection
	if err := json.NewDecoder(res.Body).Decode(&fc); err != nil {
		return types.Geometry{}, fmt.Errorf("decode mapbox response: %w", err)
	}
	if len(fc.Features) == 0 || fc.Features[0].Geometry.Type == "" {
		return types.Geometry{}, ErrNoMatch
	}
	return fc.Features[0].Geometry, nil
}
