package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
)

// Unsplash searches api.unsplash.com and returns the first hit's small URL.
type Unsplash struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

func NewUnsplash(baseURL, accessKey string, timeout time.Duration) *Unsplash {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Unsplash{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (u *Unsplash) Name() string { return "unsplash" }

type unsplashSearch struct {
	Results []struct {
		URLs struct {
			Small string `json:"small"`
		} `json:"urls"`
	} `json:"results"`
}

func (u *Unsplash) Search(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	start := time.Now()
	res, err := u.httpClient.Do(req)
	if err != nil {
		metrics.Get().RecordUpstream(ctx, u.Name(), "error", time.Since(start).Seconds())
		return "", fmt.Errorf("unsplash request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		metrics.Get().RecordUpstream(ctx, u.Name(), "error", time.Since(start).Seconds())
		return "", &StatusError{Provider: u.Name(), Code: res.StatusCode}
	}
	metrics.Get().RecordUpstream(ctx, u.Name(), "ok", time.Since(start).Seconds())

	var body unsplashSearch
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode unsplash response: %w", err)
	}
	if len(body.Results) == 0 || body.Results[0].URLs.Small == "" {
		return "", ErrNoPhoto
	}
	return body.Results[0].URLs.Small, nil
}
