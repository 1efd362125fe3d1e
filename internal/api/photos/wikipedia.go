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

const userAgent = "trippy/1.0 (trip planner)"

// Wikipedia reads the page-summary thumbnail for a title.
type Wikipedia struct {
	baseURL    string
	httpClient *http.Client
}

func NewWikipedia(baseURL string, timeout time.Duration) *Wikipedia {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Wikipedia{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (wp *Wikipedia) Name() string { return "wikipedia" }

type pageSummary struct {
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

func (wp *Wikipedia) Search(ctx context.Context, query string) (string, error) {
	endpoint := wp.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build wikipedia request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := wp.httpClient.Do(req)
	if err != nil {
		metrics.Get().RecordUpstream(ctx, wp.Name(), "error", time.Since(start).Seconds())
		return "", fmt.Errorf("wikipedia request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		metrics.Get().RecordUpstream(ctx, wp.Name(), "not_found", time.Since(start).Seconds())
		return "", &StatusError{Provider: wp.Name(), Code: res.StatusCode}
	case res.StatusCode != http.StatusOK:
		metrics.Get().RecordUpstream(ctx, wp.Name(), "error", time.Since(start).Seconds())
		return "", &StatusError{Provider: wp.Name(), Code: res.StatusCode}
	}
	metrics.Get().RecordUpstream(ctx, wp.Name(), "ok", time.Since(start).Seconds())

	var body pageSummary
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode wikipedia response: %w", err)
	}
	if body.Thumbnail == nil || body.Thumbnail.Source == "" {
		return "", ErrNoPhoto
	}
	return body.Thumbnail.Source, nil
}
