package photos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
)

// ErrNoPhoto means the provider answered but had nothing for the query.
var ErrNoPhoto = errors.New("no photo found")

// Source is one photo provider.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) (string, error)
}

// Resolver looks up a representative photo URL for a free-text query.
type Resolver interface {
	GetPhotoURL(ctx context.Context, query string) *string
}

// StatusError carries a non-2xx provider response.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.Code)
}

var _ Resolver = (*FallbackResolver)(nil)

// FallbackResolver asks the primary source first and the fallback second.
// It never fails; a nil result means neither source had a photo.
type FallbackResolver struct {
	primary  Source
	fallback Source
	logger   *slog.Logger
}

func NewFallbackResolver(primary, fallback Source, logger *slog.Logger) *FallbackResolver {
	return &FallbackResolver{primary: primary, fallback: fallback, logger: logger}
}

func (r *FallbackResolver) GetPhotoURL(ctx context.Context, query string) *string {
	ctx, span := otel.Tracer("PhotoResolver").Start(ctx, "GetPhotoURL")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	if url, ok := r.try(ctx, r.primary, query, false); ok {
		span.SetAttributes(attribute.String("photo.source", r.primary.Name()))
		return &url
	}
	if url, ok := r.try(ctx, r.fallback, query, true); ok {
		span.SetAttributes(attribute.String("photo.source", r.fallback.Name()))
		return &url
	}

	metrics.Get().RecordPhotoLookup(ctx, "none")
	return nil
}

// try runs one source. Failures are logged and absorbed. A not-found answer
// from the fallback is expected and stays quiet.
func (r *FallbackResolver) try(ctx context.Context, src Source, query string, isFallback bool) (string, bool) {
	if src == nil {
		return "", false
	}
	url, err := src.Search(ctx, query)
	if err == nil && url != "" {
		metrics.Get().RecordPhotoLookup(ctx, src.Name())
		return url, true
	}
	if err == nil || errors.Is(err, ErrNoPhoto) {
		return "", false
	}

	var se *StatusError
	if isFallback && errors.As(err, &se) && se.Code == http.StatusNotFound {
		return "", false
	}
	r.logger.WarnContext(ctx, "Photo lookup failed",
		slog.String("source", src.Name()),
		slog.String("query", query),
		slog.Any("error", err))
	return "", false
}
