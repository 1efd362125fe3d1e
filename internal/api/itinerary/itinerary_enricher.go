package itinerary

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/trippy/internal/api/photos"
	"github.com/FACorreiaa/trippy/internal/types"
)

const defaultConcurrency = 4

// Enricher attaches photos to every item of an itinerary.
type Enricher struct {
	resolver    photos.Resolver
	concurrency int
	logger      *slog.Logger
}

func NewEnricher(resolver photos.Resolver, concurrency int, logger *slog.Logger) *Enricher {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Enricher{resolver: resolver, concurrency: concurrency, logger: logger}
}

// Enrich walks the days in order. Within a day the activity and food lookups
// run concurrently, at most e.concurrency at a time; the hotel photo is looked
// up once they settle. Photos that cannot be found stay nil.
func (e *Enricher) Enrich(ctx context.Context, doc *types.ItineraryDocument, placeName string) {
	if doc == nil {
		return
	}
	ctx, span := otel.Tracer("ItineraryEnricher").Start(ctx, "Enrich")
	defer span.End()
	span.SetAttributes(attribute.Int("days", len(doc.Days)))

	for i := range doc.Days {
		if ctx.Err() != nil {
			e.logger.WarnContext(ctx, "Enrichment stopped", slog.Any("error", ctx.Err()))
			return
		}
		day := &doc.Days[i]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.concurrency)
		for _, items := range [][]types.Activity{day.Activities, day.FoodSuggestions} {
			for j := range items {
				item := &items[j]
				g.Go(func() error {
					item.Photo = e.resolver.GetPhotoURL(gctx, item.Name+" "+placeName)
					return nil
				})
			}
		}
		_ = g.Wait()

		if day.HotelSuggestion != nil && day.HotelSuggestion.Name != "" {
			day.HotelSuggestion.Photo = e.resolver.GetPhotoURL(ctx, day.HotelSuggestion.Name+" "+placeName)
		}
	}
}
