package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/internal/types"
)

const MsgInvalidJSON = "Gemini returned invalid JSON. Please try again."

// TextGenerator is a prompt-in, text-out language model.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, place types.Place, req types.TripRequest, forecast *types.WeatherForecast) (*types.ItineraryDocument, error)
}

var _ Generator = (*GeneratorImpl)(nil)

type GeneratorImpl struct {
	model  TextGenerator
	logger *slog.Logger
}

func NewGenerator(model TextGenerator, logger *slog.Logger) *GeneratorImpl {
	return &GeneratorImpl{model: model, logger: logger}
}

// Generate prompts the model once. There is no retry on malformed output.
func (g *GeneratorImpl) Generate(ctx context.Context, place types.Place, req types.TripRequest, forecast *types.WeatherForecast) (*types.ItineraryDocument, error) {
	ctx, span := otel.Tracer("ItineraryGenerator").Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("place", place.Name),
		attribute.Int("days", req.Days),
	)

	l := g.logger.With(slog.String("component", "ItineraryGenerator"), slog.String("place", place.Name))

	prompt, err := BuildPrompt(place, req, forecast)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	text, err := g.model.GenerateContent(ctx, prompt)
	if err != nil {
		l.ErrorContext(ctx, "Model call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, fmt.Errorf("%w: %w", types.ErrUpstream, err)
	}

	doc, err := ParseItinerary(text, req.Days)
	if err != nil {
		l.WarnContext(ctx, "Model response rejected",
			slog.Any("error", err),
			slog.Int("response_length", len(text)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid model response")
		if errors.Is(err, types.ErrParse) {
			return nil, types.NewUserError(types.ErrParse, MsgInvalidJSON, err)
		}
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	l.InfoContext(ctx, "Itinerary generated", slog.Int("days", len(doc.Days)))
	return doc, nil
}
