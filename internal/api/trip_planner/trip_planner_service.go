package tripPlanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
	"github.com/FACorreiaa/trippy/internal/api/itinerary"
	"github.com/FACorreiaa/trippy/internal/api/weather"
	"github.com/FACorreiaa/trippy/internal/types"
)

const (
	MsgFieldsRequired = "All fields are required."
	MsgPlanFailed     = "Failed to generate trip plan. Please try again."
)

// PlaceFinder resolves a destination name to a known place.
type PlaceFinder interface {
	FindByName(ctx context.Context, name string) (*types.Place, error)
}

type ItineraryEnricher interface {
	Enrich(ctx context.Context, doc *types.ItineraryDocument, placeName string)
}

type Service interface {
	Plan(ctx context.Context, req types.TripRequest) (*types.TripPlan, error)
	Weather(ctx context.Context, city string) (*types.WeatherForecast, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	places    PlaceFinder
	weather   weather.Fetcher
	generator itinerary.Generator
	enricher  ItineraryEnricher
	timeout   time.Duration
	maxDays   int
	logger    *slog.Logger
}

func NewTripPlannerService(
	places PlaceFinder,
	forecasts weather.Fetcher,
	generator itinerary.Generator,
	enricher ItineraryEnricher,
	timeout time.Duration,
	maxDays int,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		places:    places,
		weather:   forecasts,
		generator: generator,
		enricher:  enricher,
		timeout:   timeout,
		maxDays:   maxDays,
		logger:    logger,
	}
}

// Plan runs validate, place lookup, weather, generation and enrichment in that
// order and stops at the first failure. Returned errors carry the message to
// show the user.
func (s *ServiceImpl) Plan(ctx context.Context, req types.TripRequest) (*types.TripPlan, error) {
	ctx, span := otel.Tracer("TripPlannerService").Start(ctx, "Plan")
	defer span.End()
	span.SetAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("days", req.Days),
		attribute.String("category", req.Category),
	)

	l := s.logger.With(slog.String("method", "Plan"), slog.String("destination", req.Destination))
	start := time.Now()

	plan, err := s.plan(ctx, req, l)
	outcome := outcomeOf(err)
	metrics.Get().RecordTripPlan(ctx, outcome, time.Since(start).Seconds())
	span.SetAttributes(attribute.String("outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	l.InfoContext(ctx, "Trip planned", slog.Duration("elapsed", time.Since(start)))
	return plan, nil
}

func (s *ServiceImpl) plan(ctx context.Context, req types.TripRequest, l *slog.Logger) (*types.TripPlan, error) {
	if err := s.validate(req); err != nil {
		l.DebugContext(ctx, "Rejected trip request", slog.Any("error", err))
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	place, err := s.places.FindByName(ctx, strings.TrimSpace(req.Destination))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewUserError(types.ErrNotFound,
				fmt.Sprintf("Sorry, we don't have data for \"%s\".", req.Destination), err)
		}
		l.ErrorContext(ctx, "Place lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("place lookup: %w", err)
	}

	forecast, err := s.weather.GetWeather(ctx, place.CityName())
	if err != nil {
		return nil, err
	}

	doc, err := s.generator.Generate(ctx, *place, req, forecast)
	if err != nil {
		return nil, err
	}

	s.enricher.Enrich(ctx, doc, place.Name)

	return &types.TripPlan{
		Place:         *place,
		ItineraryData: doc,
		WeatherData:   forecast,
	}, nil
}

func (s *ServiceImpl) validate(req types.TripRequest) error {
	if strings.TrimSpace(req.Destination) == "" ||
		strings.TrimSpace(req.Budget) == "" ||
		strings.TrimSpace(req.Category) == "" ||
		req.Days <= 0 {
		return types.NewUserError(types.ErrValidation, MsgFieldsRequired, nil)
	}
	if s.maxDays > 0 && req.Days > s.maxDays {
		return types.NewUserError(types.ErrValidation,
			fmt.Sprintf("Trips can be planned for at most %d days.", s.maxDays), nil)
	}
	return nil
}

// Weather serves the standalone forecast endpoint. Only the part of city
// before the first comma is used.
func (s *ServiceImpl) Weather(ctx context.Context, city string) (*types.WeatherForecast, error) {
	ctx, span := otel.Tracer("TripPlannerService").Start(ctx, "Weather")
	defer span.End()

	name, _, _ := strings.Cut(city, ",")
	return s.weather.GetWeather(ctx, strings.TrimSpace(name))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrValidation):
		return "invalid"
	case errors.Is(err, types.ErrNotFound):
		return "unknown_place"
	case errors.Is(err, types.ErrParse):
		return "parse_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, types.ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}
