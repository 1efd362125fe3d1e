package place

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
	"github.com/FACorreiaa/trippy/internal/types"
)

type Service interface {
	FindByName(ctx context.Context, name string) (*types.Place, error)
	List(ctx context.Context) ([]types.Place, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewPlaceService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

// FindByName returns ErrNotFound when no place has that name.
func (s *ServiceImpl) FindByName(ctx context.Context, name string) (*types.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "FindByName")
	defer span.End()
	span.SetAttributes(attribute.String("name", name))

	p, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		metrics.Get().RecordDBError(ctx, "places.find_by_name")
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, err
	}
	if p == nil {
		span.SetStatus(codes.Error, "not found")
		return nil, fmt.Errorf("place %q: %w", name, types.ErrNotFound)
	}
	return p, nil
}

func (s *ServiceImpl) List(ctx context.Context) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "List")
	defer span.End()

	places, err := s.repo.List(ctx)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "places.list")
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		s.logger.ErrorContext(ctx, "Failed to list places", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}
