package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
	"github.com/FACorreiaa/trippy/internal/api/geocoding"
	"github.com/FACorreiaa/trippy/internal/types"
)

const (
	MsgNotFound     = "Listing you requested for does not exist."
	MsgCreated      = "New Listing Created Successfully."
	MsgUpdated      = "Listing Updated Successfully."
	MsgDeleted      = "Listing Deleted Successfully."
	MsgNotOwner     = "You are not the owner of this listing."
	MsgMissingField = "Listing title, location and country are required."
	MsgBadPrice     = "Price must be zero or more."

	defaultMeal = "not-included"
)

type Service interface {
	List(ctx context.Context) ([]types.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Listing, error)
	Search(ctx context.Context, filter types.ListingSearch) ([]types.Listing, error)
	ByPlace(ctx context.Context, place string) ([]types.Listing, error)
	Create(ctx context.Context, ownerID uuid.UUID, in types.ListingInput) (*types.Listing, error)
	Update(ctx context.Context, userID, id uuid.UUID, in types.ListingInput) (*types.Listing, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger   *slog.Logger
	repo     Repository
	geocoder geocoding.Geocoder
}

func NewListingService(repo Repository, geocoder geocoding.Geocoder, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		geocoder: geocoder,
	}
}

func (s *ServiceImpl) List(ctx context.Context) ([]types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "List")
	defer span.End()

	listings, err := s.repo.List(ctx)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "listings.list")
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	return listings, nil
}

// Get returns the listing with its reviews and owner.
func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (*types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", id.String()))

	l, err := s.find(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, err
	}

	reviews, err := s.repo.ListReviews(ctx, id)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "reviews.list")
		span.RecordError(err)
		span.SetStatus(codes.Error, "reviews lookup failed")
		return nil, err
	}
	l.Reviews = reviews
	return l, nil
}

func (s *ServiceImpl) find(ctx context.Context, id uuid.UUID) (*types.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "listings.get")
		return nil, err
	}
	if l == nil {
		return nil, types.NewUserError(types.ErrNotFound, MsgNotFound, nil)
	}
	return l, nil
}

func (s *ServiceImpl) Search(ctx context.Context, filter types.ListingSearch) ([]types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("country", filter.Country),
		attribute.String("location", filter.Location),
	)

	listings, err := s.repo.Search(ctx, filter)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "listings.search")
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, err
	}
	return listings, nil
}

// ByPlace returns listings whose location contains place. No match is ErrNotFound.
func (s *ServiceImpl) ByPlace(ctx context.Context, place string) ([]types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "ByPlace")
	defer span.End()
	span.SetAttributes(attribute.String("place", place))

	listings, err := s.repo.Search(ctx, types.ListingSearch{Location: place})
	if err != nil {
		metrics.Get().RecordDBError(ctx, "listings.by_place")
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, err
	}
	if len(listings) == 0 {
		return nil, types.NewUserError(types.ErrNotFound, fmt.Sprintf("No listings found for %s", place), nil)
	}
	return listings, nil
}

func (s *ServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, in types.ListingInput) (*types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "Create")
	defer span.End()

	if err := validate(in); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	l := normalize(in)
	l.OwnerID = ownerID
	l.Image = in.Image
	l.Gallery = append([]types.Image{}, in.Gallery...)
	l.Geometry = s.geocode(ctx, l.Location)

	if err := s.repo.Create(ctx, &l); err != nil {
		metrics.Get().RecordDBError(ctx, "listings.create")
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("listing.id", l.ID.String()))
	return &l, nil
}

// geocode falls back to Point [0,0] when the location cannot be resolved.
func (s *ServiceImpl) geocode(ctx context.Context, location string) types.Geometry {
	if s.geocoder == nil {
		return types.DefaultGeometry()
	}
	g, err := s.geocoder.Forward(ctx, location)
	if err != nil {
		s.logger.WarnContext(ctx, "Geocoding failed, using default point",
			slog.String("location", location), slog.Any("error", err))
		return types.DefaultGeometry()
	}
	return g
}

// Update applies in to a listing owned by userID. Geometry is not recomputed
// and new gallery images are appended to the existing ones.
func (s *ServiceImpl) Update(ctx context.Context, userID, id uuid.UUID, in types.ListingInput) (*types.Listing, error) {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "Update")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", id.String()))

	if err := validate(in); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ownership check failed")
		return nil, err
	}

	l := normalize(in)
	l.ID = existing.ID
	l.OwnerID = existing.OwnerID
	l.Owner = existing.Owner
	l.Geometry = existing.Geometry
	l.CreatedAt = existing.CreatedAt
	l.AvgRating = existing.AvgRating
	l.Image = existing.Image
	if in.Image != nil {
		l.Image = in.Image
	}
	l.Gallery = append(append([]types.Image{}, existing.Gallery...), in.Gallery...)

	if err := s.repo.Update(ctx, &l); err != nil {
		metrics.Get().RecordDBError(ctx, "listings.update")
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	return &l, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, span := otel.Tracer("ListingService").Start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", id.String()))

	if _, err := s.owned(ctx, userID, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ownership check failed")
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.Get().RecordDBError(ctx, "listings.delete")
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	s.logger.InfoContext(ctx, "Listing deleted", slog.String("listing_id", id.String()))
	return nil
}

func (s *ServiceImpl) owned(ctx context.Context, userID, id uuid.UUID) (*types.Listing, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != userID {
		return nil, types.NewUserError(types.ErrForbidden, MsgNotOwner, nil)
	}
	return l, nil
}

func validate(in types.ListingInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Location) == "" || strings.TrimSpace(in.Country) == "" {
		return types.NewUserError(types.ErrValidation, MsgMissingField, nil)
	}
	if in.Price < 0 {
		return types.NewUserError(types.ErrValidation, MsgBadPrice, nil)
	}
	return nil
}

// normalize converts form input into a listing without images, owner or geometry.
func normalize(in types.ListingInput) types.Listing {
	l := types.Listing{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		Location:    strings.TrimSpace(in.Location),
		Country:     strings.TrimSpace(in.Country),
		Overview: types.ListingOverview{
			Inclusions:  nonNil(in.Overview.Inclusions),
			Themes:      nonNil(in.Overview.Themes),
			Description: in.Overview.Description,
		},
		Itinerary:  make([]types.ListingDay, 0, len(in.Itinerary)),
		Inclusions: splitLines(in.Inclusions),
		Exclusions: splitLines(in.Exclusions),
	}
	for i, day := range in.Itinerary {
		meal := day.Meal
		if meal == "" {
			meal = defaultMeal
		}
		l.Itinerary = append(l.Itinerary, types.ListingDay{
			Day:   i + 1,
			Hotel: day.Hotel,
			Plan:  day.Plan,
			Meal:  meal,
		})
	}
	return l
}

func nonNil(list types.StringList) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// splitLines splits newline separated text, trimming entries and dropping blanks.
func splitLines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
