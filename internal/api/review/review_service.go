package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
	"github.com/FACorreiaa/trippy/internal/types"
)

const (
	MsgAdded          = "Review is Added."
	MsgDeleted        = "Review is Deleted."
	MsgBadRating      = "Rating must be between 1 and 5."
	MsgListingMissing = "Listing you requested for does not exist."
	MsgReviewMissing  = "Review not found."
	MsgNotAuthor      = "You are not the author of this review."
)

type Service interface {
	Create(ctx context.Context, authorID, listingID uuid.UUID, in types.ReviewInput) (*types.Review, error)
	Delete(ctx context.Context, userID, listingID, reviewID uuid.UUID) error
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewReviewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, authorID, listingID uuid.UUID, in types.ReviewInput) (*types.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "Create")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", listingID.String()), attribute.Int("rating", in.Rating))

	if in.Rating < 1 || in.Rating > 5 {
		span.SetStatus(codes.Error, "invalid rating")
		return nil, types.NewUserError(types.ErrValidation, MsgBadRating, nil)
	}

	exists, err := s.repo.ListingExists(ctx, listingID)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "listings.exists")
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing lookup failed")
		return nil, err
	}
	if !exists {
		span.SetStatus(codes.Error, "listing not found")
		return nil, types.NewUserError(types.ErrNotFound, MsgListingMissing, nil)
	}

	rv := &types.Review{
		ListingID: listingID,
		AuthorID:  authorID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		metrics.Get().RecordDBError(ctx, "reviews.create")
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, err
	}
	return rv, nil
}

// Delete removes a review on listingID. Only its author may delete it.
func (s *ServiceImpl) Delete(ctx context.Context, userID, listingID, reviewID uuid.UUID) error {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.String("review.id", reviewID.String()))

	rv, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "reviews.get")
		span.RecordError(err)
		span.SetStatus(codes.Error, "review lookup failed")
		return err
	}
	if rv == nil || rv.ListingID != listingID {
		span.SetStatus(codes.Error, "review not found")
		return types.NewUserError(types.ErrNotFound, MsgReviewMissing, nil)
	}
	if rv.AuthorID != userID {
		span.SetStatus(codes.Error, "not author")
		return types.NewUserError(types.ErrForbidden, MsgNotAuthor, nil)
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		metrics.Get().RecordDBError(ctx, "reviews.delete")
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	return nil
}
