package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
	"github.com/FACorreiaa/trippy/internal/types"
)

const (
	MsgBooked           = "Booking confirmed."
	MsgCancelled        = "Booking cancelled."
	MsgBadDate          = "Dates must be in YYYY-MM-DD format."
	MsgCheckOutOrder    = "Check-out must be after check-in."
	MsgGuestsRequired   = "At least one guest is required."
	MsgListingMissing   = "Listing you requested for does not exist."
	MsgBookingMissing   = "Booking not found."
	MsgNotYours         = "You can only manage your own bookings."
	MsgAlreadyCancelled = "Booking is already cancelled."

	dateLayout = "2006-01-02"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, in types.BookingInput) (*types.Booking, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]types.Booking, error)
	Cancel(ctx context.Context, userID, id uuid.UUID) (*types.Booking, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewBookingService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func parseStay(in types.BookingInput) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(dateLayout, strings.TrimSpace(in.CheckIn))
	if err != nil {
		return time.Time{}, time.Time{}, types.NewUserError(types.ErrValidation, MsgBadDate, err)
	}
	checkOut, err := time.Parse(dateLayout, strings.TrimSpace(in.CheckOut))
	if err != nil {
		return time.Time{}, time.Time{}, types.NewUserError(types.ErrValidation, MsgBadDate, err)
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, types.NewUserError(types.ErrValidation, MsgCheckOutOrder, nil)
	}
	return checkIn, checkOut, nil
}

// Create books a stay. The total is nights times the listing's nightly price.
func (s *ServiceImpl) Create(ctx context.Context, userID uuid.UUID, in types.BookingInput) (*types.Booking, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "Create")
	defer span.End()
	span.SetAttributes(attribute.String("listing.id", in.ListingID.String()))

	checkIn, checkOut, err := parseStay(in)
	if err != nil {
		span.SetStatus(codes.Error, "invalid dates")
		return nil, err
	}
	if in.Guests < 1 {
		span.SetStatus(codes.Error, "invalid guests")
		return nil, types.NewUserError(types.ErrValidation, MsgGuestsRequired, nil)
	}

	price, err := s.repo.ListingPrice(ctx, in.ListingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing lookup failed")
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewUserError(types.ErrNotFound, MsgListingMissing, err)
		}
		metrics.Get().RecordDBError(ctx, "listings.price")
		return nil, err
	}

	b := &types.Booking{
		ListingID: in.ListingID,
		UserID:    userID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    in.Guests,
		Status:    types.BookingStatusBooked,
	}
	b.TotalPrice = float64(b.Nights()) * price

	if err := s.repo.Create(ctx, b); err != nil {
		metrics.Get().RecordDBError(ctx, "bookings.create")
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("nights", b.Nights()), attribute.Float64("total", b.TotalPrice))
	return b, nil
}

func (s *ServiceImpl) ListMine(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "ListMine")
	defer span.End()

	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "bookings.list")
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	return bookings, nil
}

func (s *ServiceImpl) Cancel(ctx context.Context, userID, id uuid.UUID) (*types.Booking, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "Cancel")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", id.String()))

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "bookings.get")
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, err
	}
	if b == nil {
		return nil, types.NewUserError(types.ErrNotFound, MsgBookingMissing, nil)
	}
	if b.UserID != userID {
		return nil, types.NewUserError(types.ErrForbidden, MsgNotYours, nil)
	}
	if b.Status == types.BookingStatusCancelled {
		return nil, types.NewUserError(types.ErrConflict, MsgAlreadyCancelled, nil)
	}

	changed, err := s.repo.Cancel(ctx, id)
	if err != nil {
		metrics.Get().RecordDBError(ctx, "bookings.cancel")
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancel failed")
		return nil, err
	}
	if !changed {
		// lost a race with another cancel
		return nil, types.NewUserError(types.ErrConflict, MsgAlreadyCancelled, nil)
	}
	b.Status = types.BookingStatusCancelled
	s.logger.InfoContext(ctx, "Booking cancelled", slog.String("booking_id", id.String()))
	return b, nil
}
