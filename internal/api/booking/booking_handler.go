package booking

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/internal/api"
	"github.com/FACorreiaa/trippy/internal/api/auth"
	"github.com/FACorreiaa/trippy/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewBookingHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// CreateBooking godoc
// @Summary      Book a listing
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body types.BookingInput true "Stay"
// @Success      201 {object} types.BookingResult
// @Failure      400 {object} api.ErrorResponseDoc
// @Failure      404 {object} api.ErrorResponseDoc
// @Router       /api/v1/bookings [post]
func (h *HandlerImpl) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "CreateBooking")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateBooking"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.WriteError(w, r, err, "Authentication required")
		return
	}

	var in types.BookingInput
	if err := api.DecodeJSONBody(w, r, &in); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}

	b, err := h.service.Create(ctx, userID, in)
	if err != nil {
		l.WarnContext(ctx, "Failed to create booking", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to create booking")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, types.BookingResult{Message: MsgBooked, Booking: b})
}

// ListMyBookings godoc
// @Summary      My bookings
// @Description  Newest first, each with its listing title.
// @Tags         Bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} types.Booking
// @Failure      401 {object} api.ErrorResponseDoc
// @Router       /api/v1/bookings [get]
func (h *HandlerImpl) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "ListMyBookings")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListMyBookings"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.WriteError(w, r, err, "Authentication required")
		return
	}

	bookings, err := h.service.ListMine(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list bookings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to retrieve bookings")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, bookings)
}

// CancelBooking godoc
// @Summary      Cancel a booking
// @Tags         Bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} types.BookingResult
// @Failure      403 {object} api.ErrorResponseDoc
// @Failure      404 {object} api.ErrorResponseDoc
// @Failure      409 {object} api.ErrorResponseDoc
// @Router       /api/v1/bookings/{id}/cancel [post]
func (h *HandlerImpl) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookingHandler").Start(r.Context(), "CancelBooking")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CancelBooking"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.WriteError(w, r, err, "Authentication required")
		return
	}
	id, err := api.ParseUUIDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err, "Invalid booking ID")
		return
	}

	b, err := h.service.Cancel(ctx, userID, id)
	if err != nil {
		l.WarnContext(ctx, "Failed to cancel booking", slog.String("booking_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to cancel booking")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.BookingResult{Message: MsgCancelled, Booking: b})
}
