package review

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

func NewReviewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// CreateReview godoc
// @Summary      Review a listing
// @Tags         Reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Listing ID"
// @Param        body body types.ReviewInput true "Review"
// @Success      201 {object} types.ReviewResult
// @Failure      400 {object} api.ErrorResponseDoc
// @Failure      404 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings/{id}/reviews [post]
func (h *HandlerImpl) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ReviewHandler").Start(r.Context(), "CreateReview")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateReview"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.WriteError(w, r, err, "Authentication required")
		return
	}
	listingID, err := api.ParseUUIDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err, "Invalid listing ID")
		return
	}

	var in types.ReviewInput
	if err := api.DecodeJSONBody(w, r, &in); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}

	rv, err := h.service.Create(ctx, userID, listingID, in)
	if err != nil {
		l.WarnContext(ctx, "Failed to add review", slog.String("listing_id", listingID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to add review")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, types.ReviewResult{Message: MsgAdded, Review: rv})
}

// DeleteReview godoc
// @Summary      Delete a review
// @Tags         Reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "Listing ID"
// @Param        reviewId path string true "Review ID"
// @Success      200 {object} types.ReviewResult
// @Failure      403 {object} api.ErrorResponseDoc
// @Failure      404 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings/{id}/reviews/{reviewId} [delete]
func (h *HandlerImpl) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ReviewHandler").Start(r.Context(), "DeleteReview")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteReview"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.WriteError(w, r, err, "Authentication required")
		return
	}
	listingID, err := api.ParseUUIDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err, "Invalid listing ID")
		return
	}
	reviewID, err := api.ParseUUIDParam(r, "reviewId")
	if err != nil {
		api.WriteError(w, r, err, "Invalid review ID")
		return
	}

	if err := h.service.Delete(ctx, userID, listingID, reviewID); err != nil {
		l.WarnContext(ctx, "Failed to delete review", slog.String("review_id", reviewID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to delete review")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.ReviewResult{Message: MsgDeleted})
}
