package listing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/internal/api"
	"github.com/FACorreiaa/trippy/internal/api/auth"
	"github.com/FACorreiaa/trippy/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewListingHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// ListListings godoc
// @Summary      List listings
// @Description  Every listing with its average review rating.
// @Tags         Listings
// @Produce      json
// @Success      200 {array} types.Listing
// @Failure      500 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings [get]
func (h *HandlerImpl) ListListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "ListListings")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListListings"))

	listings, err := h.service.List(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list listings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve listings")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, listings)
}

// GetListing godoc
// @Summary      Show a listing
// @Tags         Listings
// @Produce      json
// @Param        id path string true "Listing ID"
// @Success      200 {object} types.Listing
// @Failure      400 {object} api.ErrorResponseDoc
// @Failure      404 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings/{id} [get]
func (h *HandlerImpl) GetListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "GetListing")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetListing"))

	id, err := api.ParseUUIDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err, "Invalid listing ID")
		return
	}
	span.SetAttributes(attribute.String("listing.id", id.String()))

	listing, err := h.service.Get(ctx, id)
	if err != nil {
		l.WarnContext(ctx, "Failed to get listing", slog.String("listing_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to retrieve listing")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, listing)
}

// CreateListing godoc
// @Summary      Create a listing
// @Description  Location is geocoded; inclusions and exclusions are newline separated.
// @Tags         Listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body types.ListingInput true "Listing"
// @Success      201 {object} types.ListingResult
// @Failure      400 {object} api.ErrorResponseDoc
// @Failure      401 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings [post]
func (h *HandlerImpl) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "CreateListing")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateListing"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.WriteError(w, r, err, "Authentication required")
		return
	}

	var in types.ListingInput
	if err := api.DecodeJSONBody(w, r, &in); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}

	listing, err := h.service.Create(ctx, userID, in)
	if err != nil {
		l.WarnContext(ctx, "Failed to create listing", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to create listing")
		return
	}
	l.InfoContext(ctx, "Listing created", slog.String("listing_id", listing.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, types.ListingResult{Message: MsgCreated, Listing: listing})
}

// UpdateListing godoc
// @Summary      Update a listing
// @Tags         Listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Listing ID"
// @Param        body body types.ListingInput true "Listing"
// @Success      200 {object} types.ListingResult
// @Failure      400 {object} api.ErrorResponseDoc
// @Failure      403 {object} api.ErrorResponseDoc
// @Failure      404 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings/{id} [put]
func (h *HandlerImpl) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "UpdateListing")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateListing"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.WriteError(w, r, err, "Authentication required")
		return
	}
	id, err := api.ParseUUIDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err, "Invalid listing ID")
		return
	}

	var in types.ListingInput
	if err := api.DecodeJSONBody(w, r, &in); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}

	listing, err := h.service.Update(ctx, userID, id, in)
	if err != nil {
		l.WarnContext(ctx, "Failed to update listing", slog.String("listing_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to update listing")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.ListingResult{Message: MsgUpdated, Listing: listing})
}

// DeleteListing godoc
// @Summary      Delete a listing
// @Tags         Listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200 {object} types.ListingResult
// @Failure      403 {object} api.ErrorResponseDoc
// @Failure      404 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings/{id} [delete]
func (h *HandlerImpl) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "DeleteListing")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteListing"))

	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		api.WriteError(w, r, err, "Authentication required")
		return
	}
	id, err := api.ParseUUIDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err, "Invalid listing ID")
		return
	}

	if err := h.service.Delete(ctx, userID, id); err != nil {
		l.WarnContext(ctx, "Failed to delete listing", slog.String("listing_id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to delete listing")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.ListingResult{Message: MsgDeleted})
}

// SearchListings godoc
// @Summary      Search listings
// @Description  Country matches exactly, location matches as a case-insensitive substring.
// @Tags         Listings
// @Accept       json
// @Produce      json
// @Param        body body types.ListingSearch true "Filter"
// @Success      200 {array} types.Listing
// @Failure      400 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings/search [post]
func (h *HandlerImpl) SearchListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "SearchListings")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SearchListings"))

	var filter types.ListingSearch
	if err := api.DecodeJSONBody(w, r, &filter); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}

	listings, err := h.service.Search(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Search failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to search listings")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, listings)
}

// ListingsByPlace godoc
// @Summary      Listings at a place
// @Tags         Listings
// @Produce      json
// @Param        place path string true "Place name"
// @Success      200 {array} types.Listing
// @Failure      404 {object} api.ErrorResponseDoc
// @Router       /api/v1/listings/place/{place} [get]
func (h *HandlerImpl) ListingsByPlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListingHandler").Start(r.Context(), "ListingsByPlace")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListingsByPlace"))

	place := chi.URLParam(r, "place")
	listings, err := h.service.ByPlace(ctx, place)
	if err != nil {
		l.InfoContext(ctx, "No listings for place", slog.String("place", place), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.WriteError(w, r, err, "Failed to retrieve listings")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, listings)
}
