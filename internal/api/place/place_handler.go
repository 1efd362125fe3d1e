package place

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/internal/api"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewPlaceHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// ListPlaces godoc
// @Summary      List places
// @Description  Every destination the trip planner can plan for, sorted by name.
// @Tags         Places
// @Produce      json
// @Success      200 {array} types.Place
// @Failure      500 {object} api.ErrorResponseDoc
// @Router       /api/v1/places [get]
func (h *HandlerImpl) ListPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "ListPlaces")
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListPlaces"))

	places, err := h.service.List(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to retrieve places", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve places")
		return
	}

	l.DebugContext(ctx, "Returning places", slog.Int("count", len(places)))
	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusOK, places)
}
