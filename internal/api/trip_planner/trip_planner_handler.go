package tripPlanner

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/trippy/internal/api"
	"github.com/FACorreiaa/trippy/internal/api/flash"
	"github.com/FACorreiaa/trippy/internal/types"
)

const plannerPath = "/ai"

type HandlerImpl struct {
	service Service
	flash   *flash.Store
	logger  *slog.Logger
}

func NewTripPlannerHandler(service Service, flashStore *flash.Store, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		flash:   flashStore,
		logger:  logger,
	}
}

// PlannerPage is the trip planner form document.
type PlannerPage struct {
	Flash  flash.Message `json:"flash"`
	Fields []string      `json:"fields"`
	Action string        `json:"action"`
}

// tripForm accepts days as either a JSON number or a string.
type tripForm struct {
	Destination string      `json:"destination"`
	Budget      string      `json:"budget"`
	Days        json.Number `json:"days"`
	Category    string      `json:"category"`
}

// ShowPlanner godoc
// @Summary      Trip planner form
// @Description  Returns the planner form description and any pending notice from a previous attempt.
// @Tags         TripPlanner
// @Produce      json
// @Success      200 {object} PlannerPage
// @Router       /ai [get]
func (h *HandlerImpl) ShowPlanner(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("TripPlannerHandler").Start(r.Context(), "ShowPlanner")
	defer span.End()

	api.WriteJSONResponse(w, r, http.StatusOK, PlannerPage{
		Flash:  h.flash.Pop(r),
		Fields: []string{"destination", "budget", "days", "category"},
		Action: plannerPath + "/generate-trip",
	})
}

// GenerateTrip godoc
// @Summary      Generate a trip plan
// @Description  Plans a trip for a known destination. Failures redirect back to the planner with a notice.
// @Tags         TripPlanner
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        destination formData string true "Destination name"
// @Param        budget      formData string true "Budget"
// @Param        days        formData int    true "Number of days"
// @Param        category    formData string true "Trip category"
// @Success      200 {object} types.TripPlan
// @Success      303 "Redirect to /ai with a notice"
// @Failure      429 {object} api.ErrorResponseDoc
// @Router       /ai/generate-trip [post]
func (h *HandlerImpl) GenerateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripPlannerHandler").Start(r.Context(), "GenerateTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(plannerPath+"/generate-trip"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateTrip"))

	req, err := h.readRequest(w, r)
	if err != nil {
		l.WarnContext(ctx, "Unreadable trip request", slog.Any("error", err))
		h.fail(w, r, MsgFieldsRequired)
		return
	}
	span.SetAttributes(attribute.String("destination", req.Destination))

	plan, err := h.service.Plan(ctx, req)
	if err != nil {
		l.WarnContext(ctx, "Trip plan failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan failed")
		h.fail(w, r, types.UserMessage(err, MsgPlanFailed))
		return
	}

	span.SetStatus(codes.Ok, "")
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

// GetWeather godoc
// @Summary      Five day forecast
// @Tags         TripPlanner
// @Produce      json
// @Param        city query string true "City, anything after the first comma is ignored"
// @Success      200 {object} api.WeatherResponseDoc
// @Failure      400 {object} api.WeatherErrorDoc
// @Router       /ai/weather [get]
func (h *HandlerImpl) GetWeather(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripPlannerHandler").Start(r.Context(), "GetWeather")
	defer span.End()

	forecast, err := h.service.Weather(ctx, r.URL.Query().Get("city"))
	if err != nil {
		h.logger.WarnContext(ctx, "Weather lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "weather failed")
		api.WriteJSONResponse(w, r, http.StatusBadRequest, api.WeatherErrorDoc{
			Error: types.UserMessage(err, MsgPlanFailed),
		})
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.WeatherResponseDoc{Forecast: forecast.Forecast})
}

func (h *HandlerImpl) fail(w http.ResponseWriter, r *http.Request, message string) {
	h.flash.Error(w, r, message)
	http.Redirect(w, r, plannerPath, http.StatusSeeOther)
}

func (h *HandlerImpl) readRequest(w http.ResponseWriter, r *http.Request) (types.TripRequest, error) {
	var form tripForm
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := api.DecodeJSONBody(w, r, &form); err != nil {
			return types.TripRequest{}, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return types.TripRequest{}, err
		}
		form = tripForm{
			Destination: r.PostForm.Get("destination"),
			Budget:      r.PostForm.Get("budget"),
			Days:        json.Number(r.PostForm.Get("days")),
			Category:    r.PostForm.Get("category"),
		}
	}

	// Missing or non-numeric days fall through as 0 and fail validation.
	days, _ := strconv.Atoi(strings.TrimSpace(form.Days.String()))
	return types.TripRequest{
		Destination: strings.TrimSpace(form.Destination),
		Budget:      strings.TrimSpace(form.Budget),
		Days:        days,
		Category:    strings.TrimSpace(form.Category),
	}, nil
}
