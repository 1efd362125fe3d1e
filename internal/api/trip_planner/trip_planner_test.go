package tripPlanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/trippy/internal/api/flash"
	"github.com/FACorreiaa/trippy/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockPlaceFinder struct{ mock.Mock }

func (m *MockPlaceFinder) FindByName(ctx context.Context, name string) (*types.Place, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Place), args.Error(1)
}

type MockWeatherFetcher struct{ mock.Mock }

func (m *MockWeatherFetcher) GetWeather(ctx context.Context, city string) (*types.WeatherForecast, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WeatherForecast), args.Error(1)
}

type MockGenerator struct{ mock.Mock }

func (m *MockGenerator) Generate(ctx context.Context, place types.Place, req types.TripRequest, forecast *types.WeatherForecast) (*types.ItineraryDocument, error) {
	args := m.Called(ctx, place, req, forecast)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ItineraryDocument), args.Error(1)
}

type MockEnricher struct{ mock.Mock }

func (m *MockEnricher) Enrich(ctx context.Context, doc *types.ItineraryDocument, placeName string) {
	m.Called(ctx, doc, placeName)
}

type fixture struct {
	places    *MockPlaceFinder
	weather   *MockWeatherFetcher
	generator *MockGenerator
	enricher  *MockEnricher
	service   *ServiceImpl
}

func newFixture() *fixture {
	f := &fixture{
		places:    new(MockPlaceFinder),
		weather:   new(MockWeatherFetcher),
		generator: new(MockGenerator),
		enricher:  new(MockEnricher),
	}
	f.service = NewTripPlannerService(f.places, f.weather, f.generator, f.enricher, time.Minute, 0, testLogger())
	return f
}

var manali = &types.Place{Name: "Manali, Himachal Pradesh", Country: "India"}

func docWithDays(n int) *types.ItineraryDocument {
	doc := &types.ItineraryDocument{TripName: "Trip to Manali"}
	for i := 1; i <= n; i++ {
		doc.Days = append(doc.Days, types.DayPlan{DayNumber: i, Theme: fmt.Sprintf("day %d", i)})
	}
	return doc
}

func TestServiceImpl_Plan(t *testing.T) {
	req := types.TripRequest{Destination: "manali, himachal pradesh", Budget: "moderate", Days: 3, Category: "adventure"}
	forecast := &types.WeatherForecast{City: "Manali", Forecast: []types.DayForecast{{Date: "2026-10-18"}}}

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.places.On("FindByName", mock.Anything, req.Destination).Return(manali, nil).Once()
		f.weather.On("GetWeather", mock.Anything, "Manali").Return(forecast, nil).Once()
		f.generator.On("Generate", mock.Anything, *manali, req, forecast).Return(docWithDays(3), nil).Once()
		f.enricher.On("Enrich", mock.Anything, mock.Anything, manali.Name).Once()

		plan, err := f.service.Plan(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, manali.Name, plan.Place.Name)
		assert.Len(t, plan.ItineraryData.Days, 3)
		assert.Same(t, forecast, plan.WeatherData)
		mock.AssertExpectationsForObjects(t, f.places, f.weather, f.generator, f.enricher)
	})

	t.Run("missing fields never reach the store", func(t *testing.T) {
		for _, bad := range []types.TripRequest{
			{},
			{Destination: "Paris", Budget: "low", Category: "food"},
			{Destination: " ", Budget: "low", Days: 2, Category: "food"},
			{Destination: "Paris", Days: 2, Category: "food"},
		} {
			f := newFixture()
			_, err := f.service.Plan(context.Background(), bad)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.Equal(t, MsgFieldsRequired, types.UserMessage(err, ""))
			f.places.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
		}
	})

	t.Run("day cap applies when configured", func(t *testing.T) {
		f := newFixture()
		f.service.maxDays = 14
		_, err := f.service.Plan(context.Background(), types.TripRequest{Destination: "Paris", Budget: "low", Days: 30, Category: "food"})
		assert.ErrorIs(t, err, types.ErrValidation)
		f.places.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	})

	t.Run("long trips are accepted without a cap", func(t *testing.T) {
		long := types.TripRequest{Destination: "Paris", Budget: "low", Days: 30, Category: "food"}
		f := newFixture()
		f.places.On("FindByName", mock.Anything, "Paris").Return(&types.Place{Name: "Paris", Country: "France"}, nil).Once()
		f.weather.On("GetWeather", mock.Anything, "Paris").Return(forecast, nil).Once()
		f.generator.On("Generate", mock.Anything, mock.Anything, long, forecast).Return(docWithDays(30), nil).Once()
		f.enricher.On("Enrich", mock.Anything, mock.Anything, "Paris").Once()

		plan, err := f.service.Plan(context.Background(), long)
		require.NoError(t, err)
		assert.Len(t, plan.ItineraryData.Days, 30)
	})

	t.Run("unknown place", func(t *testing.T) {
		f := newFixture()
		f.places.On("FindByName", mock.Anything, "Atlantis").Return(nil, fmt.Errorf("place: %w", types.ErrNotFound)).Once()

		_, err := f.service.Plan(context.Background(), types.TripRequest{Destination: "Atlantis", Budget: "low", Days: 2, Category: "food"})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, `Sorry, we don't have data for "Atlantis".`, types.UserMessage(err, ""))
		f.weather.AssertNotCalled(t, "GetWeather", mock.Anything, mock.Anything)
	})

	t.Run("weather failure stops the pipeline", func(t *testing.T) {
		f := newFixture()
		f.places.On("FindByName", mock.Anything, mock.Anything).Return(manali, nil).Once()
		weatherErr := types.NewUserError(types.ErrUpstream, "Unable to fetch weather data. Please check city name or API key.", errors.New("401"))
		f.weather.On("GetWeather", mock.Anything, "Manali").Return(nil, weatherErr).Once()

		_, err := f.service.Plan(context.Background(), req)
		assert.Equal(t, "Unable to fetch weather data. Please check city name or API key.", types.UserMessage(err, ""))
		f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("parse failure skips enrichment", func(t *testing.T) {
		f := newFixture()
		f.places.On("FindByName", mock.Anything, mock.Anything).Return(manali, nil).Once()
		f.weather.On("GetWeather", mock.Anything, mock.Anything).Return(forecast, nil).Once()
		f.generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, types.NewUserError(types.ErrParse, "Gemini returned invalid JSON. Please try again.", nil)).Once()

		_, err := f.service.Plan(context.Background(), req)
		assert.ErrorIs(t, err, types.ErrParse)
		f.enricher.AssertNotCalled(t, "Enrich", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("model failure has no user message", func(t *testing.T) {
		f := newFixture()
		f.places.On("FindByName", mock.Anything, mock.Anything).Return(manali, nil).Once()
		f.weather.On("GetWeather", mock.Anything, mock.Anything).Return(forecast, nil).Once()
		f.generator.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: quota", types.ErrUpstream)).Once()

		_, err := f.service.Plan(context.Background(), req)
		assert.Equal(t, MsgPlanFailed, types.UserMessage(err, MsgPlanFailed))
	})
}

func TestServiceImpl_Weather_UsesCityPart(t *testing.T) {
	f := newFixture()
	f.weather.On("GetWeather", mock.Anything, "Paris").Return(&types.WeatherForecast{City: "Paris"}, nil).Once()

	fc, err := f.service.Weather(context.Background(), " Paris , Île-de-France")
	require.NoError(t, err)
	assert.Equal(t, "Paris", fc.City)
	f.weather.AssertExpectations(t)
}

type MockService struct{ mock.Mock }

func (m *MockService) Plan(ctx context.Context, req types.TripRequest) (*types.TripPlan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripPlan), args.Error(1)
}

func (m *MockService) Weather(ctx context.Context, city string) (*types.WeatherForecast, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WeatherForecast), args.Error(1)
}

func postForm(h *HandlerImpl, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ai/generate-trip", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.GenerateTrip(rr, req)
	return rr
}

func followFlash(t *testing.T, h *HandlerImpl, rr *httptest.ResponseRecorder) PlannerPage {
	t.Helper()
	get := httptest.NewRequest(http.MethodGet, "/ai", nil)
	for _, c := range rr.Result().Cookies() {
		get.AddCookie(c)
	}
	page := httptest.NewRecorder()
	h.ShowPlanner(page, get)
	require.Equal(t, http.StatusOK, page.Code)

	var out PlannerPage
	require.NoError(t, json.Unmarshal(page.Body.Bytes(), &out))
	return out
}

func TestHandlerImpl_GenerateTrip(t *testing.T) {
	t.Run("success renders the plan", func(t *testing.T) {
		svc := new(MockService)
		want := types.TripRequest{Destination: "Paris", Budget: "low", Days: 2, Category: "food"}
		svc.On("Plan", mock.Anything, want).Return(&types.TripPlan{
			Place:         types.Place{Name: "Paris", Country: "France"},
			ItineraryData: docWithDays(2),
			WeatherData:   &types.WeatherForecast{City: "Paris"},
		}, nil).Once()
		h := NewTripPlannerHandler(svc, flash.NewStore(time.Minute, false), testLogger())

		rr := postForm(h, url.Values{"destination": {"Paris"}, "budget": {"low"}, "days": {"2"}, "category": {"food"}})

		require.Equal(t, http.StatusOK, rr.Code)
		var plan types.TripPlan
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plan))
		assert.Len(t, plan.ItineraryData.Days, 2)
		svc.AssertExpectations(t)
	})

	t.Run("validation failure redirects with notice", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Plan", mock.Anything, types.TripRequest{}).
			Return(nil, types.NewUserError(types.ErrValidation, MsgFieldsRequired, nil)).Once()
		h := NewTripPlannerHandler(svc, flash.NewStore(time.Minute, false), testLogger())

		rr := postForm(h, url.Values{})

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/ai", rr.Header().Get("Location"))
		assert.Equal(t, MsgFieldsRequired, followFlash(t, h, rr).Flash.Error)
	})

	t.Run("unexpected failure uses generic notice", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Plan", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
		h := NewTripPlannerHandler(svc, flash.NewStore(time.Minute, false), testLogger())

		rr := postForm(h, url.Values{"destination": {"Paris"}, "budget": {"low"}, "days": {"2"}, "category": {"food"}})

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, MsgPlanFailed, followFlash(t, h, rr).Flash.Error)
	})

	t.Run("json body with numeric days", func(t *testing.T) {
		svc := new(MockService)
		want := types.TripRequest{Destination: "Rome", Budget: "luxury", Days: 4, Category: "culture"}
		svc.On("Plan", mock.Anything, want).Return(&types.TripPlan{ItineraryData: docWithDays(4)}, nil).Once()
		h := NewTripPlannerHandler(svc, flash.NewStore(time.Minute, false), testLogger())

		req := httptest.NewRequest(http.MethodPost, "/ai/generate-trip",
			strings.NewReader(`{"destination":"Rome","budget":"luxury","days":4,"category":"culture"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.GenerateTrip(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("non numeric days becomes zero", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Plan", mock.Anything, types.TripRequest{Destination: "Paris", Budget: "low", Days: 0, Category: "food"}).
			Return(nil, types.NewUserError(types.ErrValidation, MsgFieldsRequired, nil)).Once()
		h := NewTripPlannerHandler(svc, flash.NewStore(time.Minute, false), testLogger())

		rr := postForm(h, url.Values{"destination": {"Paris"}, "budget": {"low"}, "days": {"three"}, "category": {"food"}})
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		svc.AssertExpectations(t)
	})
}

func TestHandlerImpl_ShowPlanner_NoNotice(t *testing.T) {
	h := NewTripPlannerHandler(new(MockService), flash.NewStore(time.Minute, false), testLogger())
	rr := httptest.NewRecorder()
	h.ShowPlanner(rr, httptest.NewRequest(http.MethodGet, "/ai", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var page PlannerPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.True(t, page.Flash.Empty())
	assert.Equal(t, "/ai/generate-trip", page.Action)
}

func TestHandlerImpl_GetWeather(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Weather", mock.Anything, "Paris, France").Return(&types.WeatherForecast{
			City:     "Paris",
			Forecast: []types.DayForecast{{Date: "2026-10-18", AvgTemp: 14}},
		}, nil).Once()
		h := NewTripPlannerHandler(svc, flash.NewStore(time.Minute, false), testLogger())

		rr := httptest.NewRecorder()
		h.GetWeather(rr, httptest.NewRequest(http.MethodGet, "/ai/weather?city=Paris,%20France", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string][]types.DayForecast
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Len(t, body["forecast"], 1)
	})

	t.Run("missing city", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Weather", mock.Anything, "").Return(nil, types.NewUserError(types.ErrValidation, "City not provided.", nil)).Once()
		h := NewTripPlannerHandler(svc, flash.NewStore(time.Minute, false), testLogger())

		rr := httptest.NewRecorder()
		h.GetWeather(rr, httptest.NewRequest(http.MethodGet, "/ai/weather", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"City not provided."}`, rr.Body.String())
	})
}
