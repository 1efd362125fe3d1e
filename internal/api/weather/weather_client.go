package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/app/observability/metrics"
	"github.com/FACorreiaa/trippy/internal/types"
)

const (
	MsgCityNotProvided = "City not provided."
	MsgFetchFailed     = "Unable to fetch weather data. Please check city name or API key."
)

// Fetcher returns a short aggregated forecast for a city.
type Fetcher interface {
	GetWeather(ctx context.Context, city string) (*types.WeatherForecast, error)
}

var _ Fetcher = (*OpenWeatherClient)(nil)

// OpenWeatherClient talks to the OpenWeatherMap 5 day / 3 hour forecast API.
type OpenWeatherClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewOpenWeatherClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *OpenWeatherClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenWeatherClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type forecastResponse struct {
	List []forecastSample `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

type forecastSample struct {
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (c *OpenWeatherClient) GetWeather(ctx context.Context, city string) (*types.WeatherForecast, error) {
	ctx, span := otel.Tracer("WeatherClient").Start(ctx, "GetWeather")
	defer span.End()

	l := c.logger.With(slog.String("client", "openweather"))

	city = strings.TrimSpace(city)
	if city == "" {
		span.SetStatus(codes.Error, "city not provided")
		return nil, types.NewUserError(types.ErrValidation, MsgCityNotProvided, nil)
	}
	span.SetAttributes(attribute.String("city", city))

	start := time.Now()
	resp, err := c.fetch(ctx, city)
	if err != nil {
		metrics.Get().RecordUpstream(ctx, "openweather", "error", time.Since(start).Seconds())
		l.ErrorContext(ctx, "Weather fetch failed", slog.String("city", city), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "weather fetch failed")
		return nil, types.NewUserError(types.ErrUpstream, MsgFetchFailed, err)
	}
	metrics.Get().RecordUpstream(ctx, "openweather", "ok", time.Since(start).Seconds())

	forecast := aggregate(city, resp)
	span.SetAttributes(attribute.Int("forecast.days", len(forecast.Forecast)))
	l.DebugContext(ctx, "Weather fetched", slog.String("city", city), slog.Int("days", len(forecast.Forecast)))
	return forecast, nil
}

func (c *OpenWeatherClient) fetch(ctx context.Context, city string) (*forecastResponse, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request forecast: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("forecast status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out forecastResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	return &out, nil
}

// aggregate groups samples by the date part of dt_txt, keeping the first
// MaxForecastDays dates in the order the provider listed them.
func aggregate(city string, resp *forecastResponse) *types.WeatherForecast {
	var order []string
	groups := make(map[string][]forecastSample)
	for _, s := range resp.List {
		date, _, _ := strings.Cut(s.DtTxt, " ")
		if _, seen := groups[date]; !seen {
			order = append(order, date)
		}
		groups[date] = append(groups[date], s)
	}
	if len(order) > types.MaxForecastDays {
		order = order[:types.MaxForecastDays]
	}

	offset := time.Duration(resp.City.Timezone) * time.Second
	out := &types.WeatherForecast{City: city, Forecast: make([]types.DayForecast, 0, len(order))}
	for i, date := range order {
		samples := groups[date]
		var temp, humidity, wind float64
		for _, s := range samples {
			temp += s.Main.Temp
			humidity += s.Main.Humidity
			wind += s.Wind.Speed
		}
		n := float64(len(samples))
		desc, icon := condition(samples[len(samples)/2])

		day := types.DayForecast{
			Date:        date,
			AvgTemp:     temp / n,
			Description: desc,
			IconCode:    icon,
			Humidity:    int(math.Round(humidity / n)),
			WindSpeed:   int(math.Round(wind / n)),
			Hourly:      []types.HourlyForecast{},
		}
		if i == 0 {
			for j, s := range samples {
				if j == types.MaxHourlySamples {
					break
				}
				d, ic := condition(s)
				day.Hourly = append(day.Hourly, types.HourlyForecast{
					Time:        displayTime(s.DtTxt, offset),
					Temp:        s.Main.Temp,
					IconCode:    ic,
					Description: d,
				})
			}
		}
		out.Forecast = append(out.Forecast, day)
	}
	return out
}

func condition(s forecastSample) (string, string) {
	if len(s.Weather) == 0 {
		return "", ""
	}
	return s.Weather[0].Description, s.Weather[0].Icon
}

// displayTime renders a UTC dt_txt as an hour of day in the city's local time.
func displayTime(dtTxt string, offset time.Duration) string {
	t, err := time.Parse(time.DateTime, dtTxt)
	if err != nil {
		return dtTxt
	}
	return t.Add(offset).Format("3 PM")
}
