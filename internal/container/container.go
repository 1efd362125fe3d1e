package container

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/trippy/app/db"
	appMiddleware "github.com/FACorreiaa/trippy/app/middleware"
	"github.com/FACorreiaa/trippy/config"
	"github.com/FACorreiaa/trippy/internal/api/auth"
	"github.com/FACorreiaa/trippy/internal/api/booking"
	"github.com/FACorreiaa/trippy/internal/api/flash"
	generativeAI "github.com/FACorreiaa/trippy/internal/api/generative_ai"
	"github.com/FACorreiaa/trippy/internal/api/geocoding"
	"github.com/FACorreiaa/trippy/internal/api/itinerary"
	"github.com/FACorreiaa/trippy/internal/api/listing"
	"github.com/FACorreiaa/trippy/internal/api/photos"
	"github.com/FACorreiaa/trippy/internal/api/place"
	"github.com/FACorreiaa/trippy/internal/api/review"
	tripPlanner "github.com/FACorreiaa/trippy/internal/api/trip_planner"
	"github.com/FACorreiaa/trippy/internal/api/weather"
)

const rateLimitVisitorTTL = 10 * time.Minute

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	DatabaseURL string

	AuthHandler        *auth.HandlerImpl
	PlaceHandler       *place.HandlerImpl
	ListingHandler     *listing.HandlerImpl
	ReviewHandler      *review.HandlerImpl
	BookingHandler     *booking.HandlerImpl
	TripPlannerHandler *tripPlanner.HandlerImpl

	Authenticate         func(http.Handler) http.Handler
	OptionalAuthenticate func(http.Handler) http.Handler
	PlanLimiter          *appMiddleware.RateLimiter
}

// NewContainer initializes and returns a new dependency container. Outbound
// API clients are built here from config and handed to services as interfaces.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	// Initialize database
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	// Outbound clients
	clients := cfg.Clients
	aiClient, err := generativeAI.NewAIClient(ctx, clients.Gemini.APIKey, clients.Gemini.Model, clients.Gemini.Timeout)
	if err != nil {
		pool.Close()
		logger.Error("Failed to initialize Gemini client", slog.Any("error", err))
		return nil, err
	}
	forecasts := weather.NewOpenWeatherClient(clients.OpenWeather.BaseURL, clients.OpenWeather.APIKey, clients.OpenWeather.Timeout, logger)
	resolver := photos.NewFallbackResolver(
		photos.NewUnsplash(clients.Unsplash.BaseURL, clients.Unsplash.APIKey, clients.Unsplash.Timeout),
		photos.NewWikipedia(clients.Wikipedia.BaseURL, clients.Wikipedia.Timeout),
		logger,
	)
	geocoder := geocoding.NewMapboxClient(clients.Mapbox.BaseURL, clients.Mapbox.APIKey, clients.Mapbox.Timeout)

	// Auth
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewAuthHandlerImpl(authService, logger)

	// Places
	placeRepo := place.NewPlaceRepository(pool, logger)
	placeService := place.NewPlaceService(placeRepo, logger)
	placeHandler := place.NewPlaceHandler(placeService, logger)

	// Listings, reviews, bookings
	listingRepo := listing.NewListingRepository(pool, logger)
	listingService := listing.NewListingService(listingRepo, geocoder, logger)
	listingHandler := listing.NewListingHandler(listingService, logger)

	reviewRepo := review.NewReviewRepository(pool, logger)
	reviewService := review.NewReviewService(reviewRepo, logger)
	reviewHandler := review.NewReviewHandler(reviewService, logger)

	bookingRepo := booking.NewBookingRepository(pool, logger)
	bookingService := booking.NewBookingService(bookingRepo, logger)
	bookingHandler := booking.NewBookingHandler(bookingService, logger)

	// Trip planner
	generator := itinerary.NewGenerator(aiClient, logger)
	enricher := itinerary.NewEnricher(resolver, cfg.Planner.PhotoConcurrency, logger)
	plannerService := tripPlanner.NewTripPlannerService(
		placeService,
		forecasts,
		generator,
		enricher,
		cfg.Planner.Timeout,
		cfg.Planner.MaxDays,
		logger,
	)
	flashStore := flash.NewStore(cfg.Session.FlashTTL, cfg.Session.Secure)
	plannerHandler := tripPlanner.NewTripPlannerHandler(plannerService, flashStore, logger)

	limiter := appMiddleware.NewRateLimiter(
		cfg.Planner.RateLimit.RequestsPerMinute,
		cfg.Planner.RateLimit.Burst,
		rateLimitVisitorTTL,
		logger,
	)

	logger.Info("Container initialized",
		slog.String("model", aiClient.Model()),
		slog.Int("photo_concurrency", cfg.Planner.PhotoConcurrency))

	return &Container{
		Config:               cfg,
		Logger:               logger,
		Pool:                 pool,
		DatabaseURL:          dbConfig.ConnectionURL,
		AuthHandler:          authHandler,
		PlaceHandler:         placeHandler,
		ListingHandler:       listingHandler,
		ReviewHandler:        reviewHandler,
		BookingHandler:       bookingHandler,
		TripPlannerHandler:   plannerHandler,
		Authenticate:         auth.Authenticate(logger, cfg.JWT),
		OptionalAuthenticate: auth.OptionalAuthenticate(logger, cfg.JWT),
		PlanLimiter:          limiter,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations() error {
	return database.RunMigrations(c.DatabaseURL, c.Logger)
}
