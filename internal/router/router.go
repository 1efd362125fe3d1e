package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/trippy/internal/api"
	"github.com/FACorreiaa/trippy/internal/api/auth"
	"github.com/FACorreiaa/trippy/internal/api/booking"
	"github.com/FACorreiaa/trippy/internal/api/listing"
	"github.com/FACorreiaa/trippy/internal/api/place"
	"github.com/FACorreiaa/trippy/internal/api/review"
	tripPlanner "github.com/FACorreiaa/trippy/internal/api/trip_planner"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler        *auth.HandlerImpl
	PlaceHandler       *place.HandlerImpl
	ListingHandler     *listing.HandlerImpl
	ReviewHandler      *review.HandlerImpl
	BookingHandler     *booking.HandlerImpl
	TripPlannerHandler *tripPlanner.HandlerImpl

	AuthenticateMiddleware         func(http.Handler) http.Handler
	OptionalAuthenticateMiddleware func(http.Handler) http.Handler
	// PlanRateLimit guards the expensive generate endpoint.
	PlanRateLimit func(http.Handler) http.Handler

	AllowedOrigins []string
}

func passThrough(next http.Handler) http.Handler { return next }

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied by the
// caller before mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	optional := cfg.OptionalAuthenticateMiddleware
	if optional == nil {
		optional = passThrough
	}
	limit := cfg.PlanRateLimit
	if limit == nil {
		limit = passThrough
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSONResponse(w, r, http.StatusOK, api.PingResponse{Status: "ok"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Trip planner
	r.Route("/ai", func(r chi.Router) {
		r.Use(optional)
		r.Get("/", cfg.TripPlannerHandler.ShowPlanner)
		r.Get("/weather", cfg.TripPlannerHandler.GetWeather)
		r.With(limit).Post("/generate-trip", cfg.TripPlannerHandler.GenerateTrip)
	})

	// OAuth sign-in
	r.Get("/auth/{provider}", cfg.AuthHandler.BeginOAuth)
	r.Get("/auth/{provider}/callback", cfg.AuthHandler.OAuthCallback)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/signup", cfg.AuthHandler.Signup)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshToken)
			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Get("/places", cfg.PlaceHandler.ListPlaces)

			r.Get("/listings", cfg.ListingHandler.ListListings)
			r.Post("/listings/search", cfg.ListingHandler.SearchListings)
			r.Get("/listings/place/{place}", cfg.ListingHandler.ListingsByPlace)
			r.Get("/listings/{id}", cfg.ListingHandler.GetListing)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/listings", cfg.ListingHandler.CreateListing)
			r.Put("/listings/{id}", cfg.ListingHandler.UpdateListing)
			r.Delete("/listings/{id}", cfg.ListingHandler.DeleteListing)

			r.Post("/listings/{id}/reviews", cfg.ReviewHandler.CreateReview)
			r.Delete("/listings/{id}/reviews/{reviewId}", cfg.ReviewHandler.DeleteReview)

			r.Get("/bookings", cfg.BookingHandler.ListMyBookings)
			r.Post("/bookings", cfg.BookingHandler.CreateBooking)
			r.Post("/bookings/{id}/cancel", cfg.BookingHandler.CancelBooking)
		})
	})

	return r
}
