package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/trippy/config"
	"github.com/FACorreiaa/trippy/internal/api"
	"github.com/FACorreiaa/trippy/internal/types"
)

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// SetupProviders registers the OAuth providers that have credentials
// configured. The provider name is read from the chi route.
func SetupProviders(cfg *config.Config, logger *slog.Logger) {
	var providers []goth.Provider
	g := cfg.OAuth.Google
	if g.ClientID != "" && g.ClientSecret != "" {
		providers = append(providers, google.New(g.ClientID, g.ClientSecret, g.CallbackURL, "email", "profile"))
	}
	goth.UseProviders(providers...)
	fallback := gothic.GetProviderName
	gothic.GetProviderName = func(r *http.Request) (string, error) {
		if p := chi.URLParam(r, "provider"); p != "" {
			return p, nil
		}
		return fallback(r)
	}
	logger.Info("OAuth providers configured", slog.Int("count", len(providers)))
}

// Signup godoc
// @Summary      Register a new user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.SignupRequest true "New account"
// @Success      201 {object} types.TokenResponse
// @Failure      400 {object} api.ErrorResponseDoc
// @Failure      409 {object} api.ErrorResponseDoc
// @Router       /api/v1/auth/signup [post]
func (h *HandlerImpl) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Signup")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Signup"))

	var req types.SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}

	tokens, err := h.authService.Signup(ctx, req)
	if err != nil {
		l.WarnContext(ctx, "Signup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "signup failed")
		api.WriteError(w, r, err, "Failed to register user")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, tokens)
}

// Login godoc
// @Summary      Log in with username and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.LoginRequest true "Credentials"
// @Success      200 {object} types.TokenResponse
// @Failure      401 {object} api.ErrorResponseDoc
// @Router       /api/v1/auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login")
	defer span.End()

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}

	tokens, err := h.authService.Login(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "Login failed", slog.String("username", req.Username), slog.Any("error", err))
		span.SetStatus(codes.Error, "login failed")
		api.WriteError(w, r, err, "Authentication failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, tokens)
}

// RefreshToken godoc
// @Summary      Rotate a refresh token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.RefreshRequest true "Refresh token"
// @Success      200 {object} types.TokenResponse
// @Failure      401 {object} api.ErrorResponseDoc
// @Router       /api/v1/auth/refresh [post]
func (h *HandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "RefreshToken")
	defer span.End()

	var req types.RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}

	tokens, err := h.authService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		h.logger.WarnContext(ctx, "Refresh failed", slog.Any("error", err))
		api.WriteError(w, r, err, "Failed to refresh session")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, tokens)
}

// Logout godoc
// @Summary      Invalidate a refresh token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.RefreshRequest true "Refresh token"
// @Success      200 {object} map[string]string
// @Router       /api/v1/auth/logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Logout")
	defer span.End()

	var req types.RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.WriteError(w, r, err, "Invalid request body.")
		return
	}
	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		h.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.WriteError(w, r, err, "Failed to logout")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": MsgLoggedOut})
}

// BeginOAuth redirects to the provider's consent page.
func (h *HandlerImpl) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, r)
}

// OAuthCallback godoc
// @Summary      OAuth provider callback
// @Tags         Auth
// @Produce      json
// @Param        provider path string true "Provider name, e.g. google"
// @Success      200 {object} types.TokenResponse
// @Failure      401 {object} api.ErrorResponseDoc
// @Router       /auth/{provider}/callback [get]
func (h *HandlerImpl) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "OAuthCallback")
	defer span.End()
	provider := chi.URLParam(r, "provider")
	l := h.logger.With(slog.String("handler", "OAuthCallback"), slog.String("provider", provider))

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		l.WarnContext(ctx, "OAuth exchange failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "oauth failed")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "OAuth sign-in failed")
		return
	}

	user, err := h.authService.GetOrCreateUserFromProvider(ctx, provider, gothUser)
	if err != nil {
		l.ErrorContext(ctx, "Failed to resolve provider user", slog.Any("error", err))
		api.WriteError(w, r, err, "OAuth sign-in failed")
		return
	}
	tokens, err := h.authService.GenerateTokens(ctx, user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue tokens", slog.Any("error", err))
		api.WriteError(w, r, err, "OAuth sign-in failed")
		return
	}
	tokens.Message = MsgWelcomeBack
	api.WriteJSONResponse(w, r, http.StatusOK, tokens)
}
