package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/trippy/config"
	"github.com/FACorreiaa/trippy/internal/types"
)

const (
	MsgWelcome       = "Welcome to LuxeNest!"
	MsgWelcomeBack   = "Welcome back to Trippy!"
	MsgLoggedOut     = "You logged out successfully!"
	MsgBadCredential = "Invalid username or password."
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Signup(ctx context.Context, req types.SignupRequest) (*types.TokenResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.TokenResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error)
	GenerateTokens(ctx context.Context, user *types.UserAuth) (*types.TokenResponse, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwt    config.JWTConfig
	now    func() time.Time
}

func NewAuthService(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	if jwtCfg.AccessTokenTTL <= 0 {
		jwtCfg.AccessTokenTTL = 15 * time.Minute
	}
	if jwtCfg.RefreshTokenTTL <= 0 {
		jwtCfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwt:    jwtCfg,
		now:    time.Now,
	}
}

func (s *AuthServiceImpl) Signup(ctx context.Context, req types.SignupRequest) (*types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Signup")
	defer span.End()

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, types.NewUserError(types.ErrValidation, "Username, email and password are required.", nil)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, types.NewUserError(types.ErrValidation, "Email address is not valid.", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Username, req.Email, string(hash))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create user failed")
		return nil, err
	}
	s.logger.InfoContext(ctx, "New user registered", slog.String("user_id", user.ID.String()))

	tokens, err := s.GenerateTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	tokens.Message = MsgWelcome
	return tokens, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req types.LoginRequest) (*types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, types.NewUserError(types.ErrValidation, "Username and password are required.", nil)
	}

	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.NewUserError(types.ErrUnauthorized, MsgBadCredential, err)
		}
		span.RecordError(err)
		return nil, err
	}
	if user.Password == "" {
		return nil, types.NewUserError(types.ErrUnauthorized, MsgBadCredential, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, types.NewUserError(types.ErrUnauthorized, MsgBadCredential, err)
	}

	tokens, err := s.GenerateTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	tokens.Message = MsgWelcomeBack
	return tokens, nil
}

// RefreshSession rotates a refresh token: the presented token is invalidated
// and a fresh pair is issued.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshSession")
	defer span.End()

	if refreshToken == "" {
		return nil, types.NewUserError(types.ErrValidation, "Refresh token is required.", nil)
	}
	userID, err := s.repo.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		span.RecordError(err)
		return nil, types.NewUserError(types.ErrUnauthorized, "Invalid or expired refresh token.", err)
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.GenerateTokens(ctx, user)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return types.NewUserError(types.ErrValidation, "Refresh token is required.", nil)
	}
	return s.repo.InvalidateRefreshToken(ctx, refreshToken)
}

// GetOrCreateUserFromProvider maps an OAuth profile onto a local user.
func (s *AuthServiceImpl) GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "GetOrCreateUserFromProvider")
	defer span.End()

	if providerUser.UserID == "" {
		return nil, types.NewUserError(types.ErrValidation, "Provider did not return a user id.", nil)
	}
	username := providerUser.NickName
	if username == "" {
		username, _, _ = strings.Cut(providerUser.Email, "@")
	}
	if username == "" {
		username = provider + "-" + providerUser.UserID
	}
	return s.repo.FindOrCreateProviderUser(ctx, provider, providerUser.UserID, providerUser.Email, username)
}

// GenerateTokens signs an access token and stores a new refresh token.
func (s *AuthServiceImpl) GenerateTokens(ctx context.Context, user *types.UserAuth) (*types.TokenResponse, error) {
	now := s.now()
	claims := types.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwt.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwt.AccessTokenTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := uuid.NewString()
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refresh, now.Add(s.jwt.RefreshTokenTTL)); err != nil {
		return nil, err
	}
	return &types.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
