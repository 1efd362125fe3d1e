package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/trippy/config"
	"github.com/FACorreiaa/trippy/internal/types"
)

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (*types.UserAuth, error) {
	args := m.Called(ctx, username, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*types.UserAuth, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) FindOrCreateProviderUser(ctx context.Context, provider, providerID, email, username string) (*types.UserAuth, error) {
	args := m.Called(ctx, provider, providerID, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAuthRepo) InvalidateRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

var testJWT = config.JWTConfig{
	SecretKey:       "test-secret",
	Issuer:          "trippy",
	AccessTokenTTL:  time.Minute,
	RefreshTokenTTL: time.Hour,
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthService_Signup(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, testJWT, testLogger())
	user := &types.UserAuth{ID: uuid.New(), Username: "ana", Email: "ana@example.com"}

	repo.On("CreateUser", mock.Anything, "ana", "ana@example.com", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")) == nil
	})).Return(user, nil).Once()
	repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	tokens, err := svc.Signup(context.Background(), types.SignupRequest{Username: " ana ", Email: "ana@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, MsgWelcome, tokens.Message)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := parseToken(tokens.AccessToken, testJWT)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	repo.AssertExpectations(t)

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Signup(context.Background(), types.SignupRequest{Username: "ana"})
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("bad email", func(t *testing.T) {
		_, err := svc.Signup(context.Background(), types.SignupRequest{Username: "ana", Email: "nope", Password: "x"})
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("duplicate", func(t *testing.T) {
		repo.On("CreateUser", mock.Anything, "bob", "bob@example.com", mock.Anything).
			Return(nil, types.NewUserError(types.ErrConflict, "taken", nil)).Once()
		_, err := svc.Signup(context.Background(), types.SignupRequest{Username: "bob", Email: "bob@example.com", Password: "x"})
		assert.ErrorIs(t, err, types.ErrConflict)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &types.UserAuth{ID: uuid.New(), Username: "ana", Password: string(hash)}

	t.Run("success", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetUserByUsername", mock.Anything, "ana").Return(user, nil).Once()
		repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil).Once()

		tokens, err := NewAuthService(repo, testJWT, testLogger()).Login(context.Background(), types.LoginRequest{Username: "ana", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, MsgWelcomeBack, tokens.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetUserByUsername", mock.Anything, "ana").Return(user, nil).Once()

		_, err := NewAuthService(repo, testJWT, testLogger()).Login(context.Background(), types.LoginRequest{Username: "ana", Password: "nope"})
		assert.ErrorIs(t, err, types.ErrUnauthorized)
		assert.Equal(t, MsgBadCredential, types.UserMessage(err, ""))
		repo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, types.ErrNotFound).Once()

		_, err := NewAuthService(repo, testJWT, testLogger()).Login(context.Background(), types.LoginRequest{Username: "ghost", Password: "x"})
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("oauth-only account", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetUserByUsername", mock.Anything, "g").Return(&types.UserAuth{ID: uuid.New(), Username: "g"}, nil).Once()

		_, err := NewAuthService(repo, testJWT, testLogger()).Login(context.Background(), types.LoginRequest{Username: "g", Password: "x"})
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

func TestAuthService_RefreshSession(t *testing.T) {
	user := &types.UserAuth{ID: uuid.New(), Username: "ana"}

	t.Run("rotates", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("ValidateRefreshToken", mock.Anything, "old").Return(user.ID, nil).Once()
		repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()
		repo.On("InvalidateRefreshToken", mock.Anything, "old").Return(nil).Once()
		repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil).Once()

		tokens, err := NewAuthService(repo, testJWT, testLogger()).RefreshSession(context.Background(), "old")
		require.NoError(t, err)
		assert.NotEqual(t, "old", tokens.RefreshToken)
		repo.AssertExpectations(t)
	})

	t.Run("expired", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("ValidateRefreshToken", mock.Anything, "stale").Return(uuid.Nil, types.ErrUnauthorized).Once()

		_, err := NewAuthService(repo, testJWT, testLogger()).RefreshSession(context.Background(), "stale")
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

func TestAuthService_GetOrCreateUserFromProvider(t *testing.T) {
	repo := new(MockAuthRepo)
	want := &types.UserAuth{ID: uuid.New(), Username: "ana"}
	repo.On("FindOrCreateProviderUser", mock.Anything, "google", "g-123", "ana@example.com", "ana").Return(want, nil).Once()

	got, err := NewAuthService(repo, testJWT, testLogger()).GetOrCreateUserFromProvider(context.Background(), "google",
		goth.User{UserID: "g-123", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = NewAuthService(repo, testJWT, testLogger()).GetOrCreateUserFromProvider(context.Background(), "google", goth.User{})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestParseToken(t *testing.T) {
	sign := func(c types.Claims, key string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}
	base := func(exp time.Time, iss string) types.Claims {
		return types.Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    iss,
			ExpiresAt: jwt.NewNumericDate(exp),
		}}
	}

	_, err := parseToken(sign(base(time.Now().Add(time.Minute), "trippy"), "test-secret"), testJWT)
	assert.NoError(t, err)

	_, err = parseToken(sign(base(time.Now().Add(-time.Minute), "trippy"), "test-secret"), testJWT)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	_, err = parseToken(sign(base(time.Now().Add(time.Minute), "other"), "test-secret"), testJWT)
	assert.True(t, errors.Is(err, jwt.ErrTokenInvalidIssuer))

	_, err = parseToken(sign(base(time.Now().Add(time.Minute), "trippy"), "wrong"), testJWT)
	assert.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}
