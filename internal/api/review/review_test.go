package review

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/trippy/internal/api/auth"
	"github.com/FACorreiaa/trippy/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockRepository struct{ mock.Mock }

func (m *MockRepository) ListingExists(ctx context.Context, listingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, r *types.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*types.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestServiceImpl_Create(t *testing.T) {
	author, listingID := uuid.New(), uuid.New()

	t.Run("rating out of range", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewReviewService(repo, testLogger())
		for _, rating := range []int{0, 6} {
			_, err := svc.Create(context.Background(), author, listingID, types.ReviewInput{Rating: rating})
			assert.ErrorIs(t, err, types.ErrValidation)
		}
		repo.AssertNotCalled(t, "ListingExists", mock.Anything, mock.Anything)
	})

	t.Run("listing missing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListingExists", mock.Anything, listingID).Return(false, nil)

		_, err := NewReviewService(repo, testLogger()).Create(context.Background(), author, listingID, types.ReviewInput{Rating: 4})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("created", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListingExists", mock.Anything, listingID).Return(true, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(r *types.Review) bool {
			return r.AuthorID == author && r.ListingID == listingID && r.Comment == "Lovely"
		})).Return(nil)

		rv, err := NewReviewService(repo, testLogger()).Create(context.Background(), author, listingID,
			types.ReviewInput{Rating: 5, Comment: "  Lovely "})
		require.NoError(t, err)
		assert.Equal(t, 5, rv.Rating)
		repo.AssertExpectations(t)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	author, listingID, reviewID := uuid.New(), uuid.New(), uuid.New()
	stored := &types.Review{ID: reviewID, ListingID: listingID, AuthorID: author}

	t.Run("author only", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, reviewID).Return(stored, nil)

		err := NewReviewService(repo, testLogger()).Delete(context.Background(), uuid.New(), listingID, reviewID)
		assert.ErrorIs(t, err, types.ErrForbidden)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("review on another listing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, reviewID).Return(stored, nil)

		err := NewReviewService(repo, testLogger()).Delete(context.Background(), author, uuid.New(), reviewID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("deleted", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, reviewID).Return(stored, nil)
		repo.On("Delete", mock.Anything, reviewID).Return(nil)

		require.NoError(t, NewReviewService(repo, testLogger()).Delete(context.Background(), author, listingID, reviewID))
		repo.AssertExpectations(t)
	})
}

func TestPostgresReviewRepository(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewReviewRepository(pool, testLogger())
	listingID, reviewID := uuid.New(), uuid.New()

	pool.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)")).WithArgs(listingID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	exists, err := repo.ListingExists(context.Background(), listingID)
	require.NoError(t, err)
	assert.True(t, exists)

	now := time.Now()
	author := uuid.New()
	pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).WithArgs(listingID, author, 4, "Nice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(reviewID, now))
	rv := &types.Review{ListingID: listingID, AuthorID: author, Rating: 4, Comment: "Nice"}
	require.NoError(t, repo.Create(context.Background(), rv))
	assert.Equal(t, reviewID, rv.ID)

	pool.ExpectQuery(regexp.QuoteMeta("FROM reviews")).WithArgs(reviewID).WillReturnError(pgx.ErrNoRows)
	missing, err := repo.GetByID(context.Background(), reviewID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.NoError(t, pool.ExpectationsWereMet())
}

type MockService struct{ mock.Mock }

func (m *MockService) Create(ctx context.Context, authorID, listingID uuid.UUID, in types.ReviewInput) (*types.Review, error) {
	args := m.Called(ctx, authorID, listingID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Review), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, userID, listingID, reviewID uuid.UUID) error {
	return m.Called(ctx, userID, listingID, reviewID).Error(0)
}

func serve(h *HandlerImpl, user uuid.UUID, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), user)))
		})
	})
	r.Post("/api/v1/listings/{id}/reviews", h.CreateReview)
	r.Delete("/api/v1/listings/{id}/reviews/{reviewId}", h.DeleteReview)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerImpl_CreateReview(t *testing.T) {
	user, listingID := uuid.New(), uuid.New()
	svc := new(MockService)
	svc.On("Create", mock.Anything, user, listingID, types.ReviewInput{Rating: 5, Comment: "Great"}).
		Return(&types.Review{ID: uuid.New(), Rating: 5}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+listingID.String()+"/reviews",
		strings.NewReader(`{"rating":5,"comment":"Great"}`))
	rec := serve(NewReviewHandler(svc, testLogger()), user, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res types.ReviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Review is Added.", res.Message)
}

func TestHandlerImpl_DeleteReview(t *testing.T) {
	user, listingID, reviewID := uuid.New(), uuid.New(), uuid.New()
	svc := new(MockService)
	svc.On("Delete", mock.Anything, user, listingID, reviewID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/listings/"+listingID.String()+"/reviews/"+reviewID.String(), nil)
	rec := serve(NewReviewHandler(svc, testLogger()), user, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res types.ReviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Review is Deleted.", res.Message)
}
