package booking

import (
	"context"
	"encoding/json"
	"fmt"
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

func (m *MockRepository) ListingPrice(ctx context.Context, listingID uuid.UUID) (float64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, b *types.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Booking), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*types.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Booking), args.Error(1)
}

func (m *MockRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestServiceImpl_Create(t *testing.T) {
	user, listingID := uuid.New(), uuid.New()

	t.Run("total is nights times price", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListingPrice", mock.Anything, listingID).Return(1500.0, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *types.Booking) bool {
			return b.UserID == user && b.Status == types.BookingStatusBooked
		})).Return(nil)

		b, err := NewBookingService(repo, testLogger()).Create(context.Background(), user, types.BookingInput{
			ListingID: listingID, CheckIn: "2025-03-01", CheckOut: "2025-03-04", Guests: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, b.Nights())
		assert.InDelta(t, 4500.0, b.TotalPrice, 0.001)
	})

	cases := []struct {
		name string
		in   types.BookingInput
		msg  string
	}{
		{"bad date", types.BookingInput{CheckIn: "01/03/2025", CheckOut: "2025-03-04", Guests: 1}, MsgBadDate},
		{"same day", types.BookingInput{CheckIn: "2025-03-04", CheckOut: "2025-03-04", Guests: 1}, MsgCheckOutOrder},
		{"reversed", types.BookingInput{CheckIn: "2025-03-05", CheckOut: "2025-03-04", Guests: 1}, MsgCheckOutOrder},
		{"no guests", types.BookingInput{CheckIn: "2025-03-01", CheckOut: "2025-03-04"}, MsgGuestsRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRepository)
			_, err := NewBookingService(repo, testLogger()).Create(context.Background(), user, tc.in)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.Equal(t, tc.msg, types.UserMessage(err, ""))
			repo.AssertNotCalled(t, "ListingPrice", mock.Anything, mock.Anything)
		})
	}

	t.Run("listing missing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListingPrice", mock.Anything, listingID).Return(0.0, fmt.Errorf("listing: %w", types.ErrNotFound))

		_, err := NewBookingService(repo, testLogger()).Create(context.Background(), user, types.BookingInput{
			ListingID: listingID, CheckIn: "2025-03-01", CheckOut: "2025-03-02", Guests: 1,
		})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, MsgListingMissing, types.UserMessage(err, ""))
	})
}

func TestServiceImpl_Cancel(t *testing.T) {
	user, id := uuid.New(), uuid.New()
	booked := func() *types.Booking {
		return &types.Booking{ID: id, UserID: user, Status: types.BookingStatusBooked}
	}

	t.Run("cancelled", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, id).Return(booked(), nil)
		repo.On("Cancel", mock.Anything, id).Return(true, nil)

		b, err := NewBookingService(repo, testLogger()).Cancel(context.Background(), user, id)
		require.NoError(t, err)
		assert.Equal(t, types.BookingStatusCancelled, b.Status)
	})

	t.Run("already cancelled", func(t *testing.T) {
		repo := new(MockRepository)
		b := booked()
		b.Status = types.BookingStatusCancelled
		repo.On("GetByID", mock.Anything, id).Return(b, nil)

		_, err := NewBookingService(repo, testLogger()).Cancel(context.Background(), user, id)
		assert.ErrorIs(t, err, types.ErrConflict)
		repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	})

	t.Run("concurrent cancel", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, id).Return(booked(), nil)
		repo.On("Cancel", mock.Anything, id).Return(false, nil)

		_, err := NewBookingService(repo, testLogger()).Cancel(context.Background(), user, id)
		assert.ErrorIs(t, err, types.ErrConflict)
	})

	t.Run("someone else's", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, id).Return(booked(), nil)

		_, err := NewBookingService(repo, testLogger()).Cancel(context.Background(), uuid.New(), id)
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, id).Return(nil, nil)

		_, err := NewBookingService(repo, testLogger()).Cancel(context.Background(), user, id)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresBookingRepository(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewBookingRepository(pool, testLogger())
	listingID, userID, id := uuid.New(), uuid.New(), uuid.New()

	t.Run("price of missing listing", func(t *testing.T) {
		pool.ExpectQuery(regexp.QuoteMeta("SELECT price FROM listings WHERE id = $1")).WithArgs(listingID).
			WillReturnError(pgx.ErrNoRows)
		_, err := repo.ListingPrice(context.Background(), listingID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		in := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		out := in.AddDate(0, 0, 2)
		pool.ExpectQuery(regexp.QuoteMeta("ORDER BY b.created_at DESC")).WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "listing_id", "title", "user_id", "check_in", "check_out", "guests", "total_price", "status", "created_at",
			}).AddRow(id, listingID, "Homestay", userID, in, out, 2, 3000.0, "booked", time.Now()))

		bookings, err := repo.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "Homestay", bookings[0].ListingTitle)
		assert.Equal(t, types.BookingStatusBooked, bookings[0].Status)
	})

	t.Run("cancel only from booked", func(t *testing.T) {
		pool.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $2 WHERE id = $1 AND status = $3")).
			WithArgs(id, "cancelled", "booked").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		changed, err := repo.Cancel(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	assert.NoError(t, pool.ExpectationsWereMet())
}

type MockService struct{ mock.Mock }

func (m *MockService) Create(ctx context.Context, userID uuid.UUID, in types.BookingInput) (*types.Booking, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Booking), args.Error(1)
}

func (m *MockService) ListMine(ctx context.Context, userID uuid.UUID) ([]types.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Booking), args.Error(1)
}

func (m *MockService) Cancel(ctx context.Context, userID, id uuid.UUID) (*types.Booking, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Booking), args.Error(1)
}

func serve(h *HandlerImpl, user uuid.UUID, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), user)))
		})
	})
	r.Post("/api/v1/bookings", h.CreateBooking)
	r.Get("/api/v1/bookings", h.ListMyBookings)
	r.Post("/api/v1/bookings/{id}/cancel", h.CancelBooking)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerImpl_CreateBooking(t *testing.T) {
	user, listingID := uuid.New(), uuid.New()
	svc := new(MockService)
	in := types.BookingInput{ListingID: listingID, CheckIn: "2025-03-01", CheckOut: "2025-03-03", Guests: 2}
	svc.On("Create", mock.Anything, user, in).Return(&types.Booking{ID: uuid.New(), TotalPrice: 200}, nil)

	body := fmt.Sprintf(`{"listingId":%q,"checkIn":"2025-03-01","checkOut":"2025-03-03","guests":2}`, listingID)
	rec := serve(NewBookingHandler(svc, testLogger()), user, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var res types.BookingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, MsgBooked, res.Message)
	assert.InDelta(t, 200.0, res.Booking.TotalPrice, 0.001)
}

func TestHandlerImpl_CancelBookingConflict(t *testing.T) {
	user, id := uuid.New(), uuid.New()
	svc := new(MockService)
	svc.On("Cancel", mock.Anything, user, id).Return(nil, types.NewUserError(types.ErrConflict, MsgAlreadyCancelled, nil))

	rec := serve(NewBookingHandler(svc, testLogger()), user,
		httptest.NewRequest(http.MethodPost, "/api/v1/bookings/"+id.String()+"/cancel", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, MsgAlreadyCancelled, body["error"])
}
