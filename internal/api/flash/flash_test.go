package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddAndPop(t *testing.T) {
	store := NewStore(time.Minute, false)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai/generate-trip", nil)
	store.Error(rr, req, "All fields are required.")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/ai", nil)
	next.AddCookie(cookies[0])

	msg := store.Pop(next)
	assert.Equal(t, "All fields are required.", msg.Error)
	assert.Empty(t, msg.Success)

	t.Run("second read is empty", func(t *testing.T) {
		assert.True(t, store.Pop(next).Empty())
	})
}

func TestStore_CookieIDs(t *testing.T) {
	store := NewStore(time.Minute, false)

	t.Run("unknown id from the client is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ai/generate-trip", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "chosen-by-client"})
		rr := httptest.NewRecorder()
		store.Error(rr, req, "All fields are required.")

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.NotEqual(t, "chosen-by-client", cookies[0].Value)
		_, err := uuid.Parse(cookies[0].Value)
		assert.NoError(t, err)
		assert.True(t, store.Pop(req).Empty())
	})

	t.Run("live id is reused and the newest message wins", func(t *testing.T) {
		first := httptest.NewRecorder()
		store.Error(first, httptest.NewRequest(http.MethodPost, "/ai/generate-trip", nil), "first")
		issued := first.Result().Cookies()[0]

		req := httptest.NewRequest(http.MethodPost, "/ai/generate-trip", nil)
		req.AddCookie(issued)
		rr := httptest.NewRecorder()
		store.Error(rr, req, "second")

		assert.Equal(t, issued.Value, rr.Result().Cookies()[0].Value)
		assert.Equal(t, "second", store.Pop(req).Error)
	})
}

func TestStore_PopWithoutCookie(t *testing.T) {
	store := NewStore(time.Minute, false)
	assert.True(t, store.Pop(httptest.NewRequest(http.MethodGet, "/ai", nil)).Empty())
}
