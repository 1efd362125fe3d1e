package flash

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CookieName identifies the browser's flash slot.
const CookieName = "trippy_flash"

// Message is a one-shot notice shown on the next page load.
type Message struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (m Message) Empty() bool {
	return m.Success == "" && m.Error == ""
}

// Store keeps flash messages server-side; the cookie holds only a random id.
type Store struct {
	cache  *cache.Cache
	ttl    time.Duration
	secure bool
}

func NewStore(ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
		secure: secure,
	}
}

// Add stores msg for the requesting browser. The cookie id is reused only
// while the store still holds an entry for it; anything else gets a fresh id.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, msg Message) {
	id := uuid.NewString()
	if c, err := r.Cookie(CookieName); err == nil {
		if _, live := s.cache.Get(c.Value); live {
			id = c.Value
		}
	}
	s.cache.Set(id, msg, cache.DefaultExpiration)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Store) Error(w http.ResponseWriter, r *http.Request, text string) {
	s.Add(w, r, Message{Error: text})
}

// Pop returns the pending message and clears it. A zero Message means none.
func (s *Store) Pop(r *http.Request) Message {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Message{}
	}
	v, ok := s.cache.Get(c.Value)
	if !ok {
		return Message{}
	}
	s.cache.Delete(c.Value)
	return v.(Message)
}
