// Package session implements a server-side session store keyed by a random
// cookie token. Each session carries the signed-in user (if any), the
// shopping cart, and one-shot flash messages. Sessions are held in memory;
// a restart ends every session, which also empties every cart.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hobbyhall/storefront/internal/clock"
	"github.com/hobbyhall/storefront/internal/domain"
)

// CookieName is the cookie that carries the session token.
const CookieName = "storefront_session"

// Flash is a one-shot message rendered on the next page load.
type Flash struct {
	Level   string // "success", "info", or "error"
	Message string
}

type session struct {
	userID    int64
	cart      map[int64]domain.CartEntry
	flashes   []Flash
	expiresAt time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	clock    clock.Clock
}

func NewStore(ttl time.Duration, clk clock.Clock) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		clock:    clk,
	}
}

// Create starts a new empty session and returns its token.
func (st *Store) Create() string {
	token := uuid.NewString()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[token] = &session{
		cart:      make(map[int64]domain.CartEntry),
		expiresAt: st.clock.Now().Add(st.ttl),
	}
	return token
}

// Valid reports whether token names a live session. Expired sessions are
// dropped on the way.
func (st *Store) Valid(token string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.get(token) != nil
}

// UserID returns the signed-in user for the session, or 0 for anonymous or
// unknown sessions.
func (st *Store) UserID(token string) int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s := st.get(token); s != nil {
		return s.userID
	}
	return 0
}

// SetUserID attaches a user to the session. Zero detaches (logout) while
// keeping the session, and with it the cart.
func (st *Store) SetUserID(token string, id int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s := st.get(token); s != nil {
		s.userID = id
	}
}

// Cart returns a copy of the session's cart. Mutations must go back through
// SetCart to take effect.
func (st *Store) Cart(token string) map[int64]domain.CartEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make(map[int64]domain.CartEntry)
	if s := st.get(token); s != nil {
		for id, e := range s.cart {
			out[id] = e
		}
	}
	return out
}

// SetCart replaces the session's cart wholesale.
func (st *Store) SetCart(token string, cart map[int64]domain.CartEntry) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s := st.get(token); s != nil {
		copied := make(map[int64]domain.CartEntry, len(cart))
		for id, e := range cart {
			copied[id] = e
		}
		s.cart = copied
	}
}

// AddFlash queues a one-shot message for the session.
func (st *Store) AddFlash(token, level, message string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s := st.get(token); s != nil {
		s.flashes = append(s.flashes, Flash{Level: level, Message: message})
	}
}

// PopFlashes returns the queued messages and clears them.
func (st *Store) PopFlashes(token string) []Flash {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.get(token)
	if s == nil || len(s.flashes) == 0 {
		return nil
	}
	out := s.flashes
	s.flashes = nil
	return out
}

// Destroy removes the session entirely.
func (st *Store) Destroy(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, token)
}

// get returns the live session for token, extending its expiry, or nil.
// Callers must hold st.mu.
func (st *Store) get(token string) *session {
	s, ok := st.sessions[token]
	if !ok {
		return nil
	}
	now := st.clock.Now()
	if now.After(s.expiresAt) {
		delete(st.sessions, token)
		return nil
	}
	s.expiresAt = now.Add(st.ttl)
	return s
}
