package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hobbyhall/storefront/internal/clock"
	"github.com/hobbyhall/storefront/internal/domain"
)

func TestCreateAndLookup(t *testing.T) {
	st := NewStore(time.Hour, clock.NewSystem())

	token := st.Create()
	require.NotEmpty(t, token)
	assert.True(t, st.Valid(token))
	assert.False(t, st.Valid("no-such-token"))
	assert.Zero(t, st.UserID(token))
}

func TestUserAttachDetach(t *testing.T) {
	st := NewStore(time.Hour, clock.NewSystem())
	token := st.Create()

	st.SetUserID(token, 42)
	assert.Equal(t, int64(42), st.UserID(token))

	st.SetUserID(token, 0)
	assert.Zero(t, st.UserID(token))
	assert.True(t, st.Valid(token), "logout keeps the session alive")
}

func TestCartSurvivesLogout(t *testing.T) {
	st := NewStore(time.Hour, clock.NewSystem())
	token := st.Create()

	st.SetCart(token, map[int64]domain.CartEntry{
		3: {Quantity: 2, UnitPriceCents: 1999},
	})
	st.SetUserID(token, 7)
	st.SetUserID(token, 0)

	cart := st.Cart(token)
	require.Len(t, cart, 1)
	assert.Equal(t, int64(2), cart[3].Quantity)
}

func TestCartReturnsCopy(t *testing.T) {
	st := NewStore(time.Hour, clock.NewSystem())
	token := st.Create()

	st.SetCart(token, map[int64]domain.CartEntry{1: {Quantity: 1, UnitPriceCents: 500}})

	cart := st.Cart(token)
	cart[1] = domain.CartEntry{Quantity: 99, UnitPriceCents: 1}

	again := st.Cart(token)
	assert.Equal(t, int64(1), again[1].Quantity, "mutating the copy must not touch the session")
}

func TestFlashesAreOneShot(t *testing.T) {
	st := NewStore(time.Hour, clock.NewSystem())
	token := st.Create()

	st.AddFlash(token, "success", "Product created.")
	st.AddFlash(token, "error", "This event is full.")

	flashes := st.PopFlashes(token)
	require.Len(t, flashes, 2)
	assert.Equal(t, "success", flashes[0].Level)
	assert.Equal(t, "This event is full.", flashes[1].Message)

	assert.Nil(t, st.PopFlashes(token))
}

func TestExpiry(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(30*time.Minute, clock.NewFixed(start))
	token := st.Create()
	require.True(t, st.Valid(token))

	st.clock = clock.NewFixed(start.Add(31 * time.Minute))
	assert.False(t, st.Valid(token))
	assert.Empty(t, st.Cart(token))
}

func TestDestroy(t *testing.T) {
	st := NewStore(time.Hour, clock.NewSystem())
	token := st.Create()
	st.SetCart(token, map[int64]domain.CartEntry{1: {Quantity: 1, UnitPriceCents: 100}})

	st.Destroy(token)
	assert.False(t, st.Valid(token))
	assert.Empty(t, st.Cart(token))
}
