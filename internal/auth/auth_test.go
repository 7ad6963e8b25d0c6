package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hobbyhall/storefront/internal/domain"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("", "anything"))
}

func TestIsStaff(t *testing.T) {
	assert.False(t, IsStaff(nil))
	assert.False(t, IsStaff(&domain.User{ID: 1}))
	assert.True(t, IsStaff(&domain.User{ID: 1, IsStaff: true}))
}

func TestCanCancelBooking(t *testing.T) {
	owner := &domain.User{ID: 7}
	staff := &domain.User{ID: 8, IsStaff: true}
	other := &domain.User{ID: 9}

	assert.True(t, CanCancelBooking(owner, 7))
	assert.True(t, CanCancelBooking(staff, 7))
	assert.False(t, CanCancelBooking(other, 7))
	assert.False(t, CanCancelBooking(nil, 7))
}
