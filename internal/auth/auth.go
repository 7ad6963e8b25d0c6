// Package auth holds password hashing and the authorization predicates
// storefront handlers consult before mutating anything.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hobbyhall/storefront/internal/domain"
)

// HashPassword returns a bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsStaff reports whether user may access staff-only pages.
func IsStaff(user *domain.User) bool {
	return user != nil && user.IsStaff
}

// CanCancelBooking reports whether user may cancel a booking owned by
// ownerID. Owners may cancel their own bookings; staff may cancel any.
func CanCancelBooking(user *domain.User, ownerID int64) bool {
	if user == nil {
		return false
	}
	return user.ID == ownerID || user.IsStaff
}
