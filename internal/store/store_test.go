package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hobbyhall/storefront/internal/db"
	"github.com/hobbyhall/storefront/internal/domain"
)

// openTestDB opens a migrated sqlite database in a temp dir. sqlite allows a
// single writer, so the pool is capped at one connection; concurrency tests
// still exercise the conditional-insert guarantees through it.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// createTestUser inserts a user and returns it. Registrations and bookings
// have user foreign keys, so most tests need at least one.
func createTestUser(t *testing.T, database *sql.DB, email string) *domain.User {
	t.Helper()
	users := NewUserStore(database)
	user, err := users.Create(context.Background(), email, "Test User", "x", false)
	require.NoError(t, err)
	return user
}

func createTestUsers(t *testing.T, database *sql.DB, n int) []*domain.User {
	t.Helper()
	out := make([]*domain.User, n)
	for i := range out {
		out[i] = createTestUser(t, database, fmt.Sprintf("user%d@example.com", i))
	}
	return out
}
