package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hobbyhall/storefront/internal/domain"
)

func createTestEvent(t *testing.T, events *EventStore, capacity int64) *domain.Event {
	t.Helper()
	event, err := events.Create(context.Background(), &domain.Event{
		Title:     "Friday Night Magic",
		Slug:      "friday-night-magic",
		Date:      "2024-06-07",
		StartTime: "18:00",
		Capacity:  capacity,
	})
	require.NoError(t, err)
	return event
}

func TestEventStoreCapacityEnforced(t *testing.T) {
	d := openTestDB(t)
	events := NewEventStore(d)
	ctx := context.Background()

	event := createTestEvent(t, events, 2)
	users := createTestUsers(t, d, 3)

	require.NoError(t, events.Register(ctx, event.ID, users[0].ID))
	require.NoError(t, events.Register(ctx, event.ID, users[1].ID))

	err := events.Register(ctx, event.ID, users[2].ID)
	assert.ErrorIs(t, err, domain.ErrEventFull)

	count, err := events.CountRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "rejected attempt must not change the count")
}

func TestEventStoreZeroCapacityIsUnlimited(t *testing.T) {
	d := openTestDB(t)
	events := NewEventStore(d)
	ctx := context.Background()

	event := createTestEvent(t, events, 0)
	users := createTestUsers(t, d, 10)

	for _, u := range users {
		require.NoError(t, events.Register(ctx, event.ID, u.ID))
	}

	count, err := events.CountRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)
}

func TestEventStoreDuplicateRegistration(t *testing.T) {
	d := openTestDB(t)
	events := NewEventStore(d)
	ctx := context.Background()

	event := createTestEvent(t, events, 5)
	user := createTestUser(t, d, "once@example.com")

	require.NoError(t, events.Register(ctx, event.ID, user.ID))

	err := events.Register(ctx, event.ID, user.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	count, err := events.CountRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "exactly one row per (event, user)")
}

func TestEventStoreUnregister(t *testing.T) {
	d := openTestDB(t)
	events := NewEventStore(d)
	ctx := context.Background()

	event := createTestEvent(t, events, 0)
	user := createTestUser(t, d, "leaver@example.com")

	require.NoError(t, events.Register(ctx, event.ID, user.ID))
	require.NoError(t, events.Unregister(ctx, event.ID, user.ID))

	registered, err := events.IsRegistered(ctx, event.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, registered)

	// Unregistering again is a silent no-op.
	assert.NoError(t, events.Unregister(ctx, event.ID, user.ID))
}

func TestEventStoreRegisterUnknownEvent(t *testing.T) {
	d := openTestDB(t)
	events := NewEventStore(d)
	user := createTestUser(t, d, "ghost@example.com")

	err := events.Register(context.Background(), 9999, user.ID)
	assert.ErrorIs(t, err, domain.ErrEventFull)
}

func TestEventStoreConcurrentRegistrationNeverOverbooks(t *testing.T) {
	d := openTestDB(t)
	events := NewEventStore(d)
	ctx := context.Background()

	const capacity = 5
	const attempts = 50

	event := createTestEvent(t, events, capacity)
	users := createTestUsers(t, d, attempts)

	var successes, rejections int32
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(userID int64) {
			defer wg.Done()
			switch err := events.Register(ctx, event.ID, userID); {
			case err == nil:
				atomic.AddInt32(&successes, 1)
			case assert.ErrorIs(t, err, domain.ErrEventFull):
				atomic.AddInt32(&rejections, 1)
			}
		}(users[i].ID)
	}
	wg.Wait()

	assert.Equal(t, int32(capacity), successes)
	assert.Equal(t, int32(attempts-capacity), rejections)

	count, err := events.CountRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(capacity), count)
}
