package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hobbyhall/storefront/internal/clock"
	"github.com/hobbyhall/storefront/internal/domain"
	"github.com/hobbyhall/storefront/internal/session"
)

// mapProducts serves products from a fixed map, standing in for the store.
type mapProducts map[int64]*domain.Product

func (m mapProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	return m[id], nil
}

func newTestCart(t *testing.T) (*Cart, *session.Store, string) {
	t.Helper()
	st := session.NewStore(time.Hour, clock.NewSystem())
	token := st.Create()
	return Load(st, token), st, token
}

func dice() *domain.Product {
	return &domain.Product{ID: 1, Name: "Dice Set", Slug: "dice-set", PriceCents: 799}
}

func TestAddTwiceAccumulates(t *testing.T) {
	c, _, _ := newTestCart(t)
	p := dice()

	c.Add(p, 1, false)
	c.Add(p, 1, false)

	assert.Equal(t, int64(2), c.Len())
	assert.Equal(t, int64(2*799), c.TotalCents())
}

func TestAddOverrideSetsQuantity(t *testing.T) {
	c, _, _ := newTestCart(t)
	p := dice()

	c.Add(p, 3, false)
	c.Add(p, 5, true)

	assert.Equal(t, int64(5), c.Len())
}

func TestOverrideToZeroRemoves(t *testing.T) {
	c, _, _ := newTestCart(t)
	p := dice()

	c.Add(p, 2, false)
	c.Add(p, 0, true)
	assert.Zero(t, c.Len())

	c.Add(p, 2, false)
	c.Add(p, -1, true)
	assert.Zero(t, c.Len())
}

func TestDecrementBelowOneRemoves(t *testing.T) {
	c, _, _ := newTestCart(t)
	p := dice()

	c.Add(p, 1, false)
	c.Add(p, -1, false)
	assert.Zero(t, c.Len())
}

func TestRemoveUnconditional(t *testing.T) {
	c, _, _ := newTestCart(t)
	p := dice()

	c.Add(p, 2, false)
	c.Remove(p.ID)
	assert.Zero(t, c.Len())

	// Removing an absent product is a no-op.
	c.Remove(42)
	assert.Zero(t, c.Len())
}

func TestSnapshotPriceSurvivesPriceChange(t *testing.T) {
	c, _, _ := newTestCart(t)
	p := dice()
	c.Add(p, 2, false)

	// The live product gets more expensive after the add.
	live := dice()
	live.PriceCents = 1299
	live.Name = "Premium Dice Set"

	lines, err := c.Items(context.Background(), mapProducts{1: live})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, "Premium Dice Set", lines[0].Product.Name, "product data is live")
	assert.Equal(t, int64(799), lines[0].UnitPriceCents, "price is the snapshot")
	assert.Equal(t, int64(2*799), lines[0].TotalCents)
	assert.Equal(t, int64(2*799), c.TotalCents())
}

func TestItemsSkipsMissingProducts(t *testing.T) {
	c, _, _ := newTestCart(t)
	c.Add(dice(), 1, false)
	c.Add(&domain.Product{ID: 2, Name: "Gone", PriceCents: 100}, 1, false)

	lines, err := c.Items(context.Background(), mapProducts{1: dice()})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].Product.ID)
}

func TestMutationsPersistToSession(t *testing.T) {
	c, st, token := newTestCart(t)
	c.Add(dice(), 2, false)

	// A fresh load from the same session sees the mutation.
	reloaded := Load(st, token)
	assert.Equal(t, int64(2), reloaded.Len())

	reloaded.Clear()
	assert.Zero(t, Load(st, token).Len())
}
