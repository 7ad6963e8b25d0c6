// Package cart implements the session-backed shopping cart. A cart maps
// product IDs to a quantity and the unit price snapshotted when the product
// was first added; products are re-fetched at read time so the page shows
// live names and prices while totals keep the snapshot.
package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/hobbyhall/storefront/internal/domain"
	"github.com/hobbyhall/storefront/internal/session"
)

// productGetter is the subset of the product store the cart needs.
type productGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Line is one renderable cart row: the live product plus snapshot pricing.
type Line struct {
	Product        *domain.Product
	Quantity       int64
	UnitPriceCents int64
	TotalCents     int64
}

type Cart struct {
	token   string
	store   *session.Store
	entries map[int64]domain.CartEntry
}

// Load reads the cart for the given session token.
func Load(store *session.Store, token string) *Cart {
	return &Cart{
		token:   token,
		store:   store,
		entries: store.Cart(token),
	}
}

// Add puts qty units of product in the cart. When override is true the
// quantity is set to qty, otherwise incremented by it. A resulting quantity
// below 1 removes the entry. The unit price is snapshotted on first add and
// kept on subsequent ones.
func (c *Cart) Add(product *domain.Product, qty int64, override bool) {
	entry, ok := c.entries[product.ID]
	if !ok {
		entry = domain.CartEntry{UnitPriceCents: product.PriceCents}
	}

	if override {
		entry.Quantity = qty
	} else {
		entry.Quantity += qty
	}

	if entry.Quantity < 1 {
		delete(c.entries, product.ID)
	} else {
		c.entries[product.ID] = entry
	}
	c.save()
}

// Remove deletes the product's line unconditionally.
func (c *Cart) Remove(productID int64) {
	delete(c.entries, productID)
	c.save()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.entries = make(map[int64]domain.CartEntry)
	c.save()
}

// Len is the total quantity across all lines, not the line count.
func (c *Cart) Len() int64 {
	var n int64
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

// TotalCents sums snapshot price times quantity over every retained entry.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, e := range c.entries {
		total += e.UnitPriceCents * e.Quantity
	}
	return total
}

// Items resolves each entry against the live product catalog. Entries whose
// product no longer exists are skipped; everything else keeps its snapshot
// unit price regardless of the product's current price. Lines come back
// ordered by product ID for stable rendering.
func (c *Cart) Items(ctx context.Context, products productGetter) ([]Line, error) {
	ids := make([]int64, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	lines := make([]Line, 0, len(ids))
	for _, id := range ids {
		product, err := products.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart product %d: %w", id, err)
		}
		if product == nil {
			continue
		}
		entry := c.entries[id]
		lines = append(lines, Line{
			Product:        product,
			Quantity:       entry.Quantity,
			UnitPriceCents: entry.UnitPriceCents,
			TotalCents:     entry.UnitPriceCents * entry.Quantity,
		})
	}
	return lines, nil
}

func (c *Cart) save() {
	c.store.SetCart(c.token, c.entries)
}
