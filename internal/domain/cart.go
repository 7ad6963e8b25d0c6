package domain

// CartEntry is one line of a session cart: quantity plus the unit price
// captured when the product was first added. The cart itself is derived
// state and is never written to the database.
type CartEntry struct {
	Quantity       int64
	UnitPriceCents int64
}
