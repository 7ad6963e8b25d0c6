package domain

import "time"

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
}

type Product struct {
	ID           int64
	Name         string
	Slug         string
	PriceCents   int64
	InventoryQty int64
	// ImagePath is the imagestore key of an uploaded image; ImageURL is an
	// external fallback. When both are set the uploaded image wins.
	ImagePath   string
	ImageURL    string
	Description string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event is a registrable store event. Capacity 0 means unlimited.
type Event struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	Capacity    int64
	CreatedAt   time.Time
}

type Registration struct {
	ID           int64
	EventID      int64
	UserID       int64
	RegisteredAt time.Time
}

type Room struct {
	ID        int64
	Name      string
	Slug      string
	Color     string
	CreatedAt time.Time
}

// Booking reserves a room for the half-open interval
// [StartMinute, EndMinute) on Date. Minutes count from midnight.
type Booking struct {
	ID          int64
	RoomID      int64
	UserID      int64
	Date        string // YYYY-MM-DD
	StartMinute int
	EndMinute   int
	CreatedAt   time.Time
}
