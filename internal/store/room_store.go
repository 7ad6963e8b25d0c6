package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hobbyhall/storefront/internal/domain"
)

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, color, created_at FROM rooms ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var rooms []*domain.Room
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.Slug, &room.Color, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}

func (s *RoomStore) GetRoomBySlug(ctx context.Context, slug string) (*domain.Room, error) {
	room := &domain.Room{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, color, created_at FROM rooms WHERE slug = ?
	`, slug).Scan(&room.ID, &room.Name, &room.Slug, &room.Color, &room.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

const bookingColumns = `id, room_id, user_id, date, start_minute, end_minute, created_at`

// CreateBooking inserts the booking unless an existing booking for the same
// room and date overlaps the half-open interval [start, end). Check and
// insert are one conditional statement, so concurrent creators for the same
// slot cannot both succeed.
func (s *RoomStore) CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO room_bookings (room_id, user_id, date, start_minute, end_minute)
		SELECT ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM room_bookings existing
			WHERE existing.room_id = ? AND existing.date = ?
			  AND existing.start_minute < ? AND existing.end_minute > ?
		)
	`, b.RoomID, b.UserID, b.Date, b.StartMinute, b.EndMinute,
		b.RoomID, b.Date, b.EndMinute, b.StartMinute)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, domain.ErrBookingOverlap
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetBookingByID(ctx, id)
}

func (s *RoomStore) GetBookingByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM room_bookings WHERE id = ?`, id,
	).Scan(&b.ID, &b.RoomID, &b.UserID, &b.Date, &b.StartMinute, &b.EndMinute, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// ListBookings returns every booking ordered by date then start time.
func (s *RoomStore) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM room_bookings ORDER BY date ASC, start_minute ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var bookings []*domain.Booking
	for rows.Next() {
		b := &domain.Booking{}
		if err := rows.Scan(&b.ID, &b.RoomID, &b.UserID, &b.Date, &b.StartMinute, &b.EndMinute, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

func (s *RoomStore) DeleteBooking(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM room_bookings WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
