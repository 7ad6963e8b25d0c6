package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hobbyhall/storefront/internal/domain"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventColumns = `id, title, slug, description, date, start_time, capacity, created_at`

func (s *EventStore) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO events (title, slug, description, date, start_time, capacity)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Title, e.Slug, e.Description, e.Date, e.StartTime, e.Capacity)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *EventStore) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

func (s *EventStore) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE slug = ?`, slug))
}

func (s *EventStore) List(ctx context.Context) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date ASC, start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var events []*domain.Event
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Date,
			&e.StartTime, &e.Capacity, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Register creates a registration for (eventID, userID). The capacity check
// and the insert execute as a single conditional statement, so two requests
// racing for the last spot cannot both land; the UNIQUE(event_id, user_id)
// index turns a duplicate attempt into ErrAlreadyRegistered.
func (s *EventStore) Register(ctx context.Context, eventID, userID int64) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO event_registrations (event_id, user_id)
		SELECT e.id, ? FROM events e
		WHERE e.id = ?
		  AND (e.capacity = 0 OR
		       (SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = e.id) < e.capacity)
	`, userID, eventID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to register: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrEventFull
	}

	return nil
}

// Unregister removes the registration if one exists. Deleting a registration
// that never existed is not an error.
func (s *EventStore) Unregister(ctx context.Context, eventID, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM event_registrations WHERE event_id = ? AND user_id = ?
	`, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to unregister: %w", err)
	}
	return nil
}

func (s *EventStore) CountRegistrations(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM event_registrations WHERE event_id = ?
	`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (s *EventStore) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM event_registrations WHERE event_id = ? AND user_id = ?
	`, eventID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return true, nil
}

func (s *EventStore) scanOne(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Date,
		&e.StartTime, &e.Capacity, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}
