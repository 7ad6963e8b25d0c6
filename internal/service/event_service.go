package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hobbyhall/storefront/internal/domain"
)

// eventRepository is the subset of store.EventStore that EventService requires.
type eventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	Register(ctx context.Context, eventID, userID int64) error
	Unregister(ctx context.Context, eventID, userID int64) error
	CountRegistrations(ctx context.Context, eventID int64) (int64, error)
	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
}

type EventService struct {
	events eventRepository
	logger *slog.Logger
}

func NewEventService(events eventRepository, logger *slog.Logger) *EventService {
	return &EventService{events: events, logger: logger}
}

type EventInput struct {
	Title       string
	Slug        string
	Description string
	Date        string
	StartTime   string
	Capacity    int64
}

// EventDetail bundles an event with its registration state for rendering.
type EventDetail struct {
	*domain.Event
	Count        int64
	Remaining    *int64 // nil when capacity is unlimited
	IsRegistered bool
}

func (s *EventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.events.List(ctx)
}

func (s *EventService) CreateEvent(ctx context.Context, in EventInput) (*domain.Event, error) {
	e := &domain.Event{
		Title:       in.Title,
		Slug:        resolveSlug(in.Slug, in.Title),
		Description: in.Description,
		Date:        in.Date,
		StartTime:   in.StartTime,
		Capacity:    in.Capacity,
	}
	if e.Slug == "" {
		return nil, fmt.Errorf("could not derive a slug from title %q", in.Title)
	}

	created, err := s.events.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	s.logger.Info("event created", "id", created.ID, "slug", created.Slug, "capacity", created.Capacity)
	return created, nil
}

// GetEventDetail loads an event plus the registration state seen by userID
// (0 for anonymous visitors). Returns nil when the slug is unknown.
func (s *EventService) GetEventDetail(ctx context.Context, eventSlug string, userID int64) (*EventDetail, error) {
	event, err := s.events.GetBySlug(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	count, err := s.events.CountRegistrations(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{Event: event, Count: count}
	if event.Capacity > 0 {
		remaining := event.Capacity - count
		if remaining < 0 {
			remaining = 0
		}
		detail.Remaining = &remaining
	}

	if userID != 0 {
		registered, err := s.events.IsRegistered(ctx, event.ID, userID)
		if err != nil {
			return nil, err
		}
		detail.IsRegistered = registered
	}

	return detail, nil
}

func (s *EventService) Register(ctx context.Context, eventSlug string, userID int64) error {
	event, err := s.events.GetBySlug(ctx, eventSlug)
	if err != nil {
		return err
	}
	if event == nil {
		return domain.ErrNotFound
	}
	if err := s.events.Register(ctx, event.ID, userID); err != nil {
		return err
	}
	s.logger.Info("registration created", "event", event.Slug, "user_id", userID)
	return nil
}

func (s *EventService) Unregister(ctx context.Context, eventSlug string, userID int64) error {
	event, err := s.events.GetBySlug(ctx, eventSlug)
	if err != nil {
		return err
	}
	if event == nil {
		return domain.ErrNotFound
	}
	return s.events.Unregister(ctx, event.ID, userID)
}
