package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/hobbyhall/storefront/internal/auth"
	"github.com/hobbyhall/storefront/internal/clock"
	"github.com/hobbyhall/storefront/internal/domain"
)

// roomRepository is the subset of store.RoomStore that BookingService requires.
type roomRepository interface {
	ListRooms(ctx context.Context) ([]*domain.Room, error)
	GetRoomBySlug(ctx context.Context, slug string) (*domain.Room, error)
	CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetBookingByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context) ([]*domain.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type BookingService struct {
	rooms  roomRepository
	clock  clock.Clock
	logger *slog.Logger
}

func NewBookingService(rooms roomRepository, clk clock.Clock, logger *slog.Logger) *BookingService {
	return &BookingService{rooms: rooms, clock: clk, logger: logger}
}

// RoomSchedule is one room with its bookings, for the calendar page.
type RoomSchedule struct {
	Room     *domain.Room
	Bookings []*domain.Booking
}

// Calendar lists every room with its bookings grouped underneath, rooms by
// name and bookings by date then start.
func (s *BookingService) Calendar(ctx context.Context) ([]RoomSchedule, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.rooms.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	byRoom := make(map[int64][]*domain.Booking)
	for _, b := range bookings {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}

	schedules := make([]RoomSchedule, 0, len(rooms))
	for _, room := range rooms {
		schedules = append(schedules, RoomSchedule{Room: room, Bookings: byRoom[room.ID]})
	}
	return schedules, nil
}

func (s *BookingService) GetRoom(ctx context.Context, roomSlug string) (*domain.Room, error) {
	return s.rooms.GetRoomBySlug(ctx, roomSlug)
}

// Book reserves the room for [startMinute, endMinute) on date. The interval
// must be non-empty, must not start in the past, and must not overlap any
// existing booking for the same room and date.
func (s *BookingService) Book(ctx context.Context, roomSlug string, userID int64, date string, startMinute, endMinute int) (*domain.Booking, error) {
	room, err := s.rooms.GetRoomBySlug(ctx, roomSlug)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrNotFound
	}

	if endMinute <= startMinute {
		return nil, domain.ErrInvalidInterval
	}

	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	startAt := day.Add(time.Duration(startMinute) * time.Minute)
	if startAt.Before(s.clock.Now()) {
		return nil, domain.ErrStartInPast
	}

	booking, err := s.rooms.CreateBooking(ctx, &domain.Booking{
		RoomID:      room.ID,
		UserID:      userID,
		Date:        date,
		StartMinute: startMinute,
		EndMinute:   endMinute,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created", "room", room.Slug, "date", date,
		"start_minute", startMinute, "end_minute", endMinute, "user_id", userID)
	return booking, nil
}

// Cancel deletes the booking when user is its owner or staff; everyone else
// gets ErrNotAllowed and the row stays.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64, user *domain.User) error {
	booking, err := s.rooms.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return domain.ErrNotFound
	}
	if !auth.CanCancelBooking(user, booking.UserID) {
		return domain.ErrNotAllowed
	}
	if err := s.rooms.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}
	s.logger.Info("booking cancelled", "booking_id", bookingID, "by_user", user.ID)
	return nil
}
