package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hobbyhall/storefront/internal/domain"
)

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	schedules, err := s.bookings.Calendar(r.Context())
	if err != nil {
		http.Error(w, "failed to load rooms", http.StatusInternalServerError)
		s.logger.Error("load rooms failed", "error", err)
		return
	}

	data := s.pageData(token, user, map[string]any{"Schedules": schedules})
	if err := s.renderPage(w, data, "base.html", "pages/rooms.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleRoomBookForm(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	room, err := s.bookings.GetRoom(r.Context(), r.PathValue("slug"))
	if err != nil {
		http.Error(w, "failed to get room", http.StatusInternalServerError)
		s.logger.Error("get room failed", "error", err)
		return
	}
	if room == nil {
		http.NotFound(w, r)
		return
	}
	s.renderRoomBookForm(w, token, user, room, map[string]string{}, map[string]string{})
}

func (s *Server) handleRoomBook(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	room, err := s.bookings.GetRoom(r.Context(), r.PathValue("slug"))
	if err != nil {
		http.Error(w, "failed to get room", http.StatusInternalServerError)
		s.logger.Error("get room failed", "error", err)
		return
	}
	if room == nil {
		http.NotFound(w, r)
		return
	}

	form := map[string]string{
		"date":  strings.TrimSpace(r.FormValue("date")),
		"start": strings.TrimSpace(r.FormValue("start")),
		"end":   strings.TrimSpace(r.FormValue("end")),
	}
	fieldErrs := map[string]string{}

	startMinute, err := parseClock(form["start"])
	if err != nil {
		fieldErrs["start"] = "Enter a time like 14:00."
	}
	endMinute, err := parseClock(form["end"])
	if err != nil {
		fieldErrs["end"] = "Enter a time like 16:00."
	}

	if len(fieldErrs) == 0 {
		_, err := s.bookings.Book(r.Context(), room.Slug, user.ID, form["date"], startMinute, endMinute)
		switch {
		case errors.Is(err, domain.ErrInvalidDate):
			fieldErrs["date"] = "Enter a date like 2030-06-14."
		case errors.Is(err, domain.ErrInvalidInterval):
			fieldErrs["interval"] = "The booking must end after it starts."
		case errors.Is(err, domain.ErrStartInPast):
			fieldErrs["interval"] = "Bookings must start in the future."
		case errors.Is(err, domain.ErrBookingOverlap):
			fieldErrs["interval"] = "That time overlaps an existing booking."
		case err != nil:
			http.Error(w, "failed to book room", http.StatusInternalServerError)
			s.logger.Error("book room failed", "room", room.Slug, "error", err)
			return
		default:
			s.flashAndRedirect(w, r, token, "success",
				fmt.Sprintf("The %s is yours on %s from %s to %s.",
					room.Name, form["date"], minuteClock(startMinute), minuteClock(endMinute)),
				"/rooms")
			return
		}
	}

	s.renderRoomBookForm(w, token, user, room, form, fieldErrs)
}

func (s *Server) handleBookingCancel(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}

	err = s.bookings.Cancel(r.Context(), id, user)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, domain.ErrNotAllowed):
		s.flashAndRedirect(w, r, token, "error", "Only the booker or staff can cancel a booking.", "/rooms")
	case err != nil:
		http.Error(w, "failed to cancel booking", http.StatusInternalServerError)
		s.logger.Error("cancel booking failed", "booking_id", id, "error", err)
	default:
		s.flashAndRedirect(w, r, token, "success", "Booking cancelled.", "/rooms")
	}
}

func (s *Server) renderRoomBookForm(w http.ResponseWriter, token string, user *domain.User,
	room *domain.Room, form, fieldErrs map[string]string) {
	data := s.pageData(token, user, map[string]any{
		"Room":   room,
		"Form":   form,
		"Errors": fieldErrs,
	})
	if err := s.renderPage(w, data, "base.html", "pages/room_book.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// parseClock converts an HH:MM wall time into minutes from midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// validDate reports whether value is a well-formed YYYY-MM-DD date.
func validDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
