package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/hobbyhall/storefront/internal/domain"
	"github.com/hobbyhall/storefront/internal/service"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	events, err := s.events.ListEvents(r.Context())
	if err != nil {
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		s.logger.Error("list events failed", "error", err)
		return
	}

	data := s.pageData(token, user, map[string]any{"Events": events})
	if err := s.renderPage(w, data, "base.html", "pages/events.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleEventDetail(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	var userID int64
	if user != nil {
		userID = user.ID
	}
	detail, err := s.events.GetEventDetail(r.Context(), r.PathValue("slug"), userID)
	if err != nil {
		http.Error(w, "failed to get event", http.StatusInternalServerError)
		s.logger.Error("get event failed", "error", err)
		return
	}
	if detail == nil {
		http.NotFound(w, r)
		return
	}

	data := s.pageData(token, user, map[string]any{"Detail": detail})
	if err := s.renderPage(w, data, "base.html", "pages/event_detail.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleEventCreateForm(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	s.renderEventForm(w, token, user, map[string]string{}, map[string]string{})
}

func (s *Server) handleEventCreate(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	form := map[string]string{
		"title":       strings.TrimSpace(r.FormValue("title")),
		"slug":        strings.TrimSpace(r.FormValue("slug")),
		"date":        strings.TrimSpace(r.FormValue("date")),
		"start_time":  strings.TrimSpace(r.FormValue("start_time")),
		"capacity":    strings.TrimSpace(r.FormValue("capacity")),
		"description": strings.TrimSpace(r.FormValue("description")),
	}
	fieldErrs := map[string]string{}

	if form["title"] == "" {
		fieldErrs["title"] = "Title is required."
	}
	if !validDate(form["date"]) {
		fieldErrs["date"] = "Enter a date like 2030-06-14."
	}
	if _, err := parseClock(form["start_time"]); err != nil {
		fieldErrs["start_time"] = "Enter a time like 18:00."
	}
	var capacity int64
	if form["capacity"] != "" {
		var err error
		capacity, err = strconv.ParseInt(form["capacity"], 10, 64)
		if err != nil || capacity < 0 {
			fieldErrs["capacity"] = "Capacity must be a non-negative whole number."
		}
	}

	if len(fieldErrs) == 0 {
		event, err := s.events.CreateEvent(r.Context(), service.EventInput{
			Title:       form["title"],
			Slug:        form["slug"],
			Description: form["description"],
			Date:        form["date"],
			StartTime:   form["start_time"],
			Capacity:    capacity,
		})
		switch {
		case errors.Is(err, domain.ErrSlugTaken):
			fieldErrs["slug"] = "That slug is already taken."
		case err != nil:
			http.Error(w, "failed to create event", http.StatusInternalServerError)
			s.logger.Error("create event failed", "error", err)
			return
		default:
			s.flashAndRedirect(w, r, token, "success", "Event created.", "/events/"+event.Slug)
			return
		}
	}

	s.renderEventForm(w, token, user, form, fieldErrs)
}

func (s *Server) handleEventRegister(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	eventSlug := r.PathValue("slug")
	err := s.events.Register(r.Context(), eventSlug, user.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, domain.ErrAlreadyRegistered):
		s.flashAndRedirect(w, r, token, "info", "You are already registered.", "/events/"+eventSlug)
	case errors.Is(err, domain.ErrEventFull):
		s.flashAndRedirect(w, r, token, "error", "Sorry, this event is full.", "/events/"+eventSlug)
	case err != nil:
		http.Error(w, "failed to register", http.StatusInternalServerError)
		s.logger.Error("register failed", "event", eventSlug, "error", err)
	default:
		s.flashAndRedirect(w, r, token, "success", "See you there!", "/events/"+eventSlug)
	}
}

func (s *Server) handleEventUnregister(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	eventSlug := r.PathValue("slug")
	err := s.events.Unregister(r.Context(), eventSlug, user.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.NotFound(w, r)
	case err != nil:
		http.Error(w, "failed to unregister", http.StatusInternalServerError)
		s.logger.Error("unregister failed", "event", eventSlug, "error", err)
	default:
		s.flashAndRedirect(w, r, token, "success", "Your registration was cancelled.", "/events/"+eventSlug)
	}
}

func (s *Server) renderEventForm(w http.ResponseWriter, token string, user *domain.User, form, fieldErrs map[string]string) {
	data := s.pageData(token, user, map[string]any{"Form": form, "Errors": fieldErrs})
	if err := s.renderPage(w, data, "base.html", "pages/event_form.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
