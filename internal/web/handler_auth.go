package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hobbyhall/storefront/internal/domain"
	"github.com/hobbyhall/storefront/internal/session"
)

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	if user != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderLoginForm(w, token, nil, safeNext(r.URL.Query().Get("next")),
		map[string]string{}, map[string]string{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	email := strings.TrimSpace(r.FormValue("email"))
	next := safeNext(r.FormValue("next"))

	loggedIn, err := s.auth.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			s.renderLoginForm(w, token, nil, next,
				map[string]string{"email": email},
				map[string]string{"credentials": "Wrong email or password."})
			return
		}
		http.Error(w, "failed to log in", http.StatusInternalServerError)
		s.logger.Error("login failed", "error", err)
		return
	}

	s.sessions.SetUserID(token, loggedIn.ID)
	s.flashAndRedirect(w, r, token, "success", "Welcome back, "+loggedIn.Name+".", next)
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	if user != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderSignupForm(w, token, map[string]string{}, map[string]string{})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	form := map[string]string{
		"name":  strings.TrimSpace(r.FormValue("name")),
		"email": strings.TrimSpace(r.FormValue("email")),
	}

	created, err := s.auth.Signup(r.Context(), form["email"], form["name"], r.FormValue("password"))
	if err != nil {
		fieldErrs := map[string]string{}
		if errors.Is(err, domain.ErrEmailTaken) {
			fieldErrs["signup"] = "An account with that email already exists."
		} else {
			fieldErrs["signup"] = err.Error()
		}
		s.renderSignupForm(w, token, form, fieldErrs)
		return
	}

	s.sessions.SetUserID(token, created.ID)
	s.flashAndRedirect(w, r, token, "success", "Welcome, "+created.Name+".", "/")
}

// handleLogout ends the session. The old token is destroyed, so the cart it
// carried is gone too; the response sets a fresh anonymous session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	s.sessions.Destroy(token)
	fresh := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    fresh,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.flashAndRedirect(w, r, fresh, "info", "You are logged out.", "/")
}

func (s *Server) renderLoginForm(w http.ResponseWriter, token string, user *domain.User,
	next string, form, fieldErrs map[string]string) {
	data := s.pageData(token, user, map[string]any{
		"Next":   next,
		"Form":   form,
		"Errors": fieldErrs,
	})
	if err := s.renderPage(w, data, "base.html", "pages/login.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) renderSignupForm(w http.ResponseWriter, token string, form, fieldErrs map[string]string) {
	data := s.pageData(token, nil, map[string]any{
		"Form":   form,
		"Errors": fieldErrs,
	})
	if err := s.renderPage(w, data, "base.html", "pages/signup.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// safeNext keeps post-login redirects on this site. Anything that is not a
// plain local path falls back to the home page.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
