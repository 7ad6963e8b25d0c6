package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hobbyhall/storefront/internal/cart"
	"github.com/hobbyhall/storefront/internal/domain"
	"github.com/hobbyhall/storefront/internal/money"
	"github.com/hobbyhall/storefront/internal/service"
	"github.com/hobbyhall/storefront/internal/session"
)

type Server struct {
	catalog   *service.CatalogService
	events    *service.EventService
	bookings  *service.BookingService
	auth      *service.AuthService
	sessions  *session.Store
	templates embed.FS
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	logger    *slog.Logger
}

func NewServer(catalog *service.CatalogService, events *service.EventService,
	bookings *service.BookingService, auth *service.AuthService,
	sessions *session.Store, tmpl embed.FS, logger *slog.Logger) *Server {
	s := &Server{
		catalog:   catalog,
		events:    events,
		bookings:  bookings,
		auth:      auth,
		sessions:  sessions,
		templates: tmpl,
		mux:       http.NewServeMux(),
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"formatCents": money.FormatCents,
			"minuteClock": minuteClock,
			"deref":       func(p *int64) int64 { return *p },
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.withSession(s.handleListProducts))
	s.mux.HandleFunc("GET /product/create", s.requireStaff(s.handleProductCreateForm))
	s.mux.HandleFunc("POST /product/create", s.requireStaff(s.handleProductCreate))
	s.mux.HandleFunc("POST /product/suggest", s.requireStaff(s.handleSuggestListing))
	s.mux.HandleFunc("GET /product/{slug}", s.withSession(s.handleProductDetail))
	s.mux.HandleFunc("GET /product/{slug}/image", s.handleProductImage)
	s.mux.HandleFunc("GET /product/{slug}/edit", s.requireStaff(s.handleProductEditForm))
	s.mux.HandleFunc("POST /product/{slug}/edit", s.requireStaff(s.handleProductEdit))

	s.mux.HandleFunc("GET /cart", s.withSession(s.handleCartPage))
	s.mux.HandleFunc("POST /cart/add/{id}", s.withSession(s.handleCartAdd))
	s.mux.HandleFunc("POST /cart/remove/{id}", s.withSession(s.handleCartRemove))
	s.mux.HandleFunc("POST /cart/update/{id}", s.withSession(s.handleCartUpdate))
	s.mux.HandleFunc("POST /cart/clear", s.withSession(s.handleCartClear))

	s.mux.HandleFunc("GET /events", s.withSession(s.handleListEvents))
	s.mux.HandleFunc("GET /events/create", s.requireStaff(s.handleEventCreateForm))
	s.mux.HandleFunc("POST /events/create", s.requireStaff(s.handleEventCreate))
	s.mux.HandleFunc("GET /events/{slug}", s.withSession(s.handleEventDetail))
	s.mux.HandleFunc("POST /events/{slug}/register", s.requireUser(s.handleEventRegister))
	s.mux.HandleFunc("POST /events/{slug}/unregister", s.requireUser(s.handleEventUnregister))

	s.mux.HandleFunc("GET /rooms", s.withSession(s.handleListRooms))
	s.mux.HandleFunc("GET /rooms/{slug}/book", s.requireUser(s.handleRoomBookForm))
	s.mux.HandleFunc("POST /rooms/{slug}/book", s.requireUser(s.handleRoomBook))
	s.mux.HandleFunc("POST /rooms/bookings/{id}/cancel", s.requireUser(s.handleBookingCancel))

	s.mux.HandleFunc("GET /login", s.withSession(s.handleLoginForm))
	s.mux.HandleFunc("POST /login", s.withSession(s.handleLogin))
	s.mux.HandleFunc("GET /signup", s.withSession(s.handleSignupForm))
	s.mux.HandleFunc("POST /signup", s.withSession(s.handleSignup))
	s.mux.HandleFunc("GET /logout", s.withSession(s.handleLogout))
	s.mux.HandleFunc("POST /logout", s.withSession(s.handleLogout))
}

// sessionHandler is a handler that runs with a resolved session token and the
// signed-in user, nil for anonymous visitors.
type sessionHandler func(w http.ResponseWriter, r *http.Request, token string, user *domain.User)

// withSession resolves the session cookie, creating a fresh session (and
// setting the cookie) when the request carries none or it expired.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.sessionToken(w, r)
		next(w, r, token, s.currentUser(r, token))
	}
}

func (s *Server) requireUser(next sessionHandler) http.HandlerFunc {
	return s.withSession(func(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
		if user == nil {
			s.sessions.AddFlash(token, "info", "Please log in first.")
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next(w, r, token, user)
	})
}

func (s *Server) requireStaff(next sessionHandler) http.HandlerFunc {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
		if !user.IsStaff {
			s.flashAndRedirect(w, r, token, "error", "Staff access required.", "/")
			return
		}
		next(w, r, token, user)
	})
}

func (s *Server) sessionToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && s.sessions.Valid(c.Value) {
		return c.Value
	}
	token := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (s *Server) currentUser(r *http.Request, token string) *domain.User {
	id := s.sessions.UserID(token)
	if id == 0 {
		return nil
	}
	user, err := s.auth.UserByID(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to load session user", "user_id", id, "error", err)
		return nil
	}
	return user
}

func (s *Server) flashAndRedirect(w http.ResponseWriter, r *http.Request, token, level, message, target string) {
	s.sessions.AddFlash(token, level, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// pageData decorates per-page template data with the state every page needs:
// the signed-in user, pending flashes, and the cart badge count.
func (s *Server) pageData(token string, user *domain.User, data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data["User"] = user
	data["Flashes"] = s.sessions.PopFlashes(token)
	data["CartCount"] = cart.Load(s.sessions, token).Len()
	return data
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' https: data:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}

// minuteClock renders minutes-from-midnight as a wall clock time.
func minuteClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
