package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hobbyhall/storefront/internal/cart"
	"github.com/hobbyhall/storefront/internal/domain"
)

// catalogProducts adapts CatalogService to the cart's product lookup.
type catalogProducts struct {
	catalog productByIDGetter
}

type productByIDGetter interface {
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
}

func (c catalogProducts) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return c.catalog.GetProductByID(ctx, id)
}

func (s *Server) handleCartPage(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	c := cart.Load(s.sessions, token)
	lines, err := c.Items(r.Context(), catalogProducts{s.catalog})
	if err != nil {
		http.Error(w, "failed to load cart", http.StatusInternalServerError)
		s.logger.Error("load cart failed", "error", err)
		return
	}

	data := s.pageData(token, user, map[string]any{
		"Lines":      lines,
		"TotalCents": c.TotalCents(),
	})
	if err := s.renderPage(w, data, "base.html", "pages/cart.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	product, ok := s.cartProduct(w, r)
	if !ok {
		return
	}
	cart.Load(s.sessions, token).Add(product, 1, false)
	s.flashAndRedirect(w, r, token, "success", product.Name+" added to your cart.", "/cart")
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	cart.Load(s.sessions, token).Remove(id)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// handleCartUpdate steps a line's quantity by one in the given direction.
// Stepping down from one removes the line.
func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	product, ok := s.cartProduct(w, r)
	if !ok {
		return
	}

	var step int64
	switch r.FormValue("direction") {
	case "up":
		step = 1
	case "down":
		step = -1
	default:
		http.Error(w, "direction must be up or down", http.StatusBadRequest)
		return
	}

	cart.Load(s.sessions, token).Add(product, step, false)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	cart.Load(s.sessions, token).Clear()
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// cartProduct resolves the {id} path variable to a live product, writing the
// error response itself when the id is malformed or unknown.
func (s *Server) cartProduct(w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return nil, false
	}
	product, err := s.catalog.GetProductByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to get product", http.StatusInternalServerError)
		s.logger.Error("get product failed", "product_id", id, "error", err)
		return nil, false
	}
	if product == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return product, true
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
