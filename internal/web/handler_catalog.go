package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hobbyhall/storefront/internal/domain"
	"github.com/hobbyhall/storefront/internal/money"
	"github.com/hobbyhall/storefront/internal/service"
)

const maxImageSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for uploaded images.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	products, err := s.catalog.ListProducts(r.Context(), query)
	if err != nil {
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		s.logger.Error("list products failed", "error", err)
		return
	}

	data := s.pageData(token, user, map[string]any{"Products": products, "Query": query})
	if err := s.renderPage(w, data,
		"base.html", "pages/products.html", "partials/product_card.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleProductDetail(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	product, err := s.catalog.GetProduct(r.Context(), r.PathValue("slug"))
	if err != nil {
		http.Error(w, "failed to get product", http.StatusInternalServerError)
		s.logger.Error("get product failed", "error", err)
		return
	}
	if product == nil {
		http.NotFound(w, r)
		return
	}

	data := s.pageData(token, user, map[string]any{"Product": product})
	if err := s.renderPage(w, data, "base.html", "pages/product_detail.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleProductImage(w http.ResponseWriter, r *http.Request) {
	reader, mimeType, err := s.catalog.ProductImage(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load image", http.StatusInternalServerError)
		s.logger.Error("load product image failed", "error", err)
		return
	}
	defer closeWithLog(reader, "product image", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write product image failed", "error", err)
	}
}

func (s *Server) handleProductCreateForm(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	s.renderProductForm(w, token, user, "Add a product", "/product/create", true,
		map[string]string{}, map[string]string{})
}

func (s *Server) handleProductCreate(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	in, imageData, imageMime, form, fieldErrs := s.parseProductForm(r)

	if len(fieldErrs) == 0 {
		product, err := s.catalog.CreateProduct(r.Context(), in, imageData, imageMime)
		switch {
		case errors.Is(err, domain.ErrSlugTaken):
			fieldErrs["slug"] = "That slug is already taken."
		case err != nil:
			http.Error(w, "failed to create product", http.StatusInternalServerError)
			s.logger.Error("create product failed", "error", err)
			return
		default:
			s.flashAndRedirect(w, r, token, "success", "Product created.", "/product/"+product.Slug)
			return
		}
	}

	s.renderProductForm(w, token, user, "Add a product", "/product/create", true, form, fieldErrs)
}

func (s *Server) handleProductEditForm(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	product, err := s.catalog.GetProduct(r.Context(), r.PathValue("slug"))
	if err != nil {
		http.Error(w, "failed to get product", http.StatusInternalServerError)
		s.logger.Error("get product failed", "error", err)
		return
	}
	if product == nil {
		http.NotFound(w, r)
		return
	}

	form := map[string]string{
		"name":        product.Name,
		"slug":        product.Slug,
		"price":       money.FormatCents(product.PriceCents),
		"inventory":   strconv.FormatInt(product.InventoryQty, 10),
		"category":    product.Category,
		"description": product.Description,
		"image_url":   product.ImageURL,
	}
	s.renderProductForm(w, token, user, "Edit "+product.Name, "/product/"+product.Slug+"/edit", false,
		form, map[string]string{})
}

func (s *Server) handleProductEdit(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	product, err := s.catalog.GetProduct(r.Context(), r.PathValue("slug"))
	if err != nil {
		http.Error(w, "failed to get product", http.StatusInternalServerError)
		s.logger.Error("get product failed", "error", err)
		return
	}
	if product == nil {
		http.NotFound(w, r)
		return
	}

	in, imageData, imageMime, form, fieldErrs := s.parseProductForm(r)

	if len(fieldErrs) == 0 {
		updated, err := s.catalog.UpdateProduct(r.Context(), product.ID, in, imageData, imageMime)
		switch {
		case errors.Is(err, domain.ErrSlugTaken):
			fieldErrs["slug"] = "That slug is already taken."
		case err != nil:
			http.Error(w, "failed to update product", http.StatusInternalServerError)
			s.logger.Error("update product failed", "error", err)
			return
		default:
			s.flashAndRedirect(w, r, token, "success", "Product updated.", "/product/"+updated.Slug)
			return
		}
	}

	s.renderProductForm(w, token, user, "Edit "+product.Name, "/product/"+product.Slug+"/edit", false,
		form, fieldErrs)
}

// handleSuggestListing runs the uploaded photo through the vision backend and
// re-renders the create form pre-filled with the drafted listing.
func (s *Server) handleSuggestListing(w http.ResponseWriter, r *http.Request, token string, user *domain.User) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer closeWithLog(file, "suggest upload", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		s.logger.Error("read suggest upload failed", "error", err)
		return
	}
	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		http.Error(w, "unsupported image format", http.StatusBadRequest)
		return
	}

	suggestion, err := s.catalog.SuggestListing(r.Context(), imageData, mimeType)
	if err != nil {
		if errors.Is(err, service.ErrVisionUnavailable) {
			s.flashAndRedirect(w, r, token, "error", "Listing suggestions are not available.", "/product/create")
			return
		}
		http.Error(w, "failed to analyze image", http.StatusInternalServerError)
		s.logger.Error("suggest listing failed", "error", err)
		return
	}

	form := map[string]string{
		"name":        suggestion.Name,
		"category":    suggestion.Category,
		"description": suggestion.Description,
	}
	s.sessions.AddFlash(token, "info", "Listing drafted from your photo. Review and save.")
	s.renderProductForm(w, token, user, "Add a product", "/product/create", true, form, map[string]string{})
}

func (s *Server) renderProductForm(w http.ResponseWriter, token string, user *domain.User,
	heading, action string, showSuggest bool, form, fieldErrs map[string]string) {
	data := s.pageData(token, user, map[string]any{
		"Heading":     heading,
		"Action":      action,
		"ShowSuggest": showSuggest,
		"Form":        form,
		"Errors":      fieldErrs,
	})
	if err := s.renderPage(w, data, "base.html", "pages/product_form.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// parseProductForm reads the shared create/edit form. The returned form map
// echoes the submitted values for redisplay; fieldErrs is empty when the
// input is valid.
func (s *Server) parseProductForm(r *http.Request) (service.ProductInput, []byte, string, map[string]string, map[string]string) {
	// ErrNotMultipart is fine here: FormValue falls back to the urlencoded body.
	_ = r.ParseMultipartForm(maxImageSize)

	form := map[string]string{
		"name":        strings.TrimSpace(r.FormValue("name")),
		"slug":        strings.TrimSpace(r.FormValue("slug")),
		"price":       strings.TrimSpace(r.FormValue("price")),
		"inventory":   strings.TrimSpace(r.FormValue("inventory")),
		"category":    strings.TrimSpace(r.FormValue("category")),
		"description": strings.TrimSpace(r.FormValue("description")),
		"image_url":   strings.TrimSpace(r.FormValue("image_url")),
	}
	fieldErrs := map[string]string{}

	if form["name"] == "" {
		fieldErrs["name"] = "Name is required."
	}

	priceCents, err := money.ParseCents(form["price"])
	if err != nil {
		fieldErrs["price"] = "Enter a price like 19.99."
	}

	var inventory int64
	if form["inventory"] != "" {
		inventory, err = strconv.ParseInt(form["inventory"], 10, 64)
		if err != nil || inventory < 0 {
			fieldErrs["inventory"] = "Inventory must be a non-negative whole number."
		}
	}

	var imageData []byte
	var imageMime string
	if file, _, err := r.FormFile("image"); err == nil {
		defer closeWithLog(file, "product image upload", s.logger)
		data, err := io.ReadAll(file)
		if err != nil {
			fieldErrs["image"] = "Could not read the uploaded file."
		} else if len(data) > 0 {
			mime, ok := allowedImageMIME(data)
			if !ok {
				fieldErrs["image"] = "Unsupported image format."
			} else {
				imageData = data
				imageMime = mime
			}
		}
	}

	in := service.ProductInput{
		Name:         form["name"],
		Slug:         form["slug"],
		PriceCents:   priceCents,
		InventoryQty: inventory,
		ImageURL:     form["image_url"],
		Description:  form["description"],
		Category:     form["category"],
	}
	return in, imageData, imageMime, form, fieldErrs
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
