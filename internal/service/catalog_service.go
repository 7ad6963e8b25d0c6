package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hobbyhall/storefront/internal/domain"
	"github.com/hobbyhall/storefront/internal/imagestore"
	"github.com/hobbyhall/storefront/internal/slug"
	"github.com/hobbyhall/storefront/internal/vision"
)

// ErrVisionUnavailable is returned by SuggestListing when no vision backend
// is configured.
var ErrVisionUnavailable = errors.New("vision backend not configured")

// productRepository is the subset of store.ProductStore that CatalogService requires.
type productRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, query string) ([]*domain.Product, error)
}

type CatalogService struct {
	products productRepository
	images   imagestore.ImageStore
	analyzer vision.Analyzer // nil when no backend is configured
	logger   *slog.Logger
}

func NewCatalogService(products productRepository, images imagestore.ImageStore, analyzer vision.Analyzer, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		images:   images,
		analyzer: analyzer,
		logger:   logger,
	}
}

// ProductInput carries validated form fields for create and edit.
type ProductInput struct {
	Name         string
	Slug         string
	PriceCents   int64
	InventoryQty int64
	ImageURL     string
	Description  string
	Category     string
}

func (s *CatalogService) ListProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.products.List(ctx, query)
}

func (s *CatalogService) GetProduct(ctx context.Context, productSlug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, productSlug)
}

func (s *CatalogService) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// CreateProduct saves a new product. A blank slug is derived from the name.
// When image data is present it is stored and wins over any submitted image
// URL; otherwise the URL (possibly blank) is saved as-is.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, imageData []byte, imageMime string) (*domain.Product, error) {
	p := &domain.Product{
		Name:         in.Name,
		Slug:         resolveSlug(in.Slug, in.Name),
		PriceCents:   in.PriceCents,
		InventoryQty: in.InventoryQty,
		ImageURL:     in.ImageURL,
		Description:  in.Description,
		Category:     in.Category,
	}
	if p.Slug == "" {
		return nil, fmt.Errorf("could not derive a slug from name %q", in.Name)
	}

	if len(imageData) > 0 {
		key, err := s.images.Save(ctx, "product", imageMime, bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
		p.ImagePath = key
		p.ImageURL = ""
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		if p.ImagePath != "" {
			if derr := s.images.Delete(ctx, p.ImagePath); derr != nil {
				s.logger.Error("failed to remove orphaned image", "key", p.ImagePath, "error", derr)
			}
		}
		return nil, err
	}

	s.logger.Info("product created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdateProduct edits an existing product. A new upload replaces the stored
// image and clears the URL; without one, the stored image is kept and the
// submitted URL saved alongside (the stored image keeps render precedence).
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in ProductInput, imageData []byte, imageMime string) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	p := &domain.Product{
		ID:           id,
		Name:         in.Name,
		Slug:         resolveSlug(in.Slug, in.Name),
		PriceCents:   in.PriceCents,
		InventoryQty: in.InventoryQty,
		ImagePath:    existing.ImagePath,
		ImageURL:     in.ImageURL,
		Description:  in.Description,
		Category:     in.Category,
	}
	if p.Slug == "" {
		return nil, fmt.Errorf("could not derive a slug from name %q", in.Name)
	}

	oldImage := ""
	if len(imageData) > 0 {
		key, err := s.images.Save(ctx, "product", imageMime, bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
		oldImage = existing.ImagePath
		p.ImagePath = key
		p.ImageURL = ""
	}

	if err := s.products.Update(ctx, p); err != nil {
		if len(imageData) > 0 {
			if derr := s.images.Delete(ctx, p.ImagePath); derr != nil {
				s.logger.Error("failed to remove orphaned image", "key", p.ImagePath, "error", derr)
			}
		}
		return nil, err
	}

	if oldImage != "" {
		if err := s.images.Delete(ctx, oldImage); err != nil {
			s.logger.Error("failed to delete replaced image", "key", oldImage, "error", err)
		}
	}

	return s.products.GetByID(ctx, id)
}

// ProductImage streams the stored upload for the product with the given slug.
func (s *CatalogService) ProductImage(ctx context.Context, productSlug string) (io.ReadCloser, string, error) {
	p, err := s.products.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, "", err
	}
	if p == nil || p.ImagePath == "" {
		return nil, "", domain.ErrNotFound
	}
	return s.images.Get(ctx, p.ImagePath)
}

// SuggestListing asks the configured vision backend to draft a listing from
// a product photo.
func (s *CatalogService) SuggestListing(ctx context.Context, imageData []byte, mimeType string) (*vision.Suggestion, error) {
	if s.analyzer == nil {
		return nil, ErrVisionUnavailable
	}
	suggestion, err := s.analyzer.Analyze(ctx, bytes.NewReader(imageData), mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	s.logger.Info("listing suggested", "name", suggestion.Name)
	return suggestion, nil
}

// resolveSlug cleans the submitted slug, falling back to one derived from
// the name when the field was left blank.
func resolveSlug(submitted, name string) string {
	if submitted != "" {
		return slug.Make(submitted)
	}
	return slug.Make(name)
}
