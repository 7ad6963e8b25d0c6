package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hobbyhall/storefront/internal/domain"
)

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, slug, price_cents, inventory_qty, image_path, image_url, description, category, created_at, updated_at`

func (s *ProductStore) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, slug, price_cents, inventory_qty, image_path, image_url, description, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Slug, p.PriceCents, p.InventoryQty, p.ImagePath, p.ImageURL, p.Description, p.Category)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ProductStore) Update(ctx context.Context, p *domain.Product) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, slug = ?, price_cents = ?, inventory_qty = ?, image_path = ?,
		    image_url = ?, description = ?, category = ?, updated_at = datetime('now')
		WHERE id = ?
	`, p.Name, p.Slug, p.PriceCents, p.InventoryQty, p.ImagePath, p.ImageURL, p.Description, p.Category, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (s *ProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id))
}

func (s *ProductStore) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = ?`, slug))
}

// List returns products newest first. A non-empty query filters on a
// case-insensitive substring match against the name.
func (s *ProductStore) List(ctx context.Context, query string) ([]*domain.Product, error) {
	var rows *sql.Rows
	var err error
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE LOWER(name) LIKE ? ORDER BY id DESC`, pattern)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+productColumns+` FROM products ORDER BY id DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := scanProduct(rows, p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (s *ProductStore) scanOne(row *sql.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.PriceCents, &p.InventoryQty,
		&p.ImagePath, &p.ImageURL, &p.Description, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func scanProduct(rows *sql.Rows, p *domain.Product) error {
	if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.PriceCents, &p.InventoryQty,
		&p.ImagePath, &p.ImageURL, &p.Description, &p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to scan product: %w", err)
	}
	return nil
}
