package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// ProductRepository stores products in SQLite
type ProductRepository struct {
	s *Store
}

// Products returns the product repository of the store
func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

const productColumns = `id, user_id, name, brand, category, start_date,
	is_active, notes, created_at, updated_at`

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.Brand, string(p.Category), toUnix(p.StartDate),
		p.IsActive, p.Notes, toUnix(p.CreatedAt), toUnix(p.UpdatedAt),
	)
	if err != nil {
		r.s.logger.Error("failed to create product", zap.Error(err), zap.String("product_id", p.ID))
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByUserID returns all products of a user, most recently added first
func (r *ProductRepository) FindByUserID(ctx context.Context, userID string) ([]model.Product, error) {
	rows, err := r.s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID returns one product owned by userID
func (r *ProductRepository) FindByID(ctx context.Context, userID, productID string) (*model.Product, error) {
	row := r.s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = ? AND user_id = ?`, productID, userID)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", productID, model.ErrNotFound)
	}
	return p, err
}

// Update overwrites the mutable fields of a product
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	result, err := r.s.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, brand = ?, category = ?, start_date = ?,
		    is_active = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		p.Name, p.Brand, string(p.Category), toUnix(p.StartDate),
		p.IsActive, p.Notes, toUnix(p.UpdatedAt), p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return expectOneRow(result, "product", p.ID)
}

// SetActive flips the active flag without touching other fields
func (r *ProductRepository) SetActive(ctx context.Context, userID, productID string, active bool, at time.Time) error {
	result, err := r.s.db.ExecContext(ctx,
		`UPDATE products SET is_active = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		active, toUnix(at), productID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set product active flag: %w", err)
	}
	return expectOneRow(result, "product", productID)
}

// Delete removes a product owned by userID
func (r *ProductRepository) Delete(ctx context.Context, userID, productID string) error {
	result, err := r.s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ? AND user_id = ?`, productID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectOneRow(result, "product", productID)
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		p                               model.Product
		category                        string
		startDate, createdAt, updatedAt int64
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Brand, &category, &startDate,
		&p.IsActive, &p.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	p.Category = model.ProductCategory(category)
	p.StartDate = fromUnix(startDate)
	p.CreatedAt = fromUnix(createdAt)
	p.UpdatedAt = fromUnix(updatedAt)

	return &p, nil
}
