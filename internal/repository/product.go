package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// ProductRepository manages the products a user tracks
type ProductRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *pgxpool.Pool, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `
	id, user_id, name, brand, category, start_date,
	is_active, notes, created_at, updated_at
`

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Brand,
		p.Category,
		p.StartDate,
		p.IsActive,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create product",
			zap.Error(err),
			zap.String("product_id", p.ID),
			zap.String("user_id", p.UserID),
		)
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByUserID returns all products of a user, most recently added first
func (r *ProductRepository) FindByUserID(ctx context.Context, userID string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to find products", zap.Error(err), zap.String("user_id", userID))
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
		r.logger.Error("error iterating products", zap.Error(err))
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID returns one product owned by userID
func (r *ProductRepository) FindByID(ctx context.Context, userID, productID string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND user_id = $2
	`

	p, err := scanProduct(r.db.QueryRow(ctx, query, productID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", productID, model.ErrNotFound)
		}
		r.logger.Error("failed to find product", zap.Error(err), zap.String("product_id", productID))
		return nil, err
	}

	return p, nil
}

// Update overwrites the mutable fields of a product
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $1, brand = $2, category = $3, start_date = $4,
		    is_active = $5, notes = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`

	result, err := r.db.Exec(ctx, query,
		p.Name,
		p.Brand,
		p.Category,
		p.StartDate,
		p.IsActive,
		p.Notes,
		p.UpdatedAt,
		p.ID,
		p.UserID,
	)
	if err != nil {
		r.logger.Error("failed to update product", zap.Error(err), zap.String("product_id", p.ID))
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", p.ID, model.ErrNotFound)
	}

	return nil
}

// SetActive flips the active flag without touching other fields
func (r *ProductRepository) SetActive(ctx context.Context, userID, productID string, active bool, at time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE products SET is_active = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		active, at, productID, userID,
	)
	if err != nil {
		r.logger.Error("failed to set product active flag", zap.Error(err), zap.String("product_id", productID))
		return fmt.Errorf("failed to set product active flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, model.ErrNotFound)
	}

	return nil
}

// Delete removes a product owned by userID
func (r *ProductRepository) Delete(ctx context.Context, userID, productID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, productID, userID)
	if err != nil {
		r.logger.Error("failed to delete product", zap.Error(err), zap.String("product_id", productID))
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, model.ErrNotFound)
	}

	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Brand,
		&p.Category,
		&p.StartDate,
		&p.IsActive,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}
