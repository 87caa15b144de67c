package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/internal/security"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// ProductRepositoryInterface defines the product store used by the services
type ProductRepositoryInterface interface {
	Create(ctx context.Context, p *model.Product) error
	FindByUserID(ctx context.Context, userID string) ([]model.Product, error)
	FindByID(ctx context.Context, userID, productID string) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SetActive(ctx context.Context, userID, productID string, active bool, at time.Time) error
	Delete(ctx context.Context, userID, productID string) error
}

// ProductService manages the user's skincare routine
type ProductService struct {
	repo      ProductRepositoryInterface
	encryptor *security.Encryptor
	audit     *audit.Logger
	logger    *zap.Logger
	now       func() time.Time
}

// NewProductService creates a new ProductService
func NewProductService(repo ProductRepositoryInterface, encryptor *security.Encryptor, auditLogger *audit.Logger, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		encryptor: encryptor,
		audit:     auditLogger,
		logger:    logger,
		now:       time.Now,
	}
}

// AddProduct stores a new product. New products are active and start today
// unless a start date is given.
func (s *ProductService) AddProduct(ctx context.Context, userID string, p *model.Product) error {
	if userID == "" {
		return fmt.Errorf("user ID is required: %w", model.ErrInvalidInput)
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := validateProduct(p); err != nil {
		return err
	}

	now := s.now()
	p.ID = uuid.New().String()
	p.UserID = userID
	p.IsActive = true
	if p.StartDate.IsZero() {
		p.StartDate = now
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	stored, err := s.seal(p)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, stored); err != nil {
		s.logger.Error("failed to add product",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("product_name", p.Name),
		)
		return fmt.Errorf("failed to add product: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationCreate, audit.ResourceProduct, p.ID)

	s.logger.Info("product added",
		zap.String("product_id", p.ID),
		zap.String("user_id", userID),
		zap.String("category", string(p.Category)),
	)
	return nil
}

// ListProducts returns all products of a user
func (s *ProductService) ListProducts(ctx context.Context, userID string) ([]model.Product, error) {
	products, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list products",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	for i := range products {
		if err := s.open(&products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// UpdateProduct applies a partial update
func (s *ProductService) UpdateProduct(ctx context.Context, userID, productID string, upd model.ProductUpdate) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if err := s.open(p); err != nil {
		return nil, err
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Brand != nil {
		p.Brand = *upd.Brand
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.StartDate != nil {
		p.StartDate = *upd.StartDate
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}
	if upd.Notes != nil {
		p.Notes = *upd.Notes
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()

	stored, err := s.seal(p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, stored); err != nil {
		s.logger.Error("failed to update product",
			zap.Error(err),
			zap.String("product_id", productID),
		)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationUpdate, audit.ResourceProduct, productID)
	return p, nil
}

// SetActive marks a product as in use or stopped
func (s *ProductService) SetActive(ctx context.Context, userID, productID string, active bool) error {
	if err := s.repo.SetActive(ctx, userID, productID, active, s.now()); err != nil {
		return fmt.Errorf("failed to set product status: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationUpdate, audit.ResourceProduct, productID)

	s.logger.Info("product status changed",
		zap.String("product_id", productID),
		zap.Bool("active", active),
	)
	return nil
}

// DeleteProduct removes a product owned by userID
func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID string) error {
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationDelete, audit.ResourceProduct, productID)
	return nil
}

func validateProduct(p *model.Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required: %w", model.ErrInvalidInput)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown product category %q: %w", p.Category, model.ErrInvalidInput)
	}
	return nil
}

func (s *ProductService) seal(p *model.Product) (*model.Product, error) {
	stored := *p
	notes, err := s.encryptor.Encrypt(p.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt notes: %w", err)
	}
	stored.Notes = notes
	return &stored, nil
}

func (s *ProductService) open(p *model.Product) error {
	notes, err := s.encryptor.Decrypt(p.Notes)
	if err != nil {
		return fmt.Errorf("failed to decrypt product notes: %w", err)
	}
	p.Notes = notes
	return nil
}
