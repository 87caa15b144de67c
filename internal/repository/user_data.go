package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// UserDataRepository runs operations spanning every table of a user
type UserDataRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUserDataRepository creates a new UserDataRepository
func NewUserDataRepository(db *pgxpool.Pool, logger *zap.Logger) *UserDataRepository {
	return &UserDataRepository{db: db, logger: logger}
}

// DeleteAll removes the logs, products and reports of a user in one
// transaction. Audit entries are kept.
func (r *UserDataRepository) DeleteAll(ctx context.Context, userID string) (model.DeletionCounts, error) {
	var counts model.DeletionCounts

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return counts, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "DELETE FROM skin_logs WHERE user_id = $1", userID)
	if err != nil {
		return counts, fmt.Errorf("failed to delete skin logs: %w", err)
	}
	counts.SkinLogs = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, "DELETE FROM products WHERE user_id = $1", userID)
	if err != nil {
		return counts, fmt.Errorf("failed to delete products: %w", err)
	}
	counts.Products = int(tag.RowsAffected())

	tag, err = tx.Exec(ctx, "DELETE FROM reports WHERE user_id = $1", userID)
	if err != nil {
		return counts, fmt.Errorf("failed to delete reports: %w", err)
	}
	counts.Reports = int(tag.RowsAffected())

	if err := tx.Commit(ctx); err != nil {
		return model.DeletionCounts{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("user data deleted",
		zap.String("user_id", userID),
		zap.Int("skin_logs", counts.SkinLogs),
		zap.Int("products", counts.Products),
		zap.Int("reports", counts.Reports),
	)

	return counts, nil
}
