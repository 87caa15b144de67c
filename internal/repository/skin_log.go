package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// SkinLogRepository manages skin journal entries
type SkinLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSkinLogRepository creates a new SkinLogRepository
func NewSkinLogRepository(db *pgxpool.Pool, logger *zap.Logger) *SkinLogRepository {
	return &SkinLogRepository{
		db:     db,
		logger: logger,
	}
}

const skinLogColumns = `
	id, user_id, logged_at, condition, concerns, notes,
	photo_uri, skin_score, analysis, created_at, updated_at
`

// Create inserts a new skin log
func (r *SkinLogRepository) Create(ctx context.Context, log *model.SkinLog) error {
	analysis, err := encodeAnalysis(log.Analysis)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO skin_logs (` + skinLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.Date,
		log.Condition,
		nonNil(log.Concerns),
		log.Notes,
		log.PhotoURI,
		log.SkinScore,
		analysis,
		log.CreatedAt,
		log.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create skin log",
			zap.Error(err),
			zap.String("log_id", log.ID),
			zap.String("user_id", log.UserID),
		)
		return fmt.Errorf("failed to create skin log: %w", err)
	}

	return nil
}

// FindByUserID returns all logs of a user, newest first
func (r *SkinLogRepository) FindByUserID(ctx context.Context, userID string) ([]model.SkinLog, error) {
	query := `
		SELECT ` + skinLogColumns + `
		FROM skin_logs
		WHERE user_id = $1
		ORDER BY logged_at DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to find skin logs", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find skin logs: %w", err)
	}
	defer rows.Close()

	logs := []model.SkinLog{}
	for rows.Next() {
		log, err := scanSkinLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating skin logs", zap.Error(err))
		return nil, fmt.Errorf("error iterating skin logs: %w", err)
	}

	return logs, nil
}

// FindByID returns one log owned by userID
func (r *SkinLogRepository) FindByID(ctx context.Context, userID, logID string) (*model.SkinLog, error) {
	query := `
		SELECT ` + skinLogColumns + `
		FROM skin_logs
		WHERE id = $1 AND user_id = $2
	`

	log, err := scanSkinLog(r.db.QueryRow(ctx, query, logID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("skin log %s: %w", logID, model.ErrNotFound)
		}
		r.logger.Error("failed to find skin log", zap.Error(err), zap.String("log_id", logID))
		return nil, err
	}

	return log, nil
}

// Update overwrites the mutable fields of a log
func (r *SkinLogRepository) Update(ctx context.Context, log *model.SkinLog) error {
	analysis, err := encodeAnalysis(log.Analysis)
	if err != nil {
		return err
	}

	query := `
		UPDATE skin_logs
		SET logged_at = $1, condition = $2, concerns = $3, notes = $4,
		    photo_uri = $5, skin_score = $6, analysis = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`

	result, err := r.db.Exec(ctx, query,
		log.Date,
		log.Condition,
		nonNil(log.Concerns),
		log.Notes,
		log.PhotoURI,
		log.SkinScore,
		analysis,
		log.UpdatedAt,
		log.ID,
		log.UserID,
	)
	if err != nil {
		r.logger.Error("failed to update skin log",
			zap.Error(err),
			zap.String("log_id", log.ID),
		)
		return fmt.Errorf("failed to update skin log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("skin log %s: %w", log.ID, model.ErrNotFound)
	}

	return nil
}

// Delete removes a log owned by userID
func (r *SkinLogRepository) Delete(ctx context.Context, userID, logID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM skin_logs WHERE id = $1 AND user_id = $2`, logID, userID)
	if err != nil {
		r.logger.Error("failed to delete skin log",
			zap.Error(err),
			zap.String("log_id", logID),
		)
		return fmt.Errorf("failed to delete skin log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("skin log %s: %w", logID, model.ErrNotFound)
	}

	return nil
}

func scanSkinLog(row pgx.Row) (*model.SkinLog, error) {
	var (
		log      model.SkinLog
		analysis []byte
	)
	err := row.Scan(
		&log.ID,
		&log.UserID,
		&log.Date,
		&log.Condition,
		&log.Concerns,
		&log.Notes,
		&log.PhotoURI,
		&log.SkinScore,
		&analysis,
		&log.CreatedAt,
		&log.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan skin log: %w", err)
	}

	if log.Analysis, err = decodeAnalysis(analysis); err != nil {
		return nil, err
	}

	return &log, nil
}

func encodeAnalysis(a *model.SkinAnalysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return data, nil
}

func decodeAnalysis(data []byte) (*model.SkinAnalysis, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var a model.SkinAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &a, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
