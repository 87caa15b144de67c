package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// SkinLogRepository stores skin logs in SQLite
type SkinLogRepository struct {
	s *Store
}

// SkinLogs returns the skin log repository of the store
func (s *Store) SkinLogs() *SkinLogRepository {
	return &SkinLogRepository{s: s}
}

const skinLogColumns = `id, user_id, logged_at, condition, concerns, notes,
	photo_uri, skin_score, analysis, created_at, updated_at`

// Create inserts a new skin log
func (r *SkinLogRepository) Create(ctx context.Context, log *model.SkinLog) error {
	concerns, analysis, err := encodeSkinLogJSON(log)
	if err != nil {
		return err
	}

	_, err = r.s.db.ExecContext(ctx, `
		INSERT INTO skin_logs (`+skinLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.UserID, toUnix(log.Date), string(log.Condition), concerns, log.Notes,
		log.PhotoURI, log.SkinScore, analysis, toUnix(log.CreatedAt), toUnix(log.UpdatedAt),
	)
	if err != nil {
		r.s.logger.Error("failed to create skin log", zap.Error(err), zap.String("log_id", log.ID))
		return fmt.Errorf("failed to create skin log: %w", err)
	}

	return nil
}

// FindByUserID returns all logs of a user, newest first
func (r *SkinLogRepository) FindByUserID(ctx context.Context, userID string) ([]model.SkinLog, error) {
	rows, err := r.s.db.QueryContext(ctx, `
		SELECT `+skinLogColumns+`
		FROM skin_logs
		WHERE user_id = ?
		ORDER BY logged_at DESC, created_at DESC`, userID)
	if err != nil {
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
		return nil, fmt.Errorf("error iterating skin logs: %w", err)
	}

	return logs, nil
}

// FindByID returns one log owned by userID
func (r *SkinLogRepository) FindByID(ctx context.Context, userID, logID string) (*model.SkinLog, error) {
	row := r.s.db.QueryRowContext(ctx, `
		SELECT `+skinLogColumns+`
		FROM skin_logs
		WHERE id = ? AND user_id = ?`, logID, userID)

	log, err := scanSkinLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("skin log %s: %w", logID, model.ErrNotFound)
	}
	return log, err
}

// Update overwrites the mutable fields of a log
func (r *SkinLogRepository) Update(ctx context.Context, log *model.SkinLog) error {
	concerns, analysis, err := encodeSkinLogJSON(log)
	if err != nil {
		return err
	}

	result, err := r.s.db.ExecContext(ctx, `
		UPDATE skin_logs
		SET logged_at = ?, condition = ?, concerns = ?, notes = ?,
		    photo_uri = ?, skin_score = ?, analysis = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		toUnix(log.Date), string(log.Condition), concerns, log.Notes,
		log.PhotoURI, log.SkinScore, analysis, toUnix(log.UpdatedAt),
		log.ID, log.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update skin log: %w", err)
	}

	return expectOneRow(result, "skin log", log.ID)
}

// Delete removes a log owned by userID
func (r *SkinLogRepository) Delete(ctx context.Context, userID, logID string) error {
	result, err := r.s.db.ExecContext(ctx, `DELETE FROM skin_logs WHERE id = ? AND user_id = ?`, logID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete skin log: %w", err)
	}

	return expectOneRow(result, "skin log", logID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSkinLog(row rowScanner) (*model.SkinLog, error) {
	var (
		log                            model.SkinLog
		condition, concerns            string
		analysis                       sql.NullString
		loggedAt, createdAt, updatedAt int64
	)
	err := row.Scan(
		&log.ID, &log.UserID, &loggedAt, &condition, &concerns, &log.Notes,
		&log.PhotoURI, &log.SkinScore, &analysis, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan skin log: %w", err)
	}

	log.Condition = model.Condition(condition)
	log.Date = fromUnix(loggedAt)
	log.CreatedAt = fromUnix(createdAt)
	log.UpdatedAt = fromUnix(updatedAt)

	if err := json.Unmarshal([]byte(concerns), &log.Concerns); err != nil {
		return nil, fmt.Errorf("failed to decode concerns: %w", err)
	}
	if analysis.Valid && analysis.String != "" {
		log.Analysis = &model.SkinAnalysis{}
		if err := json.Unmarshal([]byte(analysis.String), log.Analysis); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
	}

	return &log, nil
}

func encodeSkinLogJSON(log *model.SkinLog) (string, sql.NullString, error) {
	concerns := log.Concerns
	if concerns == nil {
		concerns = []string{}
	}
	encodedConcerns, err := encodeJSON(concerns)
	if err != nil {
		return "", sql.NullString{}, err
	}

	if log.Analysis == nil {
		return encodedConcerns, sql.NullString{}, nil
	}
	encodedAnalysis, err := encodeJSON(log.Analysis)
	if err != nil {
		return "", sql.NullString{}, err
	}
	return encodedConcerns, sql.NullString{String: encodedAnalysis, Valid: true}, nil
}

func expectOneRow(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return nil
}
