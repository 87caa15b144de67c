package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// ReportRepository records generated PDF reports
type ReportRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{db: db, logger: logger}
}

// Save stores report metadata
func (r *ReportRepository) Save(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (
			id, user_id, date_range_start, date_range_end,
			file_path, generated_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		report.ID,
		report.UserID,
		report.DateRangeStart,
		report.DateRangeEnd,
		report.FilePath,
		report.GeneratedAt,
		report.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to save report", zap.Error(err), zap.String("report_id", report.ID))
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// FindByID returns report metadata owned by userID
func (r *ReportRepository) FindByID(ctx context.Context, userID, reportID string) (*model.Report, error) {
	query := `
		SELECT id, user_id, date_range_start, date_range_end,
		       file_path, generated_at, created_at
		FROM reports
		WHERE id = $1 AND user_id = $2
	`

	var report model.Report
	err := r.db.QueryRow(ctx, query, reportID, userID).Scan(
		&report.ID,
		&report.UserID,
		&report.DateRangeStart,
		&report.DateRangeEnd,
		&report.FilePath,
		&report.GeneratedAt,
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report %s: %w", reportID, model.ErrNotFound)
		}
		r.logger.Error("failed to find report", zap.Error(err), zap.String("report_id", reportID))
		return nil, fmt.Errorf("failed to find report: %w", err)
	}

	return &report, nil
}

// FindByUserID returns all reports of a user, newest first
func (r *ReportRepository) FindByUserID(ctx context.Context, userID string) ([]model.Report, error) {
	query := `
		SELECT id, user_id, date_range_start, date_range_end,
		       file_path, generated_at, created_at
		FROM reports
		WHERE user_id = $1
		ORDER BY generated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reports: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		var report model.Report
		if err := rows.Scan(
			&report.ID,
			&report.UserID,
			&report.DateRangeStart,
			&report.DateRangeEnd,
			&report.FilePath,
			&report.GeneratedAt,
			&report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}
