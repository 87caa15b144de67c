package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
)

// ReportRepository stores report metadata in SQLite
type ReportRepository struct {
	s *Store
}

// Reports returns the report repository of the store
func (s *Store) Reports() *ReportRepository {
	return &ReportRepository{s: s}
}

// Save stores report metadata
func (r *ReportRepository) Save(ctx context.Context, report *model.Report) error {
	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO reports (id, user_id, date_range_start, date_range_end, file_path, generated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.UserID, toUnix(report.DateRangeStart), toUnix(report.DateRangeEnd),
		report.FilePath, toUnix(report.GeneratedAt), toUnix(report.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// FindByID returns report metadata owned by userID
func (r *ReportRepository) FindByID(ctx context.Context, userID, reportID string) (*model.Report, error) {
	row := r.s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date_range_start, date_range_end, file_path, generated_at, created_at
		FROM reports WHERE id = ? AND user_id = ?`, reportID, userID)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", reportID, model.ErrNotFound)
	}
	return report, err
}

// FindByUserID returns all reports of a user, newest first
func (r *ReportRepository) FindByUserID(ctx context.Context, userID string) ([]model.Report, error) {
	rows, err := r.s.db.QueryContext(ctx, `
		SELECT id, user_id, date_range_start, date_range_end, file_path, generated_at, created_at
		FROM reports WHERE user_id = ?
		ORDER BY generated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reports: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

func scanReport(row rowScanner) (*model.Report, error) {
	var (
		report                             model.Report
		start, end, generatedAt, createdAt int64
	)
	if err := row.Scan(&report.ID, &report.UserID, &start, &end, &report.FilePath, &generatedAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	report.DateRangeStart = fromUnix(start)
	report.DateRangeEnd = fromUnix(end)
	report.GeneratedAt = fromUnix(generatedAt)
	report.CreatedAt = fromUnix(createdAt)
	return &report, nil
}
