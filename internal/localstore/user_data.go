package localstore

import (
	"context"
	"fmt"

	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// DeleteAll removes the logs, products and reports of a user in one
// transaction. Audit entries are kept.
func (s *Store) DeleteAll(ctx context.Context, userID string) (model.DeletionCounts, error) {
	var counts model.DeletionCounts

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, step := range []struct {
		table string
		count *int
	}{
		{"skin_logs", &counts.SkinLogs},
		{"products", &counts.Products},
		{"reports", &counts.Reports},
	} {
		result, err := tx.ExecContext(ctx, "DELETE FROM "+step.table+" WHERE user_id = ?", userID)
		if err != nil {
			return model.DeletionCounts{}, fmt.Errorf("failed to delete %s: %w", step.table, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return model.DeletionCounts{}, fmt.Errorf("failed to count deleted %s: %w", step.table, err)
		}
		*step.count = int(n)
	}

	if err := tx.Commit(); err != nil {
		return model.DeletionCounts{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("user data deleted",
		zap.String("user_id", userID),
		zap.Int("skin_logs", counts.SkinLogs),
		zap.Int("products", counts.Products),
		zap.Int("reports", counts.Reports),
	)

	return counts, nil
}

// InsertAuditEntry stores one audit entry
func (s *Store) InsertAuditEntry(ctx context.Context, entry audit.Entry) error {
	var additional any
	if len(entry.AdditionalData) > 0 {
		encoded, err := encodeJSON(entry.AdditionalData)
		if err != nil {
			return err
		}
		additional = encoded
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (user_id, operation_type, resource_type, resource_id, timestamp, ip_address, user_agent, additional_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, string(entry.OperationType), string(entry.ResourceType), entry.ResourceID,
		toUnix(entry.Timestamp), entry.IPAddress, entry.UserAgent, additional,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// ListAuditEntries returns the newest audit entries of a user
func (s *Store) ListAuditEntries(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, operation_type, resource_type, resource_id, timestamp, ip_address, user_agent
		FROM audit_logs
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e            audit.Entry
			op, resource string
			timestamp    int64
		)
		if err := rows.Scan(&e.UserID, &op, &resource, &e.ResourceID, &timestamp, &e.IPAddress, &e.UserAgent); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		e.OperationType = audit.OperationType(op)
		e.ResourceType = audit.ResourceType(resource)
		e.Timestamp = fromUnix(timestamp)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}

	return entries, nil
}

var _ audit.Store = (*Store)(nil)
