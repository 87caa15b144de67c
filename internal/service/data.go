package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/internal/azure"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// UserDataDeleter removes every row a user owns in one transaction
type UserDataDeleter interface {
	DeleteAll(ctx context.Context, userID string) (model.DeletionCounts, error)
}

// UserDataExport represents all user data for export
type UserDataExport struct {
	UserID     string          `json:"user_id"`
	SkinLogs   []model.SkinLog `json:"skin_logs"`
	Products   []model.Product `json:"products"`
	Reports    []model.Report  `json:"reports"`
	AuditLog   []audit.Entry   `json:"audit_log"`
	ExportedAt time.Time       `json:"exported_at"`
}

// DataService implements data portability and account erasure
type DataService struct {
	logs     *SkinLogService
	products *ProductService
	reports  *ReportService
	deleter  UserDataDeleter
	blobs    []azure.BlobStorage
	audit    *audit.Logger
	logger   *zap.Logger
	now      func() time.Time
}

// NewDataService creates a new DataService. blobs are the containers that
// hold user files; each is purged on deletion.
func NewDataService(
	logs *SkinLogService,
	products *ProductService,
	reports *ReportService,
	deleter UserDataDeleter,
	auditLogger *audit.Logger,
	logger *zap.Logger,
	blobs ...azure.BlobStorage,
) *DataService {
	return &DataService{
		logs:     logs,
		products: products,
		reports:  reports,
		deleter:  deleter,
		blobs:    blobs,
		audit:    auditLogger,
		logger:   logger,
		now:      time.Now,
	}
}

// ExportUserData collects everything stored about a user with notes decrypted
func (s *DataService) ExportUserData(ctx context.Context, userID string) (*UserDataExport, error) {
	s.logger.Info("starting user data export", zap.String("user_id", userID))

	export := &UserDataExport{
		UserID:     userID,
		ExportedAt: s.now(),
	}

	var err error
	if export.SkinLogs, err = s.logs.ListLogs(ctx, userID); err != nil {
		return nil, err
	}
	if export.Products, err = s.products.ListProducts(ctx, userID); err != nil {
		return nil, err
	}
	if export.Reports, err = s.reports.ListReports(ctx, userID); err != nil {
		return nil, err
	}
	if s.audit != nil {
		if export.AuditLog, err = s.audit.History(ctx, userID, 0); err != nil {
			return nil, err
		}
	}

	s.audit.Record(ctx, userID, audit.OperationExport, audit.ResourceUser, userID)

	s.logger.Info("user data export completed",
		zap.String("user_id", userID),
		zap.Int("skin_logs", len(export.SkinLogs)),
		zap.Int("products", len(export.Products)),
		zap.Int("reports", len(export.Reports)),
	)

	return export, nil
}

// DeleteUserData erases all rows and files of a user. Audit entries are kept.
// File deletion runs after the rows are gone; a storage failure is returned
// together with the counts of what was removed.
func (s *DataService) DeleteUserData(ctx context.Context, userID string) (model.DeletionCounts, error) {
	if userID == "" {
		return model.DeletionCounts{}, fmt.Errorf("user ID is required: %w", model.ErrInvalidInput)
	}

	s.logger.Info("starting user data deletion", zap.String("user_id", userID))

	counts, err := s.deleter.DeleteAll(ctx, userID)
	if err != nil {
		s.logger.Error("failed to delete user data",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return model.DeletionCounts{}, fmt.Errorf("failed to delete user data: %w", err)
	}

	var blobErrs []error
	for _, blob := range s.blobs {
		n, err := blob.DeletePrefix(ctx, azure.UserBlobName(userID, ""))
		counts.Blobs += n
		if err != nil {
			blobErrs = append(blobErrs, err)
		}
	}

	s.audit.Record(ctx, userID, audit.OperationDelete, audit.ResourceUser, userID)

	if err := errors.Join(blobErrs...); err != nil {
		s.logger.Error("failed to delete user files",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("blobs_deleted", counts.Blobs),
		)
		return counts, fmt.Errorf("failed to delete user files: %w", err)
	}

	s.logger.Info("user data deletion completed",
		zap.String("user_id", userID),
		zap.Int("skin_logs", counts.SkinLogs),
		zap.Int("products", counts.Products),
		zap.Int("reports", counts.Reports),
		zap.Int("blobs", counts.Blobs),
	)

	return counts, nil
}

// AuditHistory returns the newest audit entries of a user
func (s *DataService) AuditHistory(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	if s.audit == nil {
		return []audit.Entry{}, nil
	}
	return s.audit.History(ctx, userID, limit)
}
