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

// SkinLogRepositoryInterface defines the skin log store used by the services
type SkinLogRepositoryInterface interface {
	Create(ctx context.Context, log *model.SkinLog) error
	FindByUserID(ctx context.Context, userID string) ([]model.SkinLog, error)
	FindByID(ctx context.Context, userID, logID string) (*model.SkinLog, error)
	Update(ctx context.Context, log *model.SkinLog) error
	Delete(ctx context.Context, userID, logID string) error
}

// SkinLogService handles journal entries
type SkinLogService struct {
	repo      SkinLogRepositoryInterface
	encryptor *security.Encryptor
	audit     *audit.Logger
	logger    *zap.Logger
	now       func() time.Time
}

// NewSkinLogService creates a new SkinLogService. encryptor and auditLogger
// may be nil.
func NewSkinLogService(repo SkinLogRepositoryInterface, encryptor *security.Encryptor, auditLogger *audit.Logger, logger *zap.Logger) *SkinLogService {
	return &SkinLogService{
		repo:      repo,
		encryptor: encryptor,
		audit:     auditLogger,
		logger:    logger,
		now:       time.Now,
	}
}

// AddLog validates and stores a new entry. A zero date means now.
func (s *SkinLogService) AddLog(ctx context.Context, userID string, log *model.SkinLog) error {
	if userID == "" {
		return fmt.Errorf("user ID is required: %w", model.ErrInvalidInput)
	}
	if err := validateSkinLog(log.Condition, log.SkinScore); err != nil {
		return err
	}
	if err := validatePhotoURI(log.PhotoURI); err != nil {
		return err
	}

	now := s.now()
	log.ID = uuid.New().String()
	log.UserID = userID
	if log.Date.IsZero() {
		log.Date = now
	}
	if log.Concerns == nil {
		log.Concerns = []string{}
	}
	log.CreatedAt = now
	log.UpdatedAt = now

	stored, err := s.seal(log)
	if err != nil {
		return err
	}

	if err := s.repo.Create(ctx, stored); err != nil {
		s.logger.Error("failed to add skin log",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to add skin log: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationCreate, audit.ResourceSkinLog, log.ID)

	s.logger.Info("skin log added",
		zap.String("log_id", log.ID),
		zap.String("user_id", userID),
		zap.String("condition", string(log.Condition)),
	)

	return nil
}

// ListLogs returns all entries of a user, newest first
func (s *SkinLogService) ListLogs(ctx context.Context, userID string) ([]model.SkinLog, error) {
	logs, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list skin logs",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to list skin logs: %w", err)
	}

	for i := range logs {
		if err := s.open(&logs[i]); err != nil {
			return nil, err
		}
	}

	return logs, nil
}

// GetLog returns one entry owned by userID
func (s *SkinLogService) GetLog(ctx context.Context, userID, logID string) (*model.SkinLog, error) {
	log, err := s.repo.FindByID(ctx, userID, logID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skin log: %w", err)
	}
	if err := s.open(log); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, userID, audit.OperationRead, audit.ResourceSkinLog, logID)

	return log, nil
}

// UpdateLog applies a partial update and returns the stored entry
func (s *SkinLogService) UpdateLog(ctx context.Context, userID, logID string, upd model.SkinLogUpdate) (*model.SkinLog, error) {
	log, err := s.repo.FindByID(ctx, userID, logID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skin log: %w", err)
	}
	if err := s.open(log); err != nil {
		return nil, err
	}

	if upd.Date != nil {
		log.Date = *upd.Date
	}
	if upd.Condition != nil {
		log.Condition = *upd.Condition
	}
	if upd.Concerns != nil {
		log.Concerns = upd.Concerns
	}
	if upd.Notes != nil {
		log.Notes = *upd.Notes
	}
	if upd.PhotoURI != nil {
		log.PhotoURI = *upd.PhotoURI
	}
	if upd.SkinScore != nil {
		log.SkinScore = *upd.SkinScore
	}

	if err := validateSkinLog(log.Condition, log.SkinScore); err != nil {
		return nil, err
	}
	if err := validatePhotoURI(log.PhotoURI); err != nil {
		return nil, err
	}
	log.UpdatedAt = s.now()

	stored, err := s.seal(log)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, stored); err != nil {
		s.logger.Error("failed to update skin log",
			zap.Error(err),
			zap.String("log_id", logID),
		)
		return nil, fmt.Errorf("failed to update skin log: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationUpdate, audit.ResourceSkinLog, logID)

	return log, nil
}

// DeleteLog removes an entry owned by userID
func (s *SkinLogService) DeleteLog(ctx context.Context, userID, logID string) error {
	if err := s.repo.Delete(ctx, userID, logID); err != nil {
		return fmt.Errorf("failed to delete skin log: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationDelete, audit.ResourceSkinLog, logID)

	s.logger.Info("skin log deleted",
		zap.String("log_id", logID),
		zap.String("user_id", userID),
	)
	return nil
}

func validateSkinLog(condition model.Condition, score int) error {
	if !condition.Valid() {
		return fmt.Errorf("unknown condition %q: %w", condition, model.ErrInvalidInput)
	}
	if score < 0 || score > 100 {
		return fmt.Errorf("skin score %d out of range 0-100: %w", score, model.ErrInvalidInput)
	}
	return nil
}

// validatePhotoURI rejects references that climb out of a directory. Device
// URIs from the app are otherwise stored as given.
func validatePhotoURI(uri string) error {
	if hasDotSegment(uri) {
		return fmt.Errorf("photo uri %q contains a relative path segment: %w", uri, model.ErrInvalidInput)
	}
	return nil
}

func hasDotSegment(p string) bool {
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

// seal returns a copy of log with encrypted notes
func (s *SkinLogService) seal(log *model.SkinLog) (*model.SkinLog, error) {
	stored := *log
	notes, err := s.encryptor.Encrypt(log.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt notes: %w", err)
	}
	stored.Notes = notes
	return &stored, nil
}

func (s *SkinLogService) open(log *model.SkinLog) error {
	notes, err := s.encryptor.Decrypt(log.Notes)
	if err != nil {
		s.logger.Error("failed to decrypt skin log notes",
			zap.Error(err),
			zap.String("log_id", log.ID),
		)
		return fmt.Errorf("failed to decrypt notes: %w", err)
	}
	log.Notes = notes
	return nil
}
