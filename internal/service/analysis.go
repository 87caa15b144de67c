package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/skincare-journal/internal/analysis"
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/internal/azure"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// AnalysisResult is the outcome of a photo analysis. Log is set when the
// analysis was saved to the journal.
type AnalysisResult struct {
	Analysis  *model.SkinAnalysis
	Condition model.Condition
	PhotoURI  string
	Log       *model.SkinLog
}

// AnalysisService runs selfies through the configured analyzer
type AnalysisService struct {
	analyzer      analysis.Analyzer
	photos        azure.BlobStorage
	logs          *SkinLogService
	audit         *audit.Logger
	logger        *zap.Logger
	maxImageBytes int
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	analyzer analysis.Analyzer,
	photos azure.BlobStorage,
	logs *SkinLogService,
	auditLogger *audit.Logger,
	maxImageBytes int,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		analyzer:      analyzer,
		photos:        photos,
		logs:          logs,
		audit:         auditLogger,
		logger:        logger,
		maxImageBytes: maxImageBytes,
	}
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// AnalyzePhoto stores the photo, analyzes it and, when save is set, records
// the result as a journal entry
func (s *AnalysisService) AnalyzePhoto(ctx context.Context, userID string, image []byte, save bool) (*AnalysisResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("no image provided: %w", model.ErrInvalidInput)
	}
	if s.maxImageBytes > 0 && len(image) > s.maxImageBytes {
		return nil, fmt.Errorf("image of %d bytes exceeds limit of %d: %w", len(image), s.maxImageBytes, model.ErrInvalidInput)
	}
	contentType := http.DetectContentType(image)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %s: %w", contentType, model.ErrInvalidInput)
	}

	start := time.Now()
	photoURI := azure.UserBlobName(userID, fmt.Sprintf("%s.%s", uuid.New().String(), ext))
	if err := s.photos.Upload(ctx, photoURI, image, contentType); err != nil {
		s.logger.Error("failed to store photo",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	result, err := s.analyzer.Analyze(ctx, userID, image)
	if err != nil {
		s.logger.Error("skin analysis failed",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("skin analysis failed: %w: %w", model.ErrUpstream, err)
	}

	out := &AnalysisResult{
		Analysis:  result,
		Condition: model.ConditionFromScore(result.SkinScore),
		PhotoURI:  photoURI,
	}

	s.logger.Info("skin analysis completed",
		zap.String("user_id", userID),
		zap.Int("skin_score", result.SkinScore),
		zap.Int("concerns", len(result.Concerns)),
		zap.Duration("processing_time", time.Since(start)),
	)
	s.audit.Record(ctx, userID, audit.OperationCreate, audit.ResourceAnalysis, photoURI)

	if !save {
		return out, nil
	}

	log := &model.SkinLog{
		Condition: out.Condition,
		Concerns:  result.ConcernLabels(),
		PhotoURI:  photoURI,
		SkinScore: result.SkinScore,
		Analysis:  result,
	}
	if err := s.logs.AddLog(ctx, userID, log); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	out.Log = log

	return out, nil
}

// GetPhoto returns a stored photo. Photos are keyed by owner, so another
// user's photo is reported as not found.
func (s *AnalysisService) GetPhoto(ctx context.Context, userID, photoURI string) ([]byte, string, error) {
	if !ownsBlob(userID, photoURI) {
		return nil, "", fmt.Errorf("photo %s: %w", photoURI, model.ErrNotFound)
	}
	data, err := s.photos.Download(ctx, photoURI)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load photo: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

// ownsBlob reports whether blobName lies under the user's prefix. Names with
// empty or dot segments are refused since storage may normalize them.
func ownsBlob(userID, blobName string) bool {
	rest, ok := strings.CutPrefix(blobName, azure.UserBlobName(userID, ""))
	if userID == "" || !ok || hasDotSegment(rest) {
		return false
	}
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" {
			return false
		}
	}
	return true
}
