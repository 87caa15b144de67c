package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/internal/azure"
	"github.com/vcscsvcscs/skincare-journal/internal/insight"
	"github.com/vcscsvcscs/skincare-journal/internal/pdf"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// ReportRepositoryInterface defines the report store
type ReportRepositoryInterface interface {
	Save(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, userID, reportID string) (*model.Report, error)
	FindByUserID(ctx context.Context, userID string) ([]model.Report, error)
}

// ReportRenderer turns report data into a document
type ReportRenderer interface {
	Generate(data *pdf.ReportData) ([]byte, error)
}

// ReportService manages progress report generation
type ReportService struct {
	logs     *SkinLogService
	products *ProductService
	reports  ReportRepositoryInterface
	blob     azure.BlobStorage
	renderer ReportRenderer
	audit    *audit.Logger
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	logs *SkinLogService,
	products *ProductService,
	reports ReportRepositoryInterface,
	blob azure.BlobStorage,
	renderer ReportRenderer,
	auditLogger *audit.Logger,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		logs:     logs,
		products: products,
		reports:  reports,
		blob:     blob,
		renderer: renderer,
		audit:    auditLogger,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateReport renders the journal between start and end (inclusive) as a
// PDF, stores it and records it
func (s *ReportService) GenerateReport(ctx context.Context, userID, userName string, start, end time.Time) (*model.Report, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("report end %s is before start %s: %w",
			end.Format("2006-01-02"), start.Format("2006-01-02"), model.ErrInvalidInput)
	}

	s.logger.Info("generating progress report",
		zap.String("user_id", userID),
		zap.Time("start_date", start),
		zap.Time("end_date", end),
	)

	now := s.now()
	reportID := uuid.New().String()

	allLogs, err := s.logs.ListLogs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skin logs: %w", err)
	}
	products, err := s.products.ListProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	logs := logsBetween(allLogs, start, end)
	progress := buildProgress(logs, now)

	data := &pdf.ReportData{
		UserName:       userName,
		Start:          start,
		End:            end,
		GeneratedAt:    now,
		Summary:        progress.Summary,
		ConditionLabel: progress.ConditionLabel,
		Insights:       insight.Generate(logs, products, now),
		ScoreHistory:   progress.ScoreHistory,
		Concerns:       progress.TopConcerns,
		Products:       products,
		Logs:           logs,
	}

	document, err := s.renderer.Generate(data)
	if err != nil {
		s.logger.Error("failed to generate PDF",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	blobPath := azure.UserBlobName(userID, fmt.Sprintf("%s_%s.pdf", reportID, now.Format("20060102")))
	if err := s.blob.Upload(ctx, blobPath, document, "application/pdf"); err != nil {
		s.logger.Error("failed to upload PDF to blob storage",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to upload PDF: %w", err)
	}

	report := &model.Report{
		ID:             reportID,
		UserID:         userID,
		DateRangeStart: start,
		DateRangeEnd:   end,
		FilePath:       blobPath,
		GeneratedAt:    now,
		CreatedAt:      now,
	}
	if err := s.reports.Save(ctx, report); err != nil {
		s.logger.Error("failed to save report record",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		return nil, fmt.Errorf("failed to save report record: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationCreate, audit.ResourceReport, reportID)

	s.logger.Info("progress report generated",
		zap.String("report_id", reportID),
		zap.String("user_id", userID),
		zap.Int("logs", len(logs)),
		zap.Int("size_bytes", len(document)),
	)

	return report, nil
}

// GetReport returns the record and PDF of a report owned by userID
func (s *ReportService) GetReport(ctx context.Context, userID, reportID string) (*model.Report, []byte, error) {
	report, err := s.reports.FindByID(ctx, userID, reportID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get report record: %w", err)
	}

	document, err := s.blob.Download(ctx, report.FilePath)
	if err != nil {
		s.logger.Error("failed to download PDF from blob storage",
			zap.Error(err),
			zap.String("report_id", reportID),
			zap.String("blob_path", report.FilePath),
		)
		return nil, nil, fmt.Errorf("failed to download PDF: %w", err)
	}

	s.audit.Record(ctx, userID, audit.OperationRead, audit.ResourceReport, reportID)

	return report, document, nil
}

// ListReports returns the report records of a user, newest first
func (s *ReportService) ListReports(ctx context.Context, userID string) ([]model.Report, error) {
	reports, err := s.reports.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get reports for user",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	return reports, nil
}

// logsBetween keeps logs dated on the calendar days from start to end
func logsBetween(logs []model.SkinLog, start, end time.Time) []model.SkinLog {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	until := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)

	out := make([]model.SkinLog, 0, len(logs))
	for _, l := range logs {
		if !l.Date.Before(from) && l.Date.Before(until) {
			out = append(out, l)
		}
	}
	return out
}
