package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/skincare-journal/internal/azure"
	"github.com/vcscsvcscs/skincare-journal/internal/pdf"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

type reportFixture struct {
	service  *ReportService
	logs     *MockSkinLogRepository
	products *MockProductRepository
	reports  *MockReportRepository
	renderer *MockRenderer
	blob     *azure.MockBlobStorageClient
}

func newReportFixture() reportFixture {
	f := reportFixture{
		logs:     new(MockSkinLogRepository),
		products: new(MockProductRepository),
		reports:  new(MockReportRepository),
		renderer: new(MockRenderer),
		blob:     azure.NewMockBlobStorageClient(zap.NewNop()),
	}
	f.service = NewReportService(
		newSkinLogService(f.logs, nil, nil),
		newProductService(f.products),
		f.reports, f.blob, f.renderer, nil, zap.NewNop(),
	)
	f.service.now = fixedClock
	return f
}

func TestReportService_GenerateReport(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()
	logs := journal(model.ConditionGood, model.ConditionFair, model.ConditionPoor, model.ConditionPoor)
	f.logs.On("FindByUserID", ctx, "user-1").Return(logs, nil)
	f.products.On("FindByUserID", ctx, "user-1").Return([]model.Product{{Name: "Serum", IsActive: true}}, nil)

	var rendered *pdf.ReportData
	f.renderer.On("Generate", mock.Anything).Run(func(args mock.Arguments) {
		rendered = args.Get(0).(*pdf.ReportData)
	}).Return([]byte("%PDF-1.3 test"), nil)
	f.reports.On("Save", ctx, mock.AnythingOfType("*model.Report")).Return(nil)

	start := testNow.AddDate(0, 0, -2)
	report, err := f.service.GenerateReport(ctx, "user-1", "Alex", start, testNow)

	require.NoError(t, err)
	assert.Equal(t, "user-1", report.UserID)
	assert.Equal(t, testNow, report.GeneratedAt)
	assert.Contains(t, report.FilePath, "user-1/"+report.ID)

	stored, err := f.blob.Download(ctx, report.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3 test"), stored)
	assert.Equal(t, "application/pdf", f.blob.ContentTypes[report.FilePath])

	require.NotNil(t, rendered)
	assert.Len(t, rendered.Logs, 3, "the fourth log is outside the range")
	assert.Equal(t, 3, rendered.Summary.TotalLogs)
	assert.Equal(t, "Alex", rendered.UserName)
	assert.NotEmpty(t, rendered.Insights)
	f.reports.AssertExpectations(t)
}

func TestReportService_GenerateReport_InvalidRange(t *testing.T) {
	f := newReportFixture()

	_, err := f.service.GenerateReport(context.Background(), "user-1", "", testNow, testNow.AddDate(0, 0, -1))

	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestReportService_GenerateReport_RenderFailure(t *testing.T) {
	f := newReportFixture()
	f.logs.On("FindByUserID", mock.Anything, "user-1").Return([]model.SkinLog{}, nil)
	f.products.On("FindByUserID", mock.Anything, "user-1").Return([]model.Product{}, nil)
	f.renderer.On("Generate", mock.Anything).Return(nil, errors.New("font missing"))

	_, err := f.service.GenerateReport(context.Background(), "user-1", "", testNow.AddDate(0, -1, 0), testNow)

	assert.ErrorContains(t, err, "failed to generate PDF")
	assert.Empty(t, f.blob.ListBlobs())
	f.reports.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReportService_GetReport(t *testing.T) {
	f := newReportFixture()
	ctx := context.Background()
	require.NoError(t, f.blob.Upload(ctx, "user-1/r1.pdf", []byte("%PDF"), "application/pdf"))
	f.reports.On("FindByID", ctx, "user-1", "r1").Return(&model.Report{ID: "r1", FilePath: "user-1/r1.pdf"}, nil)
	f.reports.On("FindByID", ctx, "user-2", "r1").Return(nil, model.ErrNotFound)

	report, document, err := f.service.GetReport(ctx, "user-1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", report.ID)
	assert.Equal(t, []byte("%PDF"), document)

	_, _, err = f.service.GetReport(ctx, "user-2", "r1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLogsBetween_InclusiveCalendarDays(t *testing.T) {
	day := func(d, h int) model.SkinLog {
		return model.SkinLog{Date: time.Date(2024, time.March, d, h, 0, 0, 0, time.UTC)}
	}
	logs := []model.SkinLog{day(16, 0), day(15, 23), day(10, 0), day(9, 23)}

	got := logsBetween(logs,
		time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 15, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, []model.SkinLog{day(15, 23), day(10, 0)}, got)
}
