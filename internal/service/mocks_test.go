package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/internal/pdf"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// MockSkinLogRepository is a mock implementation of SkinLogRepositoryInterface
type MockSkinLogRepository struct {
	mock.Mock
}

func (m *MockSkinLogRepository) Create(ctx context.Context, log *model.SkinLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSkinLogRepository) FindByUserID(ctx context.Context, userID string) ([]model.SkinLog, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so services may modify the result.
	logs := args.Get(0).([]model.SkinLog)
	return append([]model.SkinLog(nil), logs...), args.Error(1)
}

func (m *MockSkinLogRepository) FindByID(ctx context.Context, userID, logID string) (*model.SkinLog, error) {
	args := m.Called(ctx, userID, logID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	log := *args.Get(0).(*model.SkinLog)
	return &log, args.Error(1)
}

func (m *MockSkinLogRepository) Update(ctx context.Context, log *model.SkinLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSkinLogRepository) Delete(ctx context.Context, userID, logID string) error {
	args := m.Called(ctx, userID, logID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepositoryInterface
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) FindByUserID(ctx context.Context, userID string) ([]model.Product, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	products := args.Get(0).([]model.Product)
	return append([]model.Product(nil), products...), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, userID, productID string) (*model.Product, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	p := *args.Get(0).(*model.Product)
	return &p, args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) SetActive(ctx context.Context, userID, productID string, active bool, at time.Time) error {
	args := m.Called(ctx, userID, productID, active, at)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

// MockReportRepository is a mock implementation of ReportRepositoryInterface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) FindByID(ctx context.Context, userID, reportID string) (*model.Report, error) {
	args := m.Called(ctx, userID, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockReportRepository) FindByUserID(ctx context.Context, userID string) ([]model.Report, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Report), args.Error(1)
}

// MockUserDataDeleter is a mock implementation of UserDataDeleter
type MockUserDataDeleter struct {
	mock.Mock
}

func (m *MockUserDataDeleter) DeleteAll(ctx context.Context, userID string) (model.DeletionCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.DeletionCounts), args.Error(1)
}

// MockAnalyzer is a mock implementation of analysis.Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, userID string, image []byte) (*model.SkinAnalysis, error) {
	args := m.Called(ctx, userID, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SkinAnalysis), args.Error(1)
}

// MockRenderer is a mock implementation of ReportRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Generate(data *pdf.ReportData) ([]byte, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// memoryAuditStore keeps audit entries in memory
type memoryAuditStore struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *memoryAuditStore) InsertAuditEntry(ctx context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memoryAuditStore) ListAuditEntries(ctx context.Context, userID string, limit int) ([]audit.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.Entry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if s.entries[i].UserID == userID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

func (s *memoryAuditStore) operations() []audit.OperationType {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops := make([]audit.OperationType, 0, len(s.entries))
	for _, e := range s.entries {
		ops = append(ops, e.OperationType)
	}
	return ops
}

func newAuditLogger() (*audit.Logger, *memoryAuditStore) {
	store := &memoryAuditStore{}
	return audit.NewLogger(store, zap.NewNop()), store
}
