package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var base = time.Date(2024, time.March, 15, 8, 30, 0, 0, time.UTC)

func skinLog(userID string, daysAgo int, condition model.Condition) *model.SkinLog {
	return &model.SkinLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      base.AddDate(0, 0, -daysAgo),
		Condition: condition,
		SkinScore: 75,
		CreatedAt: base,
		UpdatedAt: base,
	}
}

func TestSkinLogRepository_RoundTrip(t *testing.T) {
	repo := openTestStore(t).SkinLogs()
	ctx := context.Background()

	log := skinLog("user-1", 0, model.ConditionGood)
	log.Concerns = []string{"Dryness", "Redness"}
	log.Notes = "windy day"
	log.Analysis = &model.SkinAnalysis{
		SkinScore:       81,
		SkinType:        "Dry",
		Concerns:        []model.AnalysisConcern{{Type: "Dryness", Severity: "moderate", Location: "Cheeks", Confidence: 91}},
		Recommendations: []string{"Use a hydrating serum daily"},
	}
	require.NoError(t, repo.Create(ctx, log))

	got, err := repo.FindByID(ctx, "user-1", log.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(log, got); diff != "" {
		t.Errorf("stored log mismatch (-want +got):\n%s", diff)
	}
}

func TestSkinLogRepository_NilConcernsStoredAsEmpty(t *testing.T) {
	repo := openTestStore(t).SkinLogs()
	ctx := context.Background()

	log := skinLog("user-1", 0, model.ConditionFair)
	require.NoError(t, repo.Create(ctx, log))

	got, err := repo.FindByID(ctx, "user-1", log.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Concerns)
	assert.Empty(t, got.Concerns)
	assert.Nil(t, got.Analysis)
}

func TestSkinLogRepository_NewestFirstAndScoped(t *testing.T) {
	repo := openTestStore(t).SkinLogs()
	ctx := context.Background()

	for _, days := range []int{3, 0, 7, 1} {
		require.NoError(t, repo.Create(ctx, skinLog("user-1", days, model.ConditionGood)))
	}
	require.NoError(t, repo.Create(ctx, skinLog("user-2", 0, model.ConditionPoor)))

	logs, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, logs, 4)
	for i := 1; i < len(logs); i++ {
		assert.True(t, logs[i-1].Date.After(logs[i].Date))
	}

	_, err = repo.FindByID(ctx, "user-2", logs[0].ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestSkinLogRepository_UpdateAndDelete(t *testing.T) {
	repo := openTestStore(t).SkinLogs()
	ctx := context.Background()

	log := skinLog("user-1", 0, model.ConditionPoor)
	require.NoError(t, repo.Create(ctx, log))

	log.Condition = model.ConditionExcellent
	log.Concerns = []string{"Acne"}
	require.NoError(t, repo.Update(ctx, log))

	got, err := repo.FindByID(ctx, "user-1", log.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConditionExcellent, got.Condition)
	assert.Equal(t, []string{"Acne"}, got.Concerns)

	require.NoError(t, repo.Delete(ctx, "user-1", log.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, "user-1", log.ID), model.ErrNotFound))

	missing := skinLog("user-1", 0, model.ConditionGood)
	assert.True(t, errors.Is(repo.Update(ctx, missing), model.ErrNotFound))
}

func TestProductRepository_Lifecycle(t *testing.T) {
	repo := openTestStore(t).Products()
	ctx := context.Background()

	p := &model.Product{
		ID:        uuid.New().String(),
		UserID:    "user-1",
		Name:      "Niacinamide 10%",
		Brand:     "Acme",
		Category:  model.CategorySerum,
		StartDate: base,
		IsActive:  true,
		CreatedAt: base,
		UpdatedAt: base,
	}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.SetActive(ctx, "user-1", p.ID, false, base.Add(time.Hour)))
	got, err := repo.FindByID(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, base.Add(time.Hour), got.UpdatedAt)

	got.Name = "Niacinamide 5%"
	require.NoError(t, repo.Update(ctx, got))

	products, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Niacinamide 5%", products[0].Name)
	assert.Equal(t, model.CategorySerum, products[0].Category)

	assert.True(t, errors.Is(repo.SetActive(ctx, "user-2", p.ID, true, base), model.ErrNotFound))
	require.NoError(t, repo.Delete(ctx, "user-1", p.ID))
	_, err = repo.FindByID(ctx, "user-1", p.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestReportRepository_SaveAndFind(t *testing.T) {
	repo := openTestStore(t).Reports()
	ctx := context.Background()

	report := &model.Report{
		ID:             uuid.New().String(),
		UserID:         "user-1",
		DateRangeStart: base.AddDate(0, 0, -30),
		DateRangeEnd:   base,
		FilePath:       "user-1/report.pdf",
		GeneratedAt:    base,
		CreatedAt:      base,
	}
	require.NoError(t, repo.Save(ctx, report))

	got, err := repo.FindByID(ctx, "user-1", report.ID)
	require.NoError(t, err)
	assert.Equal(t, report, got)

	list, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_DeleteAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.SkinLogs().Create(ctx, skinLog("user-1", i, model.ConditionGood)))
	}
	require.NoError(t, store.SkinLogs().Create(ctx, skinLog("user-2", 0, model.ConditionGood)))
	require.NoError(t, store.Products().Create(ctx, &model.Product{
		ID: uuid.New().String(), UserID: "user-1", Name: "SPF", Category: model.CategorySunscreen,
		StartDate: base, IsActive: true, CreatedAt: base, UpdatedAt: base,
	}))

	counts, err := store.DeleteAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.DeletionCounts{SkinLogs: 4, Products: 1}, counts)

	remaining, err := store.SkinLogs().FindByUserID(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestStore_AuditEntries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, op := range []audit.OperationType{audit.OperationCreate, audit.OperationUpdate, audit.OperationDelete} {
		require.NoError(t, store.InsertAuditEntry(ctx, audit.Entry{
			UserID:         "user-1",
			OperationType:  op,
			ResourceType:   audit.ResourceSkinLog,
			ResourceID:     "log-1",
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			AdditionalData: map[string]interface{}{"step": i},
		}))
	}

	entries, err := store.ListAuditEntries(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.OperationDelete, entries[0].OperationType)
	assert.Equal(t, audit.OperationUpdate, entries[1].OperationType)
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}
