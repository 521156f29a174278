package project

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fieldstone-env/estimator/pkg/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(gdb)
	require.NoError(t, store.AutoMigrate())
	return gdb
}

func floatPtr(v float64) *float64 { return &v }

func TestStore_GetOrCreate(t *testing.T) {
	store := NewStore(newTestDB(t))

	created, err := store.GetOrCreate("Willow Creek Remediation")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, StatusActive, created.Status)

	// Same name resolves to the same project.
	again, err := store.GetOrCreate("Willow Creek Remediation")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	// Empty name is rejected.
	_, err = store.GetOrCreate("")
	assert.Error(t, err)
}

func TestStore_GetOrCreate_DuplicateNames(t *testing.T) {
	gdb := newTestDB(t)
	store := NewStore(gdb)

	old := &ProjectRecord{ID: uuid.New().String(), Name: "Dup", Status: StatusActive}
	require.NoError(t, gdb.Create(old).Error)
	require.NoError(t, gdb.Model(old).UpdateColumn("updated_at", time.Now().Add(-time.Hour)).Error)

	recent := &ProjectRecord{ID: uuid.New().String(), Name: "Dup", Status: StatusActive}
	require.NoError(t, gdb.Create(recent).Error)

	// Most recently updated duplicate wins.
	got, err := store.GetOrCreate("Dup")
	require.NoError(t, err)
	assert.Equal(t, recent.ID, got.ID)
}

func TestStore_GetByID_NotFound(t *testing.T) {
	store := NewStore(newTestDB(t))
	got, err := store.GetByID("nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_List_StatusFilter(t *testing.T) {
	store := NewStore(newTestDB(t))

	a, err := store.GetOrCreate("Alpha")
	require.NoError(t, err)
	_, err = store.GetOrCreate("Beta")
	require.NoError(t, err)

	archived := StatusArchived
	_, err = store.Update(a.ID, &ProjectUpdate{Status: &archived})
	require.NoError(t, err)

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := store.List(StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Beta", active[0].Name)
}

func TestStore_Update_InvalidStatus(t *testing.T) {
	store := NewStore(newTestDB(t))
	rec, err := store.GetOrCreate("Gamma")
	require.NoError(t, err)

	bad := "paused"
	_, err = store.Update(rec.ID, &ProjectUpdate{Status: &bad})
	assert.Error(t, err)
}

func TestStore_ApplyTotals(t *testing.T) {
	store := NewStore(newTestDB(t))
	rec, err := store.GetOrCreate("Harbor Survey")
	require.NoError(t, err)

	require.NoError(t, store.ApplyTotals(rec.ID, floatPtr(362.00), nil, nil, "snap-1"))

	got, err := store.GetByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.HRSEstimatorTotal)
	assert.Equal(t, 362.00, *got.HRSEstimatorTotal)
	assert.Nil(t, got.LabFeesTotal)
	require.NotNil(t, got.GrandTotal)
	assert.Equal(t, 362.00, *got.GrandTotal)
	assert.NotNil(t, got.LatestEstimateDate)
	assert.Equal(t, "snap-1", got.LatestSnapshotID)

	// Missing modules are treated as zero in the grand total.
	require.NoError(t, store.ApplyTotals(rec.ID, nil, floatPtr(190.00), nil, ""))
	got, err = store.GetByID(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GrandTotal)
	assert.Equal(t, 552.00, *got.GrandTotal)
	assert.Equal(t, "snap-1", got.LatestSnapshotID)
}

func TestStore_ApplyTotals_AllAbsent(t *testing.T) {
	store := NewStore(newTestDB(t))
	rec, err := store.GetOrCreate("Empty Totals")
	require.NoError(t, err)

	require.NoError(t, store.ApplyTotals(rec.ID, nil, nil, nil, ""))
	got, err := store.GetByID(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GrandTotal)
}

func TestSummaryStore_UpsertAndList(t *testing.T) {
	gdb := newTestDB(t)
	store := NewStore(gdb)
	summaries := NewSummaryStore(gdb)

	rec, err := store.GetOrCreate("Summit Plant")
	require.NoError(t, err)

	_, err = summaries.UpsertModule(rec.ID, rec.Name, ModuleHRS, floatPtr(362.00), db.JSONAny{"total_plm_samples": 20})
	require.NoError(t, err)
	_, err = summaries.UpsertModule(rec.ID, rec.Name, ModuleLab, floatPtr(190.00), nil)
	require.NoError(t, err)

	// Second upsert for the same module overwrites in place.
	_, err = summaries.UpsertModule(rec.ID, rec.Name, ModuleHRS, floatPtr(400.00), nil)
	require.NoError(t, err)

	rows, err := summaries.ListByProject(rec.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ModuleHRS, rows[0].ModuleName)
	require.NotNil(t, rows[0].EstimateTotal)
	assert.Equal(t, 400.00, *rows[0].EstimateTotal)
	assert.Equal(t, "Summit Plant", rows[0].ProjectName)
}

func TestSummaryStore_NilTotalStaysNil(t *testing.T) {
	gdb := newTestDB(t)
	store := NewStore(gdb)
	summaries := NewSummaryStore(gdb)

	rec, err := store.GetOrCreate("Pending Estimate")
	require.NoError(t, err)

	saved, err := summaries.UpsertModule(rec.ID, rec.Name, ModuleLogistics, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, saved.EstimateTotal)

	got, err := summaries.GetModule(rec.ID, ModuleLogistics)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.EstimateTotal)
}

func TestStore_Delete(t *testing.T) {
	gdb := newTestDB(t)
	store := NewStore(gdb)
	summaries := NewSummaryStore(gdb)

	rec, err := store.GetOrCreate("Short Lived")
	require.NoError(t, err)
	_, err = summaries.UpsertModule(rec.ID, rec.Name, ModuleLogistics, floatPtr(10), nil)
	require.NoError(t, err)

	require.NoError(t, store.Delete(rec.ID))

	got, err := store.GetByID(rec.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	rows, err := summaries.ListByProject(rec.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Deleting again is an error.
	assert.Error(t, store.Delete(rec.ID))
}
