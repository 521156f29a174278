package audit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fieldstone-env/estimator/pkg/db"
)

func newTestEventStore(t *testing.T) (*EventStore, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := NewEventStore(gdb)
	require.NoError(t, store.AutoMigrate())
	return store, gdb
}

func TestAppendAssignsDefaults(t *testing.T) {
	store, _ := newTestEventStore(t)

	event := &EstimateEventRecord{
		ProjectID: "p1",
		EventType: EventModuleSaved,
		Module:    "logistics",
		Detail:    db.JSONAny{"estimate_total": 120.5},
	}
	require.NoError(t, store.Append(event))
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, OutcomeSuccess, event.Outcome)
}

func TestListByProjectPaginates(t *testing.T) {
	store, gdb := newTestEventStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		event := &EstimateEventRecord{ProjectID: "p1", EventType: EventModuleSaved}
		require.NoError(t, store.Append(event))
		// Space the timestamps so ordering and cursors are deterministic.
		require.NoError(t, gdb.Model(&EstimateEventRecord{}).
			Where("id = ?", event.ID).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}
	other := &EstimateEventRecord{ProjectID: "p2", EventType: EventSnapshotDeleted}
	require.NoError(t, store.Append(other))

	page1, token, err := store.ListByProject("p1", 2, "")
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, token)
	assert.True(t, page1[0].CreatedAt.After(page1[1].CreatedAt))

	page2, token, err := store.ListByProject("p1", 2, token)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotEmpty(t, token)

	page3, token, err := store.ListByProject("p1", 2, token)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Empty(t, token)

	_, _, err = store.ListByProject("p1", 2, "not-a-timestamp")
	require.Error(t, err)
}

func TestDeleteOlderThan(t *testing.T) {
	store, gdb := newTestEventStore(t)

	old := &EstimateEventRecord{ProjectID: "p1", EventType: EventModuleSaved}
	require.NoError(t, store.Append(old))
	require.NoError(t, gdb.Model(&EstimateEventRecord{}).
		Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().Add(-100*24*time.Hour)).Error)

	recent := &EstimateEventRecord{ProjectID: "p1", EventType: EventModuleSaved}
	require.NoError(t, store.Append(recent))

	deleted, err := store.DeleteOlderThan(time.Now().Add(-90 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, _, err := store.ListByProject("p1", 10, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, recent.ID, remaining[0].ID)
}

func TestHistoryHandler(t *testing.T) {
	store, _ := newTestEventStore(t)
	router := NewRouter(store)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(&EstimateEventRecord{
			ProjectID: "p1",
			EventType: EventModuleSaved,
			Module:    "lab",
			Detail:    db.JSONAny{"estimate_total": float64(i)},
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/projects/p1/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "module.saved")

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/projects/p1/history?page_size=%d", 2), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "next_page_token")

	req = httptest.NewRequest(http.MethodGet, "/projects/p1/history?page_size=zero", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
