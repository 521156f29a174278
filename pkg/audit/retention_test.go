package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetentionWorker(t *testing.T) {
	worker := NewRetentionWorker(nil, 30, nil)
	require.NotNil(t, worker)

	assert.Equal(t, 30*24, int(worker.retention.Hours()))
	assert.Equal(t, 24, int(worker.interval.Hours()))
}

func TestNewRetentionWorker_ZeroRetention(t *testing.T) {
	// Worker with zero retention is disabled; Run returns immediately.
	worker := NewRetentionWorker(nil, 0, nil)
	require.NotNil(t, worker)
	assert.Equal(t, time.Duration(0), worker.retention)
}

func TestRetentionCleanupSweepsOldEvents(t *testing.T) {
	store, gdb := newTestEventStore(t)

	old := &EstimateEventRecord{ProjectID: "p1", EventType: EventModuleSaved}
	require.NoError(t, store.Append(old))
	require.NoError(t, gdb.Model(&EstimateEventRecord{}).
		Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().Add(-45*24*time.Hour)).Error)

	recent := &EstimateEventRecord{ProjectID: "p1", EventType: EventModuleSaved}
	require.NoError(t, store.Append(recent))

	worker := NewRetentionWorker(store, 30, nil)
	worker.cleanup()

	events, _, err := store.ListByProject("p1", 10, "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, recent.ID, events[0].ID)
}
