// Package audit records estimate lifecycle events. Events are append-only
// and written best-effort: a failed event write never fails the operation
// that produced it.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldstone-env/estimator/pkg/db"
)

// Event types recorded against a project.
const (
	EventModuleSaved        = "module.saved"
	EventSnapshotDuplicated = "snapshot.duplicated"
	EventSnapshotDeleted    = "snapshot.deleted"
	EventSnapshotClosed     = "snapshot.closed"
	EventProjectDiscarded   = "project.discarded"
)

// Outcomes for recorded events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// EstimateEventRecord is one audit log entry.
type EstimateEventRecord struct {
	ID         string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	ProjectID  string     `gorm:"column:project_id;type:varchar(36);index"`
	SnapshotID string     `gorm:"column:snapshot_id;type:varchar(36)"`
	EventType  string     `gorm:"column:event_type;type:varchar(64);not null"`
	Module     string     `gorm:"column:module;type:varchar(32)"`
	Outcome    string     `gorm:"column:outcome;type:varchar(16)"`
	Detail     db.JSONAny `gorm:"column:detail;type:json"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName sets the table name for estimate events.
func (EstimateEventRecord) TableName() string {
	return "estimate_events"
}

// EventStore provides append and query operations for estimate events.
type EventStore struct {
	db *gorm.DB
}

// NewEventStore creates a new EventStore.
func NewEventStore(gdb *gorm.DB) *EventStore {
	return &EventStore{db: gdb}
}

// AutoMigrate creates or updates the estimate_events table.
func (s *EventStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&EstimateEventRecord{}); err != nil {
		return fmt.Errorf("auto-migrate estimate_events: %w", err)
	}
	return nil
}

// Append inserts an event. The ID is assigned when empty.
func (s *EventStore) Append(record *EstimateEventRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Outcome == "" {
		record.Outcome = OutcomeSuccess
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("append estimate event: %w", err)
	}
	return nil
}

// ListByProject returns paginated events for a project, newest first.
// pageToken is an RFC3339Nano timestamp; events created before it are
// returned.
func (s *EventStore) ListByProject(projectID string, pageSize int, pageToken string) ([]EstimateEventRecord, string, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	query := s.db.Where("project_id = ?", projectID).Order("created_at DESC").Limit(pageSize + 1)
	if pageToken != "" {
		t, err := time.Parse(time.RFC3339Nano, pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid page token: %w", err)
		}
		query = query.Where("created_at < ?", t)
	}

	var records []EstimateEventRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, "", fmt.Errorf("list estimate events: %w", err)
	}

	var nextToken string
	if len(records) > pageSize {
		nextToken = records[pageSize-1].CreatedAt.Format(time.RFC3339Nano)
		records = records[:pageSize]
	}
	return records, nextToken, nil
}

// DeleteOlderThan removes events created before the cutoff and returns the
// number deleted. Used by retention sweeps.
func (s *EventStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&EstimateEventRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete estimate events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
