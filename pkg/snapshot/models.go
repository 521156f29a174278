// Package snapshot owns the per-project working estimate and its history.
// Each snapshot bundles the inputs and outputs of the three estimation
// modules; at most one snapshot per project is active at a time.
package snapshot

import (
	"time"

	"github.com/fieldstone-env/estimator/pkg/db"
)

// SnapshotRecord is one versioned bundle of estimate state for a project.
// The three module blobs are each shaped {"inputs": ..., "outputs": ...}.
type SnapshotRecord struct {
	ID               string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	ProjectID        string     `gorm:"column:project_id;type:varchar(36);index:idx_snapshot_project_active,priority:1;not null"`
	ProjectName      string     `gorm:"column:project_name;type:varchar(255)"`
	SnapshotName     string     `gorm:"column:snapshot_name;type:varchar(255)"`
	IsActive         bool       `gorm:"column:is_active;index:idx_snapshot_project_active,priority:2"`
	HRSEstimatorData db.JSONAny `gorm:"column:hrs_estimator_data;type:json"`
	LabFeesData      db.JSONAny `gorm:"column:lab_fees_data;type:json"`
	LogisticsData    db.JSONAny `gorm:"column:logistics_data;type:json"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the table name for snapshot records.
func (SnapshotRecord) TableName() string {
	return "estimate_snapshots"
}
