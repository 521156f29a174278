// Package project provides the project registry and the per-module estimate
// summary projection. Projects are the identity anchor for all estimate
// state: every snapshot and summary row belongs to exactly one project.
package project

import (
	"time"

	"github.com/fieldstone-env/estimator/pkg/db"
)

// Project status values.
const (
	StatusActive    = "active"
	StatusArchived  = "archived"
	StatusCompleted = "completed"
)

// Module names used throughout the estimate subsystem.
const (
	ModuleHRS       = "hrs_estimator"
	ModuleLab       = "lab"
	ModuleLogistics = "logistics"
)

// ProjectRecord is the central project row. Display names are not unique;
// the id is the only stable identity. The module totals are denormalized
// from estimate outputs for quick listing access.
type ProjectRecord struct {
	ID          string `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name        string `gorm:"column:name;index:idx_project_name;not null"`
	Description string `gorm:"column:description"`
	Address     string `gorm:"column:address"`

	HRSEstimatorTotal *float64 `gorm:"column:hrs_estimator_total"`
	LabFeesTotal      *float64 `gorm:"column:lab_fees_total"`
	LogisticsTotal    *float64 `gorm:"column:logistics_total"`
	GrandTotal        *float64 `gorm:"column:grand_total"`

	LatestEstimateDate *time.Time `gorm:"column:latest_estimate_date"`
	LatestSnapshotID   string     `gorm:"column:latest_snapshot_id"`

	Status string             `gorm:"column:status;index:idx_project_status;default:active;not null"`
	Tags   db.JSONStringSlice `gorm:"column:tags;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;index:idx_project_updated;autoUpdateTime"`
}

// TableName returns the GORM table name.
func (ProjectRecord) TableName() string { return "projects" }

// ModuleSummaryRecord holds the latest estimate total per (project, module).
// Retained alongside the Project totals as the detailed breakdown source;
// both are written in the same transaction so they cannot drift.
type ModuleSummaryRecord struct {
	ID                string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	ProjectID         string     `gorm:"column:project_id;uniqueIndex:uq_project_module,priority:1;index;not null"`
	ProjectName       string     `gorm:"column:project_name;index"`
	ModuleName        string     `gorm:"column:module_name;uniqueIndex:uq_project_module,priority:2;not null"`
	EstimateTotal     *float64   `gorm:"column:estimate_total"`
	EstimateBreakdown db.JSONAny `gorm:"column:estimate_breakdown;type:text"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the GORM table name.
func (ModuleSummaryRecord) TableName() string { return "project_estimate_summaries" }
