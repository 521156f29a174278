package project

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldstone-env/estimator/pkg/db"
)

// SummaryStore provides database operations for per-module estimate
// summaries. Summaries are a denormalized projection of the active snapshot
// of each module, kept for fast dashboard listings.
type SummaryStore struct {
	db *gorm.DB
}

// NewSummaryStore creates a new SummaryStore.
func NewSummaryStore(gdb *gorm.DB) *SummaryStore {
	return &SummaryStore{db: gdb}
}

// UpsertModule writes the summary row for (projectID, moduleName), creating
// it when absent. The project display name is denormalized onto the row.
func (s *SummaryStore) UpsertModule(projectID, projectName, moduleName string, total *float64, breakdown db.JSONAny) (*ModuleSummaryRecord, error) {
	var record ModuleSummaryRecord
	err := s.db.Where("project_id = ? AND module_name = ?", projectID, moduleName).First(&record).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("get module summary: %w", err)
	}

	if err == gorm.ErrRecordNotFound {
		record = ModuleSummaryRecord{
			ID:         uuid.New().String(),
			ProjectID:  projectID,
			ModuleName: moduleName,
		}
	}

	record.ProjectName = projectName
	record.EstimateTotal = total
	record.EstimateBreakdown = breakdown

	if err := s.db.Save(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert module summary: %w", err)
	}
	return &record, nil
}

// GetModule returns the summary row for (projectID, moduleName), or nil, nil
// when none exists.
func (s *SummaryStore) GetModule(projectID, moduleName string) (*ModuleSummaryRecord, error) {
	var record ModuleSummaryRecord
	err := s.db.Where("project_id = ? AND module_name = ?", projectID, moduleName).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get module summary: %w", err)
	}
	return &record, nil
}

// ListByProject returns all module summary rows for a project, ordered by
// module name for stable output.
func (s *SummaryStore) ListByProject(projectID string) ([]ModuleSummaryRecord, error) {
	var records []ModuleSummaryRecord
	err := s.db.Where("project_id = ?", projectID).Order("module_name ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list module summaries: %w", err)
	}
	return records, nil
}

// DeleteByProject removes all summary rows for a project.
func (s *SummaryStore) DeleteByProject(projectID string) error {
	if err := s.db.Where("project_id = ?", projectID).Delete(&ModuleSummaryRecord{}).Error; err != nil {
		return fmt.Errorf("delete module summaries: %w", err)
	}
	return nil
}
