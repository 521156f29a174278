package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store provides database operations for projects.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new project Store. The db may be a transaction handle;
// all operations run against it directly.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the projects and summary tables.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&ProjectRecord{}); err != nil {
		return fmt.Errorf("auto-migrate projects: %w", err)
	}
	if err := s.db.AutoMigrate(&ModuleSummaryRecord{}); err != nil {
		return fmt.Errorf("auto-migrate project_estimate_summaries: %w", err)
	}
	return nil
}

// Create inserts a new project.
func (s *Store) Create(record *ProjectRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Status == "" {
		record.Status = StatusActive
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by its unique ID. Returns nil, nil if no
// project exists.
func (s *Store) GetByID(projectID string) (*ProjectRecord, error) {
	var record ProjectRecord
	err := s.db.Where("id = ?", projectID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &record, nil
}

// GetByName retrieves a project by display name. Names are not unique; when
// duplicates exist the most recently updated project wins. Returns nil, nil
// if no project matches.
func (s *Store) GetByName(name string) (*ProjectRecord, error) {
	if name == "" {
		return nil, nil
	}
	var record ProjectRecord
	err := s.db.Where("name = ?", name).Order("updated_at DESC").First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get project by name: %w", err)
	}
	return &record, nil
}

// GetOrCreate returns the most recently updated project with the given name,
// creating one with active status when none exists. Projects are created
// on demand the first time any module references them.
func (s *Store) GetOrCreate(name string) (*ProjectRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("project name cannot be empty")
	}

	existing, err := s.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	record := &ProjectRecord{
		ID:     uuid.New().String(),
		Name:   name,
		Status: StatusActive,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return record, nil
}

// List returns projects ordered by most recently updated first, optionally
// filtered by status.
func (s *Store) List(status string) ([]ProjectRecord, error) {
	query := s.db.Order("updated_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var records []ProjectRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return records, nil
}

// ProjectUpdate carries the mutable display fields of a project. Nil fields
// are left unchanged.
type ProjectUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Status      *string  `json:"status"`
	Tags        []string `json:"tags"`
}

// Update applies non-nil fields of upd to the project. Estimate totals are
// not touched here; they are maintained by ApplyTotals.
func (s *Store) Update(projectID string, upd *ProjectUpdate) (*ProjectRecord, error) {
	record, err := s.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	if upd.Name != nil {
		record.Name = *upd.Name
	}
	if upd.Description != nil {
		record.Description = *upd.Description
	}
	if upd.Address != nil {
		record.Address = *upd.Address
	}
	if upd.Status != nil {
		switch *upd.Status {
		case StatusActive, StatusArchived, StatusCompleted:
			record.Status = *upd.Status
		default:
			return nil, fmt.Errorf("invalid status: %q", *upd.Status)
		}
	}
	if upd.Tags != nil {
		record.Tags = upd.Tags
	}

	if err := s.db.Save(record).Error; err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return record, nil
}

// ApplyTotals overwrites any non-nil module totals on the project,
// recomputes the grand total, and stamps the latest estimate date.
// The grand total treats missing module totals as zero and is nil only when
// all three module totals are absent. latestSnapshotID is recorded when
// non-empty.
func (s *Store) ApplyTotals(projectID string, hrs, lab, logistics *float64, latestSnapshotID string) error {
	record, err := s.GetByID(projectID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("project not found: %s", projectID)
	}

	if hrs != nil {
		record.HRSEstimatorTotal = hrs
	}
	if lab != nil {
		record.LabFeesTotal = lab
	}
	if logistics != nil {
		record.LogisticsTotal = logistics
	}
	if latestSnapshotID != "" {
		record.LatestSnapshotID = latestSnapshotID
	}

	if record.HRSEstimatorTotal == nil && record.LabFeesTotal == nil && record.LogisticsTotal == nil {
		record.GrandTotal = nil
	} else {
		var grand float64
		for _, t := range []*float64{record.HRSEstimatorTotal, record.LabFeesTotal, record.LogisticsTotal} {
			if t != nil {
				grand += *t
			}
		}
		record.GrandTotal = &grand
	}

	now := time.Now()
	record.LatestEstimateDate = &now

	if err := s.db.Save(record).Error; err != nil {
		return fmt.Errorf("apply project totals: %w", err)
	}
	return nil
}

// Delete removes a project and its summary rows. Snapshot cleanup is the
// caller's responsibility (see snapshot.Store.DiscardByID), so this is kept
// unexported from the HTTP surface except through the discard path.
func (s *Store) Delete(projectID string) error {
	if err := s.db.Where("project_id = ?", projectID).Delete(&ModuleSummaryRecord{}).Error; err != nil {
		return fmt.Errorf("delete project summaries: %w", err)
	}
	result := s.db.Where("id = ?", projectID).Delete(&ProjectRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project not found: %s", projectID)
	}
	return nil
}
