package snapshot

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldstone-env/estimator/pkg/audit"
	"github.com/fieldstone-env/estimator/pkg/db"
	"github.com/fieldstone-env/estimator/pkg/project"
)

// Store provides snapshot lifecycle operations. Every mutation runs inside a
// single database transaction together with its project and summary updates,
// and maintains the invariant that a project has at most one active snapshot.
type Store struct {
	db     *gorm.DB
	events *audit.EventStore
}

// NewStore creates a new snapshot Store. events may be nil; when present,
// lifecycle events are appended after each successful mutation.
func NewStore(gdb *gorm.DB, events *audit.EventStore) *Store {
	return &Store{db: gdb, events: events}
}

// AutoMigrate creates or updates the estimate_snapshots table and attempts
// to install a partial unique index guaranteeing the single-active invariant
// under concurrent writers. MySQL has no partial indexes; there the invariant
// rests on the deactivation done inside each transaction.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return fmt.Errorf("auto-migrate estimate_snapshots: %w", err)
	}
	err := s.db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_estimate_snapshots_active ON estimate_snapshots (project_id) WHERE is_active",
	).Error
	if err != nil {
		slog.Warn("partial unique index on active snapshots unavailable", "error", err)
	}
	return nil
}

// ModuleResult carries one engine run destined for the active snapshot.
type ModuleResult struct {
	Module    string
	Inputs    db.JSONAny
	Outputs   db.JSONAny
	Total     *float64
	Breakdown db.JSONAny
}

// SaveModule writes a module's inputs and outputs into the project's active
// snapshot, creating the project and the snapshot as needed, and propagates
// the module total into the summary projection and the project's
// denormalized totals. Estimates without a project name are not persisted;
// the call is a no-op returning nil, nil.
func (s *Store) SaveModule(projectName string, res ModuleResult) (*SnapshotRecord, error) {
	if projectName == "" {
		return nil, nil
	}
	if err := validModule(res.Module); err != nil {
		return nil, err
	}

	var saved SnapshotRecord
	var projectID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		projects := project.NewStore(tx)
		proj, err := projects.GetOrCreate(projectName)
		if err != nil {
			return err
		}
		projectID = proj.ID

		active, err := s.activeForUpdate(tx, proj.ID)
		if err != nil {
			return err
		}
		if active == nil {
			active = &SnapshotRecord{
				ID:        uuid.New().String(),
				ProjectID: proj.ID,
				IsActive:  true,
			}
		}

		active.ProjectName = proj.Name
		blob := db.JSONAny{"inputs": map[string]any(res.Inputs), "outputs": map[string]any(res.Outputs)}
		switch res.Module {
		case project.ModuleHRS:
			active.HRSEstimatorData = blob
		case project.ModuleLab:
			active.LabFeesData = blob
		case project.ModuleLogistics:
			active.LogisticsData = blob
		}
		if err := tx.Save(active).Error; err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}

		breakdown := res.Breakdown
		if breakdown == nil {
			breakdown = res.Outputs
		}
		summaries := project.NewSummaryStore(tx)
		if _, err := summaries.UpsertModule(proj.ID, proj.Name, res.Module, res.Total, breakdown); err != nil {
			return err
		}

		var hrs, lab, logistics *float64
		switch res.Module {
		case project.ModuleHRS:
			hrs = res.Total
		case project.ModuleLab:
			lab = res.Total
		case project.ModuleLogistics:
			logistics = res.Total
		}
		if err := projects.ApplyTotals(proj.ID, hrs, lab, logistics, active.ID); err != nil {
			return err
		}

		saved = *active
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(&audit.EstimateEventRecord{
		ProjectID:  projectID,
		SnapshotID: saved.ID,
		EventType:  audit.EventModuleSaved,
		Module:     res.Module,
		Detail:     db.JSONAny{"estimate_total": totalOrNil(res.Total)},
	})
	return &saved, nil
}

// DuplicateActive starts a new estimate revision: the current active
// snapshot is deactivated and a new active snapshot is created carrying a
// copy of its three module blobs. When no active snapshot exists the new one
// is empty. Returns the new active snapshot.
func (s *Store) DuplicateActive(projectID, snapshotName string) (*SnapshotRecord, error) {
	var created SnapshotRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		projects := project.NewStore(tx)
		proj, err := projects.GetByID(projectID)
		if err != nil {
			return err
		}
		if proj == nil {
			return fmt.Errorf("project not found: %s", projectID)
		}

		active, err := s.activeForUpdate(tx, projectID)
		if err != nil {
			return err
		}

		next := &SnapshotRecord{
			ID:           uuid.New().String(),
			ProjectID:    projectID,
			ProjectName:  proj.Name,
			SnapshotName: snapshotName,
			IsActive:     true,
		}
		if active != nil {
			next.HRSEstimatorData = active.HRSEstimatorData
			next.LabFeesData = active.LabFeesData
			next.LogisticsData = active.LogisticsData

			active.IsActive = false
			if err := tx.Save(active).Error; err != nil {
				return fmt.Errorf("deactivate snapshot: %w", err)
			}
		}
		if err := tx.Create(next).Error; err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		if err := tx.Model(&project.ProjectRecord{}).Where("id = ?", projectID).
			Update("latest_snapshot_id", next.ID).Error; err != nil {
			return fmt.Errorf("stamp latest snapshot: %w", err)
		}

		created = *next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(&audit.EstimateEventRecord{
		ProjectID:  projectID,
		SnapshotID: created.ID,
		EventType:  audit.EventSnapshotDuplicated,
		Detail:     db.JSONAny{"snapshot_name": snapshotName},
	})
	return &created, nil
}

// Delete removes a snapshot. When the deleted snapshot was active, the
// remaining snapshot with the most recent updated_at is re-elected active
// and every other survivor is forced inactive. A project may be left with no
// active snapshot only when no snapshots remain.
func (s *Store) Delete(snapshotID string) error {
	var projectID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var victim SnapshotRecord
		err := tx.Where("id = ?", snapshotID).First(&victim).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("snapshot not found: %s", snapshotID)
			}
			return fmt.Errorf("get snapshot: %w", err)
		}
		projectID = victim.ProjectID

		if err := tx.Delete(&victim).Error; err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}

		if !victim.IsActive {
			return nil
		}

		var survivors []SnapshotRecord
		err = tx.Where("project_id = ?", victim.ProjectID).
			Order("updated_at DESC").Find(&survivors).Error
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}
		if len(survivors) == 0 {
			return tx.Model(&project.ProjectRecord{}).Where("id = ?", victim.ProjectID).
				Update("latest_snapshot_id", "").Error
		}

		// Force every survivor inactive first so the partial unique index
		// never sees two actives mid-transition.
		for i := range survivors {
			if survivors[i].IsActive {
				if err := tx.Model(&survivors[i]).UpdateColumn("is_active", false).Error; err != nil {
					return fmt.Errorf("deactivate snapshot: %w", err)
				}
			}
		}
		elected := &survivors[0]
		if err := tx.Model(elected).UpdateColumn("is_active", true).Error; err != nil {
			return fmt.Errorf("activate snapshot: %w", err)
		}
		return tx.Model(&project.ProjectRecord{}).Where("id = ?", victim.ProjectID).
			Update("latest_snapshot_id", elected.ID).Error
	})
	if err != nil {
		return err
	}

	s.record(&audit.EstimateEventRecord{
		ProjectID:  projectID,
		SnapshotID: snapshotID,
		EventType:  audit.EventSnapshotDeleted,
	})
	return nil
}

// SaveAndClose finalizes the working estimate for a project: it guarantees
// an active snapshot exists (creating an empty one when needed), labels it,
// and stamps the project's latest_snapshot_id.
func (s *Store) SaveAndClose(projectName, snapshotName string) (*SnapshotRecord, error) {
	var closed SnapshotRecord
	var projectID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		projects := project.NewStore(tx)
		proj, err := projects.GetOrCreate(projectName)
		if err != nil {
			return err
		}
		projectID = proj.ID

		active, err := s.activeForUpdate(tx, proj.ID)
		if err != nil {
			return err
		}
		if active == nil {
			active = &SnapshotRecord{
				ID:          uuid.New().String(),
				ProjectID:   proj.ID,
				ProjectName: proj.Name,
				IsActive:    true,
			}
		}
		if snapshotName != "" {
			active.SnapshotName = snapshotName
		}
		if err := tx.Save(active).Error; err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		if err := tx.Model(&project.ProjectRecord{}).Where("id = ?", proj.ID).
			Update("latest_snapshot_id", active.ID).Error; err != nil {
			return fmt.Errorf("stamp latest snapshot: %w", err)
		}

		closed = *active
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(&audit.EstimateEventRecord{
		ProjectID:  projectID,
		SnapshotID: closed.ID,
		EventType:  audit.EventSnapshotClosed,
	})
	return &closed, nil
}

// DiscardByID removes a project together with all of its snapshots and
// summaries in one transaction.
func (s *Store) DiscardByID(projectID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&SnapshotRecord{}).Error; err != nil {
			return fmt.Errorf("delete snapshots: %w", err)
		}
		return project.NewStore(tx).Delete(projectID)
	})
	if err != nil {
		return err
	}

	s.record(&audit.EstimateEventRecord{
		ProjectID: projectID,
		EventType: audit.EventProjectDiscarded,
	})
	return nil
}

// GetActive returns the project's active snapshot, or nil, nil when the
// project has none.
func (s *Store) GetActive(projectID string) (*SnapshotRecord, error) {
	return s.activeForUpdate(s.db, projectID)
}

// GetByID returns a snapshot by ID, or nil, nil when it does not exist.
func (s *Store) GetByID(snapshotID string) (*SnapshotRecord, error) {
	var record SnapshotRecord
	err := s.db.Where("id = ?", snapshotID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &record, nil
}

// ListByProject returns all snapshots for a project, newest first.
func (s *Store) ListByProject(projectID string) ([]SnapshotRecord, error) {
	var records []SnapshotRecord
	err := s.db.Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return records, nil
}

// ListGlobal returns the active snapshot of every project, newest first.
func (s *Store) ListGlobal() ([]SnapshotRecord, error) {
	var records []SnapshotRecord
	err := s.db.Where("is_active = ?", true).
		Order("updated_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list active snapshots: %w", err)
	}
	return records, nil
}

// activeForUpdate finds the project's active snapshot on the given handle.
// When stray duplicates exist it keeps the most recently updated one and
// deactivates the rest, so every caller observes at most one active row.
func (s *Store) activeForUpdate(tx *gorm.DB, projectID string) (*SnapshotRecord, error) {
	var actives []SnapshotRecord
	err := tx.Where("project_id = ? AND is_active = ?", projectID, true).
		Order("updated_at DESC").Find(&actives).Error
	if err != nil {
		return nil, fmt.Errorf("get active snapshot: %w", err)
	}
	if len(actives) == 0 {
		return nil, nil
	}
	for i := 1; i < len(actives); i++ {
		if err := tx.Model(&actives[i]).UpdateColumn("is_active", false).Error; err != nil {
			return nil, fmt.Errorf("deactivate stray snapshot: %w", err)
		}
	}
	return &actives[0], nil
}

// record appends an audit event outside the mutation transaction. Failures
// are logged and swallowed.
func (s *Store) record(event *audit.EstimateEventRecord) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(event); err != nil {
		slog.Warn("failed to record estimate event", "event_type", event.EventType, "error", err)
	}
}

func validModule(module string) error {
	switch module {
	case project.ModuleHRS, project.ModuleLab, project.ModuleLogistics:
		return nil
	}
	return fmt.Errorf("unknown module: %q", module)
}

func totalOrNil(total *float64) any {
	if total == nil {
		return nil
	}
	return *total
}
