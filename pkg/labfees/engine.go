package labfees

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldstone-env/estimator/pkg/audit"
	"github.com/fieldstone-env/estimator/pkg/db"
	"github.com/fieldstone-env/estimator/pkg/project"
	"github.com/fieldstone-env/estimator/pkg/rates"
	"github.com/fieldstone-env/estimator/pkg/snapshot"
)

// Engine computes and persists lab-fees orders. The order, its staff rows,
// the snapshot slot, and the summary projection commit in one transaction.
type Engine struct {
	db     *gorm.DB
	store  *Store
	rates  *rates.Store
	events *audit.EventStore
}

// NewEngine creates a lab-fees order engine. events may be nil.
func NewEngine(gdb *gorm.DB, store *Store, rateStore *rates.Store, events *audit.EventStore) *Engine {
	return &Engine{db: gdb, store: store, rates: rateStore, events: events}
}

// laborLookup adapts the labor-rate store to the compute-side interface.
type laborLookup struct {
	store *rates.Store
}

func (l laborLookup) Lookup(role string) (float64, bool, error) {
	rec, err := l.store.Lookup(role)
	if err != nil {
		return 0, false, err
	}
	if rec == nil {
		return 0, false, nil
	}
	return rec.HourlyRate, true, nil
}

// OrderDetail is an order header with its staff assignment rows attached.
type OrderDetail struct {
	OrderRecord
	StaffAssignments []StaffAssignmentRecord `json:"staff_assignments"`
}

// CreateOrder prices the request, persists the order and its staff rows,
// writes the result into the owning project's active snapshot, and updates
// the summary projection. Orders without a project name skip the snapshot
// step.
func (e *Engine) CreateOrder(req *OrderRequest) (*OrderDetail, error) {
	res, err := Compute(e.store, laborLookup{e.rates}, req)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{}
	var snapshotID string
	err = e.db.Transaction(func(tx *gorm.DB) error {
		record := OrderRecord{
			ID:              uuid.New().String(),
			ProjectName:     req.ProjectName,
			HRSEstimationID: req.HRSEstimationID,
			OrderDetails:    req.OrderDetails,

			TotalSamples:        res.TotalSamples,
			TotalLabFeesCost:    res.TotalLabFeesCost,
			TotalStaffLaborCost: res.TotalStaffLaborCost,
			TotalCost:           res.TotalCost,
			StaffBreakdown:      res.StaffBreakdown,
		}

		if req.ProjectName != "" {
			snap, err := snapshot.NewStore(tx, nil).SaveModule(req.ProjectName, snapshot.ModuleResult{
				Module:  project.ModuleLab,
				Inputs:  db.ToMap(req),
				Outputs: db.ToMap(res),
				Total:   &res.TotalCost,
				Breakdown: db.JSONAny{
					"total_lab_fees_cost":    res.TotalLabFeesCost,
					"total_staff_labor_cost": res.TotalStaffLaborCost,
					"total_samples":          res.TotalSamples,
					"staff_breakdown":        res.StaffBreakdown,
				},
			})
			if err != nil {
				return err
			}
			record.ProjectID = snap.ProjectID
			snapshotID = snap.ID
		}

		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("create lab fees order: %w", err)
		}
		detail.OrderRecord = record

		for _, staff := range res.StaffBreakdown {
			row := StaffAssignmentRecord{
				ID:             uuid.New().String(),
				OrderID:        record.ID,
				Role:           staff.Role,
				Count:          staff.Count,
				HoursPerPerson: staff.HoursPerPerson,
				TotalHours:     staff.TotalHours,
				HourlyRate:     staff.HourlyRate,
				TotalCost:      staff.TotalCost,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create staff assignment: %w", err)
			}
			detail.StaffAssignments = append(detail.StaffAssignments, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.events != nil && detail.ProjectID != "" {
		event := &audit.EstimateEventRecord{
			ProjectID:  detail.ProjectID,
			SnapshotID: snapshotID,
			EventType:  audit.EventModuleSaved,
			Module:     project.ModuleLab,
			Detail:     db.JSONAny{"estimate_total": res.TotalCost, "order_id": detail.ID},
		}
		if err := e.events.Append(event); err != nil {
			slog.Warn("failed to record estimate event", "module", project.ModuleLab, "error", err)
		}
	}
	return detail, nil
}

// GetOrder loads an order with its staff assignments. Returns nil, nil when
// the order does not exist.
func (e *Engine) GetOrder(id string) (*OrderDetail, error) {
	var record OrderRecord
	err := e.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get lab fees order: %w", err)
	}
	detail := &OrderDetail{OrderRecord: record}
	if err := e.db.Where("order_id = ?", id).Find(&detail.StaffAssignments).Error; err != nil {
		return nil, fmt.Errorf("load staff assignments: %w", err)
	}
	return detail, nil
}

// ListOrders returns orders newest first, optionally filtered by project
// name or by originating HRS estimation.
func (e *Engine) ListOrders(projectName, hrsEstimationID string) ([]OrderRecord, error) {
	query := e.db.Order("created_at DESC")
	if projectName != "" {
		query = query.Where("project_name = ?", projectName)
	}
	if hrsEstimationID != "" {
		query = query.Where("hrs_estimation_id = ?", hrsEstimationID)
	}
	var records []OrderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list lab fees orders: %w", err)
	}
	return records, nil
}
