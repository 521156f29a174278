package logistics

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

// Engine computes and persists logistics estimates. The header row, the
// snapshot slot, and the summary projection commit in one transaction.
type Engine struct {
	db     *gorm.DB
	rates  *rates.Store
	events *audit.EventStore
}

// NewEngine creates a logistics estimation engine. events may be nil.
func NewEngine(gdb *gorm.DB, rateStore *rates.Store, events *audit.EventStore) *Engine {
	return &Engine{db: gdb, rates: rateStore, events: events}
}

// AutoMigrate creates or updates the logistics tables.
func (e *Engine) AutoMigrate() error {
	if err := e.db.AutoMigrate(&EstimationRecord{}); err != nil {
		return fmt.Errorf("auto-migrate logistics tables: %w", err)
	}
	return nil
}

// rateLookup adapts the rates store to the compute-side interface.
type rateLookup struct {
	store *rates.Store
}

func (r rateLookup) Lookup(role string) (float64, bool, error) {
	rec, err := r.store.Lookup(role)
	if err != nil {
		return 0, false, err
	}
	if rec == nil {
		return 0, false, nil
	}
	return rec.HourlyRate, true, nil
}

// Estimate computes the request, persists the header, writes the result into
// the owning project's active snapshot, and updates the summary projection.
// Estimates without a project name are persisted standalone and skip the
// snapshot step.
func (e *Engine) Estimate(req *EstimateRequest) (*EstimationRecord, error) {
	res, err := Compute(rateLookup{e.rates}, req)
	if err != nil {
		return nil, err
	}

	record := EstimationRecord{
		ID:          uuid.New().String(),
		ProjectName: req.ProjectName,

		SiteAccessMode:   res.SiteAccessMode,
		IsLocalProject:   res.IsLocalProject,
		UseClientVehicle: res.UseClientVehicle,

		ProfessionalRole: req.ProfessionalRole,
		NumStaff:         req.NumStaff,
		StaffBreakdown:   res.StaffBreakdown,
		StaffLaborCosts:  res.StaffLaborCosts,
		TotalStaffCount:  res.TotalStaffCount,

		RateMultiplier: res.RateMultiplier,
		PerDiemRate:    res.PerDiemRate,

		RoundtripDrivingMiles:      res.RoundtripDrivingMiles,
		DailyDrivingMiles:          res.DailyDrivingMiles,
		TotalDrivingMiles:          res.TotalDrivingMiles,
		RoundtripDrivingLaborHours: res.RoundtripDrivingLaborHours,
		DailyDrivingLaborHours:     res.DailyDrivingLaborHours,
		TotalDrivingLaborHours:     res.TotalDrivingLaborHours,
		TotalDrivingFuelCost:       res.TotalDrivingFuelCost,
		TotalDrivingLaborCost:      res.TotalDrivingLaborCost,
		TotalDrivingCost:           res.TotalDrivingCost,

		TotalFlightTicketCost: res.TotalFlightTicketCost,
		TotalFlightLaborHours: res.TotalFlightLaborHours,
		TotalFlightLaborCost:  res.TotalFlightLaborCost,
		TotalLayoverRoomCost:  res.TotalLayoverRoomCost,
		TotalFlightCost:       res.TotalFlightCost,

		TotalRentalBaseCost: res.TotalRentalBaseCost,
		TotalRentalFuelCost: res.TotalRentalFuelCost,
		TotalRentalCost:     res.TotalRentalCost,

		TotalLodgingRoomCost: res.TotalLodgingRoomCost,
		TotalPerDiemCost:     res.TotalPerDiemCost,

		TotalLogisticsCost: res.TotalLogisticsCost,
	}

	if req.RoundtripDriving != nil || req.DailyDriving != nil {
		driving := db.JSONAny{}
		if req.RoundtripDriving != nil {
			driving["roundtrip"] = map[string]any(db.ToMap(req.RoundtripDriving))
		}
		if req.DailyDriving != nil {
			driving["daily"] = map[string]any(db.ToMap(req.DailyDriving))
		}
		record.DrivingInput = driving
	}
	if req.Flights != nil {
		record.FlightsInput = db.ToMap(req.Flights)
	}
	if req.Rental != nil {
		record.RentalInput = db.ToMap(req.Rental)
	}
	if req.Lodging != nil {
		record.LodgingInput = db.ToMap(req.Lodging)
	}

	var snapshotID string
	err = e.db.Transaction(func(tx *gorm.DB) error {
		if req.ProjectName != "" {
			snap, err := snapshot.NewStore(tx, nil).SaveModule(req.ProjectName, snapshot.ModuleResult{
				Module:  project.ModuleLogistics,
				Inputs:  db.ToMap(req),
				Outputs: db.ToMap(res),
				Total:   &res.TotalLogisticsCost,
			})
			if err != nil {
				return err
			}
			record.ProjectID = snap.ProjectID
			snapshotID = snap.ID
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("create logistics estimation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.events != nil && record.ProjectID != "" {
		event := &audit.EstimateEventRecord{
			ProjectID:  record.ProjectID,
			SnapshotID: snapshotID,
			EventType:  audit.EventModuleSaved,
			Module:     project.ModuleLogistics,
			Detail:     db.JSONAny{"estimate_total": res.TotalLogisticsCost, "estimation_id": record.ID},
		}
		if err := e.events.Append(event); err != nil {
			slog.Warn("failed to record estimate event", "module", project.ModuleLogistics, "error", err)
		}
	}
	return &record, nil
}

// GetEstimation returns one logistics estimate, or nil, nil when it does not
// exist.
func (e *Engine) GetEstimation(id string) (*EstimationRecord, error) {
	var record EstimationRecord
	err := e.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get logistics estimation: %w", err)
	}
	return &record, nil
}

// ListEstimations returns logistics estimates newest-first, optionally
// filtered by project name.
func (e *Engine) ListEstimations(projectName string) ([]EstimationRecord, error) {
	query := e.db.Order("created_at DESC")
	if projectName != "" {
		query = query.Where("project_name = ?", projectName)
	}
	var records []EstimationRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list logistics estimations: %w", err)
	}
	return records, nil
}
