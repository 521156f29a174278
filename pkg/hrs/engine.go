package hrs

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

// Engine computes and persists sampling-hours estimates. Detail rows, the
// snapshot slot, and the summary projection commit in one transaction.
type Engine struct {
	db      *gorm.DB
	rates   *rates.Store
	events  *audit.EventStore
	minutes SamplingMinutes
}

// NewEngine creates an HRS estimation engine. events may be nil.
func NewEngine(gdb *gorm.DB, rateStore *rates.Store, events *audit.EventStore) *Engine {
	return &Engine{
		db:      gdb,
		rates:   rateStore,
		events:  events,
		minutes: DefaultSamplingMinutes(),
	}
}

// AutoMigrate creates or updates all HRS tables.
func (e *Engine) AutoMigrate() error {
	for _, model := range []any{
		&EstimationRecord{}, &AsbestosLineRecord{}, &LeadLineRecord{},
		&MoldLineRecord{}, &ORMRecord{}, &SamplingDefaultRecord{}, &ComponentRecord{},
	} {
		if err := e.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto-migrate hrs tables: %w", err)
		}
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

// EstimationDetail is a header with its line items attached.
type EstimationDetail struct {
	EstimationRecord
	AsbestosLines []AsbestosLineRecord `json:"asbestos_lines"`
	LeadLines     []LeadLineRecord     `json:"lead_lines"`
	MoldLines     []MoldLineRecord     `json:"mold_lines"`
	ORM           *ORMRecord           `json:"orm,omitempty"`
}

// Estimate computes the request, persists the header and line items, writes
// the result into the owning project's active snapshot, and updates the
// summary projection. Estimates without a project name are persisted as
// standalone records and skip the snapshot step.
func (e *Engine) Estimate(req *EstimateRequest) (*EstimationDetail, error) {
	res, err := Compute(e.minutes, rateLookup{e.rates}, req)
	if err != nil {
		return nil, err
	}

	detail := &EstimationDetail{}
	var snapshotID string
	err = e.db.Transaction(func(tx *gorm.DB) error {
		record := EstimationRecord{
			ID:          uuid.New().String(),
			ProjectName: req.ProjectName,

			DefaultMinutesAsbestos: e.minutes.Asbestos,
			DefaultMinutesXRF:      e.minutes.XRF,
			DefaultMinutesLead:     e.minutes.Lead,
			DefaultMinutesMold:     e.minutes.Mold,

			OverrideMinutesAsbestos: req.OverrideMinutesAsbestos,
			OverrideMinutesXRF:      req.OverrideMinutesXRF,
			OverrideMinutesLead:     req.OverrideMinutesLead,
			OverrideMinutesMold:     req.OverrideMinutesMold,

			FieldStaffCount:  res.FieldStaffCount,
			EfficiencyFactor: res.EfficiencyFactor,

			TotalPLM:        res.TotalPLM,
			TotalXRFShots:   res.TotalXRFShots,
			TotalChipsWipes: res.TotalChipsWipes,
			TotalTapeLift:   res.TotalTapeLift,
			TotalSporeTrap:  res.TotalSporeTrap,
			TotalCulturable: res.TotalCulturable,
			ORMHours:        res.ORMHours,

			SuggestedHoursBase:  res.SuggestedHoursBase,
			SuggestedHoursFinal: res.SuggestedHoursFinal,

			SelectedRole:     res.SelectedRole,
			CalculatedCost:   res.CalculatedCost,
			StaffBreakdown:   res.StaffBreakdown,
			ManualLaborCosts: res.ManualLaborCosts,
			TotalCost:        res.TotalCost,
		}

		if req.ProjectName != "" {
			snap, err := snapshot.NewStore(tx, nil).SaveModule(req.ProjectName, snapshot.ModuleResult{
				Module:  project.ModuleHRS,
				Inputs:  db.ToMap(req),
				Outputs: db.ToMap(res),
				Total:   &res.TotalCost,
			})
			if err != nil {
				return err
			}
			record.ProjectID = snap.ProjectID
			snapshotID = snap.ID
		}

		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("create hrs estimation: %w", err)
		}
		detail.EstimationRecord = record

		for _, l := range req.AsbestosLines {
			line := AsbestosLineRecord{
				ID:            uuid.New().String(),
				EstimationID:  record.ID,
				ComponentName: l.ComponentName,
				UnitLabel:     l.UnitLabel,
				Actuals:       l.Actuals,
				BulksPerUnit:  l.BulksPerUnit,
				BulkSummary:   l.Actuals * l.BulksPerUnit,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("create asbestos line: %w", err)
			}
			detail.AsbestosLines = append(detail.AsbestosLines, line)
		}
		for _, l := range req.LeadLines {
			line := LeadLineRecord{
				ID:            uuid.New().String(),
				EstimationID:  record.ID,
				ComponentName: l.ComponentName,
				XRFShots:      l.XRFShots,
				ChipsWipes:    l.ChipsWipes,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("create lead line: %w", err)
			}
			detail.LeadLines = append(detail.LeadLines, line)
		}
		for _, l := range req.MoldLines {
			line := MoldLineRecord{
				ID:            uuid.New().String(),
				EstimationID:  record.ID,
				ComponentName: l.ComponentName,
				TapeLift:      l.TapeLift,
				SporeTrap:     l.SporeTrap,
				Culturable:    l.Culturable,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("create mold line: %w", err)
			}
			detail.MoldLines = append(detail.MoldLines, line)
		}
		if req.ORM != nil {
			rec := ORMRecord{
				ID:              uuid.New().String(),
				EstimationID:    record.ID,
				BuildingTotalSF: req.ORM.BuildingTotalSF,
				Hours:           req.ORM.Hours,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("create orm record: %w", err)
			}
			detail.ORM = &rec
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
			Module:     project.ModuleHRS,
			Detail:     db.JSONAny{"estimate_total": res.TotalCost, "estimation_id": detail.ID},
		}
		if err := e.events.Append(event); err != nil {
			slog.Warn("failed to record estimate event", "module", project.ModuleHRS, "error", err)
		}
	}
	return detail, nil
}

// GetEstimation loads a header with all of its line items. Returns nil, nil
// when the estimation does not exist.
func (e *Engine) GetEstimation(id string) (*EstimationDetail, error) {
	var record EstimationRecord
	err := e.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get hrs estimation: %w", err)
	}

	detail := &EstimationDetail{EstimationRecord: record}
	if err := e.db.Where("estimation_id = ?", id).Find(&detail.AsbestosLines).Error; err != nil {
		return nil, fmt.Errorf("load asbestos lines: %w", err)
	}
	if err := e.db.Where("estimation_id = ?", id).Find(&detail.LeadLines).Error; err != nil {
		return nil, fmt.Errorf("load lead lines: %w", err)
	}
	if err := e.db.Where("estimation_id = ?", id).Find(&detail.MoldLines).Error; err != nil {
		return nil, fmt.Errorf("load mold lines: %w", err)
	}
	var orm ORMRecord
	err = e.db.Where("estimation_id = ?", id).First(&orm).Error
	if err == nil {
		detail.ORM = &orm
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("load orm record: %w", err)
	}
	return detail, nil
}

// ListComponents returns the component reference list, optionally filtered
// by hazard category.
func (e *Engine) ListComponents(category string) ([]ComponentRecord, error) {
	query := e.db.Order("category ASC, component_name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var records []ComponentRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return records, nil
}

// ListSamplingDefaults returns the stored minutes-per-sample reference rows.
func (e *Engine) ListSamplingDefaults() ([]SamplingDefaultRecord, error) {
	var records []SamplingDefaultRecord
	if err := e.db.Order("sampling_type ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list sampling defaults: %w", err)
	}
	return records, nil
}
