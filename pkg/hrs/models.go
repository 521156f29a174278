// Package hrs implements the hazard-sampling estimation engine: it converts
// per-category sample counts into billable labor hours and labor cost.
package hrs

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RoleCost is one priced labor entry in a breakdown.
type RoleCost struct {
	Role  string  `json:"role"`
	Count int     `json:"count,omitempty"`
	Hours float64 `json:"hours"`
	Cost  float64 `json:"cost"`
}

// RoleCostList is a JSON column holding an ordered labor breakdown.
type RoleCostList []RoleCost

// Scan implements sql.Scanner.
func (l *RoleCostList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for RoleCostList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// Value implements driver.Valuer.
func (l RoleCostList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// EstimationRecord is the persisted header of one sampling-hours estimate.
// Minutes-per-sample defaults are captured on the row so historical
// estimates stay reproducible when defaults change.
type EstimationRecord struct {
	ID          string `gorm:"column:id;primaryKey;type:varchar(36)"`
	ProjectID   string `gorm:"column:project_id;type:varchar(36);index"`
	ProjectName string `gorm:"column:project_name;type:varchar(255)"`

	DefaultMinutesAsbestos float64 `gorm:"column:default_minutes_asbestos;not null"`
	DefaultMinutesXRF      float64 `gorm:"column:default_minutes_xrf;not null"`
	DefaultMinutesLead     float64 `gorm:"column:default_minutes_lead;not null"`
	DefaultMinutesMold     float64 `gorm:"column:default_minutes_mold;not null"`

	OverrideMinutesAsbestos *float64 `gorm:"column:override_minutes_asbestos"`
	OverrideMinutesXRF      *float64 `gorm:"column:override_minutes_xrf"`
	OverrideMinutesLead     *float64 `gorm:"column:override_minutes_lead"`
	OverrideMinutesMold     *float64 `gorm:"column:override_minutes_mold"`

	FieldStaffCount  int     `gorm:"column:field_staff_count;not null;default:1"`
	EfficiencyFactor float64 `gorm:"column:efficiency_factor;not null;default:1"`

	TotalPLM        float64 `gorm:"column:total_plm;not null;default:0"`
	TotalXRFShots   float64 `gorm:"column:total_xrf_shots;not null;default:0"`
	TotalChipsWipes float64 `gorm:"column:total_chips_wipes;not null;default:0"`
	TotalTapeLift   float64 `gorm:"column:total_tape_lift;not null;default:0"`
	TotalSporeTrap  float64 `gorm:"column:total_spore_trap;not null;default:0"`
	TotalCulturable float64 `gorm:"column:total_culturable;not null;default:0"`
	ORMHours        float64 `gorm:"column:orm_hours;not null;default:0"`

	SuggestedHoursBase  float64 `gorm:"column:suggested_hours_base;not null;default:0"`
	SuggestedHoursFinal float64 `gorm:"column:suggested_hours_final;not null;default:0"`

	SelectedRole     string       `gorm:"column:selected_role;type:varchar(255)"`
	CalculatedCost   *float64     `gorm:"column:calculated_cost"`
	StaffBreakdown   RoleCostList `gorm:"column:staff_breakdown;type:json"`
	ManualLaborCosts RoleCostList `gorm:"column:manual_labor_costs;type:json"`
	TotalCost        float64      `gorm:"column:total_cost;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName sets the table name for estimation headers.
func (EstimationRecord) TableName() string {
	return "hrs_estimations"
}

// AsbestosLineRecord is one asbestos component line: actuals times bulks per
// unit gives the line's bulk sample count.
type AsbestosLineRecord struct {
	ID            string  `gorm:"column:id;primaryKey;type:varchar(36)"`
	EstimationID  string  `gorm:"column:estimation_id;type:varchar(36);index;not null"`
	ComponentName string  `gorm:"column:component_name;type:varchar(255)"`
	UnitLabel     string  `gorm:"column:unit_label;type:varchar(64)"`
	Actuals       float64 `gorm:"column:actuals;not null;default:0"`
	BulksPerUnit  float64 `gorm:"column:bulks_per_unit;not null;default:0"`
	BulkSummary   float64 `gorm:"column:bulk_summary;not null;default:0"`
}

// TableName sets the table name for asbestos lines.
func (AsbestosLineRecord) TableName() string {
	return "hrs_asbestos_lines"
}

// LeadLineRecord is one lead component line.
type LeadLineRecord struct {
	ID            string  `gorm:"column:id;primaryKey;type:varchar(36)"`
	EstimationID  string  `gorm:"column:estimation_id;type:varchar(36);index;not null"`
	ComponentName string  `gorm:"column:component_name;type:varchar(255)"`
	XRFShots      float64 `gorm:"column:xrf_shots;not null;default:0"`
	ChipsWipes    float64 `gorm:"column:chips_wipes;not null;default:0"`
}

// TableName sets the table name for lead lines.
func (LeadLineRecord) TableName() string {
	return "hrs_lead_lines"
}

// MoldLineRecord is one mold component line.
type MoldLineRecord struct {
	ID            string  `gorm:"column:id;primaryKey;type:varchar(36)"`
	EstimationID  string  `gorm:"column:estimation_id;type:varchar(36);index;not null"`
	ComponentName string  `gorm:"column:component_name;type:varchar(255)"`
	TapeLift      float64 `gorm:"column:tape_lift;not null;default:0"`
	SporeTrap     float64 `gorm:"column:spore_trap;not null;default:0"`
	Culturable    float64 `gorm:"column:culturable;not null;default:0"`
}

// TableName sets the table name for mold lines.
func (MoldLineRecord) TableName() string {
	return "hrs_mold_lines"
}

// ORMRecord holds the "other regulated materials" block, priced directly in
// hours rather than derived from sample counts.
type ORMRecord struct {
	ID              string   `gorm:"column:id;primaryKey;type:varchar(36)"`
	EstimationID    string   `gorm:"column:estimation_id;type:varchar(36);index;not null"`
	BuildingTotalSF *float64 `gorm:"column:building_total_sf"`
	Hours           float64  `gorm:"column:hours;not null;default:0"`
}

// TableName sets the table name for ORM records.
func (ORMRecord) TableName() string {
	return "hrs_orm_records"
}

// SamplingDefaultRecord is reference data: default minutes per sample for
// one sampling type.
type SamplingDefaultRecord struct {
	ID               string  `gorm:"column:id;primaryKey;type:varchar(36)"`
	SamplingType     string  `gorm:"column:sampling_type;type:varchar(64);uniqueIndex;not null"`
	MinutesPerSample float64 `gorm:"column:minutes_per_sample;not null"`
}

// TableName sets the table name for sampling defaults.
func (SamplingDefaultRecord) TableName() string {
	return "hrs_sampling_defaults"
}

// ComponentRecord is reference data: a known building component per hazard
// category, used to populate estimate forms.
type ComponentRecord struct {
	ID            string `gorm:"column:id;primaryKey;type:varchar(36)"`
	Category      string `gorm:"column:category;type:varchar(64);index;not null"`
	ComponentName string `gorm:"column:component_name;type:varchar(255);not null"`
}

// TableName sets the table name for component reference rows.
func (ComponentRecord) TableName() string {
	return "hrs_components"
}
