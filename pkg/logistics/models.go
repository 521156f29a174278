// Package logistics implements the travel-cost estimation engine: it prices
// site access under driving and flight modes, with optional rental vehicles,
// lodging, and per-diem.
package logistics

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fieldstone-env/estimator/pkg/db"
)

// StaffEntry is one role/count pair of traveling staff.
type StaffEntry struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// StaffList is a JSON column holding the normalized staff breakdown.
type StaffList []StaffEntry

// Scan implements sql.Scanner.
func (l *StaffList) Scan(value interface{}) error {
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
		return fmt.Errorf("unsupported type for StaffList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// Value implements driver.Valuer.
func (l StaffList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// LaborCost is the accumulated hours and cost for one role across all
// labor-bearing blocks.
type LaborCost struct {
	Role  string  `json:"role"`
	Hours float64 `json:"hours"`
	Cost  float64 `json:"cost"`
}

// LaborCostList is a JSON column holding the per-role labor summary.
type LaborCostList []LaborCost

// Scan implements sql.Scanner.
func (l *LaborCostList) Scan(value interface{}) error {
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
		return fmt.Errorf("unsupported type for LaborCostList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// Value implements driver.Valuer.
func (l LaborCostList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// EstimationRecord is the persisted header of one logistics estimate. Block
// inputs are captured as JSON snapshots so the record stays self-describing.
type EstimationRecord struct {
	ID          string `gorm:"column:id;primaryKey;type:varchar(36)"`
	ProjectID   string `gorm:"column:project_id;type:varchar(36);index"`
	ProjectName string `gorm:"column:project_name;type:varchar(255)"`

	SiteAccessMode   string `gorm:"column:site_access_mode;type:varchar(16);not null;default:driving"`
	IsLocalProject   bool   `gorm:"column:is_local_project;not null;default:false"`
	UseClientVehicle bool   `gorm:"column:use_client_vehicle;not null;default:false"`

	ProfessionalRole string        `gorm:"column:professional_role;type:varchar(255)"`
	NumStaff         int           `gorm:"column:num_staff;not null;default:0"`
	StaffBreakdown   StaffList     `gorm:"column:staff_breakdown;type:json"`
	StaffLaborCosts  LaborCostList `gorm:"column:staff_labor_costs;type:json"`
	TotalStaffCount  int           `gorm:"column:total_staff_count;not null;default:0"`

	RateMultiplier float64 `gorm:"column:rate_multiplier;not null;default:1"`
	PerDiemRate    float64 `gorm:"column:per_diem_rate;not null;default:0"`

	DrivingInput db.JSONAny `gorm:"column:driving_input;type:json"`
	FlightsInput db.JSONAny `gorm:"column:flights_input;type:json"`
	RentalInput  db.JSONAny `gorm:"column:rental_input;type:json"`
	LodgingInput db.JSONAny `gorm:"column:lodging_input;type:json"`

	RoundtripDrivingMiles      float64 `gorm:"column:roundtrip_driving_miles;not null;default:0"`
	DailyDrivingMiles          float64 `gorm:"column:daily_driving_miles;not null;default:0"`
	TotalDrivingMiles          float64 `gorm:"column:total_driving_miles;not null;default:0"`
	RoundtripDrivingLaborHours float64 `gorm:"column:roundtrip_driving_labor_hours;not null;default:0"`
	DailyDrivingLaborHours     float64 `gorm:"column:daily_driving_labor_hours;not null;default:0"`
	TotalDrivingLaborHours     float64 `gorm:"column:total_driving_labor_hours;not null;default:0"`
	TotalDrivingFuelCost       float64 `gorm:"column:total_driving_fuel_cost;not null;default:0"`
	TotalDrivingLaborCost      float64 `gorm:"column:total_driving_labor_cost;not null;default:0"`
	TotalDrivingCost           float64 `gorm:"column:total_driving_cost;not null;default:0"`

	TotalFlightTicketCost float64 `gorm:"column:total_flight_ticket_cost;not null;default:0"`
	TotalFlightLaborHours float64 `gorm:"column:total_flight_labor_hours;not null;default:0"`
	TotalFlightLaborCost  float64 `gorm:"column:total_flight_labor_cost;not null;default:0"`
	TotalLayoverRoomCost  float64 `gorm:"column:total_layover_room_cost;not null;default:0"`
	TotalFlightCost       float64 `gorm:"column:total_flight_cost;not null;default:0"`

	TotalRentalBaseCost float64 `gorm:"column:total_rental_base_cost;not null;default:0"`
	TotalRentalFuelCost float64 `gorm:"column:total_rental_fuel_cost;not null;default:0"`
	TotalRentalCost     float64 `gorm:"column:total_rental_cost;not null;default:0"`

	TotalLodgingRoomCost float64 `gorm:"column:total_lodging_room_cost;not null;default:0"`
	TotalPerDiemCost     float64 `gorm:"column:total_per_diem_cost;not null;default:0"`

	TotalLogisticsCost float64 `gorm:"column:total_logistics_cost;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for logistics estimation headers.
func (EstimationRecord) TableName() string {
	return "logistics_estimations"
}
