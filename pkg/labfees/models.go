// Package labfees implements the lab-fees order engine: it prices a basket
// of lab tests at chosen turnaround times plus staff labor for sample
// collection, backed by laboratory reference tables.
package labfees

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderDetails maps test ID to turnaround-time ID to sample quantity.
type OrderDetails map[string]map[string]float64

// Scan implements sql.Scanner.
func (d *OrderDetails) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for OrderDetails: %T", value)
	}
	return json.Unmarshal(data, d)
}

// Value implements driver.Valuer.
func (d OrderDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// StaffCost is one priced staff assignment in a breakdown.
type StaffCost struct {
	Role           string  `json:"role"`
	Count          int     `json:"count"`
	HoursPerPerson float64 `json:"hours_per_person"`
	TotalHours     float64 `json:"total_hours"`
	HourlyRate     float64 `json:"hourly_rate"`
	TotalCost      float64 `json:"total_cost"`
}

// StaffCostList is a JSON column holding an ordered staff breakdown.
type StaffCostList []StaffCost

// Scan implements sql.Scanner.
func (l *StaffCostList) Scan(value interface{}) error {
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
		return fmt.Errorf("unsupported type for StaffCostList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// Value implements driver.Valuer.
func (l StaffCostList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// LaboratoryRecord is a lab the firm sends samples to.
type LaboratoryRecord struct {
	ID          string `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Name        string `gorm:"column:name;type:varchar(255);uniqueIndex;not null" json:"name"`
	Address     string `gorm:"column:address;type:varchar(512)" json:"address"`
	ContactInfo string `gorm:"column:contact_info;type:varchar(512)" json:"contact_info"`
}

// TableName sets the table name for laboratories.
func (LaboratoryRecord) TableName() string {
	return "laboratories"
}

// ServiceCategoryRecord groups tests offered by one laboratory.
type ServiceCategoryRecord struct {
	ID          string `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	LabID       string `gorm:"column:lab_id;type:varchar(36);index;not null" json:"lab_id"`
	Name        string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string `gorm:"column:description;type:varchar(512)" json:"description"`
}

// TableName sets the table name for service categories.
func (ServiceCategoryRecord) TableName() string {
	return "service_categories"
}

// TestRecord is one lab test within a service category.
type TestRecord struct {
	ID                string `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ServiceCategoryID string `gorm:"column:service_category_id;type:varchar(36);index;not null" json:"service_category_id"`
	Name              string `gorm:"column:name;type:varchar(255);not null" json:"name"`
}

// TableName sets the table name for tests.
func (TestRecord) TableName() string {
	return "lab_tests"
}

// TurnTimeRecord is a turnaround-time option, e.g. "24 hr".
type TurnTimeRecord struct {
	ID    string `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Label string `gorm:"column:label;type:varchar(64);uniqueIndex;not null" json:"label"`
	Hours *int   `gorm:"column:hours" json:"hours"`
}

// TableName sets the table name for turnaround times.
func (TurnTimeRecord) TableName() string {
	return "turn_times"
}

// LabRateRecord prices one test at one turnaround time at one laboratory.
type LabRateRecord struct {
	ID          string   `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	TestID      string   `gorm:"column:test_id;type:varchar(36);index:idx_lab_rate_test_turn,priority:1;not null" json:"test_id"`
	TurnTimeID  string   `gorm:"column:turn_time_id;type:varchar(36);index:idx_lab_rate_test_turn,priority:2;not null" json:"turn_time_id"`
	LabID       string   `gorm:"column:lab_id;type:varchar(36);index;not null" json:"lab_id"`
	Price       float64  `gorm:"column:price;not null" json:"price"`
	SampleCount *float64 `gorm:"column:sample_count" json:"sample_count,omitempty"`
}

// TableName sets the table name for lab rates.
func (LabRateRecord) TableName() string {
	return "lab_rates"
}

// OrderRecord is the persisted header of one lab-fees order.
type OrderRecord struct {
	ID              string `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ProjectID       string `gorm:"column:project_id;type:varchar(36);index" json:"project_id"`
	ProjectName     string `gorm:"column:project_name;type:varchar(255);index" json:"project_name"`
	HRSEstimationID string `gorm:"column:hrs_estimation_id;type:varchar(36);index" json:"hrs_estimation_id"`

	OrderDetails OrderDetails `gorm:"column:order_details;type:json" json:"order_details"`

	TotalSamples        float64 `gorm:"column:total_samples;not null;default:0" json:"total_samples"`
	TotalLabFeesCost    float64 `gorm:"column:total_lab_fees_cost;not null;default:0" json:"total_lab_fees_cost"`
	TotalStaffLaborCost float64 `gorm:"column:total_staff_labor_cost;not null;default:0" json:"total_staff_labor_cost"`
	TotalCost           float64 `gorm:"column:total_cost;not null;default:0" json:"total_cost"`

	StaffBreakdown StaffCostList `gorm:"column:staff_breakdown;type:json" json:"staff_breakdown"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName sets the table name for lab-fees orders.
func (OrderRecord) TableName() string {
	return "lab_fees_orders"
}

// StaffAssignmentRecord is one staff assignment row of an order.
type StaffAssignmentRecord struct {
	ID             string  `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	OrderID        string  `gorm:"column:order_id;type:varchar(36);index;not null" json:"order_id"`
	Role           string  `gorm:"column:role;type:varchar(255);not null" json:"role"`
	Count          int     `gorm:"column:count;not null;default:0" json:"count"`
	HoursPerPerson float64 `gorm:"column:hours_per_person;not null;default:0" json:"hours_per_person"`
	TotalHours     float64 `gorm:"column:total_hours;not null;default:0" json:"total_hours"`
	HourlyRate     float64 `gorm:"column:hourly_rate;not null;default:0" json:"hourly_rate"`
	TotalCost      float64 `gorm:"column:total_cost;not null;default:0" json:"total_cost"`
}

// TableName sets the table name for staff assignments.
func (StaffAssignmentRecord) TableName() string {
	return "lab_fees_staff_assignments"
}
