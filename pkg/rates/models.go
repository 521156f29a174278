// Package rates provides the labor-rate reference data used by all three
// estimation engines. Rates are read-only at estimate time and mutated only
// through seeding or admin upserts.
package rates

import "time"

// LaborRateRecord maps a labor role to its hourly billing rate.
type LaborRateRecord struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	LaborRole  string    `gorm:"column:labor_role;uniqueIndex;not null"`
	HourlyRate float64   `gorm:"column:hourly_rate;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the GORM table name.
func (LaborRateRecord) TableName() string { return "labor_rates" }
