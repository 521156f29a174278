// Package seed loads reference data into the rates, HRS, and lab-fees
// tables. Seeding is idempotent: existing rows are left untouched so a
// re-run never overwrites edited prices.
package seed

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldstone-env/estimator/pkg/config"
	"github.com/fieldstone-env/estimator/pkg/hrs"
	"github.com/fieldstone-env/estimator/pkg/labfees"
	"github.com/fieldstone-env/estimator/pkg/rates"
)

// Summary counts the rows inserted by one seeding run.
type Summary struct {
	LaborRates       int `json:"labor_rates"`
	SamplingDefaults int `json:"sampling_defaults"`
	Components       int `json:"components"`
	Laboratories     int `json:"laboratories"`
	TurnTimes        int `json:"turn_times"`
	Categories       int `json:"categories"`
	Tests            int `json:"tests"`
	LabRates         int `json:"lab_rates"`
}

// Seeder applies a reference dataset to the database.
type Seeder struct {
	db    *gorm.DB
	rates *rates.Store
	lab   *labfees.Store
}

// NewSeeder creates a seeder over already-migrated stores.
func NewSeeder(gdb *gorm.DB, rateStore *rates.Store, labStore *labfees.Store) *Seeder {
	return &Seeder{db: gdb, rates: rateStore, lab: labStore}
}

// Apply inserts every reference row that does not already exist and reports
// how many rows were added.
func (s *Seeder) Apply(ref *config.ReferenceData) (*Summary, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	summary := &Summary{}
	if err := s.applyLaborRates(ref, summary); err != nil {
		return nil, err
	}
	if err := s.applySamplingDefaults(ref, summary); err != nil {
		return nil, err
	}
	if err := s.applyComponents(ref, summary); err != nil {
		return nil, err
	}
	for _, lab := range ref.Laboratories {
		if err := s.applyLaboratory(lab, summary); err != nil {
			return nil, err
		}
	}

	slog.Info("reference data seeded",
		"labor_rates", summary.LaborRates,
		"sampling_defaults", summary.SamplingDefaults,
		"components", summary.Components,
		"lab_rates", summary.LabRates)
	return summary, nil
}

func (s *Seeder) applyLaborRates(ref *config.ReferenceData, summary *Summary) error {
	for role, rate := range ref.LaborRates {
		existing, err := s.rates.Lookup(role)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := s.rates.Upsert(role, rate); err != nil {
			return err
		}
		summary.LaborRates++
	}
	return nil
}

func (s *Seeder) applySamplingDefaults(ref *config.ReferenceData, summary *Summary) error {
	for samplingType, minutes := range ref.SamplingDefaults {
		var existing hrs.SamplingDefaultRecord
		err := s.db.Where("sampling_type = ?", samplingType).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("get sampling default: %w", err)
		}
		record := hrs.SamplingDefaultRecord{
			ID:               uuid.New().String(),
			SamplingType:     samplingType,
			MinutesPerSample: minutes,
		}
		if err := s.db.Create(&record).Error; err != nil {
			return fmt.Errorf("create sampling default: %w", err)
		}
		summary.SamplingDefaults++
	}
	return nil
}

func (s *Seeder) applyComponents(ref *config.ReferenceData, summary *Summary) error {
	for category, names := range ref.Components {
		for _, name := range names {
			var existing hrs.ComponentRecord
			err := s.db.Where("category = ? AND component_name = ?", category, name).First(&existing).Error
			if err == nil {
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return fmt.Errorf("get component: %w", err)
			}
			record := hrs.ComponentRecord{
				ID:            uuid.New().String(),
				Category:      category,
				ComponentName: name,
			}
			if err := s.db.Create(&record).Error; err != nil {
				return fmt.Errorf("create component: %w", err)
			}
			summary.Components++
		}
	}
	return nil
}

func (s *Seeder) applyLaboratory(lab config.LaboratoryConfig, summary *Summary) error {
	labRecord, err := s.ensureLab(lab, summary)
	if err != nil {
		return err
	}

	turnTimes, err := s.ensureTurnTimes(lab.TurnTimes, summary)
	if err != nil {
		return err
	}

	for _, cat := range lab.Categories {
		catRecord, err := s.ensureCategory(labRecord.ID, cat, summary)
		if err != nil {
			return err
		}
		for _, test := range cat.Tests {
			testRecord, err := s.ensureTest(catRecord.ID, test.Name, summary)
			if err != nil {
				return err
			}
			for label, price := range test.Rates {
				turnTime, ok := turnTimes[label]
				if !ok {
					return fmt.Errorf("test %q prices unknown turn time %q", test.Name, label)
				}
				_, found, err := s.lab.PriceFor(testRecord.ID, turnTime.ID)
				if err != nil {
					return err
				}
				if found {
					continue
				}
				err = s.lab.CreateRate(&labfees.LabRateRecord{
					TestID:     testRecord.ID,
					TurnTimeID: turnTime.ID,
					LabID:      labRecord.ID,
					Price:      price,
				})
				if err != nil {
					return err
				}
				summary.LabRates++
			}
		}
	}
	return nil
}

func (s *Seeder) ensureLab(lab config.LaboratoryConfig, summary *Summary) (*labfees.LaboratoryRecord, error) {
	existing, err := s.lab.ListLabs()
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Name == lab.Name {
			return &existing[i], nil
		}
	}
	record := labfees.LaboratoryRecord{
		Name:        lab.Name,
		Address:     lab.Address,
		ContactInfo: lab.ContactInfo,
	}
	if err := s.lab.CreateLab(&record); err != nil {
		return nil, err
	}
	summary.Laboratories++
	return &record, nil
}

func (s *Seeder) ensureTurnTimes(configured []config.TurnTimeConfig, summary *Summary) (map[string]labfees.TurnTimeRecord, error) {
	existing, err := s.lab.ListTurnTimes()
	if err != nil {
		return nil, err
	}
	byLabel := map[string]labfees.TurnTimeRecord{}
	for _, tt := range existing {
		byLabel[tt.Label] = tt
	}
	for _, tt := range configured {
		if _, ok := byLabel[tt.Label]; ok {
			continue
		}
		hours := tt.Hours
		record := labfees.TurnTimeRecord{Label: tt.Label, Hours: &hours}
		if err := s.lab.CreateTurnTime(&record); err != nil {
			return nil, err
		}
		byLabel[tt.Label] = record
		summary.TurnTimes++
	}
	return byLabel, nil
}

func (s *Seeder) ensureCategory(labID string, cat config.CategoryConfig, summary *Summary) (*labfees.ServiceCategoryRecord, error) {
	existing, err := s.lab.ListCategories(labID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Name == cat.Name {
			return &existing[i], nil
		}
	}
	record := labfees.ServiceCategoryRecord{
		LabID:       labID,
		Name:        cat.Name,
		Description: cat.Description,
	}
	if err := s.lab.CreateCategory(&record); err != nil {
		return nil, err
	}
	summary.Categories++
	return &record, nil
}

func (s *Seeder) ensureTest(categoryID, name string, summary *Summary) (*labfees.TestRecord, error) {
	existing, err := s.lab.ListTests(categoryID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Name == name {
			return &existing[i], nil
		}
	}
	record := labfees.TestRecord{ServiceCategoryID: categoryID, Name: name}
	if err := s.lab.CreateTest(&record); err != nil {
		return nil, err
	}
	summary.Tests++
	return &record, nil
}
