package labfees

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store provides database operations for the laboratory reference tables.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new lab reference Store.
func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// AutoMigrate creates or updates all lab-fees tables.
func (s *Store) AutoMigrate() error {
	for _, model := range []any{
		&LaboratoryRecord{}, &ServiceCategoryRecord{}, &TestRecord{},
		&TurnTimeRecord{}, &LabRateRecord{}, &OrderRecord{}, &StaffAssignmentRecord{},
	} {
		if err := s.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto-migrate lab fees tables: %w", err)
		}
	}
	return nil
}

// ListLabs returns all laboratories.
func (s *Store) ListLabs() ([]LaboratoryRecord, error) {
	var records []LaboratoryRecord
	if err := s.db.Order("name ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list laboratories: %w", err)
	}
	return records, nil
}

// CreateLab inserts a laboratory.
func (s *Store) CreateLab(record *LaboratoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("create laboratory: %w", err)
	}
	return nil
}

// GetLab returns a laboratory by ID, or nil, nil when absent.
func (s *Store) GetLab(id string) (*LaboratoryRecord, error) {
	var record LaboratoryRecord
	err := s.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get laboratory: %w", err)
	}
	return &record, nil
}

// ListCategories returns service categories, optionally for one lab.
func (s *Store) ListCategories(labID string) ([]ServiceCategoryRecord, error) {
	query := s.db.Order("name ASC")
	if labID != "" {
		query = query.Where("lab_id = ?", labID)
	}
	var records []ServiceCategoryRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	return records, nil
}

// CreateCategory inserts a service category after checking its lab exists.
func (s *Store) CreateCategory(record *ServiceCategoryRecord) error {
	lab, err := s.GetLab(record.LabID)
	if err != nil {
		return err
	}
	if lab == nil {
		return fmt.Errorf("laboratory not found: %s", record.LabID)
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("create service category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category with its tests and their rates.
func (s *Store) DeleteCategory(categoryID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category ServiceCategoryRecord
		err := tx.Where("id = ?", categoryID).First(&category).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("service category not found: %s", categoryID)
			}
			return fmt.Errorf("get service category: %w", err)
		}

		var tests []TestRecord
		if err := tx.Where("service_category_id = ?", categoryID).Find(&tests).Error; err != nil {
			return fmt.Errorf("list tests: %w", err)
		}
		for _, test := range tests {
			if err := tx.Where("test_id = ?", test.ID).Delete(&LabRateRecord{}).Error; err != nil {
				return fmt.Errorf("delete rates: %w", err)
			}
		}
		if err := tx.Where("service_category_id = ?", categoryID).Delete(&TestRecord{}).Error; err != nil {
			return fmt.Errorf("delete tests: %w", err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("delete service category: %w", err)
		}
		return nil
	})
}

// ListTests returns tests, optionally for one service category.
func (s *Store) ListTests(categoryID string) ([]TestRecord, error) {
	query := s.db.Order("name ASC")
	if categoryID != "" {
		query = query.Where("service_category_id = ?", categoryID)
	}
	var records []TestRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return records, nil
}

// CreateTest inserts a test after checking its category exists.
func (s *Store) CreateTest(record *TestRecord) error {
	var category ServiceCategoryRecord
	err := s.db.Where("id = ?", record.ServiceCategoryID).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("service category not found: %s", record.ServiceCategoryID)
		}
		return fmt.Errorf("get service category: %w", err)
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("create test: %w", err)
	}
	return nil
}

// DeleteTest removes a test and its rates.
func (s *Store) DeleteTest(testID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var test TestRecord
		err := tx.Where("id = ?", testID).First(&test).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("test not found: %s", testID)
			}
			return fmt.Errorf("get test: %w", err)
		}
		if err := tx.Where("test_id = ?", testID).Delete(&LabRateRecord{}).Error; err != nil {
			return fmt.Errorf("delete rates: %w", err)
		}
		if err := tx.Delete(&test).Error; err != nil {
			return fmt.Errorf("delete test: %w", err)
		}
		return nil
	})
}

// ListTurnTimes returns all turnaround-time options.
func (s *Store) ListTurnTimes() ([]TurnTimeRecord, error) {
	var records []TurnTimeRecord
	if err := s.db.Order("label ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list turn times: %w", err)
	}
	return records, nil
}

// CreateTurnTime inserts a turnaround-time option.
func (s *Store) CreateTurnTime(record *TurnTimeRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("create turn time: %w", err)
	}
	return nil
}

// RateFilter narrows ListRates. Zero values mean no filter.
type RateFilter struct {
	LabID             string
	TestID            string
	ServiceCategoryID string
}

// ListRates returns lab rates matching the filter.
func (s *Store) ListRates(filter RateFilter) ([]LabRateRecord, error) {
	query := s.db.Model(&LabRateRecord{})
	if filter.LabID != "" {
		query = query.Where("lab_id = ?", filter.LabID)
	}
	if filter.TestID != "" {
		query = query.Where("test_id = ?", filter.TestID)
	}
	if filter.ServiceCategoryID != "" {
		query = query.Where(
			"test_id IN (?)",
			s.db.Model(&TestRecord{}).Select("id").Where("service_category_id = ?", filter.ServiceCategoryID),
		)
	}
	var records []LabRateRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list lab rates: %w", err)
	}
	return records, nil
}

// CreateRate inserts a lab rate after checking its test, turnaround time,
// and laboratory all exist.
func (s *Store) CreateRate(record *LabRateRecord) error {
	var test TestRecord
	if err := s.db.Where("id = ?", record.TestID).First(&test).Error; err != nil {
		return fmt.Errorf("invalid test, turnaround time, or laboratory")
	}
	var turnTime TurnTimeRecord
	if err := s.db.Where("id = ?", record.TurnTimeID).First(&turnTime).Error; err != nil {
		return fmt.Errorf("invalid test, turnaround time, or laboratory")
	}
	var lab LaboratoryRecord
	if err := s.db.Where("id = ?", record.LabID).First(&lab).Error; err != nil {
		return fmt.Errorf("invalid test, turnaround time, or laboratory")
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("create lab rate: %w", err)
	}
	return nil
}

// PriceFor returns the price for a (test, turnaround) pair. The second
// return reports whether a rate exists; a missing rate is not an error.
func (s *Store) PriceFor(testID, turnTimeID string) (float64, bool, error) {
	var record LabRateRecord
	err := s.db.Where("test_id = ? AND turn_time_id = ?", testID, turnTimeID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup lab rate: %w", err)
	}
	return record.Price, true, nil
}
