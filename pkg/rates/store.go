package rates

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultCacheSize bounds the lookup cache; the firm's role list is small.
const defaultCacheSize = 64

// defaultCacheTTL is how long a lookup result stays cached.
const defaultCacheTTL = 5 * time.Minute

// Store provides database operations for labor rates, with an in-process
// lookup cache in front of single-role reads.
type Store struct {
	db    *gorm.DB
	cache *rateCache
}

// NewStore creates a new labor-rate Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		cache: newRateCache(defaultCacheSize, defaultCacheTTL),
	}
}

// AutoMigrate creates or updates the labor_rates table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&LaborRateRecord{}); err != nil {
		return fmt.Errorf("auto-migrate labor_rates: %w", err)
	}
	return nil
}

// List returns all labor rates ordered by role name.
func (s *Store) List() ([]LaborRateRecord, error) {
	var records []LaborRateRecord
	if err := s.db.Order("labor_role ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list labor rates: %w", err)
	}
	return records, nil
}

// Lookup returns the hourly rate for a role. Returns nil, nil if the role
// has no rate entry. Results, including misses, are cached briefly.
func (s *Store) Lookup(role string) (*LaborRateRecord, error) {
	if role == "" {
		return nil, nil
	}

	if e, ok := s.cache.get(role); ok {
		if !e.found {
			return nil, nil
		}
		return &LaborRateRecord{LaborRole: role, HourlyRate: e.rate}, nil
	}

	var record LaborRateRecord
	err := s.db.Where("labor_role = ?", role).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			s.cache.set(role, 0, false)
			return nil, nil
		}
		return nil, fmt.Errorf("lookup labor rate: %w", err)
	}

	s.cache.set(role, record.HourlyRate, true)
	return &record, nil
}

// Upsert creates or updates a rate keyed by labor_role and invalidates the
// lookup cache.
func (s *Store) Upsert(role string, hourlyRate float64) (*LaborRateRecord, error) {
	record := &LaborRateRecord{
		ID:         uuid.New().String(),
		LaborRole:  role,
		HourlyRate: hourlyRate,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "labor_role"}},
		DoUpdates: clause.AssignmentColumns([]string{"hourly_rate", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return nil, fmt.Errorf("upsert labor rate: %w", err)
	}
	s.cache.invalidateAll()
	return record, nil
}

// SeedDefaults inserts the given role/rate pairs, skipping roles that
// already have an entry. Existing rates are never overwritten by seeding.
func (s *Store) SeedDefaults(pairs map[string]float64) error {
	for role, rate := range pairs {
		var existing LaborRateRecord
		err := s.db.Where("labor_role = ?", role).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check labor rate %q: %w", role, err)
		}
		if err := s.db.Create(&LaborRateRecord{
			ID:         uuid.New().String(),
			LaborRole:  role,
			HourlyRate: rate,
		}).Error; err != nil {
			return fmt.Errorf("seed labor rate %q: %w", role, err)
		}
	}
	s.cache.invalidateAll()
	return nil
}
