package seed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fieldstone-env/estimator/pkg/config"
	"github.com/fieldstone-env/estimator/pkg/hrs"
	"github.com/fieldstone-env/estimator/pkg/labfees"
	"github.com/fieldstone-env/estimator/pkg/rates"
)

func newTestSeeder(t *testing.T) (*Seeder, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	rateStore := rates.NewStore(gdb)
	require.NoError(t, rateStore.AutoMigrate())
	require.NoError(t, hrs.NewEngine(gdb, rateStore, nil).AutoMigrate())
	labStore := labfees.NewStore(gdb)
	require.NoError(t, labStore.AutoMigrate())

	return NewSeeder(gdb, rateStore, labStore), gdb
}

func smallDataset() *config.ReferenceData {
	return &config.ReferenceData{
		LaborRates:       map[string]float64{"Env Technician": 72.40},
		SamplingDefaults: map[string]float64{"asbestos": 15},
		Components:       map[string][]string{"asbestos": {"Flooring", "Piping"}},
		Laboratories: []config.LaboratoryConfig{{
			Name: "Lab1",
			TurnTimes: []config.TurnTimeConfig{
				{Label: "24 hr", Hours: 24},
				{Label: "48 hr", Hours: 48},
			},
			Categories: []config.CategoryConfig{{
				Name: "PLM - Bulk Building Materials",
				Tests: []config.TestConfig{{
					Name:  "EPA/600/R-93/116 (<1%)",
					Rates: map[string]float64{"24 hr": 9.20, "48 hr": 8.35},
				}},
			}},
		}},
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	seeder, _ := newTestSeeder(t)

	first, err := seeder.Apply(smallDataset())
	require.NoError(t, err)
	assert.Equal(t, 1, first.LaborRates)
	assert.Equal(t, 1, first.SamplingDefaults)
	assert.Equal(t, 2, first.Components)
	assert.Equal(t, 1, first.Laboratories)
	assert.Equal(t, 2, first.TurnTimes)
	assert.Equal(t, 1, first.Categories)
	assert.Equal(t, 1, first.Tests)
	assert.Equal(t, 2, first.LabRates)

	second, err := seeder.Apply(smallDataset())
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, second)
}

func TestApplyNeverOverwritesEditedRows(t *testing.T) {
	seeder, _ := newTestSeeder(t)

	_, err := seeder.rates.Upsert("Env Technician", 99.99)
	require.NoError(t, err)

	_, err = seeder.Apply(smallDataset())
	require.NoError(t, err)

	rec, err := seeder.rates.Lookup("Env Technician")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 99.99, rec.HourlyRate)
}

func TestApplyDefaultDataset(t *testing.T) {
	seeder, gdb := newTestSeeder(t)

	summary, err := seeder.Apply(config.Default())
	require.NoError(t, err)
	assert.Equal(t, 6, summary.LaborRates)
	assert.Equal(t, 4, summary.SamplingDefaults)
	assert.Equal(t, 17, summary.Components)
	assert.Equal(t, 17, summary.TurnTimes)
	assert.Equal(t, 11, summary.Categories)
	assert.Equal(t, 33, summary.Tests)
	assert.Greater(t, summary.LabRates, 150)

	var count int64
	require.NoError(t, gdb.Model(&labfees.LabRateRecord{}).Count(&count).Error)
	assert.Equal(t, int64(summary.LabRates), count)
}

func TestSeedHandler(t *testing.T) {
	seeder, _ := newTestSeeder(t)
	router := NewRouter(seeder, smallDataset())

	req := httptest.NewRequest(http.MethodPost, "/admin/seed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reference data seeded")
}
