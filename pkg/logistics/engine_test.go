package logistics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fieldstone-env/estimator/pkg/project"
	"github.com/fieldstone-env/estimator/pkg/rates"
	"github.com/fieldstone-env/estimator/pkg/snapshot"
)

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, project.NewStore(gdb).AutoMigrate())
	require.NoError(t, snapshot.NewStore(gdb, nil).AutoMigrate())

	rateStore := rates.NewStore(gdb)
	require.NoError(t, rateStore.AutoMigrate())
	require.NoError(t, rateStore.SeedDefaults(map[string]float64{
		"Env Technician": 72.40,
		"Env Scientist":  93.17,
	}))

	engine := NewEngine(gdb, rateStore, nil)
	require.NoError(t, engine.AutoMigrate())
	return engine, gdb
}

func drivingEstimateRequest(projectName string) *EstimateRequest {
	return &EstimateRequest{
		ProjectName:    projectName,
		SiteAccessMode: "driving",
		Staff:          []StaffEntry{{Role: "Env Technician", Count: 2}},
		PerDiemRate:    60,
		RoundtripDriving: &DrivingInput{
			ProjectLocation:     "Wasilla",
			OneWayMiles:         30,
			DriveTimeHours:      0.5,
			ProjectDurationDays: 5,
			CostPerMile:         floatPtr(0.67),
		},
		Lodging: &LodgingInput{
			NightCostWithTaxes:  150,
			ProjectDurationDays: 5,
		},
	}
}

func TestEngine_EstimatePersistsEverything(t *testing.T) {
	engine, gdb := newTestEngine(t)

	record, err := engine.Estimate(drivingEstimateRequest("Mat-Su Survey"))
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NotEmpty(t, record.ProjectID)
	assert.Equal(t, 925.00, record.TotalDrivingCost)
	assert.Equal(t, 3025.00, record.TotalLogisticsCost)
	assert.Equal(t, 2, record.TotalStaffCount)
	require.Contains(t, record.DrivingInput, "roundtrip")

	// Snapshot slot and project totals were written in the same commit.
	snapStore := snapshot.NewStore(gdb, nil)
	active, err := snapStore.GetActive(record.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Contains(t, active.LogisticsData, "inputs")
	require.Contains(t, active.LogisticsData, "outputs")

	proj, err := project.NewStore(gdb).GetByID(record.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, proj.LogisticsTotal)
	assert.Equal(t, record.TotalLogisticsCost, *proj.LogisticsTotal)

	// Reload round-trips the JSON breakdown columns.
	got, err := engine.GetEstimation(record.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.StaffBreakdown, 1)
	assert.Equal(t, StaffEntry{Role: "Env Technician", Count: 2}, got.StaffBreakdown[0])
	require.Len(t, got.StaffLaborCosts, 1)
	assert.Equal(t, 724.00, got.StaffLaborCosts[0].Cost)
}

func TestEngine_EstimateWithoutProjectSkipsSnapshot(t *testing.T) {
	engine, gdb := newTestEngine(t)

	record, err := engine.Estimate(drivingEstimateRequest(""))
	require.NoError(t, err)
	assert.Empty(t, record.ProjectID)

	var count int64
	require.NoError(t, gdb.Model(&snapshot.SnapshotRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEngine_UnknownRoleLeavesNoRows(t *testing.T) {
	engine, gdb := newTestEngine(t)

	req := drivingEstimateRequest("Mat-Su Survey")
	req.Staff = []StaffEntry{{Role: "Crane Operator", Count: 1}}
	_, err := engine.Estimate(req)
	var unknownRole *UnknownRoleError
	require.ErrorAs(t, err, &unknownRole)

	var count int64
	require.NoError(t, gdb.Model(&EstimationRecord{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, gdb.Model(&snapshot.SnapshotRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEngine_ListEstimationsFiltersByProject(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Estimate(drivingEstimateRequest("Alpha"))
	require.NoError(t, err)
	_, err = engine.Estimate(drivingEstimateRequest("Alpha"))
	require.NoError(t, err)
	_, err = engine.Estimate(drivingEstimateRequest("Beta"))
	require.NoError(t, err)

	all, err := engine.ListEstimations("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alpha, err := engine.ListEstimations("Alpha")
	require.NoError(t, err)
	assert.Len(t, alpha, 2)
}

func TestHandlers_CreateAndGetEstimate(t *testing.T) {
	engine, _ := newTestEngine(t)
	router := NewRouter(engine)

	body := `{
		"project_name": "Mat-Su Survey",
		"site_access_mode": "driving",
		"staff": [{"role": "Env Technician", "count": 2}],
		"per_diem_rate": 60,
		"roundtrip_driving": {
			"one_way_miles": 30,
			"drive_time_hours": 0.5,
			"project_duration_days": 5,
			"cost_per_mile": 0.67
		},
		"lodging": {"night_cost_with_taxes": 150, "project_duration_days": 5}
	}`
	req := httptest.NewRequest(http.MethodPost, "/logistics/estimates", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created EstimationRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, 3025.00, created.TotalLogisticsCost)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/logistics/estimates/%s", created.ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/logistics/estimates/no-such-id", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_ValidationErrors(t *testing.T) {
	engine, _ := newTestEngine(t)
	router := NewRouter(engine)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/logistics/estimates", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"site_access_mode": "teleport"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(`{"rate_multiplier": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(`{"staff": [{"role": "Crane Operator", "count": 1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid role")

	rec = post(`{
		"site_access_mode": "flight",
		"rental": {"rental_period_type": "fortnightly", "rental_days": 14}
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rental_period_type")
}
