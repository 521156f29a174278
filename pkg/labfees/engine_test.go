package labfees

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fieldstone-env/estimator/pkg/project"
	"github.com/fieldstone-env/estimator/pkg/rates"
	"github.com/fieldstone-env/estimator/pkg/snapshot"
)

func newTestEngine(t *testing.T) (*Engine, *Store, *gorm.DB) {
	t.Helper()
	store, gdb := newTestStore(t)

	require.NoError(t, project.NewStore(gdb).AutoMigrate())
	require.NoError(t, snapshot.NewStore(gdb, nil).AutoMigrate())

	rateStore := rates.NewStore(gdb)
	require.NoError(t, rateStore.AutoMigrate())
	require.NoError(t, rateStore.SeedDefaults(map[string]float64{
		"Env Technician": 72.40,
	}))

	return NewEngine(gdb, store, rateStore, nil), store, gdb
}

func TestEngine_CreateOrderPersistsEverything(t *testing.T) {
	engine, store, gdb := newTestEngine(t)
	test, turnTime, _ := seedReference(t, store, 38.00)

	detail, err := engine.CreateOrder(&OrderRequest{
		ProjectName: "Cannery Row",
		OrderDetails: OrderDetails{
			test.ID: {turnTime.ID: 5},
		},
		StaffAssignments: []StaffAssignmentInput{
			{Role: "Env Technician", Count: 1, HoursPerPerson: 5},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, detail.ProjectID)
	assert.Equal(t, 5.0, detail.TotalSamples)
	assert.Equal(t, 190.00, detail.TotalLabFeesCost)
	assert.InDelta(t, 362.00, detail.TotalStaffLaborCost, 0.001)
	assert.InDelta(t, 552.00, detail.TotalCost, 0.001)
	require.Len(t, detail.StaffAssignments, 1)

	active, err := snapshot.NewStore(gdb, nil).GetActive(detail.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Contains(t, active.LabFeesData, "outputs")

	proj, err := project.NewStore(gdb).GetByID(detail.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, proj.LabFeesTotal)
	assert.InDelta(t, detail.TotalCost, *proj.LabFeesTotal, 0.001)

	got, err := engine.GetOrder(detail.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.StaffAssignments, 1)
	assert.Equal(t, detail.OrderDetails, got.OrderDetails)
}

func TestEngine_UnknownRoleRollsBack(t *testing.T) {
	engine, _, gdb := newTestEngine(t)

	_, err := engine.CreateOrder(&OrderRequest{
		ProjectName: "Bad Role",
		StaffAssignments: []StaffAssignmentInput{
			{Role: "Intern", Count: 1, HoursPerPerson: 1},
		},
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, gdb.Model(&OrderRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEngine_ListOrdersFilters(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	test, turnTime, _ := seedReference(t, store, 38.00)

	for i, name := range []string{"Alpha", "Alpha", "Beta"} {
		_, err := engine.CreateOrder(&OrderRequest{
			ProjectName:  name,
			OrderDetails: OrderDetails{test.ID: {turnTime.ID: float64(i + 1)}},
		})
		require.NoError(t, err)
	}

	alpha, err := engine.ListOrders("Alpha", "")
	require.NoError(t, err)
	assert.Len(t, alpha, 2)

	all, err := engine.ListOrders("", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrderHandlers(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	test, turnTime, _ := seedReference(t, store, 38.00)
	r := NewRouter(engine, store)

	body := fmt.Sprintf(`{
		"project_name": "Handler Lab",
		"order_details": {%q: {%q: 5}}
	}`, test.ID, turnTime.ID)
	req := httptest.NewRequest(http.MethodPost, "/lab/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var detail OrderDetail
	require.NoError(t, json.NewDecoder(w.Body).Decode(&detail))
	assert.Equal(t, 190.00, detail.TotalCost)

	req = httptest.NewRequest(http.MethodGet, "/lab/orders/"+detail.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown staff role surfaces as a 400.
	body = `{"staff_assignments": [{"role": "Intern", "count": 1, "hours_per_person": 1}]}`
	req = httptest.NewRequest(http.MethodPost, "/lab/orders", strings.NewReader(body))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReferenceHandlers(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	r := NewRouter(engine, store)

	req := httptest.NewRequest(http.MethodPost, "/lab/labs",
		strings.NewReader(`{"name": "Lab1", "address": "Anchorage, AK"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var lab LaboratoryRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&lab))

	// Category under a missing lab is a 404.
	req = httptest.NewRequest(http.MethodPost, "/lab/categories",
		strings.NewReader(`{"lab_id": "missing", "name": "X"}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/lab/categories",
		strings.NewReader(fmt.Sprintf(`{"lab_id": %q, "name": "PLM"}`, lab.ID)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/lab/categories?lab_id="+lab.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Reference rows travel in snake_case on the wire.
	raw := w.Body.String()
	assert.Contains(t, raw, `"lab_id"`)
	assert.NotContains(t, raw, `"LabID"`)

	var categories []ServiceCategoryRecord
	require.NoError(t, json.NewDecoder(strings.NewReader(raw)).Decode(&categories))
	assert.Len(t, categories, 1)
	assert.Equal(t, lab.ID, categories[0].LabID)
}
