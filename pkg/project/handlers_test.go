package project

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupHandlerTest(t *testing.T) (*gorm.DB, chi.Router) {
	t.Helper()
	gdb := newTestDB(t)
	store := NewStore(gdb)
	summaries := NewSummaryStore(gdb)
	discard := func(projectID string) error {
		return store.Delete(projectID)
	}
	return gdb, NewRouter(store, summaries, discard)
}

func TestCreateAndGetProjectHandler(t *testing.T) {
	_, r := setupHandlerTest(t)

	body := `{"name": "Kodiak Cannery Assessment", "address": "Kodiak, AK"}`
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created projectItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, StatusActive, created.Status)
	assert.Nil(t, created.GrandTotal)

	req = httptest.NewRequest(http.MethodGet, "/projects/"+created.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got projectItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Kodiak Cannery Assessment", got.Name)
	assert.Equal(t, "Kodiak, AK", got.Address)
}

func TestGetProjectByNameHandler(t *testing.T) {
	_, r := setupHandlerTest(t)

	body := `{"name": "Seward Dock Survey"}`
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/projects/by-name/Seward%20Dock%20Survey", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got projectItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Seward Dock Survey", got.Name)

	req = httptest.NewRequest(http.MethodGet, "/projects/by-name/No%20Such%20Project", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProjectHandler_EmptyName(t *testing.T) {
	_, r := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"name": ""}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjectsHandler_InvalidStatus(t *testing.T) {
	_, r := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/projects?status=bogus", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProjectHandler(t *testing.T) {
	gdb, r := setupHandlerTest(t)
	store := NewStore(gdb)
	rec, err := store.GetOrCreate("Rename Me")
	require.NoError(t, err)

	body := `{"name": "Renamed", "status": "completed"}`
	req := httptest.NewRequest(http.MethodPatch, "/projects/"+rec.ID, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got projectItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestDeleteProjectHandler(t *testing.T) {
	gdb, r := setupHandlerTest(t)
	store := NewStore(gdb)
	rec, err := store.GetOrCreate("Doomed")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/projects/"+rec.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/projects/"+rec.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSummariesHandler(t *testing.T) {
	gdb, r := setupHandlerTest(t)
	store := NewStore(gdb)
	summaries := NewSummaryStore(gdb)

	rec, err := store.GetOrCreate("Two Modules")
	require.NoError(t, err)
	_, err = summaries.UpsertModule(rec.ID, rec.Name, ModuleHRS, floatPtr(362.00), nil)
	require.NoError(t, err)
	_, err = summaries.UpsertModule(rec.ID, rec.Name, ModuleLab, floatPtr(190.00), nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+rec.ID+"/summaries", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var items []summaryItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
	require.Len(t, items, 2)
	assert.Equal(t, ModuleHRS, items[0].ModuleName)
	assert.Equal(t, ModuleLab, items[1].ModuleName)
}
