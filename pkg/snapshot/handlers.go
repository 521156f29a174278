package snapshot

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldstone-env/estimator/pkg/project"
)

// snapshotItem is the API shape for an estimate snapshot.
type snapshotItem struct {
	ID               string         `json:"id"`
	ProjectID        string         `json:"project_id"`
	ProjectName      string         `json:"project_name"`
	SnapshotName     string         `json:"snapshot_name,omitempty"`
	IsActive         bool           `json:"is_active"`
	HRSEstimatorData map[string]any `json:"hrs_estimator_data,omitempty"`
	LabFeesData      map[string]any `json:"lab_fees_data,omitempty"`
	LogisticsData    map[string]any `json:"logistics_data,omitempty"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

func toSnapshotItem(rec *SnapshotRecord) snapshotItem {
	return snapshotItem{
		ID:               rec.ID,
		ProjectID:        rec.ProjectID,
		ProjectName:      rec.ProjectName,
		SnapshotName:     rec.SnapshotName,
		IsActive:         rec.IsActive,
		HRSEstimatorData: rec.HRSEstimatorData,
		LabFeesData:      rec.LabFeesData,
		LogisticsData:    rec.LogisticsData,
		CreatedAt:        rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:        rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// NewRouter creates a chi router with snapshot lifecycle routes. Project
// routes address projects by display name, matching how the estimation
// forms reference them.
func NewRouter(store *Store, projects *project.Store) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, store, projects)
	return r
}

// RegisterRoutes attaches snapshot lifecycle routes to an existing router.
func RegisterRoutes(r chi.Router, store *Store, projects *project.Store) {
	r.Get("/projects/{name}/snapshot/latest", getLatestSnapshotHandler(store, projects))
	r.Get("/projects/{name}/snapshots", listSnapshotsHandler(store, projects))
	r.Post("/projects/{name}/snapshots/duplicate", duplicateSnapshotHandler(store, projects))
	r.Post("/projects/{name}/snapshot/save-and-close", saveAndCloseHandler(store))
	r.Delete("/projects/{name}/discard", discardProjectHandler(store, projects))
	r.Get("/snapshots/global", listGlobalSnapshotsHandler(store))
	r.Get("/snapshots/{id}", getSnapshotHandler(store))
	r.Delete("/snapshots/{id}", deleteSnapshotHandler(store))
}

// resolveProject maps a display name to its project record, or writes a 404.
func resolveProject(w http.ResponseWriter, projects *project.Store, name string) *project.ProjectRecord {
	proj, err := projects.GetByName(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to resolve project: %v", err))
		return nil
	}
	if proj == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("project not found: %s", name))
		return nil
	}
	return proj
}

func getLatestSnapshotHandler(store *Store, projects *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proj := resolveProject(w, projects, chi.URLParam(r, "name"))
		if proj == nil {
			return
		}
		active, err := store.GetActive(proj.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get active snapshot: %v", err))
			return
		}
		if active == nil {
			writeError(w, http.StatusNotFound, "no active snapshot")
			return
		}
		writeJSON(w, http.StatusOK, toSnapshotItem(active))
	}
}

func listSnapshotsHandler(store *Store, projects *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proj := resolveProject(w, projects, chi.URLParam(r, "name"))
		if proj == nil {
			return
		}
		records, err := store.ListByProject(proj.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list snapshots: %v", err))
			return
		}
		items := make([]snapshotItem, len(records))
		for i := range records {
			items[i] = toSnapshotItem(&records[i])
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func duplicateSnapshotHandler(store *Store, projects *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proj := resolveProject(w, projects, chi.URLParam(r, "name"))
		if proj == nil {
			return
		}
		var req struct {
			SnapshotName string `json:"snapshot_name"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
				return
			}
		}
		created, err := store.DuplicateActive(proj.ID, req.SnapshotName)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to duplicate snapshot: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, toSnapshotItem(created))
	}
}

func saveAndCloseHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		var req struct {
			SnapshotName string `json:"snapshot_name"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
				return
			}
		}
		closed, err := store.SaveAndClose(name, req.SnapshotName)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to save and close: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, toSnapshotItem(closed))
	}
}

func discardProjectHandler(store *Store, projects *project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proj := resolveProject(w, projects, chi.URLParam(r, "name"))
		if proj == nil {
			return
		}
		if err := store.DiscardByID(proj.ID); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to discard project: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "discarded", "project_id": proj.ID})
	}
}

func listGlobalSnapshotsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListGlobal()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list snapshots: %v", err))
			return
		}
		items := make([]snapshotItem, len(records))
		for i := range records {
			items[i] = toSnapshotItem(&records[i])
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func getSnapshotHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := store.GetByID(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get snapshot: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		writeJSON(w, http.StatusOK, toSnapshotItem(record))
	}
}

func deleteSnapshotHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		record, err := store.GetByID(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get snapshot: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		if err := store.Delete(id); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete snapshot: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "snapshot_id": id})
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
