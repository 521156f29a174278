package project

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DiscardFunc removes a project together with all of its snapshots and
// summaries. It is supplied by the snapshot layer so that project deletion
// cascades without this package depending on snapshot storage.
type DiscardFunc func(projectID string) error

// projectItem is the API shape for a project.
type projectItem struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description,omitempty"`
	Address            string      `json:"address,omitempty"`
	Status             string      `json:"status"`
	Tags               []string    `json:"tags,omitempty"`
	HRSEstimatorTotal  *float64    `json:"hrs_estimator_total"`
	LabFeesTotal       *float64    `json:"lab_fees_total"`
	LogisticsTotal     *float64    `json:"logistics_total"`
	GrandTotal         *float64    `json:"grand_total"`
	LatestEstimateDate *string     `json:"latest_estimate_date"`
	LatestSnapshotID   string      `json:"latest_snapshot_id,omitempty"`
	CreatedAt          string      `json:"created_at"`
	UpdatedAt          string      `json:"updated_at"`
}

// summaryItem is the API shape for a per-module estimate summary.
type summaryItem struct {
	ProjectID         string         `json:"project_id"`
	ProjectName       string         `json:"project_name"`
	ModuleName        string         `json:"module_name"`
	EstimateTotal     *float64       `json:"estimate_total"`
	EstimateBreakdown map[string]any `json:"estimate_breakdown,omitempty"`
	UpdatedAt         string         `json:"updated_at"`
}

func toProjectItem(rec *ProjectRecord) projectItem {
	item := projectItem{
		ID:                rec.ID,
		Name:              rec.Name,
		Description:       rec.Description,
		Address:           rec.Address,
		Status:            rec.Status,
		Tags:              rec.Tags,
		HRSEstimatorTotal: rec.HRSEstimatorTotal,
		LabFeesTotal:      rec.LabFeesTotal,
		LogisticsTotal:    rec.LogisticsTotal,
		GrandTotal:        rec.GrandTotal,
		LatestSnapshotID:  rec.LatestSnapshotID,
		CreatedAt:         rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:         rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if rec.LatestEstimateDate != nil {
		s := rec.LatestEstimateDate.UTC().Format("2006-01-02T15:04:05Z")
		item.LatestEstimateDate = &s
	}
	return item
}

func toSummaryItem(rec *ModuleSummaryRecord) summaryItem {
	return summaryItem{
		ProjectID:         rec.ProjectID,
		ProjectName:       rec.ProjectName,
		ModuleName:        rec.ModuleName,
		EstimateTotal:     rec.EstimateTotal,
		EstimateBreakdown: rec.EstimateBreakdown,
		UpdatedAt:         rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// NewRouter creates a chi router with project registry routes. discard is
// invoked for DELETE so that snapshots are removed alongside the project.
func NewRouter(store *Store, summaries *SummaryStore, discard DiscardFunc) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, store, summaries, discard)
	return r
}

// RegisterRoutes attaches project registry routes to an existing router.
func RegisterRoutes(r chi.Router, store *Store, summaries *SummaryStore, discard DiscardFunc) {
	r.Get("/projects", listProjectsHandler(store))
	r.Post("/projects", createProjectHandler(store))
	r.Get("/projects/by-name/{name}", getProjectByNameHandler(store))
	r.Get("/projects/{id}", getProjectHandler(store))
	r.Put("/projects/{id}", updateProjectHandler(store))
	r.Patch("/projects/{id}", updateProjectHandler(store))
	r.Delete("/projects/{id}", deleteProjectHandler(store, discard))
	r.Get("/projects/{id}/summaries", listSummariesHandler(store, summaries))
}

func listProjectsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		switch status {
		case "", StatusActive, StatusArchived, StatusCompleted:
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status filter: %q", status))
			return
		}
		records, err := store.List(status)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list projects: %v", err))
			return
		}
		items := make([]projectItem, len(records))
		for i := range records {
			items[i] = toProjectItem(&records[i])
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createProjectHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Address     string   `json:"address"`
			Tags        []string `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "project name cannot be empty")
			return
		}
		record := &ProjectRecord{
			Name:        req.Name,
			Description: req.Description,
			Address:     req.Address,
			Tags:        req.Tags,
		}
		if err := store.Create(record); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create project: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, toProjectItem(record))
	}
}

func getProjectHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := store.GetByID(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get project: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeJSON(w, http.StatusOK, toProjectItem(record))
	}
}

// getProjectByNameHandler resolves a display name to the most recently
// updated project carrying it. Names are not unique.
func getProjectByNameHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := store.GetByName(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get project: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeJSON(w, http.StatusOK, toProjectItem(record))
	}
}

func updateProjectHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd ProjectUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if upd.Name != nil && *upd.Name == "" {
			writeError(w, http.StatusBadRequest, "project name cannot be empty")
			return
		}
		record, err := store.Update(chi.URLParam(r, "id"), &upd)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to update project: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeJSON(w, http.StatusOK, toProjectItem(record))
	}
}

func deleteProjectHandler(store *Store, discard DiscardFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		record, err := store.GetByID(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get project: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		if err := discard(id); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete project: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "project_id": id})
	}
}

func listSummariesHandler(store *Store, summaries *SummaryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		record, err := store.GetByID(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get project: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		rows, err := summaries.ListByProject(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list summaries: %v", err))
			return
		}
		items := make([]summaryItem, len(rows))
		for i := range rows {
			items[i] = toSummaryItem(&rows[i])
		}
		writeJSON(w, http.StatusOK, items)
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
