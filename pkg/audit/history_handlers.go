package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// eventItem is the API shape for an estimate event.
type eventItem struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"project_id"`
	SnapshotID string         `json:"snapshot_id,omitempty"`
	EventType  string         `json:"event_type"`
	Module     string         `json:"module,omitempty"`
	Outcome    string         `json:"outcome"`
	Detail     map[string]any `json:"detail,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

// NewRouter creates a chi router with project history routes.
func NewRouter(store *EventStore) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r
}

// RegisterRoutes attaches project history routes to an existing router.
func RegisterRoutes(r chi.Router, store *EventStore) {
	r.Get("/projects/{id}/history", listHistoryHandler(store))
}

// listHistoryHandler returns the estimate event log for a project.
func listHistoryHandler(store *EventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageSize := 0
		if raw := r.URL.Query().Get("page_size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid page_size: %q", raw))
				return
			}
			pageSize = n
		}

		records, nextToken, err := store.ListByProject(chi.URLParam(r, "id"), pageSize, r.URL.Query().Get("page_token"))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to list history: %v", err))
			return
		}

		items := make([]eventItem, len(records))
		for i, rec := range records {
			items[i] = eventItem{
				ID:         rec.ID,
				ProjectID:  rec.ProjectID,
				SnapshotID: rec.SnapshotID,
				EventType:  rec.EventType,
				Module:     rec.Module,
				Outcome:    rec.Outcome,
				Detail:     rec.Detail,
				CreatedAt:  rec.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"events":          items,
			"next_page_token": nextToken,
		})
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
