package rates

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// laborRateItem is the API shape for a labor rate.
type laborRateItem struct {
	LaborRole  string  `json:"labor_role"`
	HourlyRate float64 `json:"hourly_rate"`
}

// NewRouter creates a chi router with labor-rate routes.
func NewRouter(store *Store) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r
}

// RegisterRoutes attaches labor-rate routes to an existing router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/labor-rates", listLaborRatesHandler(store))
	r.Put("/labor-rates/{role}", upsertLaborRateHandler(store))
}

// listLaborRatesHandler returns all labor rates for role selection.
func listLaborRatesHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list labor rates: %v", err))
			return
		}
		items := make([]laborRateItem, len(records))
		for i, rec := range records {
			items[i] = laborRateItem{LaborRole: rec.LaborRole, HourlyRate: rec.HourlyRate}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// upsertLaborRateHandler creates or updates the rate for a role.
func upsertLaborRateHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := chi.URLParam(r, "role")

		var req struct {
			HourlyRate float64 `json:"hourly_rate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.HourlyRate <= 0 {
			writeError(w, http.StatusBadRequest, "hourly_rate must be positive")
			return
		}

		record, err := store.Upsert(role, req.HourlyRate)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to upsert labor rate: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, laborRateItem{LaborRole: record.LaborRole, HourlyRate: record.HourlyRate})
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
