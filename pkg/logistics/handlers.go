package logistics

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with logistics estimation routes.
func NewRouter(engine *Engine) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, engine)
	return r
}

// RegisterRoutes attaches logistics estimation routes to an existing router.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Post("/logistics/estimates", createEstimateHandler(engine))
	r.Get("/logistics/estimates", listEstimatesHandler(engine))
	r.Get("/logistics/estimates/{id}", getEstimateHandler(engine))
}

// createEstimateHandler computes and persists a logistics estimate.
func createEstimateHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EstimateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.SiteAccessMode != "" && req.SiteAccessMode != "driving" && req.SiteAccessMode != "flight" {
			writeError(w, http.StatusBadRequest, "site_access_mode must be driving or flight")
			return
		}
		if req.NumStaff < 0 {
			writeError(w, http.StatusBadRequest, "num_staff cannot be negative")
			return
		}
		if req.RateMultiplier != nil && *req.RateMultiplier <= 0 {
			writeError(w, http.StatusBadRequest, "rate_multiplier must be positive")
			return
		}

		record, err := engine.Estimate(&req)
		if err != nil {
			var unknownRole *UnknownRoleError
			switch {
			case errors.Is(err, ErrInvalidRentalPeriod):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.As(err, &unknownRole):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create estimate: %v", err))
			}
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func getEstimateHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := engine.GetEstimation(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get estimate: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, "estimation not found")
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func listEstimatesHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := engine.ListEstimations(r.URL.Query().Get("project"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list estimates: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, records)
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
