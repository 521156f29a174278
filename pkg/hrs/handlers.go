package hrs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with HRS estimation routes.
func NewRouter(engine *Engine) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, engine)
	return r
}

// RegisterRoutes attaches HRS estimation routes to an existing router.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Post("/hrs/estimates", createEstimateHandler(engine))
	r.Get("/hrs/estimates/{id}", getEstimateHandler(engine))
	r.Get("/hrs/components", listComponentsHandler(engine))
	r.Get("/hrs/sampling-defaults", listSamplingDefaultsHandler(engine))
}

// createEstimateHandler computes and persists a sampling-hours estimate.
func createEstimateHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EstimateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.FieldStaffCount < 0 {
			writeError(w, http.StatusBadRequest, "field_staff_count cannot be negative")
			return
		}
		if req.EfficiencyFactor != nil && *req.EfficiencyFactor <= 0 {
			writeError(w, http.StatusBadRequest, "efficiency_factor must be positive")
			return
		}

		detail, err := engine.Estimate(&req)
		if err != nil {
			var unknownRole *UnknownRoleError
			switch {
			case errors.Is(err, ErrNoRoleSelected):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.As(err, &unknownRole):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create estimate: %v", err))
			}
			return
		}
		writeJSON(w, http.StatusCreated, detail)
	}
}

func getEstimateHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := engine.GetEstimation(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get estimate: %v", err))
			return
		}
		if detail == nil {
			writeError(w, http.StatusNotFound, "estimation not found")
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func listComponentsHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := engine.ListComponents(r.URL.Query().Get("category"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list components: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func listSamplingDefaultsHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := engine.ListSamplingDefaults()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list sampling defaults: %v", err))
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
