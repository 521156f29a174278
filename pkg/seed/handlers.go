package seed

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldstone-env/estimator/pkg/config"
)

// NewRouter creates a chi router with the admin seeding route. ref is the
// dataset applied on each request.
func NewRouter(seeder *Seeder, ref *config.ReferenceData) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, seeder, ref)
	return r
}

// RegisterRoutes attaches the admin seeding route to an existing router.
func RegisterRoutes(r chi.Router, seeder *Seeder, ref *config.ReferenceData) {
	r.Post("/admin/seed", seedHandler(seeder, ref))
}

func seedHandler(seeder *Seeder, ref *config.ReferenceData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := seeder.Apply(ref)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to seed reference data: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  "reference data seeded",
			"inserted": summary,
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
