package labfees

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with lab-fees routes: the order engine plus
// reference-table CRUD.
func NewRouter(engine *Engine, store *Store) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, engine, store)
	return r
}

// RegisterRoutes attaches lab-fees routes to an existing router.
func RegisterRoutes(r chi.Router, engine *Engine, store *Store) {
	r.Post("/lab/orders", createOrderHandler(engine))
	r.Get("/lab/orders", listOrdersHandler(engine))
	r.Get("/lab/orders/{id}", getOrderHandler(engine))

	r.Get("/lab/labs", listLabsHandler(store))
	r.Post("/lab/labs", createLabHandler(store))
	r.Get("/lab/categories", listCategoriesHandler(store))
	r.Post("/lab/categories", createCategoryHandler(store))
	r.Delete("/lab/categories/{id}", deleteCategoryHandler(store))
	r.Get("/lab/tests", listTestsHandler(store))
	r.Post("/lab/tests", createTestHandler(store))
	r.Delete("/lab/tests/{id}", deleteTestHandler(store))
	r.Get("/lab/turn-times", listTurnTimesHandler(store))
	r.Post("/lab/turn-times", createTurnTimeHandler(store))
	r.Get("/lab/rates", listRatesHandler(store))
	r.Post("/lab/rates", createRateHandler(store))
}

// createOrderHandler prices and persists a lab-fees order.
func createOrderHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		detail, err := engine.CreateOrder(&req)
		if err != nil {
			var unknownRole *UnknownRoleError
			if errors.As(err, &unknownRole) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create order: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, detail)
	}
}

func listOrdersHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := engine.ListOrders(
			r.URL.Query().Get("project_name"),
			r.URL.Query().Get("hrs_estimation_id"),
		)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list orders: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func getOrderHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := engine.GetOrder(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get order: %v", err))
			return
		}
		if detail == nil {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func listLabsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListLabs()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list laboratories: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func createLabHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record LaboratoryRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if record.Name == "" {
			writeError(w, http.StatusBadRequest, "laboratory name cannot be empty")
			return
		}
		record.ID = ""
		if err := store.CreateLab(&record); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create laboratory: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func listCategoriesHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListCategories(r.URL.Query().Get("lab_id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list categories: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func createCategoryHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record ServiceCategoryRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		record.ID = ""
		if err := store.CreateCategory(&record); err != nil {
			if strings.Contains(err.Error(), "not found") {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create category: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func deleteCategoryHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteCategory(chi.URLParam(r, "id")); err != nil {
			if strings.Contains(err.Error(), "not found") {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete category: %v", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listTestsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListTests(r.URL.Query().Get("service_category_id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list tests: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func createTestHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record TestRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		record.ID = ""
		if err := store.CreateTest(&record); err != nil {
			if strings.Contains(err.Error(), "not found") {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create test: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func deleteTestHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteTest(chi.URLParam(r, "id")); err != nil {
			if strings.Contains(err.Error(), "not found") {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete test: %v", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listTurnTimesHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListTurnTimes()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list turn times: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func createTurnTimeHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record TurnTimeRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		record.ID = ""
		if err := store.CreateTurnTime(&record); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create turn time: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func listRatesHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListRates(RateFilter{
			LabID:             r.URL.Query().Get("lab_id"),
			TestID:            r.URL.Query().Get("test_id"),
			ServiceCategoryID: r.URL.Query().Get("service_category_id"),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list rates: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func createRateHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record LabRateRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if record.Price < 0 {
			writeError(w, http.StatusBadRequest, "price cannot be negative")
			return
		}
		record.ID = ""
		if err := store.CreateRate(&record); err != nil {
			if strings.Contains(err.Error(), "invalid test") {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create rate: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, record)
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
