// Package router exposes the thin internal manual-trigger HTTP surface
// (spec.md §6): a POST to re-check one product, and a POST to run a
// scheduler sweep now. It deliberately carries no authentication of its
// own — that is the out-of-scope surrounding API's job — following the
// teacher's internal/router layout but mounted under /internal instead
// of /v1 and with no user/session middleware.
package router

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/shelfwatch/observer/scheduler"
)

// router.go: route registration, request validation, and the JSON
// response helpers at the end of this file.

// Checker is the subset of *scheduler.Coordinator this surface calls.
type Checker interface {
	Check(ctx context.Context, productID int64, url string) (scheduler.CheckResult, error)
}

// ProductLookup resolves a product id to its tracked URL, so the
// manual-trigger endpoint doesn't need the caller to supply one.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id int64) (string, error)
}

// SweepRunner is the subset of *scheduler.Scheduler this surface calls.
type SweepRunner interface {
	RunNow(ctx context.Context) (scheduler.SweepResult, error)
}

// Config holds the collaborators the internal router mounts handlers
// against.
type Config struct {
	Coordinator Checker
	Products    ProductLookup
	Scheduler   SweepRunner
}

var validate = validator.New()

type checkProductRequest struct {
	ProductID int64 `validate:"required,gt=0"`
}

// SetupRouter builds the chi.Mux serving the internal manual-trigger
// surface, with CORS mounted the way the teacher's global router does
// it but scoped to localhost origins only (this is not the product's
// public surface).
func (cfg *Config) SetupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*"},
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	internal := chi.NewRouter()
	internal.Post("/checks/{productID}", cfg.handleRunCheck)
	internal.Post("/scheduler/run", cfg.handleRunSchedulerNow)
	r.Mount("/internal", internal)

	return r
}

// handleRunCheck implements runCheck(productId) (spec.md §6): invokes
// the Check Coordinator once for the path-param product id.
func (cfg *Config) handleRunCheck(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "productID must be a positive integer")
		return
	}
	if err := validate.Struct(checkProductRequest{ProductID: id}); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	url, err := cfg.Products.GetProductByID(r.Context(), id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	result, err := cfg.Coordinator.Check(r.Context(), id, url)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"productId":    id,
		"status":       result.CheckRun.Status,
		"variantCount": result.VariantCount,
		"finishedAt":   time.Now().UTC(),
	})
}

// handleRunSchedulerNow implements runSchedulerNow() (spec.md §6):
// triggers a sweep, reporting a conflict if one is already in flight
// rather than queuing a second.
func (cfg *Config) handleRunSchedulerNow(w http.ResponseWriter, r *http.Request) {
	result, err := cfg.Scheduler.RunNow(r.Context())
	if err == scheduler.ErrSweepInProgress {
		respondWithError(w, http.StatusConflict, "a sweep is already in progress")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"runId":           result.RunID,
		"productsChecked": result.ProductsChecked,
		"itemsChecked":    result.ItemsChecked,
		"success":         result.Success,
		"errors":          result.Errors,
	})
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("router: error marshaling JSON response: %s", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Printf("router: failed to write response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, msg string) {
	respondWithJSON(w, status, map[string]string{"error": msg})
}
