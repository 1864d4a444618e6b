// Package api exposes the estimation and recommendation engines over a
// JSON HTTP surface. Handlers never surface engine failures: the engines
// degrade internally, so malformed request bodies are the only client errors.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ecozero/sustainpack/internal/emission"
	"github.com/ecozero/sustainpack/internal/packaging"
	"github.com/ecozero/sustainpack/internal/store"
)

// Store is the persistence collaborator. It may be absent; handlers skip
// persistence when it is nil or when the request carries no user id.
type Store interface {
	SaveActivity(ctx context.Context, entry store.ActivityLog) error
	ListActivities(ctx context.Context, userID string, limit int) ([]store.ActivityLog, error)
	SaveRecommendation(ctx context.Context, userID, productCategory string, result packaging.Result) (string, error)
	ListRecommendations(ctx context.Context, userID string, limit int) ([]store.RecommendationLog, error)
}

// Handler routes engine requests.
type Handler struct {
	calculator  *emission.Calculator
	recommender *packaging.Recommender
	store       Store
	logger      zerolog.Logger
	health      bool
}

// NewHandler creates a Handler. store may be nil.
func NewHandler(calculator *emission.Calculator, recommender *packaging.Recommender, st Store, logger zerolog.Logger, health bool) *Handler {
	return &Handler{
		calculator:  calculator,
		recommender: recommender,
		store:       st,
		logger:      logger,
		health:      health,
	}
}

// Routes returns the service mux with request-ID logging applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/estimate", h.handleEstimate)
	mux.HandleFunc("POST /v1/recommendations", h.handleRecommendation)
	mux.HandleFunc("GET /v1/activities", h.handleListActivities)
	mux.HandleFunc("GET /v1/recommendations", h.handleListRecommendations)
	if h.health {
		mux.HandleFunc("GET /healthz", h.handleHealth)
	}
	return h.withRequestID(mux)
}

type estimateRequest struct {
	emission.ActivityRecord
	UserID      string                `json:"user_id,omitempty"`
	UserProfile *emission.UserProfile `json:"user_profile,omitempty"`
}

type estimateResponse struct {
	CO2eKg float64 `json:"co2e_kg"`
	Source string  `json:"source"`
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	value, source, _ := h.calculator.Estimate(r.Context(), req.ActivityRecord, req.UserProfile)

	if h.store != nil && req.UserID != "" {
		entry := store.ActivityLog{
			UserID:   req.UserID,
			LoggedAt: time.Now().UTC(),
			Category: req.Category,
			Activity: req.Activity,
			Amount:   req.Amount,
			Unit:     req.Unit,
			CO2eKg:   value,
			Source:   source,
		}
		if err := h.store.SaveActivity(r.Context(), entry); err != nil {
			// Persistence is best effort; the estimate is still returned.
			h.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("failed to persist activity")
		}
	}

	h.writeJSON(w, r, http.StatusOK, estimateResponse{CO2eKg: value, Source: source})
}

type recommendationRequest struct {
	packaging.Request
	UserID string `json:"user_id,omitempty"`
}

type recommendationResponse struct {
	packaging.Result
	Source string `json:"source"`
}

func (h *Handler) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, source := h.recommender.Recommend(r.Context(), req.Request)

	if h.store != nil && req.UserID != "" {
		if _, err := h.store.SaveRecommendation(r.Context(), req.UserID, req.ProductCategory, result); err != nil {
			h.logger.Warn().Err(err).Str("user_id", req.UserID).Msg("failed to persist recommendation")
		}
	}

	h.writeJSON(w, r, http.StatusOK, recommendationResponse{Result: result, Source: source})
}

func (h *Handler) handleListActivities(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}
	if h.store == nil {
		h.writeError(w, r, http.StatusNotFound, "persistence is not configured")
		return
	}

	entries, err := h.store.ListActivities(r.Context(), userID, 50)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list activities")
		h.writeError(w, r, http.StatusInternalServerError, "failed to list activities")
		return
	}
	h.writeJSON(w, r, http.StatusOK, entries)
}

func (h *Handler) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}
	if h.store == nil {
		h.writeError(w, r, http.StatusNotFound, "persistence is not configured")
		return
	}

	entries, err := h.store.ListRecommendations(r.Context(), userID, 20)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list recommendations")
		h.writeError(w, r, http.StatusInternalServerError, "failed to list recommendations")
		return
	}
	h.writeJSON(w, r, http.StatusOK, entries)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to encode response")
	}
}
