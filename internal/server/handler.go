package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lunarforge/reward-engine/internal/domain"
	"github.com/lunarforge/reward-engine/internal/gacha"
	"github.com/lunarforge/reward-engine/internal/logger"
)

var validate = validator.New()

// DrawRequest is the body of POST /api/v1/gacha/draw.
type DrawRequest struct {
	PlayerID string `json:"player_id" validate:"required,uuid4"`
	PoolKey  string `json:"pool_key" validate:"required,min=1"`
	Count    int    `json:"count" validate:"required,min=1,max=100"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func handleDraw(svc gacha.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		var req DrawRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request. Please check your inputs.")
			return
		}

		result, err := svc.Draw(ctx, req.PlayerID, req.PoolKey, req.Count)
		if err != nil {
			log.Error("Draw failed", "pool", req.PoolKey, "error", err)
			respondError(w, statusForError(err), messageForError(err))
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// statusForError maps engine errors onto HTTP statuses. Admission rejections
// are client-recoverable; persistence failures are not.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDrawCount),
		errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPoolNotFound),
		errors.Is(err, domain.ErrCampaignNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrRewardRejected),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "Inventory is full"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Not enough currency"
	case errors.Is(err, domain.ErrRewardRejected):
		return "Reward could not be granted"
	case errors.Is(err, domain.ErrPoolNotFound),
		errors.Is(err, domain.ErrCampaignNotFound):
		return "Unknown reward pool"
	case errors.Is(err, domain.ErrInvalidDrawCount):
		return "Invalid draw count"
	default:
		return "Something went wrong"
	}
}

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

func handleReadyz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Message: "database unreachable"})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
