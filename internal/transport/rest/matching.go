package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/service/matching"
)

// matchingService defines the minimal interface needed by MatchingHandler.
type matchingService interface {
	FindNearestTherapists(ctx context.Context, clientID uuid.UUID, limit int) ([]matching.Match, error)
	PairTherapistWithClient(ctx context.Context, therapistID, clientID uuid.UUID) error
	UnpairTherapist(ctx context.Context, therapistID uuid.UUID) error
}

// MatchingHandler serves matching and pairing REST endpoints.
type MatchingHandler struct {
	svc matchingService
	log *slog.Logger
}

// NewMatchingHandler creates a MatchingHandler.
func NewMatchingHandler(svc matchingService, logger *slog.Logger) *MatchingHandler {
	return &MatchingHandler{svc: svc, log: logger.With("handler", "matching")}
}

type matchResponse struct {
	TherapistID   string  `json:"therapistId"`
	TherapistName string  `json:"therapistName"`
	ClientName    string  `json:"clientName"`
	DistanceKm    float64 `json:"distanceKm"`
}

type createPairingRequest struct {
	TherapistID string `json:"therapistId"`
	ClientID    string `json:"clientId"`
}

// Nearest handles GET /api/clients/{id}/nearest-therapists?limit=N.
func (h *MatchingHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	matches, err := h.svc.FindNearestTherapists(r.Context(), clientID, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, matchResponse{
			TherapistID:   m.TherapistID.String(),
			TherapistName: m.TherapistName,
			ClientName:    m.ClientName,
			DistanceKm:    m.DistanceKm,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreatePairing handles POST /api/pairings.
func (h *MatchingHandler) CreatePairing(w http.ResponseWriter, r *http.Request) {
	var req createPairingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	therapistID, err := uuid.Parse(req.TherapistID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid therapistId")
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clientId")
		return
	}

	if err := h.svc.PairTherapistWithClient(r.Context(), therapistID, clientID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// DeletePairing handles DELETE /api/pairings/{therapistID}.
func (h *MatchingHandler) DeletePairing(w http.ResponseWriter, r *http.Request) {
	therapistID, ok := pathID(w, r, "therapistID")
	if !ok {
		return
	}

	if err := h.svc.UnpairTherapist(r.Context(), therapistID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
