package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/internal/service/registry"
)

// therapistRegistry defines the minimal interface needed by TherapistHandler.
type therapistRegistry interface {
	CreateTherapist(ctx context.Context, input registry.CreateTherapistInput) (*domain.Therapist, error)
	GetTherapist(ctx context.Context, id uuid.UUID) (*domain.Therapist, error)
	ListTherapists(ctx context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error)
	UpdateTherapist(ctx context.Context, id uuid.UUID, params domain.TherapistUpdate) (*domain.Therapist, error)
	DeleteTherapist(ctx context.Context, id uuid.UUID) error
}

// TherapistHandler serves therapist roster REST endpoints.
type TherapistHandler struct {
	svc therapistRegistry
	log *slog.Logger
}

// NewTherapistHandler creates a TherapistHandler.
func NewTherapistHandler(svc therapistRegistry, logger *slog.Logger) *TherapistHandler {
	return &TherapistHandler{svc: svc, log: logger.With("handler", "therapist")}
}

type createTherapistRequest struct {
	Name            string         `json:"name"`
	Email           *string        `json:"email"`
	Phone           *string        `json:"phone"`
	Address         addressPayload `json:"address"`
	Availability    string         `json:"availability"`
	Specializations []string       `json:"specializations"`
}

type updateTherapistRequest struct {
	Name            *string         `json:"name"`
	Email           *string         `json:"email"`
	Phone           *string         `json:"phone"`
	Address         *addressPayload `json:"address"`
	Availability    *string         `json:"availability"`
	Specializations *[]string       `json:"specializations"`
}

// Create handles POST /api/therapists.
func (h *TherapistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTherapistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	therapist, err := h.svc.CreateTherapist(r.Context(), registry.CreateTherapistInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address.toDomain(),
		Availability:    req.Availability,
		Specializations: req.Specializations,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTherapistResponse(therapist))
}

// Get handles GET /api/therapists/{id}.
func (h *TherapistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	therapist, err := h.svc.GetTherapist(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTherapistResponse(therapist))
}

// List handles GET /api/therapists?unpaired=true&specialization=cbt.
func (h *TherapistHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.TherapistFilter{
		UnpairedOnly: r.URL.Query().Get("unpaired") == "true",
	}
	if spec := r.URL.Query().Get("specialization"); spec != "" {
		filter.Specialization = &spec
	}

	therapists, err := h.svc.ListTherapists(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]therapistResponse, 0, len(therapists))
	for _, t := range therapists {
		resp = append(resp, toTherapistResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PATCH /api/therapists/{id}.
func (h *TherapistHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateTherapistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := domain.TherapistUpdate{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Availability:    req.Availability,
		Specializations: req.Specializations,
	}
	if req.Address != nil {
		addr := req.Address.toDomain()
		params.Address = &addr
	}

	therapist, err := h.svc.UpdateTherapist(r.Context(), id, params)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTherapistResponse(therapist))
}

// Delete handles DELETE /api/therapists/{id}.
func (h *TherapistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteTherapist(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
