package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// geocodeService defines the minimal interface needed by GeocodeHandler.
type geocodeService interface {
	Geocode(ctx context.Context, addr domain.Address) (geo.Point, error)
}

// GeocodeHandler exposes ad-hoc address resolution for map display.
type GeocodeHandler struct {
	svc geocodeService
	log *slog.Logger
}

// NewGeocodeHandler creates a GeocodeHandler.
func NewGeocodeHandler(svc geocodeService, logger *slog.Logger) *GeocodeHandler {
	return &GeocodeHandler{svc: svc, log: logger.With("handler", "geocode")}
}

type geocodeRequest struct {
	Address addressPayload `json:"address"`
}

type geocodeResponse struct {
	Location pointPayload `json:"location"`
}

// Geocode handles POST /api/geocode.
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pt, err := h.svc.Geocode(r.Context(), req.Address.toDomain())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, geocodeResponse{Location: pointPayload{Lat: pt.Lat, Lon: pt.Lon}})
}
