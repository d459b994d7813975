package rest

import "net/http"

// RouterDeps bundles the handlers mounted by NewRouter.
type RouterDeps struct {
	Health    *HealthHandler
	Clients   *ClientHandler
	Therapist *TherapistHandler
	Matching  *MatchingHandler
	Geocode   *GeocodeHandler
}

// NewRouter mounts all REST routes on a ServeMux.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /live", deps.Health.Live)

	mux.HandleFunc("POST /api/clients", deps.Clients.Create)
	mux.HandleFunc("GET /api/clients", deps.Clients.List)
	mux.HandleFunc("GET /api/clients/{id}", deps.Clients.Get)
	mux.HandleFunc("PATCH /api/clients/{id}", deps.Clients.Update)
	mux.HandleFunc("DELETE /api/clients/{id}", deps.Clients.Delete)
	mux.HandleFunc("GET /api/clients/{id}/nearest-therapists", deps.Matching.Nearest)

	mux.HandleFunc("POST /api/therapists", deps.Therapist.Create)
	mux.HandleFunc("GET /api/therapists", deps.Therapist.List)
	mux.HandleFunc("GET /api/therapists/{id}", deps.Therapist.Get)
	mux.HandleFunc("PATCH /api/therapists/{id}", deps.Therapist.Update)
	mux.HandleFunc("DELETE /api/therapists/{id}", deps.Therapist.Delete)

	mux.HandleFunc("POST /api/pairings", deps.Matching.CreatePairing)
	mux.HandleFunc("DELETE /api/pairings/{therapistID}", deps.Matching.DeletePairing)

	mux.HandleFunc("POST /api/geocode", deps.Geocode.Geocode)

	return mux
}
