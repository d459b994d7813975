package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/internal/service/matching"
	"github.com/meadowmind/carematch-backend/internal/service/registry"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// registryMock implements clientRegistry and therapistRegistry.
type registryMock struct {
	CreateClientFunc    func(ctx context.Context, input registry.CreateClientInput) (*domain.Client, error)
	GetClientFunc       func(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	ListClientsFunc     func(ctx context.Context) ([]*domain.Client, error)
	UpdateClientFunc    func(ctx context.Context, id uuid.UUID, params domain.ClientUpdate) (*domain.Client, error)
	DeleteClientFunc    func(ctx context.Context, id uuid.UUID) error
	CreateTherapistFunc func(ctx context.Context, input registry.CreateTherapistInput) (*domain.Therapist, error)
	GetTherapistFunc    func(ctx context.Context, id uuid.UUID) (*domain.Therapist, error)
	ListTherapistsFunc  func(ctx context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error)
	UpdateTherapistFunc func(ctx context.Context, id uuid.UUID, params domain.TherapistUpdate) (*domain.Therapist, error)
	DeleteTherapistFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *registryMock) CreateClient(ctx context.Context, input registry.CreateClientInput) (*domain.Client, error) {
	return m.CreateClientFunc(ctx, input)
}

func (m *registryMock) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return m.GetClientFunc(ctx, id)
}

func (m *registryMock) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return m.ListClientsFunc(ctx)
}

func (m *registryMock) UpdateClient(ctx context.Context, id uuid.UUID, params domain.ClientUpdate) (*domain.Client, error) {
	return m.UpdateClientFunc(ctx, id, params)
}

func (m *registryMock) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return m.DeleteClientFunc(ctx, id)
}

func (m *registryMock) CreateTherapist(ctx context.Context, input registry.CreateTherapistInput) (*domain.Therapist, error) {
	return m.CreateTherapistFunc(ctx, input)
}

func (m *registryMock) GetTherapist(ctx context.Context, id uuid.UUID) (*domain.Therapist, error) {
	return m.GetTherapistFunc(ctx, id)
}

func (m *registryMock) ListTherapists(ctx context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error) {
	return m.ListTherapistsFunc(ctx, filter)
}

func (m *registryMock) UpdateTherapist(ctx context.Context, id uuid.UUID, params domain.TherapistUpdate) (*domain.Therapist, error) {
	return m.UpdateTherapistFunc(ctx, id, params)
}

func (m *registryMock) DeleteTherapist(ctx context.Context, id uuid.UUID) error {
	return m.DeleteTherapistFunc(ctx, id)
}

// matchingMock implements matchingService.
type matchingMock struct {
	FindNearestTherapistsFunc   func(ctx context.Context, clientID uuid.UUID, limit int) ([]matching.Match, error)
	PairTherapistWithClientFunc func(ctx context.Context, therapistID, clientID uuid.UUID) error
	UnpairTherapistFunc         func(ctx context.Context, therapistID uuid.UUID) error
}

func (m *matchingMock) FindNearestTherapists(ctx context.Context, clientID uuid.UUID, limit int) ([]matching.Match, error) {
	return m.FindNearestTherapistsFunc(ctx, clientID, limit)
}

func (m *matchingMock) PairTherapistWithClient(ctx context.Context, therapistID, clientID uuid.UUID) error {
	return m.PairTherapistWithClientFunc(ctx, therapistID, clientID)
}

func (m *matchingMock) UnpairTherapist(ctx context.Context, therapistID uuid.UUID) error {
	return m.UnpairTherapistFunc(ctx, therapistID)
}

// geocodeMock implements geocodeService.
type geocodeMock struct {
	GeocodeFunc func(ctx context.Context, addr domain.Address) (geo.Point, error)
}

func (m *geocodeMock) Geocode(ctx context.Context, addr domain.Address) (geo.Point, error) {
	return m.GeocodeFunc(ctx, addr)
}

func testClient(id uuid.UUID) *domain.Client {
	return &domain.Client{
		ID:       id,
		Name:     "Jordan Reyes",
		Address:  domain.Address{Line1: "742 Evergreen Terrace", City: "Springfield"},
		Priority: domain.PriorityMedium,
		Status:   domain.ClientStatusActive,
	}
}

func newTestRouter(reg *registryMock, match *matchingMock, gc *geocodeMock) *http.ServeMux {
	log := slog.Default()
	return NewRouter(RouterDeps{
		Health:    NewHealthHandler(&dbPingerMock{}, "test"),
		Clients:   NewClientHandler(reg, log),
		Therapist: NewTherapistHandler(reg, log),
		Matching:  NewMatchingHandler(match, log),
		Geocode:   NewGeocodeHandler(gc, log),
	})
}

func TestClientCreate_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	reg := &registryMock{
		CreateClientFunc: func(ctx context.Context, input registry.CreateClientInput) (*domain.Client, error) {
			if input.Name != "Jordan Reyes" {
				t.Errorf("input.Name = %q", input.Name)
			}
			if input.Address.Line1 != "742 Evergreen Terrace" {
				t.Errorf("input.Address.Line1 = %q", input.Address.Line1)
			}
			c := testClient(id)
			c.Priority = domain.PriorityHigh
			return c, nil
		},
	}
	mux := newTestRouter(reg, &matchingMock{}, &geocodeMock{})

	body := `{"name":"Jordan Reyes","address":{"line1":"742 Evergreen Terrace","city":"Springfield"},"priority":"HIGH"}`
	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var resp clientResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != id.String() {
		t.Errorf("ID = %q, want %q", resp.ID, id)
	}
	if resp.Priority != "HIGH" {
		t.Errorf("Priority = %q, want HIGH", resp.Priority)
	}
}

func TestClientCreate_InvalidBody(t *testing.T) {
	t.Parallel()

	mux := newTestRouter(&registryMock{}, &matchingMock{}, &geocodeMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("name", "required"), http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"geocoding", domain.NewGeocodingError("x", "no results found", nil), http.StatusUnprocessableEntity},
		{"unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := &registryMock{
				GetClientFunc: func(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
					return nil, tt.err
				},
			}
			mux := newTestRouter(reg, &matchingMock{}, &geocodeMock{})

			req := httptest.NewRequest(http.MethodGet, "/api/clients/"+uuid.NewString(), nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestClientGet_InvalidID(t *testing.T) {
	t.Parallel()

	mux := newTestRouter(&registryMock{}, &matchingMock{}, &geocodeMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/clients/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNearest_PassesLimitAndRendersMatches(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()
	therapistID := uuid.New()
	match := &matchingMock{
		FindNearestTherapistsFunc: func(ctx context.Context, cid uuid.UUID, limit int) ([]matching.Match, error) {
			if cid != clientID {
				t.Errorf("clientID = %s, want %s", cid, clientID)
			}
			if limit != 3 {
				t.Errorf("limit = %d, want 3", limit)
			}
			return []matching.Match{{
				TherapistID:   therapistID,
				TherapistName: "Dr. Casey Morgan",
				ClientName:    "Jordan Reyes",
				DistanceKm:    4.2,
			}}, nil
		},
	}
	mux := newTestRouter(&registryMock{}, match, &geocodeMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/clients/"+clientID.String()+"/nearest-therapists?limit=3", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp []matchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].TherapistID != therapistID.String() {
		t.Fatalf("resp = %+v", resp)
	}
	if resp[0].DistanceKm != 4.2 {
		t.Errorf("DistanceKm = %v, want 4.2", resp[0].DistanceKm)
	}
}

func TestNearest_EmptyResultIsJSONArray(t *testing.T) {
	t.Parallel()

	match := &matchingMock{
		FindNearestTherapistsFunc: func(ctx context.Context, cid uuid.UUID, limit int) ([]matching.Match, error) {
			return []matching.Match{}, nil
		},
	}
	mux := newTestRouter(&registryMock{}, match, &geocodeMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/clients/"+uuid.NewString()+"/nearest-therapists", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("body = %q, want empty JSON array", got)
	}
}

func TestCreatePairing(t *testing.T) {
	t.Parallel()

	therapistID := uuid.New()
	clientID := uuid.New()
	called := false
	match := &matchingMock{
		PairTherapistWithClientFunc: func(ctx context.Context, tid, cid uuid.UUID) error {
			called = true
			if tid != therapistID || cid != clientID {
				t.Errorf("pair(%s, %s), want (%s, %s)", tid, cid, therapistID, clientID)
			}
			return nil
		},
	}
	mux := newTestRouter(&registryMock{}, match, &geocodeMock{})

	body, _ := json.Marshal(createPairingRequest{
		TherapistID: therapistID.String(),
		ClientID:    clientID.String(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/pairings", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if !called {
		t.Fatal("service not called")
	}
}

func TestCreatePairing_Conflict(t *testing.T) {
	t.Parallel()

	match := &matchingMock{
		PairTherapistWithClientFunc: func(ctx context.Context, tid, cid uuid.UUID) error {
			return domain.ErrConflict
		},
	}
	mux := newTestRouter(&registryMock{}, match, &geocodeMock{})

	body, _ := json.Marshal(createPairingRequest{
		TherapistID: uuid.NewString(),
		ClientID:    uuid.NewString(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/pairings", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestDeletePairing(t *testing.T) {
	t.Parallel()

	therapistID := uuid.New()
	match := &matchingMock{
		UnpairTherapistFunc: func(ctx context.Context, tid uuid.UUID) error {
			if tid != therapistID {
				t.Errorf("unpair(%s), want %s", tid, therapistID)
			}
			return nil
		},
	}
	mux := newTestRouter(&registryMock{}, match, &geocodeMock{})

	req := httptest.NewRequest(http.MethodDelete, "/api/pairings/"+therapistID.String(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestGeocode(t *testing.T) {
	t.Parallel()

	gc := &geocodeMock{
		GeocodeFunc: func(ctx context.Context, addr domain.Address) (geo.Point, error) {
			if addr.Line1 != "742 Evergreen Terrace" {
				t.Errorf("addr.Line1 = %q", addr.Line1)
			}
			return geo.Point{Lat: 41.88, Lon: -87.63}, nil
		},
	}
	mux := newTestRouter(&registryMock{}, &matchingMock{}, gc)

	body := `{"address":{"line1":"742 Evergreen Terrace"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/geocode", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp geocodeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Location.Lat != 41.88 || resp.Location.Lon != -87.63 {
		t.Fatalf("location = %+v", resp.Location)
	}
}

func TestGeocode_TerminalFailure422(t *testing.T) {
	t.Parallel()

	gc := &geocodeMock{
		GeocodeFunc: func(ctx context.Context, addr domain.Address) (geo.Point, error) {
			return geo.Point{}, domain.NewGeocodingError(addr.Line1, "no results found", nil)
		},
	}
	mux := newTestRouter(&registryMock{}, &matchingMock{}, gc)

	body := `{"address":{"line1":"404 Nowhere Ln"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/geocode", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestTherapistList_FilterParams(t *testing.T) {
	t.Parallel()

	reg := &registryMock{
		ListTherapistsFunc: func(ctx context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error) {
			if !filter.UnpairedOnly {
				t.Error("UnpairedOnly not set from query")
			}
			if filter.Specialization == nil || *filter.Specialization != "cbt" {
				t.Errorf("Specialization = %v, want cbt", filter.Specialization)
			}
			return []*domain.Therapist{}, nil
		},
	}
	mux := newTestRouter(reg, &matchingMock{}, &geocodeMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/therapists?unpaired=true&specialization=cbt", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
