// Package matching implements therapist-client pairing: distance-ranked
// candidate search and the pair/unpair state transitions.
package matching

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/config"
	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

type clientRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	Update(ctx context.Context, id uuid.UUID, params domain.ClientUpdate) error
	SetPairing(ctx context.Context, clientID, therapistID uuid.UUID) error
	ClearPairing(ctx context.Context, clientID uuid.UUID) error
}

type therapistRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Therapist, error)
	List(ctx context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error)
	Update(ctx context.Context, id uuid.UUID, params domain.TherapistUpdate) error
	SetPairing(ctx context.Context, therapistID, clientID uuid.UUID) error
	ClearPairing(ctx context.Context, therapistID uuid.UUID) error
}

type geocoder interface {
	Geocode(ctx context.Context, addr domain.Address) (geo.Point, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Match is one ranked candidate from FindNearestTherapists.
type Match struct {
	TherapistID   uuid.UUID
	TherapistName string
	ClientName    string
	DistanceKm    float64
}

// Service provides matching operations.
type Service struct {
	clients    clientRepo
	therapists therapistRepo
	geocoder   geocoder
	tx         txManager
	cfg        config.MatchingConfig
	log        *slog.Logger
}

// NewService creates a new Matching service.
func NewService(
	log *slog.Logger,
	cfg config.MatchingConfig,
	clients clientRepo,
	therapists therapistRepo,
	geocoder geocoder,
	tx txManager,
) *Service {
	return &Service{
		clients:    clients,
		therapists: therapists,
		geocoder:   geocoder,
		tx:         tx,
		cfg:        cfg,
		log:        log.With("service", "matching"),
	}
}
