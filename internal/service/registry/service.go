// Package registry manages the client and therapist rosters: CRUD plus
// eager address geocoding so the matching service can rank from cached
// coordinates.
package registry

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

type clientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, id uuid.UUID, params domain.ClientUpdate) error
	ClearPairing(ctx context.Context, clientID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type therapistRepo interface {
	Create(ctx context.Context, t *domain.Therapist) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Therapist, error)
	List(ctx context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error)
	Update(ctx context.Context, id uuid.UUID, params domain.TherapistUpdate) error
	ClearPairing(ctx context.Context, therapistID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type geocoder interface {
	Geocode(ctx context.Context, addr domain.Address) (geo.Point, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides roster management operations.
type Service struct {
	clients    clientRepo
	therapists therapistRepo
	geocoder   geocoder
	tx         txManager
	log        *slog.Logger
}

// NewService creates a new Registry service.
func NewService(
	log *slog.Logger,
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
		log:        log.With("service", "registry"),
	}
}

// resolveLocation geocodes addr, returning nil when resolution fails.
// Registration must not depend on upstream availability; an unresolved
// address just means matching geocodes it later.
func (s *Service) resolveLocation(ctx context.Context, addr domain.Address) *geo.Point {
	pt, err := s.geocoder.Geocode(ctx, addr)
	if err != nil {
		s.log.WarnContext(ctx, "address could not be geocoded at registration",
			slog.String("address", addr.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &pt
}
