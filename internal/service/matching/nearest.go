package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// FindNearestTherapists returns unpaired therapists ranked by distance
// from the client's address, closest first. Ties keep listing order
// (stable sort); Priority is deliberately not a secondary key. A limit
// of zero or less falls back to the configured default; values above
// the configured maximum are clamped.
//
// Candidates whose addresses cannot be geocoded are skipped with a
// warning so one bad record never fails the whole ranking. A client
// address that cannot be geocoded is an error.
func (s *Service) FindNearestTherapists(ctx context.Context, clientID uuid.UUID, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	origin, err := s.clientLocation(ctx, client)
	if err != nil {
		return nil, err
	}

	candidates, err := s.therapists.List(ctx, domain.TherapistFilter{UnpairedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list unpaired therapists: %w", err)
	}

	matches := []Match{}
	for _, th := range candidates {
		loc, err := s.therapistLocation(ctx, th)
		if err != nil {
			s.log.WarnContext(ctx, "skipping therapist with unresolvable address",
				slog.String("therapist_id", th.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		matches = append(matches, Match{
			TherapistID:   th.ID,
			TherapistName: th.Name,
			ClientName:    client.Name,
			DistanceKm:    geo.DistanceKm(origin, loc),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	s.log.InfoContext(ctx, "nearest therapists ranked",
		slog.String("client_id", clientID.String()),
		slog.Int("candidates", len(candidates)),
		slog.Int("returned", len(matches)),
	)

	return matches, nil
}

// clientLocation returns the client's cached coordinates, geocoding and
// persisting them on a miss.
func (s *Service) clientLocation(ctx context.Context, client *domain.Client) (geo.Point, error) {
	if client.Location != nil {
		return *client.Location, nil
	}

	pt, err := s.geocoder.Geocode(ctx, client.Address)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode client address: %w", err)
	}

	// Persisting the resolved point is an optimization; a write failure
	// must not fail the lookup.
	if err := s.clients.Update(ctx, client.ID, domain.ClientUpdate{Location: &pt}); err != nil {
		s.log.WarnContext(ctx, "failed to persist client coordinates",
			slog.String("client_id", client.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return pt, nil
}

// therapistLocation mirrors clientLocation for therapist records.
func (s *Service) therapistLocation(ctx context.Context, th *domain.Therapist) (geo.Point, error) {
	if th.Location != nil {
		return *th.Location, nil
	}

	pt, err := s.geocoder.Geocode(ctx, th.Address)
	if err != nil {
		return geo.Point{}, err
	}

	if err := s.therapists.Update(ctx, th.ID, domain.TherapistUpdate{Location: &pt}); err != nil {
		s.log.WarnContext(ctx, "failed to persist therapist coordinates",
			slog.String("therapist_id", th.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return pt, nil
}
