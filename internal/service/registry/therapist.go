package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
)

// CreateTherapist registers a new therapist, geocoding the address the
// same way CreateClient does.
func (s *Service) CreateTherapist(ctx context.Context, input CreateTherapistInput) (*domain.Therapist, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	specs := input.Specializations
	if specs == nil {
		specs = []string{}
	}

	therapist := &domain.Therapist{
		ID:              uuid.New(),
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		Address:         input.Address,
		Availability:    input.Availability,
		Specializations: specs,
		Location:        s.resolveLocation(ctx, input.Address),
	}

	if err := s.therapists.Create(ctx, therapist); err != nil {
		return nil, fmt.Errorf("create therapist: %w", err)
	}

	s.log.InfoContext(ctx, "therapist registered",
		slog.String("therapist_id", therapist.ID.String()),
		slog.Bool("geocoded", therapist.Location != nil),
	)

	return therapist, nil
}

// GetTherapist returns a therapist by id.
func (s *Service) GetTherapist(ctx context.Context, id uuid.UUID) (*domain.Therapist, error) {
	therapist, err := s.therapists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get therapist: %w", err)
	}
	return therapist, nil
}

// ListTherapists returns therapists matching the filter.
func (s *Service) ListTherapists(ctx context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error) {
	therapists, err := s.therapists.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	return therapists, nil
}

// UpdateTherapist applies a partial update with the same address
// re-geocoding rules as UpdateClient.
func (s *Service) UpdateTherapist(ctx context.Context, id uuid.UUID, params domain.TherapistUpdate) (*domain.Therapist, error) {
	if params.Address != nil {
		if err := params.Address.Validate(); err != nil {
			return nil, err
		}
		if loc := s.resolveLocation(ctx, *params.Address); loc != nil {
			params.Location = loc
		} else {
			params.Location = nil
			params.ClearLocation = true
		}
	}

	if err := s.therapists.Update(ctx, id, params); err != nil {
		return nil, fmt.Errorf("update therapist: %w", err)
	}

	therapist, err := s.therapists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get therapist: %w", err)
	}

	s.log.InfoContext(ctx, "therapist updated", slog.String("therapist_id", id.String()))

	return therapist, nil
}

// DeleteTherapist removes a therapist. A paired therapist is unpaired
// first so its client returns to ACTIVE.
func (s *Service) DeleteTherapist(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		therapist, err := s.therapists.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get therapist: %w", err)
		}

		if therapist.IsPaired && therapist.ClientID != nil {
			if err := s.clients.ClearPairing(txCtx, *therapist.ClientID); err != nil {
				return fmt.Errorf("release client: %w", err)
			}
			if err := s.therapists.ClearPairing(txCtx, id); err != nil {
				return fmt.Errorf("unpair therapist: %w", err)
			}
		}

		if err := s.therapists.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete therapist: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "therapist deleted", slog.String("therapist_id", id.String()))

	return nil
}
