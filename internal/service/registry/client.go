package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
)

// CreateClient registers a new client. The address is geocoded eagerly;
// if resolution fails the client is still created and the coordinates
// stay empty until the next lookup retries.
func (s *Service) CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	client := &domain.Client{
		ID:       uuid.New(),
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Priority: priority,
		Status:   domain.ClientStatusActive,
		Location: s.resolveLocation(ctx, input.Address),
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.log.InfoContext(ctx, "client registered",
		slog.String("client_id", client.ID.String()),
		slog.Bool("geocoded", client.Location != nil),
	)

	return client, nil
}

// GetClient returns a client by id.
func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return client, nil
}

// ListClients returns all registered clients.
func (s *Service) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// UpdateClient applies a partial update. When the address changes it is
// re-geocoded; if resolution fails the stale coordinates are cleared
// rather than left pointing at the old address.
func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, params domain.ClientUpdate) (*domain.Client, error) {
	if params.Priority != nil && !params.Priority.IsValid() {
		return nil, domain.NewValidationError("priority", "must be LOW, MEDIUM or HIGH")
	}

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

	if err := s.clients.Update(ctx, id, params); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}

	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	s.log.InfoContext(ctx, "client updated", slog.String("client_id", id.String()))

	return client, nil
}

// DeleteClient removes a client. A paired client is unpaired first so
// its therapist returns to the candidate pool.
func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		client, err := s.clients.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get client: %w", err)
		}

		if client.IsPaired() && client.TherapistID != nil {
			if err := s.clients.ClearPairing(txCtx, id); err != nil {
				return fmt.Errorf("unpair client: %w", err)
			}
			if err := s.therapists.ClearPairing(txCtx, *client.TherapistID); err != nil {
				return fmt.Errorf("release therapist: %w", err)
			}
		}

		if err := s.clients.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "client deleted", slog.String("client_id", id.String()))

	return nil
}
