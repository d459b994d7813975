package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// UnpairTherapist releases the therapist and restores its linked client
// to ACTIVE inside one transaction. Unpairing an already-unpaired
// therapist succeeds as a no-op; a missing therapist is ErrNotFound.
func (s *Service) UnpairTherapist(ctx context.Context, therapistID uuid.UUID) error {
	var clientID *uuid.UUID

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		th, err := s.therapists.GetByID(txCtx, therapistID)
		if err != nil {
			return fmt.Errorf("get therapist: %w", err)
		}
		if !th.IsPaired {
			return nil
		}
		clientID = th.ClientID

		// Client side first: its FK still references the therapist row,
		// and clearing it unblocks the therapist update.
		if clientID != nil {
			if err := s.clients.ClearPairing(txCtx, *clientID); err != nil {
				return fmt.Errorf("unpair client: %w", err)
			}
		}
		if err := s.therapists.ClearPairing(txCtx, therapistID); err != nil {
			return fmt.Errorf("unpair therapist: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if clientID == nil {
		return nil
	}

	s.log.InfoContext(ctx, "therapist unpaired",
		slog.String("therapist_id", therapistID.String()),
		slog.String("client_id", clientID.String()),
	)

	return nil
}
