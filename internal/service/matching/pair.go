package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
)

// PairTherapistWithClient links an unpaired therapist to an unpaired
// client. Both sides are written inside one transaction; each write is
// conditional on the record still being unpaired, so a concurrent pair
// attempt loses with domain.ErrConflict instead of overwriting state.
func (s *Service) PairTherapistWithClient(ctx context.Context, therapistID, clientID uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Preconditions are checked before any write so a conflict leaves
		// both records untouched even without rollback support.
		th, err := s.therapists.GetByID(txCtx, therapistID)
		if err != nil {
			return fmt.Errorf("get therapist: %w", err)
		}
		if th.IsPaired {
			return fmt.Errorf("therapist %s is already paired: %w", therapistID, domain.ErrConflict)
		}
		client, err := s.clients.GetByID(txCtx, clientID)
		if err != nil {
			return fmt.Errorf("get client: %w", err)
		}
		if client.IsPaired() {
			return fmt.Errorf("client %s is already paired: %w", clientID, domain.ErrConflict)
		}

		if err := s.therapists.SetPairing(txCtx, therapistID, clientID); err != nil {
			return fmt.Errorf("pair therapist: %w", err)
		}
		if err := s.clients.SetPairing(txCtx, clientID, therapistID); err != nil {
			return fmt.Errorf("pair client: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "therapist paired with client",
		slog.String("therapist_id", therapistID.String()),
		slog.String("client_id", clientID.String()),
	)

	return nil
}
