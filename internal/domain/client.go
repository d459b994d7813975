package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// Client is a person seeking to be paired with a therapist.
//
// Invariant: Status == PAIRED if and only if TherapistID is set, and the
// referenced therapist's ClientID points back at this client (referential
// symmetry). The matching service is the only writer of the pairing
// fields.
type Client struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	Address   Address
	Priority  Priority
	Status    ClientStatus
	// Location is the last geocoded position of Address. Nil when the
	// address has never been resolved or changed since the last resolve.
	Location    *geo.Point
	TherapistID *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPaired reports whether the client is currently paired.
func (c *Client) IsPaired() bool {
	return c.Status == ClientStatusPaired
}

// CheckPairingInvariant verifies internal consistency of the pairing
// fields. It does not check referential symmetry against the therapist
// record; that requires loading the partner.
func (c *Client) CheckPairingInvariant() error {
	if c.Status == ClientStatusPaired && c.TherapistID == nil {
		return NewValidationError("therapistId", "status is PAIRED but no therapist is linked")
	}
	if c.Status != ClientStatusPaired && c.TherapistID != nil {
		return NewValidationError("status", "therapist is linked but status is not PAIRED")
	}
	return nil
}
