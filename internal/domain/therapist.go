package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// Therapist is a care provider available for pairing with at most one
// client at a time.
//
// Invariant: IsPaired == true if and only if ClientID is set, and the
// referenced client's TherapistID points back at this therapist.
type Therapist struct {
	ID              uuid.UUID
	Name            string
	Email           *string
	Phone           *string
	Address         Address
	Availability    string
	Specializations []string
	// Location is the last geocoded position of Address. Nil when the
	// address has never been resolved or changed since the last resolve.
	Location  *geo.Point
	IsPaired  bool
	ClientID  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckPairingInvariant verifies internal consistency of the pairing
// fields, mirroring Client.CheckPairingInvariant.
func (t *Therapist) CheckPairingInvariant() error {
	if t.IsPaired && t.ClientID == nil {
		return NewValidationError("clientId", "isPaired is true but no client is linked")
	}
	if !t.IsPaired && t.ClientID != nil {
		return NewValidationError("isPaired", "client is linked but isPaired is false")
	}
	return nil
}
