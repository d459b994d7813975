package domain

import "github.com/meadowmind/carematch-backend/pkg/geo"

// ClientUpdate holds the optional fields of a partial client update.
// Nil fields are left untouched so unrelated data is never clobbered.
type ClientUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *Address
	Priority *Priority

	// Location replaces the cached coordinates; ClearLocation nulls them
	// (used when a changed address has not been re-geocoded yet).
	Location      *geo.Point
	ClearLocation bool
}

// TherapistUpdate holds the optional fields of a partial therapist update.
type TherapistUpdate struct {
	Name            *string
	Email           *string
	Phone           *string
	Address         *Address
	Availability    *string
	Specializations *[]string

	Location      *geo.Point
	ClearLocation bool
}

// TherapistFilter narrows therapist listings.
type TherapistFilter struct {
	// UnpairedOnly restricts results to therapists available for pairing.
	UnpairedOnly bool
	// Specialization keeps only therapists carrying the given tag.
	Specialization *string
}
