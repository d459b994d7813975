package domain

import "strings"

// Address is a postal address. It is the durable source of truth for an
// entity's location; coordinates are always derived from it, never
// authoritative on their own.
type Address struct {
	Line1       string
	Line2       string
	City        string
	State       string
	PostalCode  string
	CountryCode string
}

// Validate checks that required fields are present.
func (a Address) Validate() error {
	if strings.TrimSpace(a.Line1) == "" {
		return NewValidationError("address.line1", "must not be empty")
	}
	return nil
}

// NormalizedKey returns a canonical, case-insensitive representation of
// the address, used as the geocode cache key. Two addresses that differ
// only in case or surrounding whitespace normalize to the same key.
func (a Address) NormalizedKey() string {
	parts := []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.CountryCode}

	norm := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.Join(strings.Fields(p), " "))
		if p != "" {
			norm = append(norm, p)
		}
	}

	return strings.Join(norm, "|")
}

// String renders the address as a single display line.
func (a Address) String() string {
	parts := []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.CountryCode}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}

	return strings.Join(out, ", ")
}
