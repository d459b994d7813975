package rest

import (
	"time"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

type addressPayload struct {
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

func (p addressPayload) toDomain() domain.Address {
	return domain.Address{
		Line1:       p.Line1,
		Line2:       p.Line2,
		City:        p.City,
		State:       p.State,
		PostalCode:  p.PostalCode,
		CountryCode: p.CountryCode,
	}
}

func toAddressPayload(a domain.Address) addressPayload {
	return addressPayload{
		Line1:       a.Line1,
		Line2:       a.Line2,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		CountryCode: a.CountryCode,
	}
}

type pointPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toPointPayload(p *geo.Point) *pointPayload {
	if p == nil {
		return nil
	}
	return &pointPayload{Lat: p.Lat, Lon: p.Lon}
}

type clientResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       *string        `json:"email,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	Address     addressPayload `json:"address"`
	Priority    string         `json:"priority"`
	Status      string         `json:"status"`
	Location    *pointPayload  `json:"location,omitempty"`
	TherapistID *string        `json:"therapistId,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func toClientResponse(c *domain.Client) clientResponse {
	resp := clientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   toAddressPayload(c.Address),
		Priority:  c.Priority.String(),
		Status:    c.Status.String(),
		Location:  toPointPayload(c.Location),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.TherapistID != nil {
		id := c.TherapistID.String()
		resp.TherapistID = &id
	}
	return resp
}

type therapistResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           *string        `json:"email,omitempty"`
	Phone           *string        `json:"phone,omitempty"`
	Address         addressPayload `json:"address"`
	Availability    string         `json:"availability"`
	Specializations []string       `json:"specializations"`
	Location        *pointPayload  `json:"location,omitempty"`
	IsPaired        bool           `json:"isPaired"`
	ClientID        *string        `json:"clientId,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func toTherapistResponse(t *domain.Therapist) therapistResponse {
	resp := therapistResponse{
		ID:              t.ID.String(),
		Name:            t.Name,
		Email:           t.Email,
		Phone:           t.Phone,
		Address:         toAddressPayload(t.Address),
		Availability:    t.Availability,
		Specializations: t.Specializations,
		Location:        toPointPayload(t.Location),
		IsPaired:        t.IsPaired,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if resp.Specializations == nil {
		resp.Specializations = []string{}
	}
	if t.ClientID != nil {
		id := t.ClientID.String()
		resp.ClientID = &id
	}
	return resp
}
