// Package seeder loads demo roster data from a JSON file and registers
// it through the registry service, so seeded records pass the same
// validation and geocoding path as API-created ones.
package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/internal/service/registry"
)

// registryService defines the subset of the registry used for seeding.
type registryService interface {
	CreateClient(ctx context.Context, input registry.CreateClientInput) (*domain.Client, error)
	CreateTherapist(ctx context.Context, input registry.CreateTherapistInput) (*domain.Therapist, error)
}

// AddressRecord mirrors the REST address payload so one JSON shape works
// for both demo files and API requests.
type AddressRecord struct {
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

func (r AddressRecord) toDomain() domain.Address {
	return domain.Address{
		Line1:       r.Line1,
		Line2:       r.Line2,
		City:        r.City,
		State:       r.State,
		PostalCode:  r.PostalCode,
		CountryCode: r.CountryCode,
	}
}

// ClientRecord is one client entry in the demo data file.
type ClientRecord struct {
	Name     string        `json:"name"`
	Email    *string       `json:"email,omitempty"`
	Phone    *string       `json:"phone,omitempty"`
	Address  AddressRecord `json:"address"`
	Priority string        `json:"priority,omitempty"`
}

// TherapistRecord is one therapist entry in the demo data file.
type TherapistRecord struct {
	Name            string        `json:"name"`
	Email           *string       `json:"email,omitempty"`
	Phone           *string       `json:"phone,omitempty"`
	Address         AddressRecord `json:"address"`
	Availability    string        `json:"availability,omitempty"`
	Specializations []string      `json:"specializations,omitempty"`
}

// DemoData is the root of the demo data file.
type DemoData struct {
	Clients    []ClientRecord    `json:"clients"`
	Therapists []TherapistRecord `json:"therapists"`
}

// Parse decodes and sanity-checks a demo data file. Structural problems
// fail the whole file; per-record validation happens later in the
// registry service.
func Parse(r io.Reader) (*DemoData, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var data DemoData
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode demo data: %w", err)
	}

	if len(data.Clients) == 0 && len(data.Therapists) == 0 {
		return nil, fmt.Errorf("demo data contains no records")
	}

	for i, c := range data.Clients {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("clients[%d]: name is required", i)
		}
	}
	for i, t := range data.Therapists {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("therapists[%d]: name is required", i)
		}
	}

	return &data, nil
}

// Result summarizes a seeding run.
type Result struct {
	ClientsCreated    int
	TherapistsCreated int
	Failed            int
}

// Seeder registers demo records through the registry service.
type Seeder struct {
	registry registryService
	log      *slog.Logger
}

// New creates a Seeder.
func New(registry registryService, logger *slog.Logger) *Seeder {
	return &Seeder{registry: registry, log: logger.With("component", "seeder")}
}

// Run registers all records in data. A failed record is logged and
// skipped; the run continues so one bad entry does not abort a demo
// data load.
func (s *Seeder) Run(ctx context.Context, data *DemoData) (Result, error) {
	var res Result

	for i, rec := range data.Therapists {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		therapist, err := s.registry.CreateTherapist(ctx, registry.CreateTherapistInput{
			Name:            rec.Name,
			Email:           rec.Email,
			Phone:           rec.Phone,
			Address:         rec.Address.toDomain(),
			Availability:    rec.Availability,
			Specializations: rec.Specializations,
		})
		if err != nil {
			res.Failed++
			s.log.WarnContext(ctx, "skipping therapist record",
				slog.Int("index", i),
				slog.String("name", rec.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		res.TherapistsCreated++
		s.logCreated(ctx, "therapist", therapist.ID, rec.Name, therapist.Location != nil)
	}

	for i, rec := range data.Clients {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		input := registry.CreateClientInput{
			Name:    rec.Name,
			Email:   rec.Email,
			Phone:   rec.Phone,
			Address: rec.Address.toDomain(),
		}
		if rec.Priority != "" {
			input.Priority = domain.Priority(strings.ToUpper(rec.Priority))
		}

		client, err := s.registry.CreateClient(ctx, input)
		if err != nil {
			res.Failed++
			s.log.WarnContext(ctx, "skipping client record",
				slog.Int("index", i),
				slog.String("name", rec.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		res.ClientsCreated++
		s.logCreated(ctx, "client", client.ID, rec.Name, client.Location != nil)
	}

	s.log.InfoContext(ctx, "seeding completed",
		slog.Int("therapists_created", res.TherapistsCreated),
		slog.Int("clients_created", res.ClientsCreated),
		slog.Int("failed", res.Failed),
	)

	return res, nil
}

func (s *Seeder) logCreated(ctx context.Context, kind string, id uuid.UUID, name string, geocoded bool) {
	s.log.DebugContext(ctx, "record created",
		slog.String("kind", kind),
		slog.String("id", id.String()),
		slog.String("name", name),
		slog.Bool("geocoded", geocoded),
	)
}
