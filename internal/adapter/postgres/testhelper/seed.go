package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// testAddress builds a distinct address for each seeded row.
func testAddress(suffix string) domain.Address {
	return domain.Address{
		Line1:       "100 Test St " + suffix,
		City:        "Springfield",
		State:       "IL",
		PostalCode:  "62701",
		CountryCode: "US",
	}
}

// SeedClient creates an ACTIVE, unpaired client with the given location.
// Pass nil for a client without cached coordinates.
func SeedClient(t *testing.T, pool *pgxpool.Pool, loc *geo.Point) domain.Client {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	email := "client-" + suffix + "@example.com"
	client := domain.Client{
		ID:        uuid.New(),
		Name:      "Test Client " + suffix,
		Email:     &email,
		Address:   testAddress(suffix),
		Priority:  domain.PriorityMedium,
		Status:    domain.ClientStatusActive,
		Location:  loc,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var lat, lon *float64
	if loc != nil {
		lat, lon = &loc.Lat, &loc.Lon
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO clients (id, name, email, phone,
		   address_line1, address_line2, city, state, postal_code, country_code,
		   priority, status, latitude, longitude, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		client.ID, client.Name, client.Email, client.Phone,
		client.Address.Line1, client.Address.Line2, client.Address.City, client.Address.State,
		client.Address.PostalCode, client.Address.CountryCode,
		string(client.Priority), string(client.Status), lat, lon, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedClient insert: %v", err)
	}

	return client
}

// SeedTherapist creates an unpaired therapist with the given location.
// Pass nil for a therapist without cached coordinates.
func SeedTherapist(t *testing.T, pool *pgxpool.Pool, loc *geo.Point) domain.Therapist {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	email := "therapist-" + suffix + "@example.com"
	therapist := domain.Therapist{
		ID:              uuid.New(),
		Name:            "Test Therapist " + suffix,
		Email:           &email,
		Address:         testAddress(suffix),
		Availability:    "weekdays",
		Specializations: []string{"anxiety", "cbt"},
		Location:        loc,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var lat, lon *float64
	if loc != nil {
		lat, lon = &loc.Lat, &loc.Lon
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO therapists (id, name, email, phone,
		   address_line1, address_line2, city, state, postal_code, country_code,
		   availability, specializations, latitude, longitude, is_paired, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		therapist.ID, therapist.Name, therapist.Email, therapist.Phone,
		therapist.Address.Line1, therapist.Address.Line2, therapist.Address.City, therapist.Address.State,
		therapist.Address.PostalCode, therapist.Address.CountryCode,
		therapist.Availability, therapist.Specializations, lat, lon, false,
		therapist.CreatedAt, therapist.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTherapist insert: %v", err)
	}

	return therapist
}

// SeedPairedCouple creates a client and therapist already paired to each
// other, for tests exercising conflict and unpair paths.
func SeedPairedCouple(t *testing.T, pool *pgxpool.Pool) (domain.Client, domain.Therapist) {
	t.Helper()
	ctx := context.Background()

	client := SeedClient(t, pool, &geo.Point{Lat: 41.88, Lon: -87.63})
	therapist := SeedTherapist(t, pool, &geo.Point{Lat: 41.89, Lon: -87.62})

	_, err := pool.Exec(ctx,
		`UPDATE therapists SET is_paired = true, client_id = $2 WHERE id = $1`,
		therapist.ID, client.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedPairedCouple pair therapist: %v", err)
	}
	_, err = pool.Exec(ctx,
		`UPDATE clients SET status = $2, therapist_id = $3 WHERE id = $1`,
		client.ID, string(domain.ClientStatusPaired), therapist.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedPairedCouple pair client: %v", err)
	}

	client.Status = domain.ClientStatusPaired
	client.TherapistID = &therapist.ID
	therapist.IsPaired = true
	therapist.ClientID = &client.ID

	return client, therapist
}
