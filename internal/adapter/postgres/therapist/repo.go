// Package therapist implements the Therapist repository using PostgreSQL.
// The pairing precondition (is_paired = false) is enforced inside the
// UPDATE itself so concurrent pair attempts cannot both succeed.
package therapist

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/meadowmind/carematch-backend/internal/adapter/postgres"
	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

// Repo provides therapist persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new therapist repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const therapistColumns = `id, name, email, phone,
address_line1, address_line2, city, state, postal_code, country_code,
availability, specializations, latitude, longitude, is_paired, client_id, created_at, updated_at`

// Create inserts a new therapist row.
func (r *Repo) Create(ctx context.Context, t *domain.Therapist) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var lat, lon *float64
	if t.Location != nil {
		lat, lon = &t.Location.Lat, &t.Location.Lon
	}

	specs := t.Specializations
	if specs == nil {
		specs = []string{}
	}

	sql, args, err := psql.Insert("therapists").
		Columns("id", "name", "email", "phone",
			"address_line1", "address_line2", "city", "state", "postal_code", "country_code",
			"availability", "specializations", "latitude", "longitude", "is_paired", "client_id").
		Values(t.ID, t.Name, t.Email, t.Phone,
			t.Address.Line1, t.Address.Line2, t.Address.City, t.Address.State, t.Address.PostalCode, t.Address.CountryCode,
			t.Availability, specs, lat, lon, t.IsPaired, t.ClientID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := querier.QueryRow(ctx, sql, args...).Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return postgres.MapError(err, "therapist", t.ID)
	}

	return nil
}

// GetByID returns a therapist by primary key.
// Returns domain.ErrNotFound if no row exists.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Therapist, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx,
		`SELECT `+therapistColumns+` FROM therapists WHERE id = $1`, id)

	t, err := scanTherapist(row)
	if err != nil {
		return nil, postgres.MapError(err, "therapist", id)
	}

	return t, nil
}

// List returns therapists matching the filter, ordered by creation time
// so distance ranking downstream stays stable across calls.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b := psql.Select().
		Column(sq.Expr(therapistColumns)).
		From("therapists").
		OrderBy("created_at", "id")

	if filter.UnpairedOnly {
		b = b.Where(sq.Eq{"is_paired": false})
	}
	if filter.Specialization != nil {
		b = b.Where(sq.Expr("? = ANY(specializations)", *filter.Specialization))
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	defer rows.Close()

	therapists := []*domain.Therapist{}
	for rows.Next() {
		t, err := scanTherapist(rows)
		if err != nil {
			return nil, fmt.Errorf("list therapists: %w", err)
		}
		therapists = append(therapists, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}

	return therapists, nil
}

// Update applies a partial update. Only non-nil params touch columns.
// Returns domain.ErrNotFound if no row exists.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.TherapistUpdate) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b := psql.Update("therapists").Set("updated_at", sq.Expr("now()")).Where(sq.Eq{"id": id})

	if params.Name != nil {
		b = b.Set("name", *params.Name)
	}
	if params.Email != nil {
		b = b.Set("email", *params.Email)
	}
	if params.Phone != nil {
		b = b.Set("phone", *params.Phone)
	}
	if params.Address != nil {
		b = b.Set("address_line1", params.Address.Line1).
			Set("address_line2", params.Address.Line2).
			Set("city", params.Address.City).
			Set("state", params.Address.State).
			Set("postal_code", params.Address.PostalCode).
			Set("country_code", params.Address.CountryCode)
	}
	if params.Availability != nil {
		b = b.Set("availability", *params.Availability)
	}
	if params.Specializations != nil {
		b = b.Set("specializations", *params.Specializations)
	}
	if params.Location != nil {
		b = b.Set("latitude", params.Location.Lat).Set("longitude", params.Location.Lon)
	} else if params.ClearLocation {
		b = b.Set("latitude", nil).Set("longitude", nil)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "therapist", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("therapist %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetPairing links the therapist to a client, conditional on the
// therapist being unpaired. A lost race or an already-paired therapist
// surfaces as domain.ErrConflict.
func (r *Repo) SetPairing(ctx context.Context, therapistID, clientID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx,
		`UPDATE therapists
		 SET is_paired = true, client_id = $2, updated_at = now()
		 WHERE id = $1 AND is_paired = false`,
		therapistID, clientID)
	if err != nil {
		return postgres.MapError(err, "therapist", therapistID)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, therapistID); err != nil {
			return err
		}
		return fmt.Errorf("therapist %s is already paired: %w", therapistID, domain.ErrConflict)
	}

	return nil
}

// ClearPairing resets the therapist to unpaired. Clearing an
// already-unpaired therapist is a no-op, not an error.
func (r *Repo) ClearPairing(ctx context.Context, therapistID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx,
		`UPDATE therapists
		 SET is_paired = false, client_id = NULL, updated_at = now()
		 WHERE id = $1 AND is_paired = true`,
		therapistID)
	if err != nil {
		return postgres.MapError(err, "therapist", therapistID)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, therapistID); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the therapist row.
// Returns domain.ErrNotFound if no row exists.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, `DELETE FROM therapists WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "therapist", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("therapist %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// scanTherapist reads one therapist row in therapistColumns order.
func scanTherapist(row pgx.Row) (*domain.Therapist, error) {
	var (
		t        domain.Therapist
		lat, lon *float64
	)

	err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.Phone,
		&t.Address.Line1, &t.Address.Line2, &t.Address.City, &t.Address.State,
		&t.Address.PostalCode, &t.Address.CountryCode,
		&t.Availability, &t.Specializations, &lat, &lon, &t.IsPaired, &t.ClientID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lon != nil {
		t.Location = &geo.Point{Lat: *lat, Lon: *lon}
	}

	return &t, nil
}
