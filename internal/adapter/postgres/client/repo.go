// Package client implements the Client repository using PostgreSQL.
// Pairing-state transitions are conditional UPDATEs so that concurrent
// pair attempts resolve to a clean conflict instead of a lost update.
package client

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

// Repo provides client persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new client repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const clientColumns = `id, name, email, phone,
address_line1, address_line2, city, state, postal_code, country_code,
priority, status, latitude, longitude, therapist_id, created_at, updated_at`

// Create inserts a new client row.
func (r *Repo) Create(ctx context.Context, c *domain.Client) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var lat, lon *float64
	if c.Location != nil {
		lat, lon = &c.Location.Lat, &c.Location.Lon
	}

	sql, args, err := psql.Insert("clients").
		Columns("id", "name", "email", "phone",
			"address_line1", "address_line2", "city", "state", "postal_code", "country_code",
			"priority", "status", "latitude", "longitude", "therapist_id").
		Values(c.ID, c.Name, c.Email, c.Phone,
			c.Address.Line1, c.Address.Line2, c.Address.City, c.Address.State, c.Address.PostalCode, c.Address.CountryCode,
			c.Priority, c.Status, lat, lon, c.TherapistID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := querier.QueryRow(ctx, sql, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return postgres.MapError(err, "client", c.ID)
	}

	return nil
}

// GetByID returns a client by primary key.
// Returns domain.ErrNotFound if no row exists.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)

	c, err := scanClient(row)
	if err != nil {
		return nil, postgres.MapError(err, "client", id)
	}

	return c, nil
}

// List returns all clients ordered by creation time.
// Returns an empty slice (not nil) when no clients exist.
func (r *Repo) List(ctx context.Context) ([]*domain.Client, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return clients, nil
}

// Update applies a partial update. Only non-nil params touch columns.
// Returns domain.ErrNotFound if no row exists.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.ClientUpdate) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b := psql.Update("clients").Set("updated_at", sq.Expr("now()")).Where(sq.Eq{"id": id})

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
	if params.Priority != nil {
		b = b.Set("priority", *params.Priority)
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
		return postgres.MapError(err, "client", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetPairing links the client to a therapist. The UPDATE is conditional
// on the client not already being paired; a concurrent winner leaves
// zero rows affected, reported as domain.ErrConflict.
func (r *Repo) SetPairing(ctx context.Context, clientID, therapistID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx,
		`UPDATE clients
		 SET status = $2, therapist_id = $3, updated_at = now()
		 WHERE id = $1 AND status <> $2`,
		clientID, domain.ClientStatusPaired, therapistID)
	if err != nil {
		return postgres.MapError(err, "client", clientID)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, clientID); err != nil {
			return err
		}
		return fmt.Errorf("client %s is already paired: %w", clientID, domain.ErrConflict)
	}

	return nil
}

// ClearPairing resets the client to ACTIVE with no linked therapist.
// Clearing an already-unpaired client is a no-op, not an error.
func (r *Repo) ClearPairing(ctx context.Context, clientID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx,
		`UPDATE clients
		 SET status = $2, therapist_id = NULL, updated_at = now()
		 WHERE id = $1 AND status = $3`,
		clientID, domain.ClientStatusActive, domain.ClientStatusPaired)
	if err != nil {
		return postgres.MapError(err, "client", clientID)
	}

	if tag.RowsAffected() == 0 {
		// Either absent or not paired; only absence is an error.
		if _, err := r.GetByID(ctx, clientID); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the client row.
// Returns domain.ErrNotFound if no row exists.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err, "client", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// scanClient reads one client row in clientColumns order.
func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		c        domain.Client
		lat, lon *float64
	)

	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone,
		&c.Address.Line1, &c.Address.Line2, &c.Address.City, &c.Address.State,
		&c.Address.PostalCode, &c.Address.CountryCode,
		&c.Priority, &c.Status, &lat, &lon, &c.TherapistID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lon != nil {
		c.Location = &geo.Point{Lat: *lat, Lon: *lon}
	}

	return &c, nil
}
