// Package memory holds in-memory twins of the PostgreSQL repositories.
// They back service unit tests and offline tooling where a database is
// unavailable; semantics mirror the SQL adapters, including the
// conditional pairing writes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
)

// Store owns the shared state of the in-memory repositories.
type Store struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]*domain.Client
	therapists map[uuid.UUID]*domain.Therapist
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		clients:    make(map[uuid.UUID]*domain.Client),
		therapists: make(map[uuid.UUID]*domain.Therapist),
	}
}

// Clients returns the client repository view of the store.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{store: s} }

// Therapists returns the therapist repository view of the store.
func (s *Store) Therapists() *TherapistRepo { return &TherapistRepo{store: s} }

// ClientRepo implements the client repository contract on the store.
type ClientRepo struct {
	store *Store
}

func (r *ClientRepo) Create(_ context.Context, c *domain.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.clients[c.ID]; ok {
		return fmt.Errorf("client %s: %w", c.ID, domain.ErrAlreadyExists)
	}

	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	r.store.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	clients := []*domain.Client{}
	for _, c := range r.store.clients {
		cp := *c
		clients = append(clients, &cp)
	}
	sortByCreated(clients, func(c *domain.Client) (time.Time, uuid.UUID) { return c.CreatedAt, c.ID })
	return clients, nil
}

func (r *ClientRepo) Update(_ context.Context, id uuid.UUID, params domain.ClientUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.clients[id]
	if !ok {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}

	if params.Name != nil {
		c.Name = *params.Name
	}
	if params.Email != nil {
		c.Email = params.Email
	}
	if params.Phone != nil {
		c.Phone = params.Phone
	}
	if params.Address != nil {
		c.Address = *params.Address
	}
	if params.Priority != nil {
		c.Priority = *params.Priority
	}
	if params.Location != nil {
		loc := *params.Location
		c.Location = &loc
	} else if params.ClearLocation {
		c.Location = nil
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ClientRepo) SetPairing(_ context.Context, clientID, therapistID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.clients[clientID]
	if !ok {
		return fmt.Errorf("client %s: %w", clientID, domain.ErrNotFound)
	}
	if c.Status == domain.ClientStatusPaired {
		return fmt.Errorf("client %s is already paired: %w", clientID, domain.ErrConflict)
	}

	tid := therapistID
	c.Status = domain.ClientStatusPaired
	c.TherapistID = &tid
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ClientRepo) ClearPairing(_ context.Context, clientID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.clients[clientID]
	if !ok {
		return fmt.Errorf("client %s: %w", clientID, domain.ErrNotFound)
	}
	if c.Status != domain.ClientStatusPaired {
		return nil
	}

	c.Status = domain.ClientStatusActive
	c.TherapistID = nil
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.clients[id]; !ok {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.clients, id)
	return nil
}

// TherapistRepo implements the therapist repository contract on the store.
type TherapistRepo struct {
	store *Store
}

func (r *TherapistRepo) Create(_ context.Context, t *domain.Therapist) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.therapists[t.ID]; ok {
		return fmt.Errorf("therapist %s: %w", t.ID, domain.ErrAlreadyExists)
	}

	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	cp := *t
	if cp.Specializations == nil {
		cp.Specializations = []string{}
	}
	r.store.therapists[t.ID] = &cp
	return nil
}

func (r *TherapistRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Therapist, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.therapists[id]
	if !ok {
		return nil, fmt.Errorf("therapist %s: %w", id, domain.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (r *TherapistRepo) List(_ context.Context, filter domain.TherapistFilter) ([]*domain.Therapist, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	therapists := []*domain.Therapist{}
	for _, t := range r.store.therapists {
		if filter.UnpairedOnly && t.IsPaired {
			continue
		}
		if filter.Specialization != nil && !hasSpecialization(t, *filter.Specialization) {
			continue
		}
		cp := *t
		therapists = append(therapists, &cp)
	}
	sortByCreated(therapists, func(t *domain.Therapist) (time.Time, uuid.UUID) { return t.CreatedAt, t.ID })
	return therapists, nil
}

func (r *TherapistRepo) Update(_ context.Context, id uuid.UUID, params domain.TherapistUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.therapists[id]
	if !ok {
		return fmt.Errorf("therapist %s: %w", id, domain.ErrNotFound)
	}

	if params.Name != nil {
		t.Name = *params.Name
	}
	if params.Email != nil {
		t.Email = params.Email
	}
	if params.Phone != nil {
		t.Phone = params.Phone
	}
	if params.Address != nil {
		t.Address = *params.Address
	}
	if params.Availability != nil {
		t.Availability = *params.Availability
	}
	if params.Specializations != nil {
		t.Specializations = append([]string(nil), (*params.Specializations)...)
	}
	if params.Location != nil {
		loc := *params.Location
		t.Location = &loc
	} else if params.ClearLocation {
		t.Location = nil
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *TherapistRepo) SetPairing(_ context.Context, therapistID, clientID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.therapists[therapistID]
	if !ok {
		return fmt.Errorf("therapist %s: %w", therapistID, domain.ErrNotFound)
	}
	if t.IsPaired {
		return fmt.Errorf("therapist %s is already paired: %w", therapistID, domain.ErrConflict)
	}

	cid := clientID
	t.IsPaired = true
	t.ClientID = &cid
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *TherapistRepo) ClearPairing(_ context.Context, therapistID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.therapists[therapistID]
	if !ok {
		return fmt.Errorf("therapist %s: %w", therapistID, domain.ErrNotFound)
	}
	if !t.IsPaired {
		return nil
	}

	t.IsPaired = false
	t.ClientID = nil
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *TherapistRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.therapists[id]; !ok {
		return fmt.Errorf("therapist %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.therapists, id)
	return nil
}

func hasSpecialization(t *domain.Therapist, tag string) bool {
	for _, s := range t.Specializations {
		if s == tag {
			return true
		}
	}
	return false
}

func sortByCreated[T any](items []T, key func(T) (time.Time, uuid.UUID)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi.String() < idj.String()
	})
}

// TxManager is the no-op transaction manager paired with Store; the
// store's single mutex already makes each repository call atomic.
type TxManager struct{}

// NewTxManager creates a no-op transaction manager.
func NewTxManager() *TxManager { return &TxManager{} }

// RunInTx invokes fn directly. There is no rollback; callers relying on
// partial-failure rollback must use the PostgreSQL TxManager.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
