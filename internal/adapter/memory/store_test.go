package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

func testAddress() domain.Address {
	return domain.Address{Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", CountryCode: "US"}
}

func TestClientRepo_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewStore().Clients()

	c := &domain.Client{
		ID:       uuid.New(),
		Name:     "Memory Client",
		Address:  testAddress(),
		Priority: domain.PriorityLow,
		Status:   domain.ClientStatusActive,
		Location: &geo.Point{Lat: 1, Lon: 2},
	}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, c); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("Create(dup) = %v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != c.Name || got.Location == nil {
		t.Fatalf("GetByID returned %+v", got)
	}

	// Returned copies do not alias store state.
	got.Name = "mutated"
	again, _ := repo.GetByID(ctx, c.ID)
	if again.Name != "Memory Client" {
		t.Fatal("store state aliased by returned copy")
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID after delete = %v, want ErrNotFound", err)
	}
}

func TestClientRepo_PairingSemantics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewStore().Clients()

	c := &domain.Client{ID: uuid.New(), Name: "Pairable", Address: testAddress(), Priority: domain.PriorityMedium, Status: domain.ClientStatusActive}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	therapistID := uuid.New()
	if err := repo.SetPairing(ctx, c.ID, therapistID); err != nil {
		t.Fatalf("SetPairing: %v", err)
	}
	if err := repo.SetPairing(ctx, c.ID, uuid.New()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("SetPairing(paired) = %v, want ErrConflict", err)
	}

	if err := repo.ClearPairing(ctx, c.ID); err != nil {
		t.Fatalf("ClearPairing: %v", err)
	}
	// Idempotent.
	if err := repo.ClearPairing(ctx, c.ID); err != nil {
		t.Fatalf("ClearPairing(again): %v", err)
	}

	got, _ := repo.GetByID(ctx, c.ID)
	if got.Status != domain.ClientStatusActive || got.TherapistID != nil {
		t.Fatalf("after unpair: %+v", got)
	}
}

func TestTherapistRepo_ListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore()
	repo := store.Therapists()

	free := &domain.Therapist{ID: uuid.New(), Name: "Free", Address: testAddress(), Specializations: []string{"cbt"}}
	busy := &domain.Therapist{ID: uuid.New(), Name: "Busy", Address: testAddress(), Specializations: []string{"emdr"}}
	for _, th := range []*domain.Therapist{free, busy} {
		if err := repo.Create(ctx, th); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.SetPairing(ctx, busy.ID, uuid.New()); err != nil {
		t.Fatalf("SetPairing: %v", err)
	}

	unpaired, err := repo.List(ctx, domain.TherapistFilter{UnpairedOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(unpaired) != 1 || unpaired[0].ID != free.ID {
		t.Fatalf("unpaired list = %v", unpaired)
	}

	spec := "emdr"
	tagged, err := repo.List(ctx, domain.TherapistFilter{Specialization: &spec})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tagged) != 1 || tagged[0].ID != busy.ID {
		t.Fatalf("tagged list = %v", tagged)
	}
}

func TestTxManager_RunInTx(t *testing.T) {
	t.Parallel()

	tm := NewTxManager()
	sentinel := errors.New("boom")

	err := tm.RunInTx(context.Background(), func(context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunInTx = %v, want sentinel", err)
	}
	if err := tm.RunInTx(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("RunInTx = %v, want nil", err)
	}
}
