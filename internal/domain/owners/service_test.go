package owners_test

import (
	"context"
	"errors"
	"testing"

	mem "pet-school-registry/internal/adapters/storage/memory"
	"pet-school-registry/internal/domain/owners"
)

func TestGetOrCreate_Idempotent(t *testing.T) {
	svc := owners.NewService(mem.NewOwnerRepo())
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "Owner123")
	if err != nil {
		t.Fatalf("get-or-create: %v", err)
	}
	if first.OwnerID != "Owner123" || first.Pets == nil {
		t.Fatalf("unexpected owner: %+v", first)
	}

	second, err := svc.GetOrCreate(ctx, "Owner123")
	if err != nil {
		t.Fatalf("get-or-create again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second call created a new document: %d vs %d", second.ID, first.ID)
	}
}

func TestGetOrCreate_RejectsEmptyIdentity(t *testing.T) {
	svc := owners.NewService(mem.NewOwnerRepo())

	for _, id := range []string{"", "   ", "\t"} {
		if _, err := svc.GetOrCreate(context.Background(), id); !errors.Is(err, owners.ErrInvalidInput) {
			t.Errorf("GetOrCreate(%q): expected ErrInvalidInput, got %v", id, err)
		}
	}
}

func TestGetByIdentity_NotFound(t *testing.T) {
	svc := owners.NewService(mem.NewOwnerRepo())

	if _, err := svc.GetByIdentity(context.Background(), "OwnerGhost"); !errors.Is(err, owners.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	svc := owners.NewService(mem.NewOwnerRepo())
	ctx := context.Background()

	for _, id := range []string{"OwnerA", "OwnerB", "OwnerC"} {
		if _, err := svc.GetOrCreate(ctx, id); err != nil {
			t.Fatalf("provision %s: %v", id, err)
		}
	}

	got, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 owners, got %d", len(got))
	}
}
