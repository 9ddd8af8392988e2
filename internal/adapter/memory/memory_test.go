package memory

import (
	"context"
	"errors"
	"testing"

	"weightlog/internal/domain"
)

func TestEntryRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	// Insert out of order
	if err := db.Insert(ctx, domain.Entry{Day: "2024-01-10", Weight: 79.5}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := db.Insert(ctx, domain.Entry{Day: "2024-01-01", Weight: 80, Calories: domain.Calories(2100)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Duplicate day
	err := db.Insert(ctx, domain.Entry{Day: "2024-01-01", Weight: 81})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// List is ascending
	entries, err := db.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Day != "2024-01-01" || entries[1].Day != "2024-01-10" {
		t.Errorf("unexpected order: %v", entries)
	}

	// Returned entries are copies
	*entries[0].Calories = 1
	got, err := db.Get(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got.Calories != 2100 {
		t.Errorf("store was mutated through a listed entry")
	}

	// Range
	r, _ := domain.NewDateRange("2024-01-01", "2024-01-05")
	inRange, _ := db.ListRange(ctx, r)
	if len(inRange) != 1 || inRange[0].Weight != 80 {
		t.Errorf("unexpected range result: %v", inRange)
	}

	// Delete
	if err := db.Delete(ctx, "2024-01-01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get(ctx, "2024-01-01"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := db.Delete(ctx, "2024-01-01"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUpsertAndReplace(t *testing.T) {
	db := New()
	ctx := context.Background()

	created, _ := db.Upsert(ctx, domain.Entry{Day: "2024-02-01", Weight: 70})
	if !created {
		t.Error("expected created=true")
	}
	created, _ = db.Upsert(ctx, domain.Entry{Day: "2024-02-01", Weight: 71})
	if created {
		t.Error("expected created=false on overwrite")
	}
	_ = db.Insert(ctx, domain.Entry{Day: "2024-02-02", Weight: 72})

	// Missing source day
	err := db.Replace(ctx, "2024-03-01", domain.Entry{Day: "2024-03-01", Weight: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Move onto a taken day
	err = db.Replace(ctx, "2024-02-01", domain.Entry{Day: "2024-02-02", Weight: 1})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	// Move to a free day
	if err := db.Replace(ctx, "2024-02-01", domain.Entry{Day: "2024-02-05", Weight: 69}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	entries, _ := db.List(ctx)
	if len(entries) != 2 || entries[1].Day != "2024-02-05" || entries[1].Weight != 69 {
		t.Errorf("unexpected entries after move: %v", entries)
	}
}

func TestMutateRollsBackOnCommitError(t *testing.T) {
	db := New()
	db.Load([]domain.Entry{{Day: "2024-01-01", Weight: 80}})

	err := db.Mutate(func(tx *Tx) error {
		return tx.Delete("2024-01-01")
	}, func([]domain.Entry) error {
		return errors.New("disk full")
	})
	if err == nil {
		t.Fatal("expected commit error")
	}
	if _, err := db.Get(context.Background(), "2024-01-01"); err != nil {
		t.Errorf("entry should survive a failed commit: %v", err)
	}

	var committed []domain.Entry
	err = db.Mutate(func(tx *Tx) error {
		tx.Upsert(domain.Entry{Day: "2024-01-02", Weight: 79})
		if !tx.Created {
			t.Error("expected Created")
		}
		return nil
	}, func(all []domain.Entry) error {
		committed = all
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if len(committed) != 2 {
		t.Errorf("expected commit to see 2 entries, got %d", len(committed))
	}
}

func TestUpsertAll(t *testing.T) {
	db := New()
	ctx := context.Background()
	_ = db.Insert(ctx, domain.Entry{Day: "2024-01-01", Weight: 80})

	created, err := db.UpsertAll(ctx, []domain.Entry{
		{Day: "2024-01-01", Weight: 81},
		{Day: "2024-01-02", Weight: 80.5},
		{Day: "2024-01-02", Weight: 80.4},
	})
	if err != nil {
		t.Fatalf("UpsertAll: %v", err)
	}
	if created != 1 {
		t.Errorf("expected 1 created, got %d", created)
	}
	entries, _ := db.List(ctx)
	if len(entries) != 2 || entries[0].Weight != 81 || entries[1].Weight != 80.4 {
		t.Errorf("unexpected entries %v", entries)
	}
}
