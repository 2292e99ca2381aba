package gormstore

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	domain "vehicleloan/internal/domain/loan"
	"vehicleloan/internal/infrastructure/db"
)

// openTestDB creates an in-memory sqlite DB with the slot table migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGormWithDialector(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := NewSlotStore(gdb, "unused").Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestLoad_EmptySlot(t *testing.T) {
	store := NewSlotStore(openTestDB(t), "vehicleloan_applications")
	if _, err := store.Load(context.Background()); !errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("Load on empty: want ErrSlotEmpty, got %v", err)
	}
}

func TestSave_InsertThenOverwrite(t *testing.T) {
	gdb := openTestDB(t)
	store := NewSlotStore(gdb, "vehicleloan_applications")
	ctx := context.Background()

	if err := store.Save(ctx, []byte(`[{"id":"APP-1"}]`)); err != nil {
		t.Fatalf("Save #1: %v", err)
	}
	if err := store.Save(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("Save #2: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("Load = %s, want []", got)
	}

	var n int64
	if err := gdb.Model(&slotRow{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestSlots_AreIsolatedByKey(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	a := NewSlotStore(gdb, "a")
	b := NewSlotStore(gdb, "b")

	if err := a.Save(ctx, []byte(`["a"]`)); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	if _, err := b.Load(ctx); !errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("slot b should be empty, got %v", err)
	}
}

func TestLoad_QueryError(t *testing.T) {
	gdb, err := db.OpenGormWithDialector(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// table never migrated
	_, err = NewSlotStore(gdb, "k").Load(context.Background())
	if err == nil || errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("want a real query error, got %v", err)
	}
}
