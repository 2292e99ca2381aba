package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	domain "vehicleloan/internal/domain/loan"
)

func newStore(t *testing.T, key string) (*SlotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSlotStore(rdb, key), mr
}

func TestLoad_MissingKey(t *testing.T) {
	store, _ := newStore(t, "vehicleloan_applications")
	if _, err := store.Load(context.Background()); !errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("want ErrSlotEmpty, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	store, mr := newStore(t, "vehicleloan_applications")
	ctx := context.Background()

	if err := store.Save(ctx, []byte(`[{"id":"APP-1"}]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `[{"id":"APP-1"}]` {
		t.Fatalf("Load = %s", got)
	}
	if ttl := mr.TTL("vehicleloan_applications"); ttl != 0 {
		t.Fatalf("slot should not expire, ttl=%v", ttl)
	}
}

func TestLoad_ServerDown(t *testing.T) {
	store, mr := newStore(t, "k")
	mr.Close()
	_, err := store.Load(context.Background())
	if err == nil || errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("want connection error, got %v", err)
	}
}
