// Package registry holds the ordered, persisted collection of committed
// applications. Newest entries sit at the head.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"vehicleloan/internal/domain/loan"
	"vehicleloan/internal/infrastructure/metrics"
)

type Registry struct {
	store loan.SlotStore
	log   *zap.Logger

	mu   sync.RWMutex
	apps []loan.Application // replaced wholesale on every mutation
}

// Open loads the collection from store. A missing or undecodable slot
// yields an empty registry. When the store itself cannot be read the
// registry is still returned empty, together with the load error, so a
// caller about to write through it can refuse to overwrite data it never
// saw.
func Open(ctx context.Context, store loan.SlotStore, log *zap.Logger) (*Registry, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{store: store, log: log.Named("registry")}
	defer func() { metrics.RegistryApplications.Set(float64(len(r.apps))) }()

	raw, err := store.Load(ctx)
	switch {
	case errors.Is(err, loan.ErrSlotEmpty):
		r.log.Info("no stored applications")
	case err != nil:
		r.log.Warn("load failed, starting empty", zap.Error(err))
		return r, fmt.Errorf("load applications: %w", err)
	default:
		var apps []loan.Application
		if err := json.Unmarshal(raw, &apps); err != nil {
			r.log.Warn("stored applications unreadable, starting empty", zap.Error(err))
		} else {
			r.apps = apps
			r.log.Info("applications loaded", zap.Int("count", len(apps)))
		}
	}
	return r, nil
}

// Add inserts app at the head of the collection.
func (r *Registry) Add(ctx context.Context, app loan.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]loan.Application, 0, len(r.apps)+1)
	next = append(next, app.Clone())
	next = append(next, r.apps...)
	return r.commit(ctx, next)
}

// Update applies patch to a copy of the entry with the given id and swaps it
// in. It reports false, and changes nothing, when id is absent.
func (r *Registry) Update(ctx context.Context, id string, patch func(*loan.Application)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.apps, func(a loan.Application) bool { return a.ID == id })
	if idx < 0 {
		return false, nil
	}
	updated := r.apps[idx].Clone()
	patch(&updated)
	updated.ID = id

	next := slices.Clone(r.apps)
	next[idx] = updated
	return true, r.commit(ctx, next)
}

// Apply is Update with a guard: fn sees a copy of the entry and may refuse
// the change by returning an error, in which case nothing is committed. A
// missing id yields loan.ErrNotFound.
func (r *Registry) Apply(ctx context.Context, id string, fn func(*loan.Application) error) (loan.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.apps, func(a loan.Application) bool { return a.ID == id })
	if idx < 0 {
		return loan.Application{}, loan.ErrNotFound
	}
	updated := r.apps[idx].Clone()
	if err := fn(&updated); err != nil {
		return loan.Application{}, err
	}
	updated.ID = id

	next := slices.Clone(r.apps)
	next[idx] = updated
	return updated.Clone(), r.commit(ctx, next)
}

// Get returns a copy of the entry with the given id.
func (r *Registry) Get(id string) (loan.Application, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.apps {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return loan.Application{}, false
}

// List returns the collection in order, newest first.
func (r *Registry) List() []loan.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.apps)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps)
}

// commit swaps in next and writes it through. The in-memory swap happens
// even if the write fails; the error is returned for the caller to log.
func (r *Registry) commit(ctx context.Context, next []loan.Application) error {
	r.apps = next
	metrics.RegistryApplications.Set(float64(len(next)))

	payload, err := json.Marshal(next)
	if err != nil {
		metrics.PersistFailures.Inc()
		return fmt.Errorf("encode applications: %w", err)
	}
	if err := r.store.Save(ctx, payload); err != nil {
		metrics.PersistFailures.Inc()
		r.log.Error("persist failed", zap.Error(err), zap.Int("count", len(next)))
		return fmt.Errorf("persist applications: %w", err)
	}
	return nil
}
