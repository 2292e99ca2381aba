package storemock

import (
	"context"
	"sync"

	domain "vehicleloan/internal/domain/loan"
)

// Slot is a function-backed mock that satisfies domain.SlotStore.
// With no funcs set it behaves like an in-memory slot.
type Slot struct {
	LoadFn func(ctx context.Context) ([]byte, error)
	SaveFn func(ctx context.Context, payload []byte) error

	mu    sync.Mutex
	data  []byte
	saved bool
	Saves int
}

var _ domain.SlotStore = (*Slot)(nil)

// NewSlot returns an in-memory slot pre-filled with payload (nil = empty).
func NewSlot(payload []byte) *Slot {
	return &Slot{data: payload, saved: payload != nil}
}

func (m *Slot) Load(ctx context.Context) ([]byte, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return nil, domain.ErrSlotEmpty
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Slot) Save(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	m.Saves++
	m.mu.Unlock()
	if m.SaveFn != nil {
		return m.SaveFn(ctx, payload)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), payload...)
	m.saved = true
	return nil
}

// Bytes returns the last saved payload.
func (m *Slot) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}
