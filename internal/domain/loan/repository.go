package loan

import (
	"context"
	"errors"
)

// ErrSlotEmpty is returned by SlotStore.Load when nothing has been saved yet.
var ErrSlotEmpty = errors.New("persistence slot is empty")

// SlotStore is a single named key-value slot holding the serialized
// application collection.
type SlotStore interface {
	// Load returns the raw bytes of the slot, or ErrSlotEmpty.
	Load(ctx context.Context) ([]byte, error)

	// Save overwrites the slot.
	Save(ctx context.Context, payload []byte) error
}
