// Package redisstore keeps the application slot under a single Redis key.
package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	loanDomain "vehicleloan/internal/domain/loan"
)

type SlotStore struct {
	rdb *redis.Client
	key string
}

var _ loanDomain.SlotStore = (*SlotStore)(nil)

func NewSlotStore(rdb *redis.Client, key string) *SlotStore { return &SlotStore{rdb: rdb, key: key} }

func (s *SlotStore) Load(ctx context.Context) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, loanDomain.ErrSlotEmpty
	}
	return b, err
}

// Save overwrites the key with no expiry.
func (s *SlotStore) Save(ctx context.Context, payload []byte) error {
	return s.rdb.Set(ctx, s.key, payload, 0).Err()
}
