// Package repository selects the application slot backend from config.
package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vehicleloan/internal/adapter/repository/gormstore"
	"vehicleloan/internal/adapter/repository/redisstore"
	"vehicleloan/internal/config"
	loanDomain "vehicleloan/internal/domain/loan"
	"vehicleloan/internal/infrastructure/cache"
	"vehicleloan/internal/infrastructure/db"
)

// OpenSlotStore opens the backend named by cfg.StoreDriver. A non-nil rdb is
// reused for the redis driver; otherwise a client is dialed. The returned
// close func releases only what OpenSlotStore opened.
func OpenSlotStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (loanDomain.SlotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverRedis:
		if rdb != nil {
			return redisstore.NewSlotStore(rdb, cfg.StoreKey), noop, nil
		}
		r, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSlotStore(r, cfg.StoreKey), r.Close, nil

	case config.DriverSQLite, config.DriverMySQL:
		gdb, err := db.OpenGorm(cfg.StoreDriver, cfg.SQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.StoreDriver, err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		store := gormstore.NewSlotStore(gdb, cfg.StoreKey)
		if err := store.Migrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate slot table: %w", err)
		}
		return store, sqlDB.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
