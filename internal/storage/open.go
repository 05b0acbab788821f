package storage

import (
	"errors"
	"fmt"

	"backend-mapty/internal/config"
	"backend-mapty/internal/db"

	"github.com/redis/go-redis/v9"
)

var (
	ErrUnknownBackend = errors.New("storage: unknown backend")
	ErrNotConnected   = errors.New("storage: backend not connected")
)

// Open picks the backend named by cfg.StorageBackend. Connections are made by
// the caller; a nil client for the selected backend is ErrNotConnected.
func Open(cfg config.Config, rdb *redis.Client, pg db.Querier) (KV, error) {
	switch cfg.StorageBackend {
	case "", config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		return NewFile(cfg.StorageDir)
	case config.BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("%w: redis", ErrNotConnected)
		}
		return NewRedis(rdb, "mapty:"), nil
	case config.BackendPostgres:
		if pg == nil {
			return nil, fmt.Errorf("%w: postgres", ErrNotConnected)
		}
		return NewPostgres(pg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StorageBackend)
	}
}
