// Package storage содержит key-value контракт, через который гараж сохраняет записи,
// и его реализации: в памяти, SQLite и Redis.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloud-ru/vehicle-equity-go/internal/config"
)

// ErrNotFound возвращается, если ключа нет в хранилище
var ErrNotFound = errors.New("key not found")

// Store key-value хранилище. Значения непрозрачны для хранилища.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete удаляет ключ; ErrNotFound, если ключа не было
	Delete(ctx context.Context, key string) error
	// Keys возвращает отсортированные ключи с заданным префиксом
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Open создает хранилище по конфигурации и оборачивает его счетчиками операций
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.StorageBackend {
	case config.StorageMemory, "":
		store = NewMemoryStore()
	case config.StorageSQLite:
		store, err = NewSQLiteStore(ctx, cfg.SQLitePath)
	case config.StorageRedis:
		store, err = NewRedisStore(ctx, cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}

	backend := cfg.StorageBackend
	if backend == "" {
		backend = config.StorageMemory
	}
	return Instrument(store, backend), nil
}
