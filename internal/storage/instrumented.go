package storage

import (
	"context"
	"errors"

	"github.com/cloud-ru/vehicle-equity-go/internal/metrics"
)

// instrumentedStore считает операции хранилища в метриках
type instrumentedStore struct {
	Store
	backend string
}

// Instrument оборачивает хранилище счетчиком metrics.StorageOperations
func Instrument(store Store, backend string) Store {
	return &instrumentedStore{Store: store, backend: backend}
}

func (s *instrumentedStore) observe(operation string, err error) {
	status := "success"
	switch {
	case errors.Is(err, ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	metrics.StorageOperations.WithLabelValues(s.backend, operation, status).Inc()
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.Store.Get(ctx, key)
	s.observe("get", err)
	return v, err
}

func (s *instrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.Store.Set(ctx, key, value)
	s.observe("set", err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	err := s.Store.Delete(ctx, key)
	s.observe("delete", err)
	return err
}

func (s *instrumentedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.Store.Keys(ctx, prefix)
	s.observe("keys", err)
	return keys, err
}
