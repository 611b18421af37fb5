package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cloud-ru/vehicle-equity-go/internal/config"
	"github.com/cloud-ru/vehicle-equity-go/internal/garage"
	"github.com/cloud-ru/vehicle-equity-go/internal/storage"
)

var errEphemeralGarage = errors.New("the memory storage backend does not keep vehicles between commands; use --storage sqlite (with --db) or --storage redis")

// openSavedGarage как openGarage, но отказывает для хранилища в памяти:
// каждая команда CLI - отдельный процесс, и записи пропали бы при выходе
func (a *app) openSavedGarage(ctx context.Context) (*garage.Repository, func(), error) {
	if a.cfg.StorageBackend == config.StorageMemory || a.cfg.StorageBackend == "" {
		return nil, nil, errEphemeralGarage
	}
	return a.openGarage(ctx)
}

// openGarage открывает хранилище из конфигурации. closeFn нужно вызвать по завершении.
func (a *app) openGarage(ctx context.Context) (*garage.Repository, func(), error) {
	store, err := storage.Open(ctx, a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			a.logger.WithError(err).Error("failed to close storage")
		}
	}
	return garage.NewRepository(store, a.logger, a.cfg.MaxMonths), closeFn, nil
}

func loadRecord(ctx context.Context, repo *garage.Repository, rawID string) (*garage.Record, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle id %q: %w", rawID, err)
	}
	return repo.Get(ctx, id)
}
