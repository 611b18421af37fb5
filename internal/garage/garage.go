// Package garage хранит автомобили пользователя вместе с их финансированием
package garage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
	"github.com/cloud-ru/vehicle-equity-go/internal/storage"
)

const (
	keyPrefix = "vehicle:"

	// DefaultMaxMonths предел MonthsElapsed для записей без срока договора
	DefaultMaxMonths = 120
)

// ErrVehicleNotFound возвращается, если записи с таким id нет
var ErrVehicleNotFound = errors.New("vehicle not found")

// Record автомобиль в гараже
type Record struct {
	ID        uuid.UUID              `json:"id"`
	Nickname  string                 `json:"nickname,omitempty"`
	Vehicle   calculations.Vehicle   `json:"vehicle"`
	Financing calculations.Financing `json:"financing"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Repository CRUD над записями гаража поверх key-value хранилища
type Repository struct {
	store  storage.Store
	logger *logrus.Logger
	now    func() time.Time

	maxMonths int
}

// NewRepository создает репозиторий. maxMonths ограничивает MonthsElapsed покупок
// за наличные, значение <= 0 заменяется на DefaultMaxMonths.
func NewRepository(store storage.Store, logger *logrus.Logger, maxMonths int) *Repository {
	if maxMonths <= 0 {
		maxMonths = DefaultMaxMonths
	}
	return &Repository{store: store, logger: logger, now: time.Now, maxMonths: maxMonths}
}

func recordKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Create сохраняет новую запись и присваивает ей id
func (r *Repository) Create(ctx context.Context, nickname string, v calculations.Vehicle, f calculations.Financing) (*Record, error) {
	now := r.now().UTC()
	rec := &Record{
		ID:        uuid.New(),
		Nickname:  nickname,
		Vehicle:   v,
		Financing: f,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.save(ctx, rec); err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"vehicle_id": rec.ID,
		"category":   v.Category.String(),
		"finance":    f.Type,
	}).Info("vehicle added to garage")
	return rec, nil
}

// Get возвращает запись по id
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	data, err := r.store.Get(ctx, recordKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode vehicle %s: %w", id, err)
	}
	return &rec, nil
}

// List возвращает все записи, упорядоченные по времени создания
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	keys, err := r.store.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		id, err := uuid.Parse(strings.TrimPrefix(key, keyPrefix))
		if err != nil {
			r.logger.WithField("key", key).Warn("skipping malformed garage key")
			continue
		}
		rec, err := r.Get(ctx, id)
		if err != nil {
			// Запись могла быть удалена между Keys и Get
			if errors.Is(err, ErrVehicleNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, *rec)
	}

	sortByCreated(records)
	return records, nil
}

// Update заменяет автомобиль и финансирование существующей записи
func (r *Repository) Update(ctx context.Context, id uuid.UUID, nickname string, v calculations.Vehicle, f calculations.Financing) (*Record, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.Nickname = nickname
	rec.Vehicle = v
	rec.Financing = f
	rec.UpdatedAt = r.now().UTC()

	if err := r.save(ctx, rec); err != nil {
		return nil, err
	}

	r.logger.WithField("vehicle_id", id).Info("vehicle updated")
	return rec, nil
}

// RecordPayment отмечает очередной месяц договора: MonthsElapsed увеличивается на один,
// но не выходит за срок договора, а без срока - за предел maxMonths
func (r *Repository) RecordPayment(ctx context.Context, id uuid.UUID, mileage float64) (*Record, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	f := &rec.Financing
	limit := r.maxMonths
	if f.Type != calculations.FinanceCash && f.TermMonths > 0 {
		limit = min(f.TermMonths, r.maxMonths)
	}
	if f.MonthsElapsed < limit {
		f.MonthsElapsed++
	}
	if mileage > rec.Vehicle.CurrentMileage {
		rec.Vehicle.CurrentMileage = mileage
	}
	rec.UpdatedAt = r.now().UTC()

	if err := r.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete удаляет запись
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.store.Delete(ctx, recordKey(id)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrVehicleNotFound
		}
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	r.logger.WithField("vehicle_id", id).Info("vehicle removed from garage")
	return nil
}

func (r *Repository) save(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode vehicle: %w", err)
	}
	if err := r.store.Set(ctx, recordKey(rec.ID), data); err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return nil
}

func sortByCreated(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}
