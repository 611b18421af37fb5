package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/vehicle-equity-go/internal/calculations"
	"github.com/cloud-ru/vehicle-equity-go/internal/config"
	"github.com/cloud-ru/vehicle-equity-go/internal/garage"
	"github.com/cloud-ru/vehicle-equity-go/internal/tools"
	"github.com/cloud-ru/vehicle-equity-go/internal/validators"
)

// VehicleHandler обрабатывает запросы к гаражу
type VehicleHandler struct {
	cfg    *config.Config
	repo   *garage.Repository
	logger *logrus.Logger
}

// NewVehicleHandler создает VehicleHandler
func NewVehicleHandler(cfg *config.Config, repo *garage.Repository, logger *logrus.Logger) *VehicleHandler {
	return &VehicleHandler{cfg: cfg, repo: repo, logger: logger}
}

// RegisterRoutes регистрирует маршруты гаража
func (h *VehicleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.CreateVehicle).Methods(http.MethodPost)
	router.HandleFunc("", h.ListVehicles).Methods(http.MethodGet)
	router.HandleFunc("/{id}", h.GetVehicle).Methods(http.MethodGet)
	router.HandleFunc("/{id}", h.UpdateVehicle).Methods(http.MethodPut)
	router.HandleFunc("/{id}", h.DeleteVehicle).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/payments", h.RecordPayment).Methods(http.MethodPost)
	router.HandleFunc("/{id}/settlement", h.Settlement).Methods(http.MethodGet)
	router.HandleFunc("/{id}/projection", h.Projection).Methods(http.MethodGet)
	router.HandleFunc("/{id}/advice", h.Advice).Methods(http.MethodGet)
	router.HandleFunc("/{id}/ownership", h.Ownership).Methods(http.MethodGet)
}

// decodeVehicle разбирает тело запроса в тех же параметрах, что и инструменты
func (h *VehicleHandler) decodeVehicle(r *http.Request) (string, calculations.Vehicle, calculations.Financing, error) {
	params := map[string]interface{}{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		return "", calculations.Vehicle{}, calculations.Financing{}, errors.New("invalid request payload")
	}
	nickname, _ := params["nickname"].(string)
	v, f, err := tools.ParseVehicleAndFinancing(h.cfg, params)
	return nickname, v, f, err
}

// CreateVehicle добавляет автомобиль в гараж
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	nickname, v, f, err := h.decodeVehicle(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := h.repo.Create(r.Context(), nickname, v, f)
	if err != nil {
		h.logger.WithError(err).Error("failed to create vehicle")
		writeError(w, http.StatusInternalServerError, errors.New("failed to save vehicle"))
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// ListVehicles возвращает все автомобили гаража
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list vehicles")
		writeError(w, http.StatusInternalServerError, errors.New("failed to list vehicles"))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// load достает запись по id из пути и пишет ответ с ошибкой, если не удалось
func (h *VehicleHandler) load(w http.ResponseWriter, r *http.Request) (*garage.Record, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid vehicle id"))
		return nil, false
	}

	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, garage.ErrVehicleNotFound) {
			writeError(w, http.StatusNotFound, err)
			return nil, false
		}
		h.logger.WithError(err).WithField("vehicle_id", id).Error("failed to load vehicle")
		writeError(w, http.StatusInternalServerError, errors.New("failed to load vehicle"))
		return nil, false
	}
	return rec, true
}

// GetVehicle возвращает автомобиль
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateVehicle заменяет описание автомобиля и договора
func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}

	nickname, v, f, err := h.decodeVehicle(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.repo.Update(r.Context(), rec.ID, nickname, v, f)
	if err != nil {
		h.logger.WithError(err).WithField("vehicle_id", rec.ID).Error("failed to update vehicle")
		writeError(w, http.StatusInternalServerError, errors.New("failed to save vehicle"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteVehicle удаляет автомобиль
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), rec.ID); err != nil && !errors.Is(err, garage.ErrVehicleNotFound) {
		h.logger.WithError(err).WithField("vehicle_id", rec.ID).Error("failed to delete vehicle")
		writeError(w, http.StatusInternalServerError, errors.New("failed to delete vehicle"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// paymentRequest тело запроса об очередном платеже
type paymentRequest struct {
	Mileage float64 `json:"mileage"`
}

// RecordPayment продвигает договор на месяц
func (h *VehicleHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid request payload"))
			return
		}
	}
	if err := validators.CheckMileage(h.cfg, "mileage", req.Mileage); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.repo.RecordPayment(r.Context(), rec.ID, req.Mileage)
	if err != nil {
		h.logger.WithError(err).WithField("vehicle_id", rec.ID).Error("failed to record payment")
		writeError(w, http.StatusInternalServerError, errors.New("failed to save vehicle"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Settlement сумма досрочного погашения на текущий месяц
func (h *VehicleHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, calculations.Settlement(rec.Financing))
}

func (h *VehicleHandler) projectionOptions() calculations.ProjectionOptions {
	return calculations.ProjectionOptions{}.WithBreakEvenBand(h.cfg.BreakEvenBand)
}

// Projection помесячная проекция для автомобиля
func (h *VehicleHandler) Projection(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tools.BuildProjection(rec.Vehicle, rec.Financing, h.projectionOptions()))
}

// Advice рекомендация "продавать или ждать"
func (h *VehicleHandler) Advice(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, calculations.Advise(rec.Vehicle, rec.Financing, h.projectionOptions()))
}

// Ownership стоимость владения на текущий месяц
func (h *VehicleHandler) Ownership(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, calculations.OwnershipCost(rec.Vehicle, rec.Financing))
}
