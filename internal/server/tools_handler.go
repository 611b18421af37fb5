package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/vehicle-equity-go/internal/tools"
)

// ToolHandler HTTP доступ к реестру инструментов
type ToolHandler struct {
	registry *tools.Registry
	logger   *logrus.Logger
}

// NewToolHandler создает ToolHandler
func NewToolHandler(registry *tools.Registry, logger *logrus.Logger) *ToolHandler {
	return &ToolHandler{registry: registry, logger: logger}
}

// RegisterRoutes регистрирует маршруты инструментов
func (h *ToolHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListTools).Methods(http.MethodGet)
	router.HandleFunc("/{name}", h.CallTool).Methods(http.MethodPost)
}

// ListTools возвращает имена и описания инструментов
func (h *ToolHandler) ListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

// CallTool вызывает инструмент с параметрами из тела запроса
func (h *ToolHandler) CallTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	params := map[string]interface{}{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			h.logger.WithError(err).WithField("tool", name).Warn("failed to decode tool parameters")
			writeError(w, http.StatusBadRequest, errors.New("invalid request payload"))
			return
		}
	}

	result, err := h.registry.Call(r.Context(), name, params)
	if err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, tools.ErrUnknownTool):
			status = http.StatusNotFound
		case errors.Is(err, tools.ErrInvalidParams):
			status = http.StatusBadRequest
		}
		h.logger.WithError(err).WithField("tool", name).Info("tool call rejected")
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
