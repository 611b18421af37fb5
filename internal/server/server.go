// Package server HTTP API над инструментами и гаражом
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/vehicle-equity-go/internal/config"
	"github.com/cloud-ru/vehicle-equity-go/internal/garage"
	"github.com/cloud-ru/vehicle-equity-go/internal/tools"
)

const shutdownTimeout = 10 * time.Second

// Server HTTP сервер приложения
type Server struct {
	cfg    *config.Config
	router *mux.Router
	logger *logrus.Logger
}

// New собирает маршруты: /tools, /vehicles, /metrics и /healthz
func New(cfg *config.Config, registry *tools.Registry, repo *garage.Repository, logger *logrus.Logger) *Server {
	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	toolRouter := router.PathPrefix("/tools").Subrouter()
	NewToolHandler(registry, logger).RegisterRoutes(toolRouter)

	vehicleRouter := router.PathPrefix("/vehicles").Subrouter()
	NewVehicleHandler(cfg, repo, logger).RegisterRoutes(vehicleRouter)

	return &Server{cfg: cfg, router: router, logger: logger}
}

// Handler корневой обработчик, удобен для тестов
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run слушает порт из конфигурации до отмены ctx, затем корректно останавливается
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", srv.Addr).Info("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// errorResponse тело ответа с ошибкой
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
