// Package health provides health checking functionality for the service.
// Components register themselves as Healthers and a single HTTP endpoint
// reports the aggregate status.
package health

import (
	"net/http"

	"github.com/Koyo-os/template-service/pkg/logger"
	"go.uber.org/zap"
)

type (
	// Healther is implemented by any component that can report whether it is
	// ready to serve requests. Implementations should be quick; the check
	// runs inline in the health endpoint.
	Healther interface {
		IsHealthy() bool
	}

	// HealthChecker aggregates multiple Healther implementations and exposes
	// a unified health endpoint.
	HealthChecker struct {
		logger    *logger.Logger
		healthers []Healther
	}
)

// NewHealthChecker creates a HealthChecker over the given components.
func NewHealthChecker(logger *logger.Logger, healthers ...Healther) *HealthChecker {
	return &HealthChecker{
		healthers: healthers,
		logger:    logger,
	}
}

// HealthCheck is an HTTP handler reporting the aggregate status: 200 "OK"
// when every registered component is healthy, 500 "Not OK" otherwise.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ok := true

	for _, healther := range h.healthers {
		if !healther.IsHealthy() {
			ok = false
			h.logger.Error("health check failed")
		}
	}

	if ok {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	} else {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Not OK"))
	}
}

// StartHealthCheckServer serves GET /health on the given port. It blocks,
// so run it in its own goroutine.
func (h *HealthChecker) StartHealthCheckServer(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HealthCheck)

	h.logger.Info("Starting health check server", zap.String("port", port))

	if err := http.ListenAndServe(port, mux); err != nil {
		h.logger.Error("Failed to start health check server", zap.Error(err))
		return err
	}
	return nil
}
