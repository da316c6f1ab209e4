package handler

import (
	"context"
	"net/http"

	"github.com/vacekto/streamit-auth/internal/logger"
)

// Pinger is a dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the service's backing stores are reachable.
type Health struct {
	directory Pinger
	registry  Pinger
	logger    *logger.Logger
}

// NewHealth creates a new Health handler.
func NewHealth(directory, registry Pinger, logger *logger.Logger) *Health {
	return &Health{
		directory: directory,
		registry:  registry,
		logger:    logger,
	}
}

func (h *Health) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.Ping(r.Context()); err != nil {
		h.logger.Error("Health handler: directory unreachable",
			"error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "directory unreachable"})
		return
	}
	if err := h.registry.Ping(r.Context()); err != nil {
		h.logger.Error("Health handler: session registry unreachable",
			"error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "registry unreachable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
