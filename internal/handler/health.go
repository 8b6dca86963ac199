package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Check probes one dependency
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
	resp   *Responder
	logger *slog.Logger
}

// NewHealthHandler takes every dependency that must answer before the
// service reports ready, keyed by the name shown in /readyz
func NewHealthHandler(checks map[string]Check, resp *Responder, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{checks: checks, resp: resp, logger: logger}
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

const readinessTimeout = 2 * time.Second

// Health is liveness only
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.resp.json(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready probes all dependencies in parallel under one shared deadline
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(h.checks))
		failed  bool
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := "ok"
			err := check(ctx)
			if err != nil {
				res = "error: " + err.Error()
			}
			mu.Lock()
			results[name] = res
			failed = failed || err != nil
			mu.Unlock()
		}()
	}
	wg.Wait()

	if failed {
		h.logger.Warn("readiness check failed", slog.Any("checks", results))
		h.resp.json(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Checks: results})
		return
	}
	h.resp.json(w, http.StatusOK, ReadinessResponse{Status: "ready", Checks: results})
}
