package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// BrokerStatus is satisfied by *queue.RabbitMQ.
type BrokerStatus interface {
	Healthy() bool
}

type EnrichmentMode interface {
	Mode() entity.EnrichmentSource
}

type HealthHandler struct {
	DB         Pinger
	Broker     BrokerStatus
	Enrichment EnrichmentMode
	StartTime  time.Time
	now        func() time.Time
}

type DependencyCheck struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Error      string `json:"error,omitempty"`
}

type EnrichmentCheck struct {
	Mode entity.EnrichmentSource `json:"mode"`
}

type HealthChecks struct {
	Database   DependencyCheck `json:"database"`
	RabbitMQ   DependencyCheck `json:"rabbitmq"`
	Enrichment EnrichmentCheck `json:"enrichment"`
}

type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Uptime    string       `json:"uptime"`
	Checks    HealthChecks `json:"checks"`
}

// NewHealthHandler accepts nil for broker when RabbitMQ is disabled.
func NewHealthHandler(db Pinger, broker BrokerStatus, enrichment EnrichmentMode) *HealthHandler {
	return &HealthHandler{
		DB:         db,
		Broker:     broker,
		Enrichment: enrichment,
		StartTime:  time.Now(),
		now:        time.Now,
	}
}

// Handle answers 503 when the database is unreachable. A broken broker only
// degrades the report since lead intake does not depend on it.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	checks := HealthChecks{}

	if h.DB != nil {
		checks.Database.Configured = true
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		err := h.DB.Ping(ctx)
		cancel()
		if err != nil {
			checks.Database.Error = err.Error()
		} else {
			checks.Database.Connected = true
		}
	}

	if h.Broker != nil {
		checks.RabbitMQ.Configured = true
		checks.RabbitMQ.Connected = h.Broker.Healthy()
		if !checks.RabbitMQ.Connected {
			checks.RabbitMQ.Error = "connection closed"
		}
	}

	if h.Enrichment != nil {
		checks.Enrichment.Mode = h.Enrichment.Mode()
	}

	status := "healthy"
	code := http.StatusOK
	switch {
	case !checks.Database.Connected:
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	case checks.RabbitMQ.Configured && !checks.RabbitMQ.Connected:
		status = "degraded"
	}

	now := h.now()
	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.StartTime).Round(time.Second).String(),
		Checks:    checks,
	})
}
