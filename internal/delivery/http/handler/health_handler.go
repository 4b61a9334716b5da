package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a backing dependency. *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	pingers map[string]Pinger
	logger  *slog.Logger
}

// NewHealthHandler reports on the named dependencies. An empty map always reports ok.
func NewHealthHandler(pingers map[string]Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pingers: pingers, logger: logger}
}

// Health handles GET and HEAD /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for name, p := range h.pingers {
		if err := p.PingContext(ctx); err != nil {
			h.logger.Error("health check failed", "dependency", name, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "unavailable",
				"dependency": name,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
