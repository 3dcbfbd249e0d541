package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/moura-ar/portfolio/internal/api/dto/common"
	"github.com/moura-ar/portfolio/internal/logging"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
	logger *logging.Logger
}

// NewHealthHandler creates a health handler. With no checks it only reports
// that the process is serving.
func NewHealthHandler(checks map[string]HealthCheck, logger *logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &HealthHandler{checks: checks, logger: logger}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var failed []string
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Error("Health check %s failed: %v", name, err)
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse("Unhealthy: "+strings.Join(failed, ", ")))
		return
	}

	c.JSON(http.StatusOK, common.NewMessageResponse("Health check OK"))
}
