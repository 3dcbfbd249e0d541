package middleware

import (
	"time"

	"github.com/moura-ar/portfolio/internal/logging"
	"github.com/moura-ar/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured access line per request. The logger
// decides whether request logging is enabled (LOG_REQUESTS).
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			path,
			utils.GetRealIP(c),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
