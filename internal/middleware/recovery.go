package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/moura-ar/portfolio/internal/api/dto/common"
	"github.com/moura-ar/portfolio/internal/logging"
	"github.com/moura-ar/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic anywhere below it into the generic 500 JSON body.
// The panic value and stack are logged, never returned.
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.With(
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"client_ip", utils.GetRealIP(c),
					"request_id", c.GetString(RequestIDKey),
					"stack", string(debug.Stack()),
				).Error("[PANIC] %v", err)

				c.AbortWithStatusJSON(http.StatusInternalServerError, common.NewErrorResponse(common.MsgInternalError))
			}
		}()

		c.Next()
	}
}
