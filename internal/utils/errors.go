package utils

import (
	"net/http"

	"github.com/moura-ar/portfolio/internal/api/dto/common"
	"github.com/moura-ar/portfolio/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError logs err with request context and writes a JSON error with
// the given user-facing message. The internal error never reaches the client.
func HandleAPIError(c *gin.Context, logger *logging.Logger, err error, status int, message string) {
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		message,
		err,
	)

	c.JSON(status, common.NewErrorResponse(message))
}

// HandleInternalError collapses any unexpected failure into the generic 500.
func HandleInternalError(c *gin.Context, logger *logging.Logger, err error) {
	HandleAPIError(c, logger, err, http.StatusInternalServerError, common.MsgInternalError)
}
