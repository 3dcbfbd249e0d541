package utils

import (
	"net/http"

	"github.com/moura-ar/portfolio/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleValidationErrors sends a 400 with one message per invalid field
func HandleValidationErrors(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusBadRequest, common.NewValidationErrorResponse(errors))
}

// SetHeaders copies headers onto the response
func SetHeaders(c *gin.Context, headers map[string]string) {
	for k, v := range headers {
		c.Header(k, v)
	}
}
