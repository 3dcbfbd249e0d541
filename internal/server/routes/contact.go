package routes

import (
	"github.com/moura-ar/portfolio/internal/api/handlers"
	"github.com/moura-ar/portfolio/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// ContactPath is the public contact form endpoint.
const ContactPath = "/api/contact"

// SetupContactRoutes configures contact form routes. The origin check is
// mounted before the throttle so a foreign origin always gets 403. Any other
// method on the path, whatever its name, gets 405.
func SetupContactRoutes(router *gin.Engine, contact *handlers.ContactHandler, throttle gin.HandlerFunc, opts Options) {
	router.POST(ContactPath,
		contact.RequireOrigin,
		throttle,
		middleware.LimitRequestBody(opts.MaxBodyBytes),
		contact.Submit,
	)

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		if c.Request.URL.Path == ContactPath {
			contact.MethodNotAllowed(c)
		}
	})
}
