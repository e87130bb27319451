package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// OTELGinMiddleware returns the OpenTelemetry middleware for Gin. Health
// checks and static assets are not traced.
func OTELGinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
		p := c.Request.URL.Path
		return p != "/api/health" && !strings.HasPrefix(p, "/assets/")
	}))
}
