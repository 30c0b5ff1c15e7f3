package middlewares

import (
	"net/http"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderBusinessId    = "X-Business-Id"
	HeaderUsername      = "X-Username"
	HeaderCorrelationId = "X-Correlation-Id"
)

// SessionMiddleware puts the caller's business, username and a correlation id into the
// request context. Requests without a business id are rejected.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessId := c.Request.Header.Get(HeaderBusinessId)
		if businessId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "business id is required"})
			c.Abort()
			return
		}
		correlationId := c.Request.Header.Get(HeaderCorrelationId)
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		c.Header(HeaderCorrelationId, correlationId)

		ctx := utils.SetBusinessIdInContext(c.Request.Context(), businessId)
		if username := c.Request.Header.Get(HeaderUsername); username != "" {
			ctx = utils.SetUsernameInContext(ctx, username)
		}
		ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
