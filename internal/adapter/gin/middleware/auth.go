package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eniomcosta/gobarber/pkg/logger"
)

// userIDKey is the gin context key holding the authenticated user ID.
const userIDKey = "auth_user_id"

// userIDHeader carries the authenticated user ID. The API sits behind a
// gateway that terminates authentication and injects this header; requests
// reaching the service directly without it are rejected.
const userIDHeader = "X-User-ID"

// Auth returns a Gin middleware that extracts the authenticated user ID
// injected by the upstream gateway and attaches it to the request context.
func Auth(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(userIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
			})
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			log.Warn("invalid user id header", zap.String("value", raw))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
			})
			return
		}

		c.Set(userIDKey, userID)

		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserID returns the authenticated user ID attached by Auth, or 0 when the
// request was not authenticated.
func UserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
