package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-roaster/internal/shared/server/respond"
)

const (
	clientIDKey    = "clientId"
	ClientIDHeader = "X-Client-Id"
	maxClientIDLen = 128
)

// ClientIdentity requires the X-Client-Id header and stores it in context.
// Paths in open are served without an identity.
func ClientIdentity(open ...string) gin.HandlerFunc {
	public := make(map[string]struct{}, len(open))
	for _, p := range open {
		public[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if clientID == "" || len(clientID) > maxClientIDLen {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(clientIDKey, clientID)
		c.Next()
	}
}

// ClientIDFromContext fetches the client ID set by ClientIdentity.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(clientIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
