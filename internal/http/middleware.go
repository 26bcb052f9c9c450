package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"login-service/internal/service"
)

const principalKey = "principal"

// requireAuth extracts the bearer token from the Authorization header,
// validates it and stores the resolved Principal in the request context.
func requireAuth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractBearer(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidToken.Error()})
			return
		}

		principal, err := tokens.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func principalFrom(c *gin.Context) service.Principal {
	if v, ok := c.Get(principalKey); ok {
		if principal, ok := v.(service.Principal); ok {
			return principal
		}
	}
	return service.Principal{}
}
