package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ratehub/internal/authz"
	"ratehub/internal/service"
)

const actorKey = "actor"

// RequireAuth rejects requests without a valid bearer token and stores the
// resulting actor in the context.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromHeader(c, authService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth resolves a bearer token when present but lets anonymous
// requests through; read endpoints are open to everyone.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := actorFromHeader(c, authService); ok {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

func actorFromHeader(c *gin.Context, authService service.AuthService) (authz.Actor, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return authz.Actor{}, false
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return authz.Actor{}, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return authz.Actor{}, false
	}

	return authz.Actor{ID: claims.UserID, Role: claims.Role, Active: true}, true
}

// Actor returns the authenticated actor from the context, or the anonymous
// actor when no token was presented.
func Actor(c *gin.Context) authz.Actor {
	if value, exists := c.Get(actorKey); exists {
		if actor, ok := value.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Actor{}
}
