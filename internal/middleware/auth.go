package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aarogyacheck/clearance-api/internal/handler"
	"github.com/aarogyacheck/clearance-api/pkg/auth"
)

// Context keys set by the session middleware.
const (
	CtxRole    = "session_role"
	CtxActorID = "session_actor_id"
	CtxTokenID = "session_token_id"
	CtxExpiry  = "session_expiry"
)

type AuthMiddleware struct {
	jwtSvc  auth.JWTService
	revoker auth.TokenRevoker
}

func NewAuthMiddleware(jwtSvc auth.JWTService, revoker auth.TokenRevoker) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc, revoker: revoker}
}

// RequireRole authenticates the bearer token and rejects any session whose
// role differs from the one the route group demands. It is the single
// cross-cutting authorization gate in front of every state-machine
// operation.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtSvc.Validate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid session token"))
			c.Abort()
			return
		}

		if m.revoker.IsRevoked(c.Request.Context(), claims.ID) {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("session has been logged out"))
			c.Abort()
			return
		}

		if claims.Role != role {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
			c.Abort()
			return
		}

		c.Set(CtxRole, claims.Role)
		c.Set(CtxActorID, claims.ActorID)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxExpiry, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

// Logout revokes the current session token for the remainder of its
// lifetime.
func (m *AuthMiddleware) Logout(c *gin.Context) {
	tokenID := c.GetString(CtxTokenID)
	ttl := time.Hour
	if expiry, ok := c.Get(CtxExpiry); ok {
		if t, ok := expiry.(time.Time); ok {
			ttl = time.Until(t)
		}
	}
	if err := m.revoker.Revoke(c.Request.Context(), tokenID, ttl); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to log out"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "Logged out"}))
}
