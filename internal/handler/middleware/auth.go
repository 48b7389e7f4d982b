package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"course-triage/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware guards the mutating endpoints. Tokens are issued by the
// host platform's admin tooling; this service only validates them.
type AuthMiddleware struct {
	tokens *jwt.Service
}

const (
	ctxOperatorIDKey   = "operator_id"
	ctxOperatorRoleKey = "operator_role"
)

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxOperatorIDKey, claims.OperatorID)
		c.Set(ctxOperatorRoleKey, claims.Role)
		c.Set("jwt_claims", map[string]any{
			"operator_id": claims.OperatorID.String(),
			"role":        claims.Role,
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetOperatorID(c *gin.Context) (uuid.UUID, bool) {
	operatorID, exists := c.Get(ctxOperatorIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := operatorID.(uuid.UUID)
	return id, ok
}
