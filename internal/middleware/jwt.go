package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
	"github.com/noah-isme/marks-analytics-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// DefaultTokenCookie is the cookie carrying the access token.
const DefaultTokenCookie = "token"

// TokenValidator verifies access tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token taken from the
// token cookie or an Authorization Bearer header.
func JWT(validator TokenValidator, cookieName string) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultTokenCookie
	}
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "Not authenticated"))
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid token"))
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ClaimsFromContext returns the claims set by JWT, or nil.
func ClaimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
