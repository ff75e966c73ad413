package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
	"github.com/noah-isme/marks-analytics-api/pkg/response"
)

// RequireRoles lets the request through only when the authenticated role is
// one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	denied := appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("Access denied: Requires %v", roles))

	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "Not authenticated"))
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Abort(c, denied)
			return
		}
		c.Next()
	}
}
