package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/marks-analytics-api/internal/middleware"
	"github.com/noah-isme/marks-analytics-api/internal/models"
	appErrors "github.com/noah-isme/marks-analytics-api/pkg/errors"
	"github.com/noah-isme/marks-analytics-api/pkg/response"
)

// requireClaims returns the authenticated claims or writes a 401.
func requireClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Not authenticated"))
		return nil, false
	}
	return claims, true
}

// pageParams reads page and limit. Unparsable values fall back to the
// repository defaults.
func pageParams(c *gin.Context) (page, size int) {
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		size = v
	}
	return page, size
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid payload"))
		return false
	}
	return true
}
