package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/response"
)

// RequirePermission checks that the JWT grants the permission.
func RequirePermission(code model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !claims.HasPermission(code) {
			response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
			return
		}
		c.Next()
	}
}

// RequireSelfOrPermission lets students read their own records by the
// :param path ID; anyone else needs the permission.
func RequireSelfOrPermission(param string, code model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.HasPermission(code) || claims.UserID.String() == c.Param(param) {
			c.Next()
			return
		}
		response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
	}
}
