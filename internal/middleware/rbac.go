package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/agri-gov-api/internal/models"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	appErrors "github.com/noah-isme/agri-gov-api/pkg/errors"
	"github.com/noah-isme/agri-gov-api/pkg/response"
)

// RequirePermission blocks the request unless the caller's role carries
// every listed permission. Unknown roles carry nothing, so they are
// rejected rather than waved through.
func RequirePermission(perms ...rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.AdminClaims)

		if !rbac.HasAll(claims.Role, perms...) {
			response.Error(c, appErrors.ErrPermissionDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles restricts a route to an explicit role list. Used for the
// few surfaces that are about who you are rather than what you may do.
func RequireRoles(roles ...rbac.Role) gin.HandlerFunc {
	allowed := make(map[rbac.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.AdminClaims)

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrPermissionDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}
