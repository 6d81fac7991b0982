package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/permissions"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/services"
)

type PermissionMiddleware struct {
	log               *logger.Logger
	permissionService services.PermissionService
}

func NewPermissionMiddleware(log *logger.Logger, permissionService services.PermissionService) *PermissionMiddleware {
	return &PermissionMiddleware{
		log:               log.With("middleware", "PermissionMiddleware"),
		permissionService: permissionService,
	}
}

// Require gates a route group on the caller holding at least the given level
// for a feature area. Runs after RequireAuth.
func (pm *PermissionMiddleware) Require(feature string, required permissions.AccessLevel) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		allowed, err := pm.permissionService.HasPermission(c.Request.Context(), rd.UserID, feature, required)
		if err != nil {
			pm.log.Error("Permission check failed", "error", err, "feature", feature, "user_id", rd.UserID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "permission check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// RequireAdmin gates a route on the admin flag carried in the token.
func (pm *PermissionMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil || !rd.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
