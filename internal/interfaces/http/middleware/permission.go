package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/application/admin"
)

// RequirePermission gates a route on an admin permission. The check goes
// through the grant store, not the token claims, so a revoked grant
// takes effect before the access token expires.
func RequirePermission(checker *admin.PermissionChecker, permission string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(GetJWTUserID(c))
		if err != nil {
			abortForbidden(c)
			return
		}

		allowed, err := checker.Check(c.Request.Context(), userID, permission)
		if err != nil {
			if log != nil {
				log.Error("Permission check failed",
					zap.String("user_id", userID.String()),
					zap.String("permission", permission),
					zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Permission check failed",
				},
			})
			return
		}
		if !allowed {
			abortForbidden(c)
			return
		}

		c.Next()
	}
}

// RequireVendor gates a route on the caller having an approved vendor
// account. The vendor ID is taken from the token; approval is granted
// at issue time and re-read on refresh.
func RequireVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTVendorID(c) == "" {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "You do not have permission to perform this action",
		},
	})
}
