package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-service/repository"
)

// AdminAuth gates the admin routes on the caller's email being present in
// the admin_users table. The frontend authenticates the session itself and
// forwards the verified email; comparison is case-insensitive.
func AdminAuth(admins repository.AdminRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader("X-Admin-Email"))
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin email required"})
			c.Abort()
			return
		}

		admin, err := admins.FindByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, repository.ErrAdminNotFound) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Not an admin"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify admin"})
			}
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Next()
	}
}
