package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

// RequireCapability gates a route on the caller's role capability set.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, ok := roleInterface.(string)
		if !ok || !models.RoleCan(role, capability) {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("access denied"))
			c.Abort()
			return
		}

		c.Next()
	}
}
