package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

// Ownership pins the param query parameter to the caller's id for
// gatekeepers, overriding whatever the client sent. Other roles pass through.
func Ownership(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserRole(c) == entity.RoleGatekeeper {
			q := c.Request.URL.Query()
			q.Set(param, UserID(c))
			c.Request.URL.RawQuery = q.Encode()
		}
		c.Next()
	}
}
