package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

// Gin context keys set by Auth.
const (
	CtxUserIDKey   = "userID"
	CtxUserRoleKey = "userRole"
)

func UserID(c *gin.Context) string { return c.GetString(CtxUserIDKey) }

func UserRole(c *gin.Context) entity.Role {
	if v, ok := c.Get(CtxUserRoleKey); ok {
		if r, ok := v.(entity.Role); ok {
			return r
		}
	}
	return ""
}
