package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/rbac"
	"github.com/oksasatya/factory-erp/pkg/apperr"
	"github.com/oksasatya/factory-erp/pkg/response"
)

func forbidden(required rbac.Permission, role entity.Role) *apperr.Error {
	return apperr.New(apperr.KindAuthorization, "forbidden", "insufficient permission").
		WithDetail("required", string(required)).
		WithDetail("role", string(role))
}

// Gate authorizes the caller for the matched route pattern using policy.
// It must run after Auth.
func Gate(policy *rbac.Policy, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c)
		d := policy.Authorize(role, c.Request.Method, c.FullPath())
		if d.Allowed {
			c.Next()
			return
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"user_id":    UserID(c),
				"role":       role,
				"route":      c.Request.Method + " " + c.FullPath(),
				"required":   d.Required,
			}).Warn("access denied")
		}
		response.Fail(c, forbidden(d.Required, role))
	}
}

// RequirePermission lets the request through when the caller holds any of perms.
func RequirePermission(policy *rbac.Policy, perms ...rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c)
		if policy.AllowsAny(role, perms...) {
			c.Next()
			return
		}
		var required rbac.Permission
		if len(perms) > 0 {
			required = perms[0]
		}
		response.Fail(c, forbidden(required, role))
	}
}

// RequireRole is RequirePermission on the implicit role permissions.
func RequireRole(policy *rbac.Policy, roles ...entity.Role) gin.HandlerFunc {
	perms := make([]rbac.Permission, 0, len(roles))
	for _, r := range roles {
		perms = append(perms, rbac.RolePermission(r))
	}
	return RequirePermission(policy, perms...)
}
