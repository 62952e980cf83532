package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/rbac"
	"github.com/oksasatya/factory-erp/internal/interface/middleware"
	"github.com/oksasatya/factory-erp/pkg/response"
)

// RoleHandler describes the caller's role for the UI. It grants nothing.
type RoleHandler struct {
	Policy *rbac.Policy
}

func NewRoleHandler(policy *rbac.Policy) *RoleHandler {
	return &RoleHandler{Policy: policy}
}

type permissionView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roleView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type rolesResponse struct {
	Role        string           `json:"role"`
	Permissions []permissionView `json:"permissions"`
	Roles       []roleView       `json:"roles"`
}

func (h *RoleHandler) List(c *gin.Context) {
	role := middleware.UserRole(c)
	perms := h.Policy.Permissions(role)

	resp := rolesResponse{
		Role:        string(role),
		Permissions: make([]permissionView, 0, len(perms)),
		Roles:       make([]roleView, 0, len(entity.Roles)),
	}
	for _, p := range perms {
		resp.Permissions = append(resp.Permissions, permissionView{Name: string(p), Description: p.Describe()})
	}
	for _, r := range entity.Roles {
		resp.Roles = append(resp.Roles, roleView{Name: string(r), Description: rbac.RoleDescriptions[r]})
	}
	response.Success(c, http.StatusOK, resp, "roles", nil)
}
