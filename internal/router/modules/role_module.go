package modules

import (
	handlers "github.com/oksasatya/factory-erp/internal/interface/http"
)

type RoleModule struct {
	Handler *handlers.RoleHandler
}

func NewRoleModule(h *handlers.RoleHandler) *RoleModule {
	return &RoleModule{Handler: h}
}

func (m *RoleModule) Register(r Routes) {
	r.Protected().GET("/roles", m.Handler.List)
}
