package modules

import (
	handlers "github.com/oksasatya/factory-erp/internal/interface/http"
	"github.com/oksasatya/factory-erp/internal/interface/middleware"
)

// TruckModule serves the gate log. Gatekeepers only ever list their own entries.
type TruckModule struct {
	Handler *handlers.TruckHandler
}

func NewTruckModule(h *handlers.TruckHandler) *TruckModule {
	return &TruckModule{Handler: h}
}

func (m *TruckModule) Register(r Routes) {
	r.Protected().GET("/trucks", middleware.Ownership("user_id"), m.Handler.List)
	r.Protected().POST("/trucks", m.Handler.Record)
}
