package router

import "github.com/oksasatya/factory-erp/internal/router/modules"

// Module describes a feature module that registers its routes on the Registry.
type Module interface {
	Register(r modules.Routes)
}
