package rbac

import (
	"net/http"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

// RoleDescriptions is shown by the roles endpoint.
var RoleDescriptions = map[entity.Role]string{
	entity.RoleAdmin:      "Full access, including user and role management",
	entity.RoleDirector:   "Read access to every module; approves sales and purchases",
	entity.RoleAccountant: "Manages sales, purchases and invoices; reads stock and reports",
	entity.RoleGatekeeper: "Records trucks at the gate and stock arrivals; sees only own records",
}

func readAll() []Permission {
	var out []Permission
	for _, p := range AllPermissions {
		if p.Action() == "read" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultRoles is the role -> permission table of the ERP.
func DefaultRoles() map[entity.Role][]Permission {
	director := append(readAll(), SalesUpdate, PurchasesUpdate)
	return map[entity.Role][]Permission{
		entity.RoleAdmin:    append([]Permission(nil), AllPermissions...),
		entity.RoleDirector: director,
		entity.RoleAccountant: {
			SalesRead, SalesCreate, SalesUpdate, SalesDelete,
			PurchasesRead, PurchasesCreate, PurchasesUpdate, PurchasesDelete,
			InvoicesRead, InvoicesCreate, InvoicesUpdate, InvoicesDelete,
			ProductsRead, WarehousesRead, StockRead,
			ReportsRead, DashboardRead,
		},
		entity.RoleGatekeeper: {
			TrucksRead, TrucksCreate, TrucksUpdate,
			StockRead, StockCreate,
			ProductsRead, WarehousesRead,
			DashboardRead,
		},
	}
}

func crud(routes map[RouteKey]Permission, path string, read, create, update, del Permission) {
	routes[Route(http.MethodGet, path)] = read
	routes[Route(http.MethodGet, path+"/:id")] = read
	routes[Route(http.MethodPost, path)] = create
	routes[Route(http.MethodPut, path+"/:id")] = update
	routes[Route(http.MethodDelete, path+"/:id")] = del
}

// DefaultRoutes maps every protected ERP route to the permission it requires.
func DefaultRoutes() map[RouteKey]Permission {
	r := map[RouteKey]Permission{
		Route(http.MethodGet, "/api/users"):              UsersRead,
		Route(http.MethodGet, "/api/users/search"):       UsersRead,
		Route(http.MethodGet, "/api/users/:id"):          UsersRead,
		Route(http.MethodPost, "/api/users"):             UsersCreate,
		Route(http.MethodPatch, "/api/users/:id/role"):   UsersUpdate,
		Route(http.MethodPatch, "/api/users/:id/active"): UsersDelete,

		Route(http.MethodGet, "/api/reports/sales"):     ReportsRead,
		Route(http.MethodGet, "/api/reports/purchases"): ReportsRead,
		Route(http.MethodGet, "/api/reports/stock"):     ReportsRead,
		Route(http.MethodGet, "/api/dashboard/stats"):   DashboardRead,
	}
	crud(r, "/api/products", ProductsRead, ProductsCreate, ProductsUpdate, ProductsDelete)
	crud(r, "/api/warehouses", WarehousesRead, WarehousesCreate, WarehousesUpdate, WarehousesDelete)
	crud(r, "/api/sales", SalesRead, SalesCreate, SalesUpdate, SalesDelete)
	crud(r, "/api/purchases", PurchasesRead, PurchasesCreate, PurchasesUpdate, PurchasesDelete)
	crud(r, "/api/invoices", InvoicesRead, InvoicesCreate, InvoicesUpdate, InvoicesDelete)
	crud(r, "/api/trucks", TrucksRead, TrucksCreate, TrucksUpdate, TrucksDelete)
	crud(r, "/api/stock-movements", StockRead, StockCreate, StockUpdate, StockDelete)
	return r
}

// DefaultOpenRoutes are reachable by any authenticated role.
func DefaultOpenRoutes() []RouteKey {
	return []RouteKey{
		Route(http.MethodGet, "/api/auth/me"),
		Route(http.MethodPost, "/api/auth/logout"),
		Route(http.MethodGet, "/api/roles"),
		Route(http.MethodPut, "/api/profile"),
		Route(http.MethodPost, "/api/profile/avatar"),
	}
}

// DefaultPolicy builds the ERP policy. denyUnmapped selects the unmapped-route default.
func DefaultPolicy(denyUnmapped bool) *Policy {
	return MustPolicy(Tables{
		Roles:        DefaultRoles(),
		Routes:       DefaultRoutes(),
		Open:         DefaultOpenRoutes(),
		DenyUnmapped: denyUnmapped,
	})
}
