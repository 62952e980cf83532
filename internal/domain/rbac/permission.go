// Package rbac holds the static authorization tables: which permissions each
// role carries and which permission each API route requires.
package rbac

import (
	"strings"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

// Permission names an allowed action on a resource, e.g. "sales:create".
type Permission string

const (
	UsersRead   Permission = "users:read"
	UsersCreate Permission = "users:create"
	UsersUpdate Permission = "users:update"
	UsersDelete Permission = "users:delete"

	ProductsRead   Permission = "products:read"
	ProductsCreate Permission = "products:create"
	ProductsUpdate Permission = "products:update"
	ProductsDelete Permission = "products:delete"

	WarehousesRead   Permission = "warehouses:read"
	WarehousesCreate Permission = "warehouses:create"
	WarehousesUpdate Permission = "warehouses:update"
	WarehousesDelete Permission = "warehouses:delete"

	SalesRead   Permission = "sales:read"
	SalesCreate Permission = "sales:create"
	SalesUpdate Permission = "sales:update"
	SalesDelete Permission = "sales:delete"

	PurchasesRead   Permission = "purchases:read"
	PurchasesCreate Permission = "purchases:create"
	PurchasesUpdate Permission = "purchases:update"
	PurchasesDelete Permission = "purchases:delete"

	InvoicesRead   Permission = "invoices:read"
	InvoicesCreate Permission = "invoices:create"
	InvoicesUpdate Permission = "invoices:update"
	InvoicesDelete Permission = "invoices:delete"

	TrucksRead   Permission = "trucks:read"
	TrucksCreate Permission = "trucks:create"
	TrucksUpdate Permission = "trucks:update"
	TrucksDelete Permission = "trucks:delete"

	StockRead   Permission = "stock:read"
	StockCreate Permission = "stock:create"
	StockUpdate Permission = "stock:update"
	StockDelete Permission = "stock:delete"

	ReportsRead   Permission = "reports:read"
	DashboardRead Permission = "dashboard:read"
)

// rolePermissionPrefix marks the implicit per-role capability used by role-only checks.
const rolePermissionPrefix = "role:"

// AllPermissions is every grantable permission in display order.
var AllPermissions = []Permission{
	UsersRead, UsersCreate, UsersUpdate, UsersDelete,
	ProductsRead, ProductsCreate, ProductsUpdate, ProductsDelete,
	WarehousesRead, WarehousesCreate, WarehousesUpdate, WarehousesDelete,
	SalesRead, SalesCreate, SalesUpdate, SalesDelete,
	PurchasesRead, PurchasesCreate, PurchasesUpdate, PurchasesDelete,
	InvoicesRead, InvoicesCreate, InvoicesUpdate, InvoicesDelete,
	TrucksRead, TrucksCreate, TrucksUpdate, TrucksDelete,
	StockRead, StockCreate, StockUpdate, StockDelete,
	ReportsRead, DashboardRead,
}

var resourceNames = map[string]string{
	"users":      "user accounts",
	"products":   "products",
	"warehouses": "warehouses",
	"sales":      "sales orders",
	"purchases":  "purchase orders",
	"invoices":   "invoices",
	"trucks":     "truck gate log",
	"stock":      "stock movements",
	"reports":    "reports",
	"dashboard":  "dashboard statistics",
}

var actionVerbs = map[string]string{
	"read":   "View",
	"create": "Create",
	"update": "Edit",
	"delete": "Remove",
}

// RolePermission is the capability every member of role implicitly holds.
func RolePermission(role entity.Role) Permission {
	return Permission(rolePermissionPrefix + string(role))
}

func (p Permission) Resource() string {
	r, _, _ := strings.Cut(string(p), ":")
	return r
}

func (p Permission) Action() string {
	_, a, _ := strings.Cut(string(p), ":")
	return a
}

// Describe returns a human readable sentence for p.
func (p Permission) Describe() string {
	if strings.HasPrefix(string(p), rolePermissionPrefix) {
		return "Member of role " + strings.TrimPrefix(string(p), rolePermissionPrefix)
	}
	verb, ok := actionVerbs[p.Action()]
	if !ok {
		return string(p)
	}
	noun, ok := resourceNames[p.Resource()]
	if !ok {
		noun = p.Resource()
	}
	return verb + " " + noun
}

func isKnown(p Permission) bool {
	for _, k := range AllPermissions {
		if k == p {
			return true
		}
	}
	return false
}
