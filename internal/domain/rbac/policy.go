package rbac

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

// RouteKey identifies a route by HTTP method and gin path pattern, e.g. GET /api/users/:id.
type RouteKey struct {
	Method string
	Path   string
}

func (k RouteKey) String() string { return k.Method + " " + k.Path }

func Route(method, path string) RouteKey {
	return RouteKey{Method: strings.ToUpper(method), Path: path}
}

// Decision is the outcome of Authorize. Required is empty for unmapped or open routes.
type Decision struct {
	Allowed  bool
	Mapped   bool
	Required Permission
	Role     entity.Role
}

// Policy is the immutable authorization table. Build it once at startup and
// share the pointer; no method mutates it.
type Policy struct {
	roles  map[entity.Role]map[Permission]struct{}
	routes map[RouteKey]Permission
	open   map[RouteKey]struct{}

	// denyUnmapped turns the unmapped-route default from allow to deny.
	denyUnmapped bool
}

// Tables is the raw input of a Policy.
type Tables struct {
	Roles  map[entity.Role][]Permission
	Routes map[RouteKey]Permission
	// Open lists routes any authenticated caller may reach; they count as mapped.
	Open         []RouteKey
	DenyUnmapped bool
}

// NewPolicy validates and copies t.
func NewPolicy(t Tables) (*Policy, error) {
	p := &Policy{
		roles:        make(map[entity.Role]map[Permission]struct{}, len(t.Roles)),
		routes:       make(map[RouteKey]Permission, len(t.Routes)),
		open:         make(map[RouteKey]struct{}, len(t.Open)),
		denyUnmapped: t.DenyUnmapped,
	}
	for role, perms := range t.Roles {
		if !role.Valid() {
			return nil, fmt.Errorf("rbac: unknown role %q", role)
		}
		set := make(map[Permission]struct{}, len(perms)+1)
		for _, perm := range perms {
			if !isKnown(perm) {
				return nil, fmt.Errorf("rbac: role %s grants unknown permission %q", role, perm)
			}
			set[perm] = struct{}{}
		}
		set[RolePermission(role)] = struct{}{}
		p.roles[role] = set
	}
	for key, perm := range t.Routes {
		if !isKnown(perm) {
			return nil, fmt.Errorf("rbac: route %s requires unknown permission %q", key, perm)
		}
		p.routes[Route(key.Method, key.Path)] = perm
	}
	for _, key := range t.Open {
		key = Route(key.Method, key.Path)
		if _, dup := p.routes[key]; dup {
			return nil, fmt.Errorf("rbac: route %s is both open and permission-mapped", key)
		}
		p.open[key] = struct{}{}
	}
	return p, nil
}

// MustPolicy is NewPolicy that panics; for static tables known at compile time.
func MustPolicy(t Tables) *Policy {
	p, err := NewPolicy(t)
	if err != nil {
		panic(err)
	}
	return p
}

// Allows reports whether role holds perm.
func (p *Policy) Allows(role entity.Role, perm Permission) bool {
	set, ok := p.roles[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// AllowsAny reports whether role holds at least one of perms.
func (p *Policy) AllowsAny(role entity.Role, perms ...Permission) bool {
	for _, perm := range perms {
		if p.Allows(role, perm) {
			return true
		}
	}
	return false
}

// Required returns the permission mapped to a route.
func (p *Policy) Required(method, path string) (Permission, bool) {
	perm, ok := p.routes[Route(method, path)]
	return perm, ok
}

// Authorize decides whether role may call method on the route pattern path.
// Routes without a mapping are allowed unless the policy denies unmapped routes.
func (p *Policy) Authorize(role entity.Role, method, path string) Decision {
	key := Route(method, path)
	d := Decision{Role: role}
	if perm, ok := p.routes[key]; ok {
		d.Mapped = true
		d.Required = perm
		d.Allowed = p.Allows(role, perm)
		return d
	}
	if _, ok := p.open[key]; ok {
		d.Mapped = true
		d.Allowed = role.Valid()
		return d
	}
	d.Allowed = !p.denyUnmapped && role.Valid()
	return d
}

// DeniesUnmapped reports the unmapped-route default.
func (p *Policy) DeniesUnmapped() bool { return p.denyUnmapped }

// Permissions returns the grantable permissions of role, sorted.
func (p *Policy) Permissions(role entity.Role) []Permission {
	out := make([]Permission, 0, len(p.roles[role]))
	for perm := range p.roles[role] {
		if strings.HasPrefix(string(perm), rolePermissionPrefix) {
			continue
		}
		out = append(out, perm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Unmapped returns the routes in keys with neither a permission nor an open entry.
func (p *Policy) Unmapped(keys []RouteKey) []RouteKey {
	var out []RouteKey
	for _, k := range keys {
		k = Route(k.Method, k.Path)
		if k.Method == http.MethodOptions || k.Method == http.MethodHead {
			continue
		}
		if _, ok := p.routes[k]; ok {
			continue
		}
		if _, ok := p.open[k]; ok {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
