// Package access declares which capability every storefront route requires.
// The table is shared by the HTTP router and by the client-side guard so the
// two cannot drift apart.
package access

import (
	"net/http"
	"strings"
)

// Capability is the minimum caller privilege a route accepts.
type Capability string

const (
	Public        Capability = "public"
	Authenticated Capability = "authenticated"
	Admin         Capability = "admin"
)

const roleAdmin = "admin"

// Allowed reports whether a caller with the given role may use a route
// requiring c. authenticated is false for anonymous callers, whose role is ignored.
func (c Capability) Allowed(role string, authenticated bool) bool {
	switch c {
	case Public:
		return true
	case Authenticated:
		return authenticated
	case Admin:
		return authenticated && role == roleAdmin
	default:
		return false
	}
}

// Route binds one method and echo-style path to its capability.
type Route struct {
	Name       string
	Method     string
	Path       string
	Capability Capability
}

// Route names, used by the router to look up handlers.
const (
	AuthLogin      = "auth.login"
	AuthRegister   = "auth.register"
	AuthVerify     = "auth.verify"
	CatalogList    = "servicios.list"
	CatalogListAll = "servicios.listAll"
	CatalogGet     = "servicios.get"
	CatalogCreate  = "servicios.create"
	CatalogUpdate  = "servicios.update"
	CatalogDelete  = "servicios.delete"
	AccountList    = "usuarios.list"
	AccountGet     = "usuarios.get"
	AccountCreate  = "usuarios.create"
	AccountUpdate  = "usuarios.update"
	AccountDelete  = "usuarios.delete"
	Health         = "health"
)

// Routes is the full API surface under /api.
var Routes = []Route{
	{Name: AuthLogin, Method: http.MethodPost, Path: "/api/auth/login", Capability: Public},
	{Name: AuthRegister, Method: http.MethodPost, Path: "/api/auth/register", Capability: Public},
	{Name: AuthVerify, Method: http.MethodGet, Path: "/api/auth/verify", Capability: Authenticated},

	{Name: CatalogList, Method: http.MethodGet, Path: "/api/servicios", Capability: Public},
	{Name: CatalogListAll, Method: http.MethodGet, Path: "/api/servicios/admin/all", Capability: Admin},
	{Name: CatalogGet, Method: http.MethodGet, Path: "/api/servicios/:id", Capability: Public},
	{Name: CatalogCreate, Method: http.MethodPost, Path: "/api/servicios", Capability: Admin},
	{Name: CatalogUpdate, Method: http.MethodPut, Path: "/api/servicios/:id", Capability: Admin},
	{Name: CatalogDelete, Method: http.MethodDelete, Path: "/api/servicios/:id", Capability: Admin},

	{Name: AccountList, Method: http.MethodGet, Path: "/api/usuarios", Capability: Authenticated},
	{Name: AccountGet, Method: http.MethodGet, Path: "/api/usuarios/:id", Capability: Authenticated},
	{Name: AccountCreate, Method: http.MethodPost, Path: "/api/usuarios", Capability: Admin},
	{Name: AccountUpdate, Method: http.MethodPut, Path: "/api/usuarios/:id", Capability: Admin},
	{Name: AccountDelete, Method: http.MethodDelete, Path: "/api/usuarios/:id", Capability: Admin},

	{Name: Health, Method: http.MethodGet, Path: "/api/health", Capability: Public},
}

// Lookup finds the route matching method and a concrete request path such
// as "/api/servicios/12". Static segments win over ":param" segments.
func Lookup(method, path string) (Route, bool) {
	var (
		best      Route
		bestScore = -1
	)

	for _, route := range Routes {
		if route.Method != method {
			continue
		}

		score, ok := match(route.Path, path)
		if ok && score > bestScore {
			best, bestScore = route, score
		}
	}

	return best, bestScore >= 0
}

// CapabilityFor returns the capability of the route matching method and path.
// Unknown routes require Admin so a missing entry never widens access.
func CapabilityFor(method, path string) Capability {
	if route, ok := Lookup(method, path); ok {
		return route.Capability
	}

	return Admin
}

// ByName returns the route registered under name.
func ByName(name string) (Route, bool) {
	for _, route := range Routes {
		if route.Name == name {
			return route, true
		}
	}

	return Route{}, false
}

// match compares a pattern and a path segment by segment and scores the
// number of static segments that matched.
func match(pattern, path string) (int, bool) {
	patternSegs := splitPath(pattern)
	pathSegs := splitPath(path)
	if len(patternSegs) != len(pathSegs) {
		return 0, false
	}

	score := 0
	for i, seg := range patternSegs {
		if len(seg) > 0 && seg[0] == ':' {
			if pathSegs[i] == "" {
				return 0, false
			}

			continue
		}
		if seg != pathSegs[i] {
			return 0, false
		}
		score++
	}

	return score, true
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}
