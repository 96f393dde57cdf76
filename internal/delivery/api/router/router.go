// Package router registers the storefront API on echo from the shared
// route-capability table.
package router

import (
	"fmt"
	"strings"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/pkg/access"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// APIPrefix is the group every table route is registered under.
const APIPrefix = "/api"

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	CatalogHandler *handler.CatalogHandler
	HealthHandler  *handler.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router maps route names from access.Routes to handlers.
type router struct {
	handlers       map[string]echo.HandlerFunc
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		handlers: map[string]echo.HandlerFunc{
			access.AuthLogin:    params.AuthHandler.Login,
			access.AuthRegister: params.AuthHandler.Register,
			access.AuthVerify:   params.AuthHandler.Verify,

			access.CatalogList:    params.CatalogHandler.List,
			access.CatalogListAll: params.CatalogHandler.ListAll,
			access.CatalogGet:     params.CatalogHandler.Get,
			access.CatalogCreate:  params.CatalogHandler.Create,
			access.CatalogUpdate:  params.CatalogHandler.Update,
			access.CatalogDelete:  params.CatalogHandler.Delete,

			access.AccountList:   params.AccountHandler.List,
			access.AccountGet:    params.AccountHandler.Get,
			access.AccountCreate: params.AccountHandler.Create,
			access.AccountUpdate: params.AccountHandler.Update,
			access.AccountDelete: params.AccountHandler.Delete,

			access.Health: params.HealthHandler.Check,
		},
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes adds every route of access.Routes to the /api group. Routes
// that are not public get Authenticate followed by the capability check.
// It panics when a table entry has no handler, which surfaces at startup.
func (r *router) RegisterRoutes(api *echo.Group) {
	for _, route := range access.Routes {
		h, ok := r.handlers[route.Name]
		if !ok {
			panic(fmt.Sprintf("router: no handler for route %q", route.Name))
		}

		var mws []echo.MiddlewareFunc
		if route.Capability != access.Public {
			mws = append(mws,
				r.authMiddleware.Authenticate,
				r.authMiddleware.RequireCapability(route.Capability),
			)
		}

		api.Add(route.Method, strings.TrimPrefix(route.Path, APIPrefix), h, mws...).Name = route.Name
	}
}
