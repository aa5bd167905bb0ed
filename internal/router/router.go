// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/avetra/workstation-allocation/internal/config"
	"github.com/avetra/workstation-allocation/internal/handler"
	"github.com/avetra/workstation-allocation/internal/middleware"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Browse   *handler.BrowseHandler
	Requests *handler.RequestHandler
	Grid     *handler.GridHandler
	Session  *handler.SessionHandler
}

// Register mounts all routes on the Echo instance.
//
// Layout:
//
//	/healthz                          liveness, unauthenticated
//	/v1/auth/login                    credential exchange
//	/v1/...                           everything else, JWT + role protected
//
// The browse listings sit behind the Redis response cache because
// offices, floors and labs change rarely.  Seat grids and session
// state change with every click and are never cached.  The token
// bucket limiter covers the whole authenticated surface.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.POST("/v1/auth/login", h.Auth.Login)

	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.RequireRole("ADMIN", "PLANNER"))
	api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	browse := api.Group("")
	browse.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	browse.GET("/offices", h.Browse.ListOffices)
	browse.GET("/offices/:id/floors", h.Browse.ListFloors)
	browse.GET("/floors/:id/labs", h.Browse.ListLabs)
	browse.GET("/divisions", h.Browse.ListDivisions)

	admin := api.Group("")
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/users", h.Auth.CreateUser)

	api.GET("/labs/:id/grid", h.Grid.Grid)

	api.POST("/requests", h.Requests.Create)
	api.GET("/requests", h.Requests.List)
	api.GET("/requests/:id", h.Requests.Get)

	api.GET("/requests/:id/session", h.Session.Summary)
	api.POST("/requests/:id/session/select", h.Session.Select)
	api.POST("/requests/:id/session/batch-select", h.Session.BatchSelect)
	api.POST("/requests/:id/session/filter", h.Session.Filter)
	api.POST("/requests/:id/session/save", h.Session.Save)
	api.POST("/requests/:id/session/edit", h.Session.Edit)
	api.POST("/requests/:id/session/cancel", h.Session.Cancel)
	api.POST("/requests/:id/session/finalize", h.Session.Finalize)
	api.DELETE("/requests/:id/session/allocations/:labID", h.Session.Delete)
}
