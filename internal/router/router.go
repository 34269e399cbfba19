// Package router wires HTTP routes to handlers and route-group middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/schoolconnect/schoolconnect/internal/config"
	"github.com/schoolconnect/schoolconnect/internal/handler"
	"github.com/schoolconnect/schoolconnect/internal/middleware"
	"github.com/schoolconnect/schoolconnect/internal/model"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	School       *handler.SchoolHandler
	Scholarship  *handler.ScholarshipHandler
	Fee          *handler.FeeHandler
	Notice       *handler.NoticeHandler
	NoticeStream *handler.NoticeStreamHandler
	Dashboard    *handler.DashboardHandler
	Assistant    *handler.AssistantHandler
}

// Register mounts the full route tree.
//
// Three access tiers, enforced by middleware at the group level:
//   - public: health, auth, and the school-code directory lookup;
//   - member: any authenticated user (admin or student) — reads, profile,
//     dashboard, assistant, live feed;
//   - admin: tenant management and every resource write.
//
// Route-level role gates are coarse; each handler still runs the per-row
// tenancy check, so a forged role claim buys nothing past this point.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/healthz", handler.Health)

	// Session endpoints. Register and login issue the token pair; refresh
	// rotates it; logout revokes.
	authGroup := e.Group("/v1/auth", rateLimit)
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/refresh-access", h.Auth.RefreshAccess)
	authGroup.POST("/logout", h.Auth.Logout)

	// Public directory: code lookup needs no session so prospective
	// students can validate a code before registering. Cached — the row
	// is immutable except for renames.
	e.GET("/v1/schools/:code", h.School.GetByCode, rateLimit, cache)

	// Everything below requires a valid access token.
	member := e.Group("/v1", rateLimit, middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(string(model.RoleAdmin), string(model.RoleStudent)))

	member.GET("/me", h.Auth.Me)
	member.PATCH("/me", h.Auth.UpdateMe)
	member.GET("/scholarships", h.Scholarship.List)
	member.GET("/fees", h.Fee.List)
	member.GET("/notices", h.Notice.List)
	member.GET("/notices/stream", h.NoticeStream.Stream)
	member.GET("/dashboard", h.Dashboard.Get)
	member.POST("/assistant", h.Assistant.Ask)

	// Joining is a student-only move; admins get a school by creating one.
	student := e.Group("/v1", rateLimit, middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(string(model.RoleStudent)))
	student.POST("/join", h.School.Join)

	// Tenant management and resource writes.
	admin := e.Group("/v1", rateLimit, middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(string(model.RoleAdmin)))

	admin.POST("/schools", h.School.Create)
	admin.PUT("/schools/:id", h.School.Update)
	admin.PATCH("/schools/:id", h.School.Update)

	admin.POST("/scholarships", h.Scholarship.Create)
	admin.PUT("/scholarships/:id", h.Scholarship.Update)
	admin.PATCH("/scholarships/:id", h.Scholarship.Update)
	admin.DELETE("/scholarships/:id", h.Scholarship.Delete)

	admin.POST("/fees", h.Fee.Create)
	admin.PUT("/fees/:id", h.Fee.Update)
	admin.PATCH("/fees/:id", h.Fee.Update)
	admin.DELETE("/fees/:id", h.Fee.Delete)

	admin.POST("/notices", h.Notice.Create)
	admin.PUT("/notices/:id", h.Notice.Update)
	admin.PATCH("/notices/:id", h.Notice.Update)
	admin.DELETE("/notices/:id", h.Notice.Delete)
}
