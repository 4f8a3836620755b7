// Package router wires the HTTP handlers onto echo route groups together
// with the middleware each group needs.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-booking-client/internal/config"
	"github.com/iliyamo/movie-booking-client/internal/handler"
	"github.com/iliyamo/movie-booking-client/internal/middleware"
)

// RegisterRoutes registers routes that need no visitor token.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers visitor token issuance and the remote login.
// Login and logout act on the calling visitor, so they sit behind
// VisitorAuth; registration does not.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, secret string) {
	e.POST("/v1/visitors", a.NewVisitor)
	e.POST("/v1/auth/register", a.Register)

	g := e.Group("/v1/auth", middleware.VisitorAuth(secret))
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
}

// RegisterCatalog registers the read-only listings.  Responses are cached in
// Redis when rdb is non-nil and caching is enabled.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cfg config.CacheConfig, rdb redis.Cmdable) {
	g := e.Group("/v1", middleware.CatalogCache(cfg, rdb))
	g.GET("/movies", h.Movies)
	g.GET("/movies/:id", h.Movie)
	g.GET("/movies/:id/showtimes", h.Showtimes)
	g.GET("/banners", h.Banners)
	g.GET("/cinemas", h.CinemaSystems)
	g.GET("/cinemas/:system/complexes", h.Complexes)
}

// RegisterSession registers the seat reservation session.  Guests and
// members may both use it; booking itself checks the remote login.
func RegisterSession(e *echo.Echo, h *handler.SessionHandler, secret string, rl config.RateLimitConfig, rdb redis.Scripter) {
	g := e.Group(
		"/v1",
		middleware.VisitorAuth(secret),
		middleware.SessionRateLimit(rl, rdb),
	)
	g.POST("/showtimes/:id/session", h.Enter)
	g.GET("/session", h.Show)
	g.POST("/session/seats/:seatId/toggle", h.Toggle)
	g.DELETE("/session/selection", h.ClearSelection)
	g.POST("/session/book", h.Book)
	g.DELETE("/session", h.Leave)
}

// RegisterProfile registers the member pages.  They require the MEMBER role.
func RegisterProfile(e *echo.Echo, h *handler.ProfileHandler, secret string) {
	g := e.Group(
		"/v1",
		middleware.VisitorAuth(secret),
		middleware.RequireRole("MEMBER"),
	)
	g.GET("/profile", h.Show)
	g.PUT("/profile", h.Update)
	g.GET("/bookings", h.Bookings)
}
