package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/handler"
	"github.com/nmoreau/lastseats/internal/middleware"
)

// RegisterProvider registers the provider's opportunity management routes.
// Every route requires a PROVIDER access token; writes additionally pass
// through the rate limiter when one is configured.
func RegisterProvider(e *echo.Echo, p *handler.ProviderHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/provider")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("PROVIDER"))

	g.GET("/opportunities", p.List)
	g.GET("/opportunities/:id", p.Get)

	write := []echo.MiddlewareFunc{}
	if limit != nil {
		write = append(write, limit)
	}
	g.POST("/opportunities", p.Submit, write...)
	g.PUT("/opportunities/:id", p.Update, write...)
	g.POST("/opportunities/:id/resubmit", p.Resubmit, write...)
	g.DELETE("/opportunities/:id", p.Delete, write...)
}
