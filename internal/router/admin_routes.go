package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/handler"
	"github.com/nmoreau/lastseats/internal/middleware"
)

// RegisterAdmin registers the moderation queue and provider verification.
// Admin accounts are provisioned out of band; every route requires the ADMIN
// role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.GET("/opportunities/pending", a.ListPending)
	g.POST("/opportunities/:id/approve", a.Approve)
	g.POST("/opportunities/:id/reject", a.Reject)
	g.POST("/providers/:id/verify", a.VerifyProvider)
}
