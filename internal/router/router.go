// Package router wires handlers, auth middleware, rate limiting and response
// caching onto the Echo instance.  Routes are grouped by actor: /v1/auth for
// sessions, /v1/provider for the listing side, /v1/seeker plus the
// reservation endpoints for the consumer side, /v1/admin for moderation.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/handler"
	"github.com/nmoreau/lastseats/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session lifecycle.  Register, login and the two
// refresh variants are open; /v1/me requires a valid access token.  Logout
// accepts either a refresh token in the body or a bearer token, so it stays
// outside the protected group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
