package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nmoreau/lastseats/internal/handler"
	"github.com/nmoreau/lastseats/internal/middleware"
)

// RegisterSeeker registers the seeker's read side and the reservation
// endpoints.  The feed is the hottest read in the system, so it takes the
// Redis response cache when one is configured; the cache key folds in the
// user ID because every seeker sees a different feed.
func RegisterSeeker(e *echo.Echo, s *handler.SeekerHandler, r *handler.ReservationHandler,
	jwtSecret string, limit, cache echo.MiddlewareFunc) {

	g := e.Group("/v1/seeker")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("SEEKER"))

	if cache != nil {
		g.GET("/feed", s.Feed, cache)
	} else {
		g.GET("/feed", s.Feed)
	}
	g.GET("/opportunities/:id", s.GetOpportunity)

	g.GET("/preferences", s.GetPreferences)
	g.PUT("/preferences", s.PutPreferences)

	g.GET("/blocked", s.ListBlocked)
	g.POST("/blocked/:providerID", s.Block)
	g.DELETE("/blocked/:providerID", s.Unblock)

	write := []echo.MiddlewareFunc{}
	if limit != nil {
		write = append(write, limit)
	}
	res := e.Group("/v1/opportunities")
	res.Use(middleware.JWTAuth(jwtSecret))
	res.Use(middleware.RequireRole("SEEKER"))
	res.POST("/:id/reserve", r.Reserve, write...)
	res.POST("/:id/release", r.Release, write...)
}
