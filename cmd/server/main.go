// Command server runs the opportunity marketplace API.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nmoreau/lastseats/internal/config"
	"github.com/nmoreau/lastseats/internal/database"
	"github.com/nmoreau/lastseats/internal/handler"
	"github.com/nmoreau/lastseats/internal/middleware"
	"github.com/nmoreau/lastseats/internal/queue"
	"github.com/nmoreau/lastseats/internal/repository"
	"github.com/nmoreau/lastseats/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional infrastructure: without it the rate limiter fails
	// open and responses are simply not cached.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	opportunities := repository.NewOpportunityRepo(db)
	preferences := repository.NewPreferenceRepo(db)
	blocks := repository.NewBlockRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	providerH := handler.NewProviderHandler(opportunities, users)
	adminH := handler.NewAdminHandler(opportunities, users)
	seekerH := handler.NewSeekerHandler(opportunities, preferences, blocks, users)
	reservationH := handler.NewReservationHandler(opportunities)

	var limit, cache echo.MiddlewareFunc
	if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled {
		limit = middleware.NewTokenBucket(rlCfg, rdb)
	}
	if cCfg := config.LoadCacheConfig(); cCfg.Enabled && rdb != nil {
		cache = middleware.NewRedisCache(cCfg, rdb)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limit)
	router.RegisterProvider(e, providerH, cfg.JWTSecret, limit)
	router.RegisterSeeker(e, seekerH, reservationH, cfg.JWTSecret, limit, cache)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// The notification consumer drains the moderation and sold-out queues in
	// the background and reconnects on broker failure.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
