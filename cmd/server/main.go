package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/eseegm97/cse340-site-development/internal/config"
	"github.com/eseegm97/cse340-site-development/internal/database"
	"github.com/eseegm97/cse340-site-development/internal/handler"
	mw "github.com/eseegm97/cse340-site-development/internal/middleware"
	"github.com/eseegm97/cse340-site-development/internal/queue"
	"github.com/eseegm97/cse340-site-development/internal/repository"
	"github.com/eseegm97/cse340-site-development/internal/router"
	queue_publisher "github.com/eseegm97/cse340-site-development/internal/service"
)

func main() {
	// .env is optional; in deployed environments the variables come from
	// the process environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	accounts := repository.NewAccountRepo(db)
	classifications := repository.NewClassificationRepo(db)
	inventory := repository.NewInventoryRepo(db)
	reviews := repository.NewReviewRepo(db)

	accountH := handler.NewAccountHandler(cfg, accounts, reviews)
	inventoryH := handler.NewInventoryHandler(classifications, inventory, reviews, queue_publisher.PublishAudit)
	reviewH := handler.NewReviewHandler(reviews, queue_publisher.PublishAudit)

	e := echo.New()
	e.HideBanner = true
	e.Use(mw.Session(cfg.JWTSecret, !cfg.IsDev()))

	// Redis backs the browse-page response cache and the credential rate
	// limiter. Both degrade to pass-through when Redis is unreachable.
	var browseCache, credentialLimit []echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
			browseCache = append(browseCache, mw.NewResponseCache(cacheCfg, rdb))
		}
		if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled {
			credentialLimit = append(credentialLimit, mw.NewTokenBucket(rlCfg, rdb))
		}
	}

	router.RegisterRoutes(e)
	router.RegisterAccount(e, accountH, credentialLimit...)
	router.RegisterInventory(e, inventoryH, browseCache...)
	router.RegisterReviews(e, reviewH)

	// The audit consumer drains the queue into the local audit log. It
	// reconnects on its own; a missing broker only costs the audit trail.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
