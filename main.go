// Package main wires the observation core's components together and
// starts the internal manual-trigger HTTP surface: fetcher, extractor,
// ingestion service, scheduler, and router, assembled from one
// AppConfig the way the teacher's main.go assembles handlers.Config.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/lib/pq"

	"github.com/shelfwatch/observer/fetcher"
	"github.com/shelfwatch/observer/ingestion"
	"github.com/shelfwatch/observer/internal/config"
	"github.com/shelfwatch/observer/internal/router"
	"github.com/shelfwatch/observer/scheduler"
	"github.com/shelfwatch/observer/utils"
)

func main() {
	if err := godotenv.Load(".env.development"); err != nil {
		log.Printf("Warning: assuming default configuration, env unreadable: %v", err)
	}

	logger := utils.InitLogger()

	builder := config.NewConfigBuilder().WithProvider(config.NewEnvironmentProvider())
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		builder = builder.WithDatabase(config.NewPostgresProvider(dbURL))
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		builder = builder.WithRedis(config.NewRedisProvider(redisAddr, os.Getenv("REDIS_USERNAME"), os.Getenv("REDIS_PASSWORD")))
	}

	ctx := context.Background()
	appCfg, err := builder.Build(ctx)
	if err != nil {
		logger.WithError(err).Fatal("main: failed to build configuration")
	}

	f := fetcher.New(logger)
	f.StaticTimeout = time.Duration(appCfg.FetchTimeoutStatic) * time.Second
	f.RenderTimeout = time.Duration(appCfg.RenderTimeout) * time.Second
	f.RenderSettle = time.Duration(appCfg.RenderSettleMillis) * time.Millisecond
	f.HeadlessExecPath = appCfg.HeadlessExecPath
	if appCfg.DynamicScriptRatio > 0 {
		f.Thresholds.ScriptRatio = appCfg.DynamicScriptRatio
	}
	if appCfg.DynamicBodySizeBytes > 0 {
		f.Thresholds.SmallBodyBytes = appCfg.DynamicBodySizeBytes
	}
	if appCfg.RedisClient != nil {
		f.Cache = fetcher.NewCache(utils.NewCacheService(appCfg.RedisClient), 20*time.Second)
	}

	ingestionService := ingestion.NewService(appCfg.DB, appCfg.DBConn, logger)
	coordinator := scheduler.NewCoordinator(appCfg.DB, f, ingestionService, logger)

	sched := scheduler.NewScheduler(appCfg.DB, coordinator, appCfg.CheckIntervalMinutes, logger)
	if appCfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			logger.WithError(err).Fatal("main: failed to start scheduler")
		}
	}

	routerCfg := &router.Config{
		Coordinator: coordinator,
		Products:    &router.DBProductLookup{DB: appCfg.DB},
		Scheduler:   sched,
	}

	srv := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      routerCfg.SetupRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Infof("main: serving internal trigger surface on port %s", appCfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("main: server failed")
		}
	}()

	utils.GracefulShutdown(srv, sched, appCfg, 10*time.Second)
}
