package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/config"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/redisclient"
	"pet-adoption/internal/router"
)

// @title       Pet Adoption API
// @version     1.0
// @description Animales en custodia de refugios de Gyeonggi, favoritos, comunidad y perfiles.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in          header
// @name        Authorization
func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		fmt.Println(config.Usage())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := openDB(ctx, cfg, log)
	if db != nil {
		defer db.Close()
	}
	rdb := openRedis(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}

	r := router.NewRouter(router.Options{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  rdb,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "dev_auth": cfg.HTTP.DevAuth})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("server error", map[string]any{"err": err})
		return
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"err": err})
	}
}

// openDB: sin DB_DSN o si falla, el router sigue con tablas en memoria.
func openDB(ctx context.Context, cfg config.Config, log logger.Logger) *sql.DB {
	if cfg.DB.DSN == "" || cfg.BaaS.Enabled() {
		return nil
	}
	db, err := pg.OpenAndMigrate(ctx, cfg.DB.DSN)
	if err != nil {
		log.Warn("postgres unavailable, using memory tables", map[string]any{"err": err})
		return nil
	}
	return db
}

func openRedis(ctx context.Context, cfg config.Config, log logger.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb, err := redisclient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Warn("redis unavailable, running without cache", map[string]any{"err": err})
		return nil
	}
	return rdb
}
