package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docket-app/docket/internal/config"
	"github.com/docket-app/docket/internal/db"
	httpx "github.com/docket-app/docket/internal/http"
	"github.com/docket-app/docket/internal/observability"
	"github.com/docket-app/docket/internal/session"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// prod never runs on the dev fallback secret
	if cfg.Env == "prod" && cfg.SessionSecret == "" {
		log.Error("SESSION_SECRET is required in prod")
		os.Exit(1)
	}

	// tracing is optional; without an endpoint we skip the exporter
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "docket-api", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	// create missing tables, then seed the admin account if configured
	seedCtx, seedCancel := config.WithTimeout(10 * time.Second)

	err = db.EnsureSchema(seedCtx, pool)

	if err == nil {
		err = db.EnsureAdminUser(seedCtx, pool, cfg)
	}

	seedCancel()

	if err != nil {
		log.Error("db bootstrap failed", "err", err)
		os.Exit(1)
	}

	// sessions live in redis; a dev box without one falls back to process
	// memory (sessions then die with the process)
	var sessionStore session.Store

	redisStore := session.NewRedisStore(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, pingCancel := config.WithTimeout(2 * time.Second)

	err = redisStore.Ping(pingCtx)

	pingCancel()

	if err != nil {
		if cfg.Env == "prod" {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}

		log.Warn("redis unreachable, using in-memory sessions", "err", err)
		sessionStore = session.NewMemStore(cfg.SessionTTL())
	} else {
		defer redisStore.Close()
		sessionStore = redisStore
	}

	router := httpx.NewRouter(log, pool, sessionStore, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
