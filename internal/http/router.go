package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/docket-app/docket/internal/auth"
	"github.com/docket-app/docket/internal/config"
	"github.com/docket-app/docket/internal/domain/user"
	"github.com/docket-app/docket/internal/http/handlers"
	"github.com/docket-app/docket/internal/http/middlewares"
	"github.com/docket-app/docket/internal/observability"
	"github.com/docket-app/docket/internal/repo/postgres"
	"github.com/docket-app/docket/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // form-sized payloads only

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, sessionStore session.Store, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.SetDefault(log)

	r := gin.New()

	// metrics registry for this engine
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(otelgin.Middleware("docket-api"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories and services
	usersRepo := postgres.NewUsersRepo(pool, prom)
	tasksRepo := postgres.NewTasksRepo(pool, prom)

	authService := auth.NewService(usersRepo)
	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL())
	sessionGuard := middlewares.NewSessionMiddleware(sessions)

	authHandler := handlers.NewAuthHandler(authService, sessions, prom, cfg)
	tasksHandler := handlers.NewTasksHandler(tasksRepo)
	usersHandler := handlers.NewUsersHandler(usersRepo)

	// credential endpoints are rate limited by IP; task writes per user
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)
	taskLimiter := middlewares.NewRateLimiter(120, time.Minute)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)
		authGroup.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", sessionGuard.RequireSession(), authHandler.Me)
	}

	tasks := r.Group("/tasks", sessionGuard.RequireSession(), taskLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))
	{
		tasks.POST("", tasksHandler.CreateTask)
		tasks.GET("/open", tasksHandler.ListOpen)
		tasks.GET("/closed", tasksHandler.ListClosed)
		tasks.POST("/:id/complete", tasksHandler.CompleteTask)
		tasks.DELETE("/:id", tasksHandler.DeleteTask)
	}

	r.GET("/users", sessionGuard.RequireSession(), sessionGuard.RequireRole(user.RoleAdmin), usersHandler.ListUsers)

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "Route not found")
	})

	return r
}
