package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"herald.app/relay/common/id"
	"herald.app/relay/common/logger"
	"herald.app/relay/common/otel"
	"herald.app/relay/core/config"
	"herald.app/relay/core/db"
	"herald.app/relay/core/db/sqlc"
	"herald.app/relay/internal/discord"
	"herald.app/relay/internal/gateway"
	"herald.app/relay/internal/http/middleware"
	httprouter "herald.app/relay/internal/http/router"
	"herald.app/relay/internal/obs"
	"herald.app/relay/internal/service"
	"herald.app/relay/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "herald starting", "env", cfg.Env, "service", cfg.OTel.ServiceName, "roles", cfg.Roles.Len())
	for _, key := range cfg.Roles.Rejected {
		slog.WarnContext(ctx, "ignoring role with invalid id", "key", key)
	}

	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	obs.Init()

	var queries *sqlc.Queries
	if cfg.DB.Enabled() {
		database, err := db.New(ctx, cfg.DB)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to apply schema", "error", err)
			os.Exit(1)
		}
		queries = database.Queries()
		slog.InfoContext(ctx, "database connected")
	} else {
		slog.WarnContext(ctx, "DATABASE_URL not set, announcements are kept in memory and lost on restart")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}

		redisClient = redis.NewClient(redisOpts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "redis connected", "delivery_ttl", cfg.Redis.DeliveryTTL)
	} else {
		slog.InfoContext(ctx, "REDIS_URL not set, webhook delivery dedupe disabled")
	}

	stores := store.NewStores(queries, redisClient, cfg.Redis.DeliveryTTL)

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create discord session", "error", err)
		os.Exit(1)
	}
	session.Identify.Intents = gateway.Intents

	services := service.NewServices(discord.NewPlatform(session), stores, cfg)

	gw := gateway.New(services.Reactions(), services.Commands(), slog.Default())
	unregister := gw.Register(session)
	defer unregister()

	if err := session.Open(); err != nil {
		slog.ErrorContext(ctx, "failed to open discord gateway", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	appID := cfg.Discord.AppID
	if appID == "" && session.State != nil && session.State.User != nil {
		appID = session.State.User.ID
	}
	if registered, err := gateway.SyncCommands(session, appID, cfg.Discord.GuildID); err != nil {
		slog.ErrorContext(ctx, "failed to register slash commands", "error", err)
	} else {
		slog.InfoContext(ctx, "slash commands registered", "count", len(registered), "guild_id", cfg.Discord.GuildID)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port, "webhooks", cfg.Webhook.Enabled())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Metrics sees the final status → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Metrics())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		Webhook: cfg.Webhook,
	})

	return router
}

const banner = `
██╗  ██╗███████╗██████╗  █████╗ ██╗     ██████╗ 
██║  ██║██╔════╝██╔══██╗██╔══██╗██║     ██╔══██╗
███████║█████╗  ██████╔╝███████║██║     ██║  ██║
██╔══██║██╔══╝  ██╔══██╗██╔══██║██║     ██║  ██║
██║  ██║███████╗██║  ██║██║  ██║███████╗██████╔╝
╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═════╝ 
`
