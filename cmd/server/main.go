package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"zillowlike.app/api/common/id"
	"zillowlike.app/api/common/llm"
	"zillowlike.app/api/common/logger"
	"zillowlike.app/api/common/otel"
	"zillowlike.app/api/core/config"
	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/assist"
	"zillowlike.app/api/internal/cache"
	"zillowlike.app/api/internal/http/middleware"
	httprouter "zillowlike.app/api/internal/http/router"
	"zillowlike.app/api/internal/media"
	"zillowlike.app/api/internal/metrics"
	"zillowlike.app/api/internal/places"
	"zillowlike.app/api/internal/queue"
	"zillowlike.app/api/internal/realtime"
	"zillowlike.app/api/internal/service"
	"zillowlike.app/api/internal/store"
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
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
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

	slog.InfoContext(ctx, "api starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(id.NodeAPI); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.Stream)

	eventProducer := queue.NewRedisProducer(redisClient, cfg.Queue.Stream, nil)
	defer eventProducer.Close()

	mediaStore := newMediaStore(ctx, cfg.Cloudinary)
	publisher := newPublisher(ctx, cfg.Pusher)
	writer := assist.New(newLLMClient(ctx, cfg.OpenAI), assist.Config{
		Timeout:        cfg.OpenAI.Timeout,
		RequestsPerMin: cfg.OpenAI.RequestsPerMin,
	})

	services := service.NewServices(store.NewStores(database.Conn()), service.NewTxRunner(database), service.Deps{
		Authenticator:      service.NewWorkOSAuthenticator(cfg.WorkOS),
		Producer:           eventProducer,
		Media:              mediaStore,
		Publisher:          publisher,
		Writer:             writer,
		DefaultCountryCode: cfg.WhatsApp.DefaultCountryCode,
	})

	placesService := places.NewService(
		newPlacesProvider(ctx, cfg.Places),
		newPlacesCache(cfg.Places, redisClient),
		cfg.Places.CacheTTL,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	router := setupRouter(cfg, services, m, httprouter.RouterConfig{
		DashboardURL: cfg.DashboardURL,
		IsProduction: cfg.IsProduction(),
		AdminAPIKey:  cfg.AdminAPIKey,
		Places:       placesService,
		Publisher:    publisher,
		Metrics:      m,
		Ready: func(ctx context.Context) error {
			if err := database.Ping(ctx); err != nil {
				return err
			}
			return redisClient.Ping(ctx).Err()
		},
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func setupRouter(cfg config.Config, services *service.Services, m *metrics.Metrics, routes httprouter.RouterConfig) *gin.Engine {
	router := gin.New()

	// The span must exist before the request id is logged, and Recovery sits
	// innermost so the access log and metrics still see the 500.
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.RequestID(), m.Middleware(), middleware.AccessLog(), middleware.Recovery())

	httprouter.SetupRoutes(router, services, routes)
	return router
}

func newMediaStore(ctx context.Context, cfg config.CloudinaryConfig) media.Store {
	if !cfg.Enabled() {
		slog.WarnContext(ctx, "cloudinary not configured, image uploads disabled")
		return media.NewDisabled()
	}
	store, err := media.NewCloudinary(media.Config{
		CloudName: cfg.CloudName,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		Folder:    cfg.Folder,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create cloudinary client", "error", err)
		os.Exit(1)
	}
	return store
}

func newPublisher(ctx context.Context, cfg config.PusherConfig) realtime.Publisher {
	if !cfg.Enabled() {
		slog.WarnContext(ctx, "pusher not configured, realtime events disabled")
		return realtime.NewNop()
	}
	return realtime.NewPusher(realtime.Config{
		AppID:   cfg.AppID,
		Key:     cfg.Key,
		Secret:  cfg.Secret,
		Cluster: cfg.Cluster,
	})
}

// newLLMClient returns nil when OpenAI is not configured; the assistant then
// always answers with templates.
func newLLMClient(ctx context.Context, cfg config.OpenAIConfig) llm.Client {
	if !cfg.Enabled() {
		slog.WarnContext(ctx, "openai not configured, using template replies")
		return nil
	}
	client, err := llm.New(llm.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.Model})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create llm client", "error", err)
		os.Exit(1)
	}
	return client
}

func newPlacesProvider(ctx context.Context, cfg config.PlacesConfig) places.Provider {
	if !cfg.Enabled() {
		slog.WarnContext(ctx, "google places not configured, nearby lookups degraded")
		return places.NewDisabledProvider()
	}
	provider, err := places.NewGoogleProvider(places.GoogleConfig{
		APIKey:         cfg.APIKey,
		RequestsPerSec: cfg.RequestsPerSec,
		Timeout:        cfg.Timeout,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create places provider", "error", err)
		os.Exit(1)
	}
	return provider
}

func newPlacesCache(cfg config.PlacesConfig, client *redis.Client) cache.Cache {
	if cfg.CacheBackend == "memory" {
		return cache.NewMemory(cfg.CacheCapacity)
	}
	return cache.NewRedis(client, "places:")
}

const banner = `
 _____ _ _ _               _ _ _          _    ____ ___
|__  /(_) | | _____      _| (_) | _____  / \  |  _ \_ _|
  / / | | | |/ _ \ \ /\ / / | | |/ / _ \/ _ \ | |_) | |
 / /_ | | | | (_) \ V  V /| | |   <  __/ ___ \|  __/| |
/____||_|_|_|\___/ \_/\_/ |_|_|_|\_\___/_/   \_\_|  |___|
`
