package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"zillowlike.app/api/internal/http/handler"
	"zillowlike.app/api/internal/http/middleware"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/realtime"
	"zillowlike.app/api/internal/service"
)

type RouterConfig struct {
	DashboardURL string
	IsProduction bool
	AdminAPIKey  string
	Places       handler.PlacesFinder
	Publisher    realtime.Publisher
	// Metrics serves /metrics and counts places lookups; nil disables both.
	Metrics Metrics
	// Ready backs /health/ready; nil always reports ready.
	Ready func(ctx context.Context) error
}

type Metrics interface {
	handler.LookupObserver
	Handler() http.Handler
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(c.Request.Context()); err != nil {
				slog.WarnContext(c.Request.Context(), "readiness check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	var observer handler.LookupObserver
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
		observer = cfg.Metrics
	}

	auth := services.Auth()
	requireAuth := middleware.RequireAuth(auth, cfg.IsProduction)
	optionalAuth := middleware.OptionalAuth(auth)

	authHandler := handler.NewAuthHandler(auth, cfg.DashboardURL, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, requireAuth)

	propertyHandler := handler.NewPropertyHandler(services.Properties())
	leadHandler := handler.NewLeadHandler(services.Leads(), services.Drafts())
	clientHandler := handler.NewClientHandler(services.Clients())
	userHandler := handler.NewUserHandler(services.Users())

	v1 := router.Group("/api/v1")
	{
		PublicRouter(v1, optionalAuth, propertyHandler, leadHandler, clientHandler,
			handler.NewPlacesHandler(cfg.Places, observer))

		authed := v1.Group("", requireAuth)
		UserRouter(authed.Group("/users"), userHandler)
		PropertyRouter(authed, propertyHandler)
		TeamRouter(authed.Group("/teams"), handler.NewTeamHandler(services.Teams()))
		LeadRouter(authed, leadHandler)
		ClientRouter(authed, clientHandler)
		AssistantRouter(authed.Group("/assistant"), handler.NewAssistantHandler(services.Assistant()))
		authed.POST("/realtime/auth", handler.NewRealtimeHandler(cfg.Publisher).Auth)

		AdminRouter(authed.Group("/admin", middleware.RequireRole(model.RoleAdmin)),
			userHandler, handler.NewSettingsHandler(services.Settings()))
	}

	machine := router.Group("/api/admin", middleware.RequireAdminAPIKey(cfg.AdminAPIKey))
	machine.POST("/sessions/purge", handler.NewAdminHandler(auth).PurgeSessions)
}
