package api

import (
	"time"

	"cookmate/internal/api/handlers/assistant"
	"cookmate/internal/api/handlers/cook"
	"cookmate/internal/api/handlers/health"
	preferencesHandler "cookmate/internal/api/handlers/preferences"
	recipeHandler "cookmate/internal/api/handlers/recipe"
	"cookmate/internal/api/middleware"
	"cookmate/internal/core/ai/cache"
	aiService "cookmate/internal/core/ai/service"
	"cookmate/internal/core/cooking"
	"cookmate/internal/core/preferences"
	"cookmate/internal/core/recipe"
	"cookmate/internal/infrastructure/config"
	"cookmate/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務，由 main 建立後注入
type Dependencies struct {
	Config       *config.Config
	CacheManager *cache.CacheManager
	Recipes      *recipe.Service
	Preferences  *preferences.Service
	Assistant    *aiService.Service
	Sessions     *cooking.Manager
}

// SetupRouter 設置路由
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	healthHandler := health.NewHandler(cfg.App.Version, deps.CacheManager, deps.Sessions, deps.Assistant.IsConfigured())
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	recipes := recipeHandler.NewHandler(deps.Recipes, deps.Preferences)
	prefs := preferencesHandler.NewHandler(deps.Preferences)
	cookHandler := cook.NewHandler(deps.Sessions, deps.Recipes)
	assistantHandler := assistant.NewHandler(deps.Assistant)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("/random", recipes.HandleRandom)
			recipeGroup.GET("/search", recipes.HandleSearch)
			recipeGroup.GET("/categories", recipes.HandleCategories)
			recipeGroup.GET("/category/:name", recipes.HandleByCategory)
			recipeGroup.GET("/ingredient/:name", recipes.HandleByIngredient)
			recipeGroup.GET("/recommended", recipes.HandleRecommended)
			recipeGroup.GET("/:id", recipes.HandleDetail)
			recipeGroup.POST("/rank", recipes.HandleRank)
			recipeGroup.POST("/steps", recipes.HandleSteps)
		}

		prefGroup := api.Group("/preferences")
		{
			prefGroup.GET("", prefs.HandleGet)
			prefGroup.PUT("", prefs.HandlePut)
			prefGroup.PATCH("", prefs.HandlePatch)
			prefGroup.DELETE("", prefs.HandleDelete)
		}

		// 連點按鈕的重複請求在此被擋下
		cookGroup := api.Group("/cook/sessions", middleware.Deduplication(cfg.DedupWindow))
		{
			cookGroup.POST("", cookHandler.HandleCreate)
			cookGroup.GET("/:id", cookHandler.HandleGet)
			cookGroup.POST("/:id/messages", cookHandler.HandleMessage)
			cookGroup.POST("/:id/actions/:action", cookHandler.HandleAction)
			cookGroup.POST("/:id/reset", cookHandler.HandleReset)
			cookGroup.DELETE("/:id", cookHandler.HandleDelete)
		}

		assistantGroup := api.Group("/assistant")
		{
			assistantGroup.GET("/status", assistantHandler.HandleStatus)
			assistantGroup.POST("/chat", middleware.Deduplication(cfg.DedupWindow), assistantHandler.HandleChat)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("assistant_configured", deps.Assistant.IsConfigured()),
		zap.Bool("cache_enabled", deps.CacheManager != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
