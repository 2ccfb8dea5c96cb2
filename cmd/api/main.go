package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cookmate/internal/api"
	"cookmate/internal/core/ai/cache"
	"cookmate/internal/core/ai/gemini"
	aiService "cookmate/internal/core/ai/service"
	"cookmate/internal/core/cooking"
	"cookmate/internal/core/preferences"
	"cookmate/internal/core/recipe"
	"cookmate/internal/core/recipe/mealdb"
	"cookmate/internal/infrastructure/config"
	"cookmate/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.Bool("gemini_enabled", cfg.Gemini.Enabled),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.String("gemini_key", common.MaskAPIKey(cfg.Gemini.APIKey)),
		zap.String("preferences_driver", cfg.Preferences.Driver),
	)

	// 快取關閉時為 nil，各元件會略過快取
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	recipeSvc := recipe.NewService(
		mealdb.NewClient(cfg.MealDB, cacheManager),
		recipe.ServiceConfig{
			MaxConcurrency: cfg.MealDB.MaxConcurrency,
			RandomCount:    cfg.MealDB.RandomCount,
		},
	)

	var generator aiService.Generator
	if cfg.Gemini.Enabled {
		generator = gemini.NewClient(cfg.Gemini)
	} else {
		common.LogWarn("未設定 GEMINI_API_KEY，助理將使用預設回覆")
	}
	assistant := aiService.NewService(generator, cacheManager)

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := preferences.NewStore(initCtx, cfg.Preferences)
	initCancel()
	if err != nil {
		common.LogFatal("Failed to initialize preference store", zap.Error(err))
	}
	defer store.Close()

	sessions := cooking.NewManager(cfg.Session, assistant)
	defer sessions.Close()

	router := api.SetupRouter(api.Dependencies{
		Config:       cfg,
		CacheManager: cacheManager,
		Recipes:      recipeSvc,
		Preferences:  preferences.NewService(store),
		Assistant:    assistant,
		Sessions:     sessions,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
