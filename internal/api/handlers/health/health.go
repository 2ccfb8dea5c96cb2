package health

import (
	"net/http"
	"runtime"
	"time"

	"cookmate/internal/core/ai/cache"
	"cookmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
	Sessions  int                    `json:"sessions"`
	Assistant bool                   `json:"assistant_configured"`
}

// SessionCounter 回報進行中的會話數
type SessionCounter interface {
	Count() int
}

// Handler 健康檢查處理器
type Handler struct {
	version             string
	cacheManager        *cache.CacheManager
	sessions            SessionCounter
	assistantConfigured bool
}

// NewHandler 創建健康檢查處理器，cacheManager 可為 nil
func NewHandler(version string, cacheManager *cache.CacheManager, sessions SessionCounter, assistantConfigured bool) *Handler {
	return &Handler{
		version:             version,
		cacheManager:        cacheManager,
		sessions:            sessions,
		assistantConfigured: assistantConfigured,
	}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Cache:     h.cacheManager.GetStats(),
		Assistant: h.assistantConfigured,
	}
	if h.sessions != nil {
		response.Sessions = h.sessions.Count()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查
func ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
