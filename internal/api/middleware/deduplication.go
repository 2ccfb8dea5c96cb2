package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"cookmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// dedupSweepSize 紀錄超過此數量時順便清理過期指紋
const dedupSweepSize = 1024

// Deduplication 拒絕 window 內重複送出的相同 POST 請求（同來源、同路徑、同內容），
// 避免連點按鈕造成步驟被推進兩次
func Deduplication(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = time.Second
	}

	var mu sync.Mutex
	seen := make(map[string]time.Time)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}
			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		fingerprint := c.ClientIP() + ":" + c.GetHeader("X-User-ID") + ":" + c.Request.URL.Path + ":" + bodyHash

		now := time.Now()
		mu.Lock()
		if last, ok := seen[fingerprint]; ok && now.Sub(last) <= window {
			mu.Unlock()
			common.LogWarn("重複請求已拒絕", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: "Request too frequent",
			})
			return
		}
		seen[fingerprint] = now
		if len(seen) > dedupSweepSize {
			for k, t := range seen {
				if now.Sub(t) > window {
					delete(seen, k)
				}
			}
		}
		mu.Unlock()

		c.Next()
	}
}
