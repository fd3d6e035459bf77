package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"
)

// requestCache 請求指紋與最後出現時間，用於去重
type requestCache struct {
	sync.Mutex
	requests map[string]time.Time
}

// 清理過舊的指紋
func (rc *requestCache) startCleanup(window time.Duration) {
	interval := 10 * time.Minute
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			rc.Lock()
			for k, t := range rc.requests {
				if now.Sub(t) > 10*window {
					delete(rc.requests, k)
				}
			}
			rc.Unlock()
		}
	}()
}

// Deduplication 請求去重中間件：同一用戶端在 dedupWindow 內送出相同的 POST 會被拒絕
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	dedupWindow := 1 * time.Second
	if cfg != nil && cfg.DedupWindow > 0 {
		dedupWindow = cfg.DedupWindow
	}

	cache := &requestCache{requests: make(map[string]time.Time)}
	cache.startCleanup(dedupWindow)

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			// 讀取請求體
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}

			// 計算哈希
			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋（同一用戶端、同一路徑、同一內容）
		fingerprint := c.ClientIP() + ":" + c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		// 檢查是否是重複請求
		now := time.Now()
		cache.Lock()
		lastTime, exists := cache.requests[fingerprint]
		duplicate := exists && now.Sub(lastTime) <= dedupWindow
		if !duplicate {
			cache.requests[fingerprint] = now
		}
		cache.Unlock()

		if duplicate {
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: "重複的請求",
			})
			return
		}

		c.Next()
	}
}
