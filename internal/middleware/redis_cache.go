package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheConfig holds configuration for the cache middleware
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// RedisCache creates middleware for caching GET responses in Redis. List
// endpoints are read far more often than collections run, so a short TTL
// bounds staleness without invalidation plumbing.
func RedisCache(redisClient *redis.Client, config CacheConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled || redisClient == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		cacheKey := generateCacheKey(c, config.Prefix)
		ctx := context.Background()

		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil {
			logger.Debug("Cache hit",
				zap.String("path", c.Request.URL.Path),
				zap.String("cache_key", cacheKey))

			c.Writer.Header().Set("Content-Type", "application/json")
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(http.StatusOK)
			c.Writer.Write(cachedResponse)
			c.Abort()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		// Only cache successful responses
		if c.Writer.Status() == http.StatusOK {
			responseBody := writer.body.Bytes()
			if err := redisClient.Set(ctx, cacheKey, responseBody, config.TTL).Err(); err != nil {
				logger.Error("Failed to set cache",
					zap.Error(err),
					zap.String("cache_key", cacheKey))
			} else {
				logger.Debug("Cache set",
					zap.String("path", c.Request.URL.Path),
					zap.String("cache_key", cacheKey))
			}
		}
	}
}

// generateCacheKey builds a cache key from the request path and query
func generateCacheKey(c *gin.Context, prefix string) string {
	raw := c.Request.URL.Path + "?" + c.Request.URL.RawQuery
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:cache:%s", prefix, hex.EncodeToString(hash[:]))
}

// responseWriter captures the response body while writing it through
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
