package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"shortlink-admin/client"
	"shortlink-admin/types"
)

// visitor represents a client with its rate limiter and last seen time
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// CORSMiddleware adds CORS headers to the response.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, "+client.HeaderToken+", "+client.HeaderUsername)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+HeaderRequestID)
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// AuthMiddleware admits requests whose Token and Username headers name a live session.
func (h *AdminHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetHeader(client.HeaderUsername)
		token := c.GetHeader(client.HeaderToken)

		if err := h.svc.Users.Authenticate(c.Request.Context(), username, token); err != nil {
			h.logger.Info("Rejected unauthenticated request",
				zap.String("path", c.Request.URL.Path),
				zap.String("username", username))
			fail(c, http.StatusUnauthorized, types.CodeUnauthorized, notLoggedIn)
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// RateLimitMiddleware applies per-IP rate limiting: RateLimit requests per
// RatePeriod with bursts of the same size. Excess requests get a 429.
func (h *AdminHandler) RateLimitMiddleware() gin.HandlerFunc {
	const (
		cleanupInterval   = time.Minute
		clientInactiveFor = 3 * time.Minute
	)

	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
	)

	go h.cleanupInactiveVisitors(&mu, visitors, cleanupInterval, clientInactiveFor)

	every := h.config.RatePeriod / time.Duration(h.config.RateLimit)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		if _, found := visitors[ip]; !found {
			visitors[ip] = &visitor{
				limiter: rate.NewLimiter(rate.Every(every), h.config.RateLimit),
			}
		}
		visitors[ip].lastSeen = time.Now()

		if !visitors[ip].limiter.Allow() {
			mu.Unlock()
			fail(c, http.StatusTooManyRequests, types.CodeTooManyReqs, rateLimitExceeded)
			return
		}
		mu.Unlock()

		c.Next()
	}
}

// cleanupInactiveVisitors periodically removes clients that haven't been seen recently
func (h *AdminHandler) cleanupInactiveVisitors(mu *sync.Mutex, visitors map[string]*visitor, interval, inactiveFor time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		mu.Lock()
		for ip, v := range visitors {
			if time.Since(v.lastSeen) > inactiveFor {
				delete(visitors, ip)
			}
		}
		mu.Unlock()
	}
}

// LoggerMiddleware logs every request once it has been served.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)))
	}
}
