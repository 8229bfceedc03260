package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shortlink-admin/config"
	"shortlink-admin/types"
)

func serve(router *gin.Engine, method, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if ip != "" {
		req.RemoteAddr = ip
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("credential headers are allowed", func(t *testing.T) {
		resp := serve(router, http.MethodGet, "")

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
		allowed := resp.Header().Get("Access-Control-Allow-Headers")
		assert.Contains(t, allowed, "Token")
		assert.Contains(t, allowed, "Username")
		exposed := resp.Header().Get("Access-Control-Expose-Headers")
		assert.Contains(t, exposed, "Content-Disposition")
		assert.Contains(t, exposed, HeaderRequestID)
	})

	t.Run("preflight stops before the route", func(t *testing.T) {
		resp := serve(router, http.MethodOptions, "")

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "POST, GET, OPTIONS, PUT, DELETE", resp.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{RateLimit: 5, RatePeriod: 500 * time.Millisecond}
	handler := &AdminHandler{config: cfg, logger: zap.NewNop()}

	router := gin.New()
	router.Use(handler.RateLimitMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("burst is allowed then refused with an envelope", func(t *testing.T) {
		for i := 0; i < cfg.RateLimit; i++ {
			assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "192.0.2.1:1234").Code)
		}

		resp := serve(router, http.MethodGet, "192.0.2.1:1234")

		assert.Equal(t, http.StatusTooManyRequests, resp.Code)
		var env types.Envelope
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
		assert.Equal(t, types.CodeTooManyReqs, env.Code)
		assert.Equal(t, rateLimitExceeded, env.Message)
	})

	t.Run("clients are limited separately", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "192.0.2.9:1234").Code)
	})

	t.Run("tokens come back after the period", func(t *testing.T) {
		ip := "192.0.2.2:1234"
		for i := 0; i < cfg.RateLimit; i++ {
			serve(router, http.MethodGet, ip)
		}
		require.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, ip).Code)

		time.Sleep(cfg.RatePeriod)

		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, ip).Code)
	})
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(RequestIDMiddleware(), LoggerMiddleware(zap.New(core)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	resp := serve(router, http.MethodGet, "192.0.2.3:1234")

	entries := logs.FilterMessage("Request served").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "192.0.2.3", fields["ip"])
	assert.Equal(t, resp.Header().Get(HeaderRequestID), fields["request_id"])
}
