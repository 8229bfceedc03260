package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type healthStatus struct {
	Status string `json:"status"`
	Domain string `json:"domain"`
}

// HealthCheck reports that the mock API is serving and which short domain it issues links on.
func (h *AdminHandler) HealthCheck(c *gin.Context) {
	h.logger.Debug("Health check request",
		zap.String("ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()))
	ok(c, healthStatus{Status: "UP", Domain: h.config.ShortDomain})
}
