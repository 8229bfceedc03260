// Package handlers provides the HTTP handlers of the mock admin API.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shortlink-admin/config"
	"shortlink-admin/services"
	"shortlink-admin/types"
)

const (
	invalidRequestBody  = "Invalid request body"
	invalidQuery        = "Invalid query parameters"
	errorTimeout        = "Request timed out"
	internalServerError = "Internal server error"
	notLoggedIn         = "User not logged in or session expired"
	rateLimitExceeded   = "Rate limit exceeded"
)

// usernameKey is the gin context key holding the authenticated username.
const usernameKey = "username"

// AdminHandlerInterface defines the methods that an admin API handler should implement.
type AdminHandlerInterface interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
	HasUsername(c *gin.Context)
	Register(c *gin.Context)
	UserInfo(c *gin.Context)
	UpdateUser(c *gin.Context)
	CheckLogin(c *gin.Context)

	ListGroups(c *gin.Context)
	CreateGroup(c *gin.Context)
	RenameGroup(c *gin.Context)
	DeleteGroup(c *gin.Context)
	SortGroups(c *gin.Context)

	PageLinks(c *gin.Context)
	CreateLink(c *gin.Context)
	BatchCreateLinks(c *gin.Context)
	UpdateLink(c *gin.Context)
	FetchTitle(c *gin.Context)

	RecycleLink(c *gin.Context)
	PageRecycleBin(c *gin.Context)
	RestoreLink(c *gin.Context)
	PurgeLink(c *gin.Context)

	LinkStats(c *gin.Context)
	GroupStats(c *gin.Context)
	AccessRecords(c *gin.Context)

	HealthCheck(c *gin.Context)
	RedirectURL(c *gin.Context)

	AuthMiddleware() gin.HandlerFunc
	RateLimitMiddleware() gin.HandlerFunc
}

// Services bundles the business services the handler dispatches to.
type Services struct {
	Users  services.UserService
	Groups services.GroupService
	Links  services.LinkService
	Bin    services.RecycleBinService
	Stats  services.StatsService
}

func (s Services) complete() bool {
	return s.Users != nil && s.Groups != nil && s.Links != nil && s.Bin != nil && s.Stats != nil
}

// AdminHandler holds the dependencies of the admin API endpoints.
type AdminHandler struct {
	svc      Services
	validate *validator.Validate
	config   *config.Config
	logger   *zap.Logger
}

// NewAdminHandler creates and returns a new AdminHandler instance.
func NewAdminHandler(ctx context.Context, svc Services, cfg *config.Config, logger *zap.Logger) (AdminHandlerInterface, error) {
	if !svc.complete() {
		return nil, errors.New("services cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if !cfg.DisableRateLimit && (cfg.RateLimit <= 0 || cfg.RatePeriod <= 0) {
		return nil, errors.New("invalid rate limit configuration")
	}

	handler := &AdminHandler{
		svc:      svc,
		validate: validator.New(),
		config:   cfg,
		logger:   logger,
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return handler, nil
}

// requestContext bounds the work of one request by the configured timeout.
func (h *AdminHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
}

// currentUser returns the username set by AuthMiddleware.
func currentUser(c *gin.Context) string {
	return c.GetString(usernameKey)
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func (h *AdminHandler) bindJSON(c *gin.Context, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		h.logger.Error("Error decoding request body", zap.Error(err), zap.String("path", c.FullPath()))
		fail(c, http.StatusBadRequest, types.CodeClientError, invalidRequestBody)
		return false
	}
	return h.check(c, input)
}

// bindQuery decodes and validates query parameters, answering 400 on failure.
func (h *AdminHandler) bindQuery(c *gin.Context, input any) bool {
	if err := c.ShouldBindQuery(input); err != nil {
		h.logger.Error("Error decoding query", zap.Error(err), zap.String("path", c.FullPath()))
		fail(c, http.StatusBadRequest, types.CodeClientError, invalidQuery)
		return false
	}
	return h.check(c, input)
}

func (h *AdminHandler) check(c *gin.Context, input any) bool {
	if err := h.validate.Struct(input); err != nil {
		h.logger.Warn("Invalid input", zap.Error(err), zap.String("path", c.FullPath()))
		fail(c, http.StatusBadRequest, types.CodeClientError, err.Error())
		return false
	}
	return true
}

// handleError answers a failed service call. Business failures travel as
// HTTP 200 with a non-success code; only authentication, timeouts and
// unexpected failures change the status.
func (h *AdminHandler) handleError(c *gin.Context, err error) {
	status := http.StatusOK
	code := types.CodeServiceError
	message := err.Error()

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status, code = http.StatusUnauthorized, types.CodeUnauthorized
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrForbidden):
		code = types.CodeClientError
	case errors.Is(err, services.ErrUserExists):
		code = types.CodeUserExists
	case errors.Is(err, services.ErrLoginFailed):
		code = types.CodeLoginFailed
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrShortLinkNotFound):
		code = types.CodeNotFound
	case errors.Is(err, services.ErrGroupNotEmpty):
		code = types.CodeGroupNotEmpty
	case errors.Is(err, services.ErrShortLinkExpired):
		code = types.CodeLinkExpired
	case errors.Is(err, services.ErrShortLinkExists),
		errors.Is(err, services.ErrStorageCapacityReached):
		code = types.CodeServiceError
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusRequestTimeout, errorTimeout
	default:
		h.logger.Error("Unexpected error", zap.Error(err), zap.String("path", c.FullPath()))
		status, message = http.StatusInternalServerError, internalServerError
	}

	fail(c, status, code, message)
}
