package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"shortlink-admin/services"
	"shortlink-admin/types"
)

const (
	errShortLinkNotFound  = "Short link not found"
	errShortLinkExpired   = "Short link has expired"
	errRequestTimeout     = "Request timed out"
	errRetrievingURL      = "Error retrieving URL"
	errInvalidRedirectURL = "Invalid redirect URL"
)

// visitorCookie identifies a browser across visits for unique visitor counts.
const (
	visitorCookie    = "uv"
	visitorCookieAge = 30 * 24 * 60 * 60
)

// RedirectURL sends the visitor to the original URL of an active short link
// and records the visit.
func (h *AdminHandler) RedirectURL(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	shortURI := c.Param("short_uri")

	link, err := h.svc.Links.Resolve(ctx, shortURI)
	if err != nil {
		h.handleRedirectError(c, err, shortURI)
		return
	}

	// Validate the original URL to prevent open redirects
	if err := h.validate.Var(link.OriginURL, "url"); err != nil {
		h.logger.Warn("Invalid original URL",
			zap.String("short_uri", shortURI),
			zap.String("origin_url", link.OriginURL))
		fail(c, http.StatusBadRequest, types.CodeClientError, errInvalidRedirectURL)
		return
	}

	visitorID, err := c.Cookie(visitorCookie)
	if err != nil || visitorID == "" {
		visitorID = uuid.NewString()
		c.SetCookie(visitorCookie, visitorID, visitorCookieAge, "/", "", false, true)
	}
	visit := services.Visit{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Visitor:   visitorID,
		Locale:    c.GetHeader("Accept-Language"),
		Network:   c.GetHeader("X-Network-Type"),
	}
	if err := h.svc.Stats.Record(ctx, link, visit); err != nil {
		h.logger.Error("Failed to record visit", zap.String("short_uri", shortURI), zap.Error(err))
	}

	h.logger.Info("Redirecting",
		zap.String("short_uri", shortURI),
		zap.String("origin_url", link.OriginURL),
		zap.String("ip", visit.IP),
		zap.String("user_agent", visit.UserAgent))
	c.Redirect(http.StatusFound, link.OriginURL)
}

func (h *AdminHandler) handleRedirectError(c *gin.Context, err error, shortURI string) {
	switch {
	case errors.Is(err, services.ErrShortLinkNotFound):
		h.logger.Info("Short link not found", zap.String("short_uri", shortURI))
		fail(c, http.StatusNotFound, types.CodeNotFound, errShortLinkNotFound)
	case errors.Is(err, services.ErrShortLinkExpired):
		h.logger.Info("Short link expired", zap.String("short_uri", shortURI))
		fail(c, http.StatusGone, types.CodeLinkExpired, errShortLinkExpired)
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("Request timed out", zap.String("short_uri", shortURI))
		fail(c, http.StatusRequestTimeout, types.CodeServiceError, errRequestTimeout)
	default:
		h.logger.Error("Error retrieving URL", zap.String("short_uri", shortURI), zap.Error(err))
		fail(c, http.StatusInternalServerError, types.CodeServiceError, errRetrievingURL)
	}
}
