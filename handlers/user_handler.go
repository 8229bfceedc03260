package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-admin/types"
)

// Login verifies credentials and answers with a session token.
func (h *AdminHandler) Login(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.LoginRequest
	if !h.bindJSON(c, &input) {
		return
	}

	resp, err := h.svc.Users.Login(ctx, input)
	if err != nil {
		h.logger.Info("Login failed", zap.String("username", input.Username), zap.Error(err))
		h.handleError(c, err)
		return
	}
	ok(c, resp)
}

// Logout ends the session named by the username and token query parameters.
func (h *AdminHandler) Logout(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.svc.Users.Logout(ctx, c.Query("username"), c.Query("token")); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

// HasUsername answers true when the username is still free.
func (h *AdminHandler) HasUsername(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	username := c.Query("username")
	if username == "" {
		fail(c, http.StatusBadRequest, types.CodeClientError, "username is required")
		return
	}
	available, err := h.svc.Users.UsernameAvailable(ctx, username)
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, available)
}

// Register creates an account together with its default group.
func (h *AdminHandler) Register(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.RegisterRequest
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.svc.Users.Register(ctx, input); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

// UserInfo returns a profile with the phone number masked.
func (h *AdminHandler) UserInfo(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.svc.Users.Info(ctx, c.Param("username"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, user)
}

// UpdateUser changes the profile of the authenticated user.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.UpdateUserRequest
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.svc.Users.Update(ctx, currentUser(c), input); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

// CheckLogin reports whether the username and token query parameters name a live session.
func (h *AdminHandler) CheckLogin(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	valid, err := h.svc.Users.CheckLogin(ctx, c.Query("username"), c.Query("token"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, valid)
}
