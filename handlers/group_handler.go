package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shortlink-admin/types"
)

func (h *AdminHandler) ListGroups(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	groups, err := h.svc.Groups.List(ctx, currentUser(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, groups)
}

func (h *AdminHandler) CreateGroup(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.GroupCreateRequest
	if !h.bindJSON(c, &input) {
		return
	}
	if _, err := h.svc.Groups.Create(ctx, currentUser(c), input.Name); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

func (h *AdminHandler) RenameGroup(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.GroupUpdateRequest
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.svc.Groups.Rename(ctx, currentUser(c), input.Gid, input.Name); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	gid := c.Query("gid")
	if gid == "" {
		fail(c, http.StatusBadRequest, types.CodeClientError, "gid is required")
		return
	}
	if err := h.svc.Groups.Delete(ctx, currentUser(c), gid); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

func (h *AdminHandler) SortGroups(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input []types.GroupSortRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, types.CodeClientError, invalidRequestBody)
		return
	}
	for i := range input {
		if !h.check(c, &input[i]) {
			return
		}
	}
	if err := h.svc.Groups.Sort(ctx, currentUser(c), input); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}
