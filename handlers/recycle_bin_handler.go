package handlers

import (
	"github.com/gin-gonic/gin"

	"shortlink-admin/types"
)

func (h *AdminHandler) RecycleLink(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.RecycleRequest
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.svc.Bin.Recycle(ctx, currentUser(c), input); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

func (h *AdminHandler) PageRecycleBin(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var q types.RecyclePageQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.svc.Bin.Page(ctx, currentUser(c), q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, page)
}

func (h *AdminHandler) RestoreLink(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.RecycleRequest
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.svc.Bin.Restore(ctx, currentUser(c), input); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

// PurgeLink deletes a recycled link and its visit history for good.
func (h *AdminHandler) PurgeLink(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.RecycleRequest
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.svc.Bin.Purge(ctx, currentUser(c), input); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}
