package handlers

import (
	"github.com/gin-gonic/gin"

	"shortlink-admin/types"
)

func (h *AdminHandler) LinkStats(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var q types.StatsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	stats, err := h.svc.Stats.Link(ctx, currentUser(c), q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, stats)
}

func (h *AdminHandler) GroupStats(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var q types.StatsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	stats, err := h.svc.Stats.Group(ctx, currentUser(c), q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, stats)
}

func (h *AdminHandler) AccessRecords(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var q types.StatsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.svc.Stats.AccessRecords(ctx, currentUser(c), q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, page)
}
