package handlers

import (
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shortlink-admin/types"
)

// batchFilePrefix names the spreadsheet returned by a batch creation.
const batchFilePrefix = "shortlinks-"

const (
	batchSheet    = "shortlinks"
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (h *AdminHandler) PageLinks(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var q types.LinkPageQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.svc.Links.Page(ctx, currentUser(c), q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, page)
}

func (h *AdminHandler) CreateLink(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.CreateLinkRequest
	if !h.bindJSON(c, &input) {
		return
	}
	link, err := h.svc.Links.Create(ctx, currentUser(c), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.logger.Info("Short link created",
		zap.String("fullShortUrl", link.FullShortURL),
		zap.String("originUrl", link.OriginURL))
	ok(c, link)
}

// BatchCreateLinks creates every requested link and answers with an xlsx
// attachment listing them, one row per link.
func (h *AdminHandler) BatchCreateLinks(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.BatchCreateLinkRequest
	if !h.bindJSON(c, &input) {
		return
	}
	links, err := h.svc.Links.BatchCreate(ctx, currentUser(c), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	data, err := linksSheet(links)
	if err != nil {
		h.handleError(c, err)
		return
	}
	filename := batchFilePrefix + time.Now().Format("20060102150405") + ".xlsx"
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, xlsxMediaType, data)
}

func linksSheet(links []types.ShortLink) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), batchSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(batchSheet, "A1", &[]any{"describe", "originUrl", "fullShortUrl"}); err != nil {
		return nil, err
	}
	for i, l := range links {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(batchSheet, cell, &[]any{l.Describe, l.OriginURL, l.FullShortURL}); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(batchSheet, "B", "C", 40); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *AdminHandler) UpdateLink(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var input types.UpdateLinkRequest
	if !h.bindJSON(c, &input) {
		return
	}
	if input.ID == "" && input.FullShortURL == "" {
		fail(c, http.StatusOK, types.CodeNotFound, "id or fullShortUrl is required")
		return
	}
	if err := h.svc.Links.Update(ctx, currentUser(c), input); err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, nil)
}

func (h *AdminHandler) FetchTitle(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	title, err := h.svc.Links.Title(ctx, c.Query("url"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	ok(c, title)
}
