package api

import (
	"context"
	"net/http"
	"net/url"

	"shortlink-admin/client"
	"shortlink-admin/types"
)

// LinkAPI manages short links and the recycle bin.
type LinkAPI struct {
	client *client.Client
}

// Spreadsheet is the file produced by a batch creation.
type Spreadsheet struct {
	Filename string
	Data     []byte
}

// Page lists active links.
func (a *LinkAPI) Page(ctx context.Context, q types.LinkPageQuery) (types.Page[types.ShortLink], error) {
	if err := validateRequest(q); err != nil {
		return types.Page[types.ShortLink]{}, err
	}
	query := url.Values{}
	setIfNotEmpty(query, "gid", q.Gid)
	setIfNotEmpty(query, "keyword", q.Keyword)
	setIfNotEmpty(query, "orderTag", q.OrderTag)
	setPage(query, q.Current, q.Size)

	var page types.Page[types.ShortLink]
	err := a.client.Get(ctx, Prefix+"/page", query, &page)
	return page, err
}

// Create adds a link.
func (a *LinkAPI) Create(ctx context.Context, req types.CreateLinkRequest) (types.ShortLink, error) {
	if err := validateRequest(req); err != nil {
		return types.ShortLink{}, err
	}
	date, err := normalizeValidity(req.ValidDateType, req.ValidDate)
	if err != nil {
		return types.ShortLink{}, err
	}
	req.ValidDate = date
	req.CreatedType = types.CreatedByConsole

	var link types.ShortLink
	err = a.client.Post(ctx, Prefix+"/create", req, &link)
	return link, err
}

// BatchCreate adds several links and returns the result spreadsheet.
func (a *LinkAPI) BatchCreate(ctx context.Context, req types.BatchCreateLinkRequest) (Spreadsheet, error) {
	if err := validateRequest(req); err != nil {
		return Spreadsheet{}, err
	}
	date, err := normalizeValidity(req.ValidDateType, req.ValidDate)
	if err != nil {
		return Spreadsheet{}, err
	}
	req.ValidDate = date
	req.CreatedType = types.CreatedByConsole

	resp, err := a.client.DoRaw(ctx, http.MethodPost, Prefix+"/create/batch", nil, req)
	if err != nil {
		return Spreadsheet{}, err
	}
	return Spreadsheet{
		Filename: client.FilenameFromDisposition(resp.Header.Get("Content-Disposition"), client.DefaultSpreadsheetName),
		Data:     resp.Body,
	}, nil
}

// Update edits a link identified by ID or full short URL.
func (a *LinkAPI) Update(ctx context.Context, req types.UpdateLinkRequest) error {
	if req.ID == "" && req.FullShortURL == "" {
		return &ValidationError{Fields: map[string]string{"fullShortUrl": "is required when id is empty"}}
	}
	if err := validateRequest(req); err != nil {
		return err
	}
	date, err := normalizeValidity(req.ValidDateType, req.ValidDate)
	if err != nil {
		return err
	}
	req.ValidDate = date
	return a.client.Post(ctx, Prefix+"/update", req, nil)
}

// FetchTitle returns the page title of rawURL.
func (a *LinkAPI) FetchTitle(ctx context.Context, rawURL string, opts ...client.CallOption) (string, error) {
	if err := validate.Var(rawURL, "required,url"); err != nil {
		return "", &ValidationError{Fields: map[string]string{"url": "must be a valid URL"}}
	}
	var title string
	err := a.client.Get(ctx, Prefix+"/title", url.Values{"url": {rawURL}}, &title, opts...)
	return title, err
}

// Recycle moves a link to the recycle bin.
func (a *LinkAPI) Recycle(ctx context.Context, req types.RecycleRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	return a.client.Post(ctx, Prefix+"/recycle-bin/save", req, nil)
}

// RecyclePage lists links in the recycle bin.
func (a *LinkAPI) RecyclePage(ctx context.Context, q types.RecyclePageQuery) (types.Page[types.ShortLink], error) {
	if err := validateRequest(q); err != nil {
		return types.Page[types.ShortLink]{}, err
	}
	query := url.Values{}
	setIfNotEmpty(query, "gid", q.Gid)
	setIfNotEmpty(query, "keyword", q.Keyword)
	setPage(query, q.Current, q.Size)

	var page types.Page[types.ShortLink]
	err := a.client.Get(ctx, Prefix+"/recycle-bin/page", query, &page)
	return page, err
}

// Restore takes a link out of the recycle bin.
func (a *LinkAPI) Restore(ctx context.Context, req types.RecycleRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	return a.client.Post(ctx, Prefix+"/recycle-bin/recover", req, nil)
}

// Purge deletes a recycled link for good.
func (a *LinkAPI) Purge(ctx context.Context, req types.RecycleRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	return a.client.Post(ctx, Prefix+"/recycle-bin/remove", req, nil)
}
