package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink-admin/storage"
)

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"plain", `<html><head><title>Docs</title></head><body></body></html>`, "Docs"},
		{"entities and spacing", "<html><head><title>\n  Tom &amp; Jerry\n  Wiki </title></head></html>", "Tom & Jerry Wiki"},
		{"no head", `<title>Bare</title><p>text`, "Bare"},
		{"title after body is ignored", `<html><body><title>Late</title></body></html>`, ""},
		{"no title", `<html><head><meta charset="utf-8"></head></html>`, ""},
		{"empty title", `<title></title>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, err := pageTitle(strings.NewReader(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.want, title)
		})
	}
}

func TestPageTitleFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head><title>Launch notes</title></head></html>`))
		case "/image":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	fetcher := NewPageTitleFetcher(time.Second)
	ctx := context.Background()

	title, err := fetcher.Fetch(ctx, srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "Launch notes", title)

	_, err = fetcher.Fetch(ctx, srv.URL+"/image")
	assert.Error(t, err)
	_, err = fetcher.Fetch(ctx, srv.URL+"/missing")
	assert.Error(t, err)

	t.Run("link service falls back to the host", func(t *testing.T) {
		links := NewLinkService(storage.NewInMemoryStorage(10, zap.NewNop()), "nurl.ink", nil, WithTitleFetcher(fetcher))

		title, err := links.Title(ctx, srv.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, "Launch notes", title)

		title, err = links.Title(ctx, srv.URL+"/missing")
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", title)
	})
}
