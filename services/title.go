package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// maxTitleBytes bounds how much of a page is read looking for its title.
const maxTitleBytes = 512 << 10

// TitleFetcher looks up the title of a web page.
type TitleFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// PageTitleFetcher reads the <title> of an HTML page.
type PageTitleFetcher struct {
	client *http.Client
}

// NewPageTitleFetcher creates a fetcher whose requests give up after timeout.
func NewPageTitleFetcher(timeout time.Duration) *PageTitleFetcher {
	return &PageTitleFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *PageTitleFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType != "text/html" {
		return "", fmt.Errorf("fetch %s: not an HTML page (%q)", rawURL, mediaType)
	}
	return pageTitle(io.LimitReader(resp.Body, maxTitleBytes))
}

// pageTitle returns the text of the first <title> before <body>, or "" when there is none.
func pageTitle(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return "", nil
			}
			return "", z.Err()
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "body":
				return "", nil
			case "title":
				if z.Next() != html.TextToken {
					return "", nil
				}
				return strings.Join(strings.Fields(string(z.Text())), " "), nil
			}
		}
	}
}
