package client

import (
	"mime"
	"net/url"
	"strings"
)

// DefaultSpreadsheetName is used when a download carries no usable filename.
const DefaultSpreadsheetName = "shortlinks.xlsx"

// FilenameFromDisposition extracts the filename of a Content-Disposition header.
// An RFC 5987 filename* parameter wins over a plain filename.
func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return fallback
	}
	name := params["filename"]
	if name == "" {
		return fallback
	}
	// mime already decoded filename*; only a plain filename may still be percent encoded
	if !hasExtendedFilename(header) && strings.Contains(name, "%") {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	// strip any directory part
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	if name == "" {
		return fallback
	}
	return name
}

func hasExtendedFilename(header string) bool {
	for _, part := range strings.Split(header, ";") {
		key, _, found := strings.Cut(strings.TrimSpace(part), "=")
		if found && strings.EqualFold(strings.TrimSpace(key), "filename*") {
			return true
		}
	}
	return false
}
