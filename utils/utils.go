// Package utils provides helpers shared by the admin API services.
package utils

import (
	"net/url"
	"strings"

	"github.com/mssola/useragent"
)

// Default paging values applied when a request leaves them unset.
const (
	DefaultCurrent = 1
	DefaultSize    = 10
)

// NormalizePage replaces non-positive paging values with the defaults.
func NormalizePage(current, size int) (int, int) {
	if current <= 0 {
		current = DefaultCurrent
	}
	if size <= 0 {
		size = DefaultSize
	}
	return current, size
}

// Paginate returns the window [(current-1)*size, current*size) of items.
// A window past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, current, size int) []T {
	current, size = NormalizePage(current, size)
	start := (current - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	window := make([]T, end-start)
	copy(window, items[start:end])
	return window
}

// MaskPhone hides the middle digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) < 7 {
		return phone
	}
	return phone[:3] + strings.Repeat("*", len(phone)-7) + phone[len(phone)-4:]
}

// Host returns the lower-cased host of rawURL without a leading "www.".
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// Favicon returns the conventional favicon location of rawURL's site.
func Favicon(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}

// UserAgent holds the coarse client facts recorded for a visit.
type UserAgent struct {
	Browser string
	OS      string
	Device  string
}

// Device classes of a visit.
const (
	DevicePC     = "PC"
	DeviceMobile = "Mobile"
	DeviceTablet = "Tablet"
	DeviceBot    = "Bot"
	unknown      = "Other"
)

// ParseUserAgent classifies a User-Agent header. Unknown values map to "Other".
func ParseUserAgent(header string) UserAgent {
	if strings.TrimSpace(header) == "" {
		return UserAgent{Browser: unknown, OS: unknown, Device: unknown}
	}
	ua := useragent.New(header)
	browser, _ := ua.Browser()
	os := osName(ua)
	return UserAgent{
		Browser: orUnknown(browser),
		OS:      os,
		Device:  deviceClass(ua, os),
	}
}

func osName(ua *useragent.UserAgent) string {
	switch ua.Platform() {
	case "iPhone", "iPad", "iPod", "iPod touch":
		return "iOS"
	}
	name := ua.OSInfo().Name
	switch {
	case strings.HasPrefix(name, "Mac OS"):
		return "Mac OS"
	case strings.HasPrefix(name, "Android"):
		return "Android"
	}
	return orUnknown(name)
}

// deviceClass tells tablets apart: iPads, and Android devices that do not
// announce "Mobile".
func deviceClass(ua *useragent.UserAgent, os string) string {
	switch {
	case ua.Bot():
		return DeviceBot
	case ua.Platform() == "iPad", os == "Android" && !strings.Contains(ua.UA(), "Mobile"):
		return DeviceTablet
	case ua.Mobile():
		return DeviceMobile
	default:
		return DevicePC
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
