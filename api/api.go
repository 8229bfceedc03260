// Package api groups the admin API calls by resource. Every function validates
// its request, performs exactly one call through the client and returns the
// unwrapped payload. Failures are propagated to the caller as returned by the
// client, which has already notified the operator.
package api

import (
	"net/url"
	"strconv"

	"shortlink-admin/client"
)

// Prefix is the path every admin endpoint lives under, relative to the API base.
const Prefix = "/short-link/admin/v1"

// Session is the credential storage used by login and logout.
type Session interface {
	Token() (string, bool)
	Username() (string, bool)
	SetToken(value string, persist bool) error
	SetUsername(value string, persist bool) error
	ClearAuth() error
}

// API bundles the resource modules.
type API struct {
	User  *UserAPI
	Group *GroupAPI
	Link  *LinkAPI
	Stats *StatsAPI
}

// New builds all modules on top of one client.
func New(c *client.Client, session Session) *API {
	return &API{
		User:  &UserAPI{client: c, session: session},
		Group: &GroupAPI{client: c},
		Link:  &LinkAPI{client: c},
		Stats: &StatsAPI{client: c},
	}
}

func setPage(q url.Values, current, size int) {
	if current > 0 {
		q.Set("current", strconv.Itoa(current))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
