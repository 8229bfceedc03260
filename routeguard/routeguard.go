// Package routeguard decides which console paths need a logged in operator.
package routeguard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink-admin/tokenstore"
)

// LoginPath is where unauthenticated operators are sent.
const LoginPath = "/login"

// RedirectParam carries the originally requested path to the login view.
const RedirectParam = "redirect"

// DefaultPublic lists the path prefixes reachable without a token.
var DefaultPublic = []string{LoginPath, "/register"}

// Decision is the outcome of a guard check.
type Decision struct {
	Allow    bool
	Redirect string
}

// Guard checks paths against a set of public prefixes.
type Guard struct {
	public []string
}

// New returns a guard treating the given prefixes as public, or DefaultPublic when none are given.
func New(public ...string) *Guard {
	if len(public) == 0 {
		public = DefaultPublic
	}
	return &Guard{public: public}
}

// IsPublic reports whether path equals a public prefix or lies below one.
func (g *Guard) IsPublic(path string) bool {
	for _, prefix := range g.public {
		if path == prefix || strings.HasPrefix(path, strings.TrimRight(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// Decide allows public paths and authenticated operators. Everyone else is
// redirected to the login view with the original target in the redirect parameter.
// target may carry a query string.
func (g *Guard) Decide(target string, authenticated bool) Decision {
	path := target
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if authenticated || g.IsPublic(path) {
		return Decision{Allow: true}
	}
	return Decision{Redirect: LoginRedirect(target)}
}

// LoginRedirect returns the login URL that leads back to target.
func LoginRedirect(target string) string {
	if target == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{RedirectParam: {target}}.Encode()
}

// Decide applies the default guard.
func Decide(target string, authenticated bool) Decision {
	return New().Decide(target, authenticated)
}

// Middleware guards console routes using the token cookie.
func (g *Guard) Middleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(tokenstore.TokenCookie)
		d := g.Decide(c.Request.URL.RequestURI(), err == nil && token != "")
		if d.Allow {
			c.Next()
			return
		}
		logger.Debug("Redirecting unauthenticated request", zap.String("path", c.Request.URL.Path))
		c.Redirect(http.StatusFound, d.Redirect)
		c.Abort()
	}
}
