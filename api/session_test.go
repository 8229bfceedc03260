package api_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink-admin/client"
	"shortlink-admin/config"
	"shortlink-admin/routeguard"
	"shortlink-admin/tokenstore"
	"shortlink-admin/types"
)

// recordingJar remembers the options of every Set call.
type recordingJar struct {
	*tokenstore.MemoryJar
	mu   sync.Mutex
	sets map[string]tokenstore.CookieOptions
}

func newRecordingJar() *recordingJar {
	return &recordingJar{MemoryJar: tokenstore.NewMemoryJar(), sets: make(map[string]tokenstore.CookieOptions)}
}

func (j *recordingJar) Set(name, value string, opts tokenstore.CookieOptions) error {
	j.mu.Lock()
	j.sets[name] = opts
	j.mu.Unlock()
	return j.MemoryJar.Set(name, value, opts)
}

func (j *recordingJar) options(name string) (tokenstore.CookieOptions, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	opts, ok := j.sets[name]
	return opts, ok
}

func TestRememberedSessionLifecycle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisableRateLimit = true
	jar := newRecordingJar()
	f := newFixtureWithConfig(t, cfg, jar)
	ctx := context.Background()
	require.NoError(t, f.api.User.Register(ctx, types.RegisterRequest{Username: "alice", Password: "secret1"}))

	resp, err := f.api.User.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1", RememberMe: true})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	opts, ok := jar.options(tokenstore.TokenCookie)
	require.True(t, ok)
	assert.Equal(t, 7*24*time.Hour, opts.MaxAge)
	opts, ok = jar.options(tokenstore.UsernameCookie)
	require.True(t, ok)
	assert.Equal(t, tokenstore.PersistFor, opts.MaxAge)

	_, err = f.api.Group.List(ctx)
	require.NoError(t, err)
	seen := f.tap.lastHeader()
	assert.Equal(t, resp.Token, seen.Get(client.HeaderToken))
	assert.Equal(t, "alice", seen.Get(client.HeaderUsername))

	require.NoError(t, f.api.User.Logout(ctx))
	_, ok = jar.Get(tokenstore.TokenCookie)
	assert.False(t, ok)
	_, ok = jar.Get(tokenstore.UsernameCookie)
	assert.False(t, ok)

	d := routeguard.Decide("/home/space?gid=g1", f.session.IsAuthenticated())
	assert.False(t, d.Allow)
	assert.Equal(t, "/login?redirect=%2Fhome%2Fspace%3Fgid%3Dg1", d.Redirect)

	assert.False(t, f.api.User.CheckLogin(ctx))
}

func TestSessionOnlyLogin(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisableRateLimit = true
	jar := newRecordingJar()
	f := newFixtureWithConfig(t, cfg, jar)
	ctx := context.Background()
	require.NoError(t, f.api.User.Register(ctx, types.RegisterRequest{Username: "alice", Password: "secret1"}))

	resp, err := f.api.User.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	opts, ok := jar.options(tokenstore.TokenCookie)
	require.True(t, ok)
	assert.Zero(t, opts.MaxAge)
	token, ok := f.session.Token()
	assert.True(t, ok)
	assert.Equal(t, resp.Token, token)
}

func TestLoginReusesLiveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.api.User.Register(ctx, types.RegisterRequest{Username: "alice", Password: "secret1"}))

	first, err := f.api.User.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	second, err := f.api.User.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
}

func TestRememberedSessionSurvivesRestart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisableRateLimit = true
	path := filepath.Join(t.TempDir(), "cookies")
	hashKey, blockKey := []byte(cfg.CookieHashKey), []byte(cfg.CookieBlockKey)

	jar, err := tokenstore.NewFileJar(path, hashKey, blockKey)
	require.NoError(t, err)
	f := newFixtureWithConfig(t, cfg, jar)
	ctx := context.Background()
	require.NoError(t, f.api.User.Register(ctx, types.RegisterRequest{Username: "alice", Password: "secret1"}))
	_, err = f.api.User.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1", RememberMe: true})
	require.NoError(t, err)

	reopened, err := tokenstore.NewFileJar(path, hashKey, blockKey)
	require.NoError(t, err)
	session := tokenstore.New(reopened)
	assert.True(t, session.IsAuthenticated())
	username, _ := session.Username()
	assert.Equal(t, "alice", username)
}

func TestLogoutWithPartialCredentials(t *testing.T) {
	tests := []struct {
		name   string
		forget func(s *tokenstore.Store) error
	}{
		{"token only", func(s *tokenstore.Store) error { return s.RemoveUsername() }},
		{"username only", func(s *tokenstore.Store) error { return s.RemoveToken() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.login(t, "alice")
			require.NoError(t, tt.forget(f.session))
			before := f.hits.Load()

			require.NoError(t, f.api.User.Logout(context.Background()))

			assert.Equal(t, before, f.hits.Load())
			assert.False(t, f.session.IsAuthenticated())
			_, hasToken := f.session.Token()
			_, hasUsername := f.session.Username()
			assert.False(t, hasToken)
			assert.False(t, hasUsername)
			assert.Empty(t, f.recorder.notifications())
		})
	}
}
