package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shortlink-admin/config"
	"shortlink-admin/server"
	"shortlink-admin/tokenstore"
	"shortlink-admin/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type cli struct {
	t      *testing.T
	app    *app
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DisableRateLimit = true

	router, err := server.NewRouter(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	cfg.APIBaseURL = srv.URL + config.ProxyBasePath

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &cli{
		t:      t,
		app:    newApp(cfg, tokenstore.NewMemoryJar(), out, errOut, zap.NewNop()),
		out:    out,
		errOut: errOut,
	}
}

func (c *cli) run(args ...string) error {
	c.out.Reset()
	c.errOut.Reset()
	return run(context.Background(), c.app, args)
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	require.NoError(c.t, c.run(args...), c.errOut.String())
	return c.out.String()
}

func (c *cli) login() {
	c.t.Helper()
	c.mustRun("register", "-username", "alice", "-password", "secret1")
	c.mustRun("login", "-username", "alice", "-password", "secret1", "-remember")
}

func TestRunUsage(t *testing.T) {
	c := newCLI(t)

	assert.ErrorIs(t, c.run(), errUsage)
	assert.Contains(t, c.errOut.String(), "Usage: shortlink-admin")

	assert.ErrorIs(t, c.run("frobnicate"), errUsage)
	assert.Contains(t, c.errOut.String(), `unknown command "frobnicate"`)
}

func TestGuardedCommandWithoutLogin(t *testing.T) {
	c := newCLI(t)

	err := c.run("groups")

	assert.ErrorIs(t, err, errLoginRequired)
	assert.Contains(t, c.errOut.String(), "/login?redirect=%2Fhome%2Fspace")
	assert.Empty(t, c.out.String())
}

func TestLoginAndLogout(t *testing.T) {
	c := newCLI(t)
	c.login()

	assert.True(t, c.app.session.IsAuthenticated())
	assert.Equal(t, "true\n", c.mustRun("check"))

	var user types.User
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("whoami")), &user))
	assert.Equal(t, "alice", user.Username)

	assert.Equal(t, "Logged out\n", c.mustRun("logout"))
	assert.False(t, c.app.session.IsAuthenticated())
	assert.Equal(t, "false\n", c.mustRun("check"))
	assert.ErrorIs(t, c.run("groups"), errLoginRequired)
}

func TestRegisterTakenUsername(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "-username", "alice", "-password", "secret1")

	err := c.run("register", "-username", "alice", "-password", "secret1")

	assert.Error(t, err)
	assert.Contains(t, c.errOut.String(), "already taken")
}

func TestLinkLifecycle(t *testing.T) {
	c := newCLI(t)
	c.login()

	var groups []types.Group
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("groups")), &groups))
	require.Len(t, groups, 1)
	gid := groups[0].Gid

	var link types.ShortLink
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("create", "-url", "https://example.com/a", "-describe", "first")), &link))
	assert.Equal(t, gid, link.Gid)
	assert.True(t, strings.HasPrefix(link.FullShortURL, "nurl.ink/"))

	var page types.Page[types.ShortLink]
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("page")), &page))
	assert.Equal(t, 1, page.Total)

	c.mustRun("update", "-full", link.FullShortURL, "-url", "https://example.com/b", "-gid", gid, "-origin-gid", gid, "-describe", "second")
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("page", "-keyword", "second")), &page))
	require.Len(t, page.Records, 1)
	assert.Equal(t, "https://example.com/b", page.Records[0].OriginURL)

	c.mustRun("recycle", "-gid", gid, "-full", link.FullShortURL)
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("page")), &page))
	assert.Equal(t, 0, page.Total)
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("recycle-page")), &page))
	assert.Equal(t, 1, page.Total)

	c.mustRun("restore", "-gid", gid, "-full", link.FullShortURL)
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("page")), &page))
	assert.Equal(t, 1, page.Total)

	c.mustRun("recycle", "-gid", gid, "-full", link.FullShortURL)
	c.mustRun("purge", "-gid", gid, "-full", link.FullShortURL)
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("recycle-page")), &page))
	assert.Equal(t, 0, page.Total)

	var stats types.LinkStats
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("stats")), &stats))
}

func TestCreateRejectsBadValidity(t *testing.T) {
	c := newCLI(t)
	c.login()

	err := c.run("create", "-url", "https://example.com", "-valid-until", "tomorrow")

	assert.ErrorContains(t, err, "invalid -valid-until")
}

func TestLocalErrorsAreReported(t *testing.T) {
	c := newCLI(t)
	c.login()

	t.Run("invalid fields are listed", func(t *testing.T) {
		err := c.run("create", "-url", "not a url")

		require.Error(t, err)
		assert.Contains(t, c.errOut.String(), "originUrl: must be a valid URL")
		assert.Empty(t, c.out.String())
	})

	t.Run("unknown group", func(t *testing.T) {
		err := c.run("page", "-gid", "missing")

		require.Error(t, err)
		assert.Contains(t, c.errOut.String(), `unknown group "missing"`)
	})

	t.Run("notified failures are not repeated", func(t *testing.T) {
		err := c.run("group-delete", "-gid", "missing")

		require.Error(t, err)
		assert.Equal(t, 1, strings.Count(c.errOut.String(), "\n"), c.errOut.String())
	})
}

func TestBatchWritesSpreadsheet(t *testing.T) {
	c := newCLI(t)
	c.login()
	dir := t.TempDir()

	out := c.mustRun("batch", "-out", dir, "https://example.com/1", "https://example.com/2")

	require.True(t, strings.HasPrefix(out, "Saved "))
	path := strings.TrimSpace(strings.TrimPrefix(out, "Saved "))
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".xlsx", filepath.Ext(path))
	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"describe", "originUrl", "fullShortUrl"}, rows[0])
}

func TestGroupCommands(t *testing.T) {
	c := newCLI(t)
	c.login()

	c.mustRun("group-create", "-name", "work")
	var groups []types.Group
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("groups")), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "work", groups[1].Name)

	c.mustRun("group-rename", "-gid", groups[1].Gid, "-name", "personal")
	c.mustRun("group-delete", "-gid", groups[0].Gid)
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("groups")), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "personal", groups[0].Name)
	assert.False(t, c.app.state.ModalOpen("group"))
}
