package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink-admin/client"
	"shortlink-admin/client/mocks"
	"shortlink-admin/tokenstore"
	"shortlink-admin/types"
)

type fixture struct {
	client    *client.Client
	store     *tokenstore.Store
	notifier  *mocks.MockNotifier
	navigator *mocks.MockNavigator
}

func setupClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *fixture {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := tokenstore.New(tokenstore.NewMemoryJar())
	notifier := new(mocks.MockNotifier)
	navigator := new(mocks.MockNavigator)
	c := client.New(server.URL+"/api", timeout, store,
		client.WithNotifier(notifier),
		client.WithNavigator(navigator),
		client.WithLogger(zap.NewNop()))
	return &fixture{client: c, store: store, notifier: notifier, navigator: navigator}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestAuthHeaders(t *testing.T) {
	t.Run("credentials are attached", func(t *testing.T) {
		var got http.Header
		f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			writeJSON(w, http.StatusOK, `{"code":"0","data":null}`)
		}, time.Second)
		require.NoError(t, f.store.SetToken("tok", false))
		require.NoError(t, f.store.SetUsername("alice", false))

		require.NoError(t, f.client.Get(context.Background(), "/group", nil, nil))
		assert.Equal(t, "tok", got.Get(client.HeaderToken))
		assert.Equal(t, "alice", got.Get(client.HeaderUsername))
	})

	t.Run("absent credentials are sent as empty strings", func(t *testing.T) {
		var got http.Header
		f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			writeJSON(w, http.StatusOK, `{"code":"0"}`)
		}, time.Second)

		require.NoError(t, f.client.Get(context.Background(), "/group", nil, nil))
		assert.Equal(t, []string{""}, got.Values(client.HeaderToken))
		assert.Equal(t, []string{""}, got.Values(client.HeaderUsername))
		assert.NotContains(t, got.Get(client.HeaderToken), "undefined")
	})
}

func TestRequestTarget(t *testing.T) {
	var gotPath, gotQuery, gotContentType string
	f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		writeJSON(w, http.StatusOK, `{"code":"0","data":{"token":"x"}}`)
	}, time.Second)

	var out types.LoginResponse
	require.NoError(t, f.client.Post(context.Background(), "/user/login", types.LoginRequest{Username: "a", Password: "b"}, &out))
	assert.Equal(t, "/api/user/login", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "x", out.Token)

	require.NoError(t, f.client.Get(context.Background(), "page", url.Values{"gid": {"g1"}, "current": {"2"}}, nil))
	assert.Equal(t, "/api/page", gotPath)
	assert.Equal(t, "current=2&gid=g1", gotQuery)
}

func TestSuccessCodes(t *testing.T) {
	for _, body := range []string{`{"code":"0","data":{"token":"t"}}`, `{"code":0,"data":{"token":"t"}}`, `{"code":200,"data":{"token":"t"}}`} {
		f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, body)
		}, time.Second)

		var out types.LoginResponse
		require.NoError(t, f.client.Get(context.Background(), "/x", nil, &out), body)
		assert.Equal(t, "t", out.Token)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	}
}

func TestBusinessFailureOn2xx(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"server message", `{"code":"A000111","message":"username already exists","data":null}`, "username already exists"},
		{"fallback message", `{"code":"B000001","data":null}`, client.MessageFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			}, time.Second)
			f.notifier.On("Notify", client.LevelError, tt.message).Once()

			var out types.LoginResponse
			err := f.client.Get(context.Background(), "/x", nil, &out)
			require.Error(t, err)
			assert.ErrorIs(t, err, client.ErrBusiness)
			assert.Empty(t, out.Token)

			var apiErr *client.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusOK, apiErr.Status)
			assert.NotEmpty(t, apiErr.Code)
			f.notifier.AssertExpectations(t)
			f.notifier.AssertNumberOfCalls(t, "Notify", 1)
		})
	}
}

func TestUnauthorized(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"code":"A000401","message":"token expired"}`)
	}

	t.Run("clears credentials and navigates to login", func(t *testing.T) {
		f := setupClient(t, handler, time.Second)
		require.NoError(t, f.store.SetToken("tok", true))
		require.NoError(t, f.store.SetUsername("alice", true))
		f.navigator.On("Navigate", client.LoginPath).Once()
		f.notifier.On("Notify", client.LevelWarning, "token expired").Once()

		err := f.client.Get(context.Background(), "/group", nil, nil)
		assert.ErrorIs(t, err, client.ErrUnauthorized)
		assert.Equal(t, types.CodeUnauthorized, client.CodeOf(err))
		assert.False(t, f.store.IsAuthenticated())
		_, ok := f.store.Username()
		assert.False(t, ok)
		f.navigator.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("silent calls do not notify", func(t *testing.T) {
		f := setupClient(t, handler, time.Second)
		require.NoError(t, f.store.SetToken("tok", false))
		f.navigator.On("Navigate", client.LoginPath).Once()

		err := f.client.Get(context.Background(), "/group", nil, nil, client.Silent())
		assert.ErrorIs(t, err, client.ErrUnauthorized)
		assert.False(t, f.store.IsAuthenticated())
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})
}

func TestNetworkFailure(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		base := server.URL
		server.Close()

		notifier := new(mocks.MockNotifier)
		notifier.On("Notify", client.LevelError, client.MessageNetwork).Once()
		c := client.New(base, time.Second, tokenstore.New(tokenstore.NewMemoryJar()), client.WithNotifier(notifier))

		err := c.Get(context.Background(), "/group", nil, nil)
		assert.ErrorIs(t, err, client.ErrNetwork)
		notifier.AssertExpectations(t)
		notifier.AssertNumberOfCalls(t, "Notify", 1)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, 50*time.Millisecond)
		defer close(release)
		f.notifier.On("Notify", client.LevelError, client.MessageNetwork).Once()

		err := f.client.Get(context.Background(), "/slow", nil, nil)
		assert.ErrorIs(t, err, client.ErrNetwork)
		f.notifier.AssertExpectations(t)
	})
}

func TestOtherHTTPFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"server message", http.StatusNotFound, `{"code":"B000404","message":"short link not found"}`, "short link not found"},
		{"no envelope", http.StatusInternalServerError, `oops`, client.MessageFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}, time.Second)
			f.notifier.On("Notify", client.LevelError, tt.message).Once()

			err := f.client.Post(context.Background(), "/update", map[string]string{"id": "1"}, nil)
			assert.ErrorIs(t, err, client.ErrHTTP)

			var apiErr *client.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			f.navigator.AssertNotCalled(t, "Navigate", mock.Anything)
			f.notifier.AssertExpectations(t)
		})
	}
}

func TestMalformedEnvelope(t *testing.T) {
	f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `<html>proxy error</html>`)
	}, time.Second)
	f.notifier.On("Notify", client.LevelError, client.MessageFailed).Once()

	err := f.client.Get(context.Background(), "/x", nil, nil)
	assert.ErrorIs(t, err, client.ErrDecode)
	f.notifier.AssertExpectations(t)
}

func TestDoRaw(t *testing.T) {
	f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename*=UTF-8''links.xlsx`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("PK\x03\x04"))
	}, time.Second)

	resp, err := f.client.DoRaw(context.Background(), http.MethodPost, "/create/batch", nil, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "PK\x03\x04", string(resp.Body))
	assert.Equal(t, "links.xlsx", client.FilenameFromDisposition(resp.Header.Get("Content-Disposition"), client.DefaultSpreadsheetName))
}

func TestDoRawUnauthorized(t *testing.T) {
	f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"code":"A000401"}`)
	}, time.Second)
	f.navigator.On("Navigate", client.LoginPath).Once()
	f.notifier.On("Notify", client.LevelWarning, client.MessageUnauthorized).Once()

	resp, err := f.client.DoRaw(context.Background(), http.MethodPost, "/create/batch", nil, nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	f.navigator.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestDoRawBusinessFailure(t *testing.T) {
	f := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"code":"B000404","message":"group not found"}`)
	}, time.Second)
	f.notifier.On("Notify", client.LevelError, "group not found").Once()

	resp, err := f.client.DoRaw(context.Background(), http.MethodPost, "/create/batch", nil, nil)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, client.ErrBusiness)
	assert.Equal(t, types.CodeNotFound, client.CodeOf(err))
	f.notifier.AssertExpectations(t)
}
