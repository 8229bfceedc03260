// Package client is the single HTTP entry point to the short-link admin API.
// It attaches the operator credentials to every request, unwraps the response
// envelope and turns every failure into exactly one user notification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"shortlink-admin/types"
)

// Header names carrying the credentials.
const (
	HeaderToken    = "Token"
	HeaderUsername = "Username"
)

// LoginPath is where the operator is sent after an authentication failure.
const LoginPath = "/login"

// DefaultTimeout bounds every request.
const DefaultTimeout = 15 * time.Second

// Messages shown when the server does not provide one.
const (
	MessageNetwork      = "Network error, please check your connection"
	MessageFailed       = "Request failed, please try again later"
	MessageUnauthorized = "Session expired, please log in again"
)

// Credentials is the part of the token store the client needs.
type Credentials interface {
	Token() (string, bool)
	Username() (string, bool)
	ClearAuth() error
}

// Client sends requests to the admin API.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     Credentials
	notifier  Notifier
	navigator Navigator
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithNotifier sets where failure notifications go.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithNavigator sets what handles the redirect to the login view.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTransport replaces the HTTP transport, keeping the timeout.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// New creates a Client. A non-positive timeout selects DefaultTimeout.
func New(baseURL string, timeout time.Duration, creds Credentials, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		creds:     creds,
		notifier:  nopNotifier{},
		navigator: nopNavigator{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallOption tweaks a single call.
type CallOption func(*callOptions)

type callOptions struct {
	silent bool
}

// Silent suppresses user notifications for the call. Credentials are still
// cleared on an authentication failure.
func Silent() CallOption {
	return func(o *callOptions) { o.silent = true }
}

// RawResponse is a successful response that is not an envelope.
type RawResponse struct {
	Header http.Header
	Body   []byte
}

// Get sends a GET request and decodes the envelope payload into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out, opts...)
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out, opts...)
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out, opts...)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodDelete, path, query, nil, out, opts...)
}

// Do sends a request and decodes the envelope payload into out, which may be nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any, opts ...CallOption) error {
	o := collect(opts)
	status, _, data, err := c.send(ctx, method, path, query, body, o)
	if err != nil {
		return err
	}

	var env types.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return c.fail(o, &Error{Kind: KindDecode, Status: status, Err: fmt.Errorf("%w: %v", ErrDecode, err)}, method, path)
	}
	if !env.OK() {
		return c.fail(o, &Error{
			Kind:      KindBusiness,
			Status:    status,
			Code:      env.Code,
			Message:   env.Message,
			RequestID: env.RequestID,
		}, method, path)
	}
	if err := env.Decode(out); err != nil {
		return c.fail(o, &Error{Kind: KindDecode, Status: status, RequestID: env.RequestID, Err: fmt.Errorf("%w: %v", ErrDecode, err)}, method, path)
	}
	return nil
}

// DoRaw sends a request whose successful response is returned as is.
func (c *Client) DoRaw(ctx context.Context, method, path string, query url.Values, body any, opts ...CallOption) (*RawResponse, error) {
	o := collect(opts)
	status, header, data, err := c.send(ctx, method, path, query, body, o)
	if err != nil {
		return nil, err
	}
	// a business failure still arrives as an envelope
	if strings.HasPrefix(header.Get("Content-Type"), "application/json") {
		var env types.Envelope
		if json.Unmarshal(data, &env) == nil && !env.OK() {
			return nil, c.fail(o, &Error{
				Kind:      KindBusiness,
				Status:    status,
				Code:      env.Code,
				Message:   env.Message,
				RequestID: env.RequestID,
			}, method, path)
		}
	}
	return &RawResponse{Header: header, Body: data}, nil
}

func collect(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// send performs the transport round trip and handles every non-2xx outcome.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, o callOptions) (int, http.Header, []byte, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return 0, nil, nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, c.fail(o, &Error{Kind: KindNetwork, Err: fmt.Errorf("%w: %v", ErrNetwork, err)}, method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, c.fail(o, &Error{Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrNetwork, err)}, method, path)
	}

	c.logger.Debug("API response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, resp.Header, data, nil
	}

	apiErr := &Error{Kind: KindHTTP, Status: resp.StatusCode}
	var env types.Envelope
	if json.Unmarshal(data, &env) == nil {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
		apiErr.RequestID = env.RequestID
	}
	if resp.StatusCode == http.StatusUnauthorized {
		apiErr.Kind = KindAuth
		apiErr.Err = ErrUnauthorized
		if err := c.creds.ClearAuth(); err != nil {
			c.logger.Warn("Failed to clear credentials", zap.Error(err))
		}
		c.navigator.Navigate(LoginPath)
	}
	return 0, nil, nil, c.fail(o, apiErr, method, path)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	token, _ := c.creds.Token()
	username, _ := c.creds.Username()
	req.Header.Set(HeaderToken, token)
	req.Header.Set(HeaderUsername, username)
	return req, nil
}

// fail notifies the operator once and returns apiErr.
func (c *Client) fail(o callOptions, apiErr *Error, method, path string) error {
	c.logger.Warn("API call failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("kind", apiErr.Kind.String()),
		zap.Int("status", apiErr.Status),
		zap.String("code", string(apiErr.Code)),
		zap.String("requestId", apiErr.RequestID),
		zap.Error(errors.Unwrap(apiErr)))

	if o.silent {
		return apiErr
	}
	switch apiErr.Kind {
	case KindNetwork:
		c.notifier.Notify(LevelError, MessageNetwork)
	case KindAuth:
		c.notifier.Notify(LevelWarning, messageOr(apiErr.Message, MessageUnauthorized))
	default:
		c.notifier.Notify(LevelError, messageOr(apiErr.Message, MessageFailed))
	}
	return apiErr
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
