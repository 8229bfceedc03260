package api

import (
	"context"
	"fmt"
	"net/url"

	"shortlink-admin/client"
	"shortlink-admin/types"
)

// UserAPI covers accounts and sessions.
type UserAPI struct {
	client  *client.Client
	session Session
}

// Login authenticates and stores the issued token with the username. With
// RememberMe both survive restarts for a week, otherwise only the session.
func (a *UserAPI) Login(ctx context.Context, req types.LoginRequest) (types.LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return types.LoginResponse{}, err
	}
	var resp types.LoginResponse
	if err := a.client.Post(ctx, Prefix+"/user/login", req, &resp); err != nil {
		return types.LoginResponse{}, err
	}
	if err := a.session.SetToken(resp.Token, req.RememberMe); err != nil {
		return resp, fmt.Errorf("store token: %w", err)
	}
	if err := a.session.SetUsername(req.Username, req.RememberMe); err != nil {
		return resp, fmt.Errorf("store username: %w", err)
	}
	return resp, nil
}

// Register creates an account.
func (a *UserAPI) Register(ctx context.Context, req types.RegisterRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	return a.client.Post(ctx, Prefix+"/user", req, nil)
}

// UsernameAvailable reports whether username is free to register.
// The endpoint answers true when the name is NOT taken.
func (a *UserAPI) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, &ValidationError{Fields: map[string]string{"username": "is required"}}
	}
	var available bool
	err := a.client.Get(ctx, Prefix+"/user/has-username", url.Values{"username": {username}}, &available)
	return available, err
}

// Info returns the profile of username.
func (a *UserAPI) Info(ctx context.Context, username string) (types.User, error) {
	if username == "" {
		return types.User{}, &ValidationError{Fields: map[string]string{"username": "is required"}}
	}
	var user types.User
	err := a.client.Get(ctx, Prefix+"/user/"+url.PathEscape(username), nil, &user)
	return user, err
}

// Update changes the profile of the logged in user.
func (a *UserAPI) Update(ctx context.Context, req types.UpdateUserRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	return a.client.Put(ctx, Prefix+"/user", req, nil)
}

// Logout ends the server session and clears the stored credentials. Without a
// token and a username there is nothing to end and no request is sent.
func (a *UserAPI) Logout(ctx context.Context) error {
	token, hasToken := a.session.Token()
	username, hasUsername := a.session.Username()
	if !hasToken || !hasUsername || token == "" || username == "" {
		return a.session.ClearAuth()
	}
	query := url.Values{"username": {username}, "token": {token}}
	if err := a.client.Delete(ctx, Prefix+"/user/logout", query, nil); err != nil {
		return err
	}
	return a.session.ClearAuth()
}

// CheckLogin asks whether the stored session is still valid. It never
// notifies and treats every failure as logged out.
func (a *UserAPI) CheckLogin(ctx context.Context) bool {
	token, hasToken := a.session.Token()
	username, hasUsername := a.session.Username()
	if !hasToken || !hasUsername || token == "" {
		return false
	}
	var valid bool
	query := url.Values{"username": {username}, "token": {token}}
	if err := a.client.Get(ctx, Prefix+"/user/check-login", query, &valid, client.Silent()); err != nil {
		return false
	}
	return valid
}
