package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	httpclient "vjudge/internal/cli/http"
	pkgerrors "vjudge/pkg/errors"
	"vjudge/pkg/utils/logger"

	"go.uber.org/zap"
)

// Client talks to the auth service: credentials, token verification, and the
// admin user-management surface.
type Client struct {
	http    *httpclient.Client
	session *Session
}

func NewClient(http *httpclient.Client, session *Session) *Client {
	return &Client{http: http, session: session}
}

type credentialsResponse struct {
	Token string `json:"token"`
}

// SignIn exchanges credentials for a token and stores it in the session.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return pkgerrors.Newf(pkgerrors.RequiredFieldEmpty, "email and password are required")
	}
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := c.http.Do(ctx, http.MethodPost, "/api/auth/signin", nil, body)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.SignInFailed.Message())
		return pkgerrors.Newf(pkgerrors.SignInFailed, "%s", msg)
	}
	return c.storeToken(ctx, resp.Body)
}

// SignUp registers a new account; the auth service signs the user in on
// success and returns a token.
func (c *Client) SignUp(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return pkgerrors.Newf(pkgerrors.RequiredFieldEmpty, "username, email and password are required")
	}
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	resp, err := c.http.Do(ctx, http.MethodPost, "/api/auth/signup", nil, body)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.SignUpFailed.Message())
		return pkgerrors.Newf(pkgerrors.SignUpFailed, "%s", msg)
	}
	return c.storeToken(ctx, resp.Body)
}

func (c *Client) storeToken(ctx context.Context, body []byte) error {
	var parsed credentialsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	if parsed.Token == "" {
		return pkgerrors.New(pkgerrors.NoTokenReceived)
	}
	if err := c.session.SetToken(parsed.Token); err != nil {
		return err
	}
	logger.Info(ctx, "signed in")
	return nil
}

// Verify checks the stored token against the auth service. A failed
// verification clears the token and yields an anonymous session, not an
// error; only the absence of any stored token short-circuits.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	token := c.session.Token()
	if token == "" {
		return nil, nil
	}
	body, _ := json.Marshal(map[string]string{"token": token})
	resp, err := c.http.Do(ctx, http.MethodPost, "/api/auth/verify", nil, body)
	if err != nil || resp.StatusCode != http.StatusOK {
		logger.Warn(ctx, "token verification failed, clearing session", zap.Error(err))
		if clearErr := c.session.Clear(); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}
	var user User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	c.session.SetUser(&user)
	return &user, nil
}

// SignOut drops the session token locally. The auth service holds no
// server-side session to invalidate.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.session.Clear(); err != nil {
		return err
	}
	logger.Info(ctx, "signed out")
	return nil
}

// ListUsers returns all accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	resp, err := c.http.Do(ctx, http.MethodGet, "/api/users", nil, nil)
	if err != nil {
		return nil, pkgerrors.TransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.Newf(pkgerrors.FromHTTPStatus(resp.StatusCode, pkgerrors.UserNotFound),
			"%s", httpclient.APIMessage(resp.Body, "failed to list users"))
	}
	var users []User
	if err := json.Unmarshal(resp.Body, &users); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return users, nil
}

// GetUser fetches one account by id. Admin only.
func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, pkgerrors.Newf(pkgerrors.InvalidParams, "user id is required")
	}
	resp, err := c.http.Do(ctx, http.MethodGet, "/api/admin/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return User{}, pkgerrors.TransportError(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return User{}, pkgerrors.Newf(pkgerrors.UserNotFound, "user %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return User{}, pkgerrors.New(pkgerrors.FromHTTPStatus(resp.StatusCode, pkgerrors.UserNotFound))
	}
	var user User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return User{}, pkgerrors.Wrap(err, pkgerrors.MalformedResponse)
	}
	return user, nil
}

// UpdateUser updates mutable account fields. Admin only.
func (c *Client) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error {
	if id == "" {
		return pkgerrors.Newf(pkgerrors.InvalidParams, "user id is required")
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.InternalError)
	}
	resp, err := c.http.Do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), nil, body)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.UserUpdateFailed.Message())
		return pkgerrors.Newf(pkgerrors.UserUpdateFailed, "%s", msg)
	}
	return nil
}

// ChangeRole replaces a user's roles. Admin only.
func (c *Client) ChangeRole(ctx context.Context, id string, roles []string) error {
	if id == "" {
		return pkgerrors.Newf(pkgerrors.InvalidParams, "user id is required")
	}
	if len(roles) == 0 {
		return pkgerrors.Newf(pkgerrors.InvalidParams, "at least one role is required")
	}
	body, _ := json.Marshal(map[string][]string{"roles": roles})
	resp, err := c.http.Do(ctx, http.MethodPatch, fmt.Sprintf("/api/users/%s/role", url.PathEscape(id)), nil, body)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.RoleChangeFailed.Message())
		return pkgerrors.Newf(pkgerrors.RoleChangeFailed, "%s", msg)
	}
	return nil
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.Newf(pkgerrors.InvalidParams, "user id is required")
	}
	resp, err := c.http.Do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return pkgerrors.TransportError(err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		msg := httpclient.APIMessage(resp.Body, pkgerrors.UserDeleteFailed.Message())
		return pkgerrors.Newf(pkgerrors.UserDeleteFailed, "%s", msg)
	}
	return nil
}
