package upstream

import (
	"context"
	"net/http"

	"github.com/audiotheca/gateway/internal/core/domain"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var tr tokenResponse
	err := c.do(ctx, http.MethodPost, "/login", nil, map[string]string{
		"username": username,
		"password": password,
	}, &tr)
	return tr.AccessToken, err
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, username, email, password, role string) (string, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	if role != "" {
		body["role"] = role
	}
	var tr tokenResponse
	err := c.do(ctx, http.MethodPost, "/register", nil, body, &tr)
	return tr.AccessToken, err
}

// Logout notifies the upstream that the session ended.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

// Me validates the attached credential and returns the identity it
// proves. The server's role vocabulary is normalized here, at the single
// point where an Identity is constructed.
func (c *Client) Me(ctx context.Context) (*domain.Identity, error) {
	var mr meResponse
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &mr); err != nil {
		return nil, err
	}
	return domain.NewIdentity(mr.ID, mr.Username, mr.Email, mr.Role), nil
}

// ChangePassword forwards a password change for the current session.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/change-password", nil, map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}, nil)
}
