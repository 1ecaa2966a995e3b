package api

import (
	"context"
	"net/http"

	"github.com/idlikadai3-prog/idli-kadai-frontend/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	User        models.Identity `json:"user"`
}

// Login exchanges credentials for a bearer token and the user's identity.
func (c *Client) Login(ctx context.Context, username, password string) (string, models.Identity, error) {
	var resp tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/token", credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return "", models.Identity{}, err
	}
	return resp.AccessToken, resp.User, nil
}

// Register creates a buyer account. The role is assigned server-side.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/register", registration{Username: username, Email: email, Password: password}, nil)
}

// Me returns the identity the token belongs to.
func (c *Client) Me(ctx context.Context) (models.Identity, error) {
	var id models.Identity
	err := c.doJSON(ctx, http.MethodGet, "/me", nil, &id)
	return id, err
}

// CreateSeller creates a seller account; requires a seller token.
func (c *Client) CreateSeller(ctx context.Context, username, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/sellers", registration{Username: username, Email: email, Password: password}, nil)
}
