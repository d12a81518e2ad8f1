package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/junaidrashid-git/bidaya-api/logging"
	"github.com/junaidrashid-git/bidaya-api/models"
)

// SignIn opens a session and keeps its token.
func (c *Client) SignIn(ctx context.Context, creds models.Credentials) (*models.User, error) {
	var out struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("%w: login response without token or user", ErrMalformedResponse)
	}
	if err := c.setToken(out.Token); err != nil {
		logging.Failure("token_save", err, logging.Fields{UserID: out.User.ID})
	}
	return out.User, nil
}

// SignUp registers a pending trader; no session is opened.
func (c *Client) SignUp(ctx context.Context, reg models.Registration) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SignOut ends the server session. The local token is dropped whatever the
// server answers.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if tokErr := c.setToken(""); tokErr != nil {
		logging.Failure("token_remove", tokErr, logging.Fields{})
	}
	return err
}

// CurrentUser returns the session's user, or (nil, nil) without a valid
// session.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	if c.Token() == "" {
		return nil, nil
	}
	var out struct {
		User *models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/session", nil, &out)
	if errors.Is(err, models.ErrUnauthenticated) {
		c.setToken("")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out.User, nil
}
