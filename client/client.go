// Package client is the storefront's HTTP binding to the Bidaya API. It
// implements the backends the session, catalog, cart and admin packages
// depend on.
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
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/junaidrashid-git/bidaya-api/models"
)

// ErrMalformedResponse is a 2xx response missing fields the call needs.
var ErrMalformedResponse = errors.New("malformed api response")

// APIError is a non-2xx response. It unwraps to the shared sentinel its
// code names, so callers can use errors.Is(err, models.ErrAccountBanned).
type APIError struct {
	Status   int
	Code     string
	Message  string
	Redirect string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	if err := models.ErrorForCode(e.Code); err != nil {
		return err
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return models.ErrUnauthenticated
	case http.StatusNotFound:
		return models.ErrNotFound
	}
	return nil
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenFile keeps the session token in path between runs.
func WithTokenFile(path string) Option {
	return func(c *Client) { c.tokenFile = path }
}

type Client struct {
	baseURL   string
	http      *http.Client
	tokenFile string

	mu    sync.RWMutex
	token string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tokenFile != "" {
		if data, err := os.ReadFile(c.tokenFile); err == nil {
			c.token = strings.TrimSpace(string(data))
		}
	}
	return c
}

// Token is the current session token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if c.tokenFile == "" {
		return nil
	}
	if token == "" {
		if err := os.Remove(c.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove token file: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.tokenFile), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	return os.WriteFile(c.tokenFile, []byte(token), 0o600)
}

// do sends body as JSON and decodes a 2xx response into out when out is
// not nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error    string `json:"error"`
			Code     string `json:"code"`
			Redirect string `json:"redirect"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Code = payload.Code
			apiErr.Redirect = payload.Redirect
		}
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, id)
}

func escape(s string) string {
	return url.PathEscape(s)
}
