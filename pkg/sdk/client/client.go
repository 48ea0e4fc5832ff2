// Package client is a small Go client for the platform API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/twocards/platform/pkg/countries"
	"github.com/twocards/platform/pkg/types"
	"github.com/twocards/platform/pkg/users"
)

// Client talks to the platform API using one app key. The key may be an
// app's test or live public key, or the admin key for the admin endpoints.
type Client struct {
	baseURL    string
	appKey     string
	httpClient *http.Client
}

// New creates a client for the given base URL and app key.
func New(baseURL, appKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		appKey:     appKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
	Token   string     `json:"token"`
}

// AppResponse is returned by CreateApp.
type AppResponse struct {
	Message string    `json:"message"`
	App     types.App `json:"app"`
}

// Register creates a new account. Requires the admin key.
func (c *Client) Register(ctx context.Context, in users.RegisterInput) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.postJSON(ctx, "/api/v1/auth/register", "", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates an account. Requires the admin key.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/api/v1/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateApp creates an application for the token's user. Requires the admin
// key and a bearer token from Register or Login.
func (c *Client) CreateApp(ctx context.Context, token string, in types.CreateAppInput) (*AppResponse, error) {
	var resp AppResponse
	if err := c.postJSON(ctx, "/api/v1/apps", token, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SupportedCountries fetches the supported-country options.
func (c *Client) SupportedCountries(ctx context.Context) ([]countries.Option, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/v1/countries/supported"), http.NoBody)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Countries []countries.Option `json:"countries"`
	}
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	return resp.Countries, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path + "?app=" + url.QueryEscape(c.appKey)
}

func (c *Client) postJSON(ctx context.Context, path, token string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr types.APIError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return fmt.Errorf("api error %s: %s", apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("http status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}
	return nil
}
