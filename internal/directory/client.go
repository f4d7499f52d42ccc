package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"usermanager/internal/shared/metrics"
	"usermanager/internal/shared/telemetry"
)

const (
	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"

	maxErrorBody = 512
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// Client talks to a Remote Directory exposing /users. Each call is a single attempt.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a Client for the provided base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("directory: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("directory: invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("directory: base URL %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the directory endpoint the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List fetches every user (GET /users).
func (c *Client) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, opList, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create submits a new user (POST /users) and returns the record the server created.
func (c *Client) Create(ctx context.Context, in UserInput) (User, error) {
	var out User
	if err := c.do(ctx, opCreate, http.MethodPost, "/users", in, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// Update replaces the user addressed by id (PUT /users/{id}).
func (c *Client) Update(ctx context.Context, id int64, in UserInput) (User, error) {
	var out User
	if err := c.do(ctx, opUpdate, http.MethodPut, userPath(id), in, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// Delete removes the user addressed by id (DELETE /users/{id}).
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, opDelete, http.MethodDelete, userPath(id), nil, nil)
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	defer func() {
		metrics.ObserveDirectoryCall(op, time.Since(start), err)
		if err != nil {
			telemetry.Error("directory.request.failed", map[string]any{
				"op":     op,
				"method": method,
				"path":   path,
				"err":    err,
			})
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return fmt.Errorf("directory %s: encode body: %w", op, merr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("directory %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("directory %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("directory %s: decode response: %w", op, err)
	}
	return nil
}
