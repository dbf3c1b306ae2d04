// Package client talks to a taskwave server over its HTTP API.
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

	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/fyrsmithlabs/taskwave/internal/tracker"
)

// DefaultTimeout bounds every request unless WithHTTPClient overrides it.
const DefaultTimeout = 10 * time.Second

// Client is a taskwave HTTP API client.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// CreateRequest is the body of POST /tasks.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Persona     string `json:"persona"`
	Group       int    `json:"group"`
	Section     int    `json:"section"`
}

type updateRequest struct {
	ID int `json:"id"`
	task.Patch
}

type idRequest struct {
	ID int `json:"id"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Completion is the server's answer to a completion request.
type Completion struct {
	Message  string     `json:"message"`
	Task     *task.Task `json:"task,omitempty"`
	Unlocked *task.Task `json:"unlocked"`
}

// List returns the tasks matching filter.
func (c *Client) List(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	path := "/tasks"
	if filter != task.FilterAll {
		path += "?type=" + url.QueryEscape(string(filter))
	}
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get returns a single task.
func (c *Client) Get(ctx context.Context, id int) (task.Task, error) {
	var t task.Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &t)
	return t, err
}

// Create adds a task and returns the server message.
func (c *Client) Create(ctx context.Context, req CreateRequest) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/tasks", req, &resp)
	return resp.Message, err
}

// Update applies p to task id. The server ignores unknown ids.
func (c *Client) Update(ctx context.Context, id int, p task.Patch) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPut, "/tasks", updateRequest{ID: id, Patch: p}, &resp)
	return resp.Message, err
}

// Delete removes task id. The server ignores unknown ids.
func (c *Client) Delete(ctx context.Context, id int) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodDelete, "/tasks", idRequest{ID: id}, &resp)
	return resp.Message, err
}

// Complete marks the first task titled title as completed.
func (c *Client) Complete(ctx context.Context, title string) (Completion, error) {
	var resp Completion
	err := c.do(ctx, http.MethodPost, "/tasks/complete", titleRequest{Title: title}, &resp)
	return resp, err
}

// CompleteByID marks task id as completed.
func (c *Client) CompleteByID(ctx context.Context, id int) (Completion, error) {
	var resp Completion
	err := c.do(ctx, http.MethodPost, "/tasks/complete", idRequest{ID: id}, &resp)
	return resp, err
}

// Status returns the board summary.
func (c *Client) Status(ctx context.Context) (tracker.Status, error) {
	var st tracker.Status
	err := c.do(ctx, http.MethodGet, "/status", nil, &st)
	return st, err
}

// Health returns the server health status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	err := c.do(ctx, http.MethodGet, "/health", nil, &resp)
	return resp.Status, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", c.baseURL+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		apiErr.Message = er.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
