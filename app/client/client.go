// Package client is a thin HTTP client for the taskboard API with explicit
// error kinds, so the UI layer alone maps failures to user-visible messages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"taskboard/app/models"
)

// ErrorKind classifies an API failure.
type ErrorKind string

const (
	// KindValidation means the server rejected the request payload.
	KindValidation ErrorKind = "validation"
	// KindNotFound means the referenced task does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindTransport covers network failures and every other non-2xx reply.
	KindTransport ErrorKind = "transport"
)

// APIError is a failed API call.
type APIError struct {
	Kind    ErrorKind
	Status  int // HTTP status, 0 when the request never got a response
	Message string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Client calls the taskboard HTTP API.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client for the given server origin, e.g. "http://localhost:8080".
func New(base string) *Client {
	return &Client{base: strings.TrimRight(base, "/"), http: http.DefaultClient}
}

// ListPending fetches up to limit pending tasks. A limit of zero or less
// leaves the bound to the server default.
func (c *Client) ListPending(ctx context.Context, limit int) ([]models.Task, error) {
	endpoint := c.base + "/tasks"
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Create submits a new task and returns the created record.
func (c *Client) Create(ctx context.Context, title, description string) (*models.Task, error) {
	body := map[string]string{"title": title, "description": description}
	var task models.Task
	if err := c.do(ctx, http.MethodPost, c.base+"/tasks", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Complete marks the task with the given id as done.
func (c *Client) Complete(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("%s/tasks/%d/complete", c.base, id)
	return c.do(ctx, http.MethodPatch, endpoint, nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindTransport, Message: err.Error()}
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Kind: KindTransport, Status: resp.StatusCode, Message: err.Error()}
		}
	}
	return nil
}

func apiError(resp *http.Response) *APIError {
	msg := http.StatusText(resp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}

	kind := KindTransport
	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = KindValidation
	case http.StatusNotFound:
		kind = KindNotFound
	}
	return &APIError{Kind: kind, Status: resp.StatusCode, Message: msg}
}
