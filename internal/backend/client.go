package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config represents booking backend client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the remote booking backend. The backend is the system of
// record for bookings, promotions and payment sessions; this client only
// forwards the caller's bearer token, it never holds credentials itself.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new booking backend client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// envelope is the response wrapper every backend endpoint uses.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// do sends one request and decodes the envelope into out (when out != nil).
// Every failure path returns a *Error so callers can branch on Kind.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var env envelope
	decoded := json.Unmarshal(bodyBytes, &env) == nil

	if resp.StatusCode == http.StatusUnauthorized {
		return &Error{Kind: KindUnauthorized, Status: resp.StatusCode, Message: env.Message}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decoded && len(env.Errors) > 0 {
			return &Error{Kind: KindValidation, Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
		}
		msg := env.Message
		if msg == "" {
			msg = strings.TrimSpace(string(bodyBytes))
		}
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: msg}
	}

	if !decoded {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "malformed response body"}
	}

	if !env.Success {
		return &Error{Kind: KindRejected, Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindServer, Status: resp.StatusCode, Message: fmt.Sprintf("failed to decode response data: %v", err)}
		}
	}

	return nil
}
