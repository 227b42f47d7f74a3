package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// ErrUnauthorized marks responses rejected by the server for a missing,
// expired or otherwise invalid token. Callers can test for it with
// errors.Is regardless of the wrapping APIError.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the Smartbuy API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Client is a thin typed wrapper around the Smartbuy REST API.
// The zero value is not usable, construct it with New.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// OnUnauthorized, when set, is called once per request that the
	// server rejects with 401, after the error is built but before it
	// is returned. Session teardown hangs off this hook.
	OnUnauthorized func()
}

// New returns a Client talking to baseURL. The underlying http.Client
// carries a cookie jar so server-set cookies (language preference)
// survive across calls.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}
}

// do runs one request against the API. A non-empty token is sent as a
// bearer Authorization header. in (if non-nil) is JSON-encoded as the
// body, out (if non-nil) receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp),
		}
		if apiErr.Status == http.StatusUnauthorized && c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
	}
	return nil
}

// errorMessage extracts a human-readable message from an error
// response. The API reports errors as {"error": "..."}, but some
// proxies answer with {"message": "..."} or a non-JSON body, so fall
// back to a generic status line.
func errorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(raw) > 0 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			if payload.Error != "" {
				return payload.Error
			}
			if payload.Message != "" {
				return payload.Message
			}
		}
	}
	return fmt.Sprintf("HTTP error, status %d", resp.StatusCode)
}
