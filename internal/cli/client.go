package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/memorygame-go/internal/api/apierr"
	"github.com/mcoot/memorygame-go/internal/model"
)

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	player     string
	httpClient *http.Client
}

// NewClient creates a new API client acting as the given player
func NewClient(baseURL, player string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		player:  player,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Player returns the identity sent with each request
func (c *Client) Player() string {
	return c.player
}

// RequestError is a non-2xx response from the API
type RequestError struct {
	Status  int
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Unwrap maps API error codes back to the engine's sentinel errors
func (e *RequestError) Unwrap() error {
	switch e.Code {
	case apierr.CodeInvalidDifficulty:
		return model.ErrInvalidDifficulty
	case apierr.CodeGameNotFound:
		return model.ErrGameNotFound
	case apierr.CodeGameNotActive:
		return model.ErrGameNotActive
	case apierr.CodeNotGameOwner:
		return model.ErrNotGameOwner
	case apierr.CodeDuplicateCardIndex:
		return model.ErrDuplicateCardIndex
	case apierr.CodeCardIndexOutOfBounds:
		return model.ErrCardIndexOutOfBounds
	case apierr.CodeMissingRequiredField:
		return model.ErrMissingRequiredField
	}
	return nil
}

// Do performs an HTTP request
func (c *Client) Do(method, path string, body, result any) error {
	return c.DoContext(context.Background(), method, path, body, result)
}

// DoContext performs an HTTP request bound to ctx
func (c *Client) DoContext(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.player != "" {
		req.Header.Set("X-Player-ID", c.player)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp apierr.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return &RequestError{Status: resp.StatusCode, Code: errResp.Error.Code, Message: errResp.Error.Message}
		}
		return &RequestError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(path string, result any) error {
	return c.Do(http.MethodDelete, path, nil, result)
}
