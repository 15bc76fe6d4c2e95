// Package chatclient talks to the chatbot backend.
//
// The backend contract is a single endpoint:
//
//	POST {baseURL}/chat   {"message": "..."}  ->  {"response": "..."}
//
// Send never surfaces transport or protocol failures to its caller. Any
// such failure is logged and replaced by FallbackReply, so the caller can
// display the result as an ordinary bot reply.
package chatclient

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

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"chatui/config"
)

// FallbackReply is returned by Send in place of a reply whenever the request fails
const FallbackReply = "Error: Could not get response."

// maxResponseBytes caps how much of a reply body is read
const maxResponseBytes = 4 << 20

type Client struct {
	httpClient *http.Client
	baseURL    string
	chatURL    string
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero keeps the transport default (no timeout).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid chat server URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid chat server URL %q: must be absolute", baseURL)
	}

	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	c.chatURL = c.baseURL + "/chat"

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type chatRequest struct {
	Message string `json:"message"`
}

// Send posts message to /chat and returns the reply text verbatim.
//
// On any transport, status or decoding failure it returns FallbackReply and
// a nil error. The only error it returns is ctx.Err(), when the caller
// cancelled or timed out the context.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	return c.SendWithID(ctx, uuid.NewString(), message)
}

// SendWithID is Send with a caller-chosen request id, used to correlate log lines
func (c *Client) SendWithID(ctx context.Context, requestID, message string) (string, error) {
	reply, err := c.send(ctx, message, requestID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return FallbackReply, nil
	}
	return reply, nil
}

func (c *Client) send(ctx context.Context, message, requestID string) (string, error) {
	startTime := time.Now()
	logger := config.Log.With().Str("request_id", requestID).Logger()

	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		logger.Warn().Err(err).Msg("encode chat request")
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		logger.Warn().Err(err).Msg("build chat request")
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	logger.Debug().Str("url", c.chatURL).Int("chars", len(message)).Msg("sending chat request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Dur("elapsed", time.Since(startTime)).Msg("chat request failed")
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logger.Warn().Err(err).Int("status", resp.StatusCode).Msg("read chat response")
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn().Int("status", resp.StatusCode).Dur("elapsed", time.Since(startTime)).Msg("chat server returned non-success status")
		return "", fmt.Errorf("chat server returned %s", resp.Status)
	}

	reply, err := parseReply(data)
	if err != nil {
		logger.Warn().Err(err).Int("status", resp.StatusCode).Msg("unusable chat response")
		return "", err
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("chars", len(reply)).
		Dur("elapsed", time.Since(startTime)).
		Msg("chat reply received")

	return reply, nil
}

var errNoResponseField = errors.New(`response body has no string "response" field`)

// parseReply extracts the "response" string field. The backend reports its
// own failures as {"error": "..."} with status 200, which lands here too.
func parseReply(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("response body is not valid JSON")
	}

	result := gjson.GetBytes(data, "response")
	if result.Type != gjson.String {
		if serverErr := gjson.GetBytes(data, "error"); serverErr.Exists() {
			return "", fmt.Errorf("%w (server error: %s)", errNoResponseField, serverErr.String())
		}
		return "", errNoResponseField
	}

	return result.String(), nil
}

// Ping checks the backend root answers with a success status
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat server unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("chat server returned %s", resp.Status)
	}
	return nil
}
