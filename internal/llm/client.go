package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrBadStatus is returned when the provider answers with a non-2xx status.
	ErrBadStatus = errors.New("llm: provider returned an error status")
	// ErrEmptyResponse is returned when the reply cannot be parsed or carries no text.
	ErrEmptyResponse = errors.New("llm: provider response has no usable text")
)

// Client calls a Gemini-style generateContent endpoint.
type Client struct {
	httpClient *resty.Client
	endpoint   string
	timeout    time.Duration
}

// NewClient creates a Resty-backed client. Every call is bounded by timeout.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("x-goog-api-key", apiKey),
		endpoint: endpoint,
		timeout:  timeout,
	}
}

// GenerateContent posts the prompt and returns the reply text.
// A call that outlives the client timeout fails with context.DeadlineExceeded.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.endpoint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("llm: request aborted: %w", ctxErr)
		}
		return "", fmt.Errorf("llm: request failed: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("%w: %d %s", ErrBadStatus, resp.StatusCode(), truncate(resp.String(), 512))
	}

	var completion GenerateResponse
	if err := json.Unmarshal(resp.Body(), &completion); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyResponse, err)
	}
	text := completion.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
