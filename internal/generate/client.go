package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient creates a generation client. Fails when the API key is empty,
// since every request would be rejected anyway.
func NewClient(opts ClientOptions, logger *zap.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, newError(KindAuth, "missing API key", nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		model:   opts.Model,
		http:    &http.Client{Timeout: opts.Timeout},
		logger:  logger,
	}, nil
}

// Generate sends the prompt as a single user message and returns the first
// choice. Honors ctx cancellation; classifies failures by kind.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", newError(KindUnknown, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", newError(KindUnknown, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		// Caller cancellation is not a back-end failure and carries no kind.
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("request cancelled: %w", err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", newError(KindTimeout, "request timed out", err)
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", newError(KindTimeout, "request timed out", err)
		}
		return "", newError(KindUnknown, "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindUnknown, "failed to read response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", newError(KindAuth, "request rejected", fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	case http.StatusTooManyRequests:
		return "", newError(KindRateLimit, "rate limit exceeded", fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	default:
		return "", newError(KindUnknown, "unexpected status", fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", newError(KindUnknown, "failed to parse response", err)
	}
	if parsed.Error != nil {
		return "", newError(KindUnknown, parsed.Error.Message, nil)
	}
	if len(parsed.Choices) == 0 {
		return "", newError(KindUnknown, "response contained no choices", nil)
	}

	c.logger.Debug("generation completed",
		zap.Duration("latency", time.Since(start)),
		zap.String("model", c.model))
	return parsed.Choices[0].Message.Content, nil
}
