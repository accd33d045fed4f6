package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 120 * time.Second
	defaultBaseURL     = "http://localhost:11434/v1/chat/completions"
	jsonResponseType   = "json_object"
)

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Referer and Title are forwarded as OpenRouter attribution headers.
	Referer        string
	Title          string
	TimeoutSeconds int
	// RetryAttempts bounds how many times a request is sent. Zero means once.
	RetryAttempts int
}

// DefaultHTTPTimeout returns the default timeout used for LLM requests.
func DefaultHTTPTimeout() time.Duration {
	return defaultHTTPTimeout
}

// Client wraps an OpenAI-compatible chat completion endpoint such as a local
// Ollama server or OpenRouter.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the configured attempt count.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retry.attempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retry.baseDelay = baseDelay
		c.retry.maxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.retry.sleeper = sleeper
	}
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Referer = strings.TrimSpace(cfg.Referer)
	cfg.Title = strings.TrimSpace(cfg.Title)

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		retry:      defaultRetryPolicy(cfg.RetryAttempts),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Complete issues a plain-text chat completion and returns the model's reply
// with any surrounding code fence removed. The system prompt is optional.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req, err := c.newRequest(systemPrompt, userPrompt, "")
	if err != nil {
		return "", err
	}
	content, err := c.do(ctx, req, "llm complete")
	if err != nil {
		return "", err
	}
	return stripCodeFenceBlock(content), nil
}

// CompleteJSON issues a JSON-only chat completion request with the supplied prompts.
// It returns the raw JSON payload produced by the model.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req, err := c.newRequest(systemPrompt, userPrompt, jsonResponseType)
	if err != nil {
		return "", err
	}
	return c.do(ctx, req, "llm complete json")
}

// HealthCheck issues a fast ping to verify the endpoint and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.CompleteJSON(ctx, "You must respond with JSON only.", `Respond with {"ok":true}`)
	if err != nil {
		return fmt.Errorf("llm health: %w", err)
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return fmt.Errorf("llm health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}

// Model reports the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) newRequest(systemPrompt, userPrompt, responseType string) (chatCompletionRequest, error) {
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return chatCompletionRequest{}, errors.New("llm complete: user prompt required")
	}
	messages := make([]chatMessage, 0, 2)
	if system := strings.TrimSpace(systemPrompt); system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	req := chatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: append(messages, chatMessage{Role: "user", Content: userPrompt}),
	}
	if responseType != "" {
		req.ResponseFormat = map[string]string{"type": responseType}
	}
	return req, nil
}

// do sends req under the retry policy and returns the first non-empty content.
func (c *Client) do(ctx context.Context, req chatCompletionRequest, op string) (string, error) {
	attempts := c.retry.maxAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		content, err := c.send(ctx, req, op)
		if err == nil {
			return content, nil
		}
		lastErr = err

		delay, retry := c.retry.next(ctx, err, attempt)
		if !retry {
			break
		}
		if err := c.retry.wait(ctx, delay); err != nil {
			return "", err
		}
	}
	if attempts > 1 {
		return "", fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
	}
	return "", lastErr
}
