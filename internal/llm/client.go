// Package llm provides an OpenAI-compatible HTTP client for chat completions.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxErrorBody = 64 << 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options configures a Client.
type Options struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client communicates with an OpenAI-compatible chat completion endpoint.
// It is safe for concurrent use.
type Client struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client

	logger *slog.Logger
}

// NewClient creates a Client from opts. A nil HTTPClient gets DefaultTimeouts.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = NewHTTPClient(DefaultTimeouts())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		Endpoint:   opts.Endpoint,
		APIKey:     opts.APIKey,
		HTTPClient: hc,
		logger:     logger.With(slog.String("component", "llm")),
	}
}

// NewChatRequest builds a fresh request holding one system message followed by one user message.
func NewChatRequest(model, systemPrompt, question string, maxTokens *int, temperature *float64) ChatRequest {
	return ChatRequest{
		Model: model,
		Messages: []Message{
			SystemMessage(systemPrompt),
			UserMessage(question),
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// Ask sends req and returns the first choice's content. ok is false when the
// endpoint answered successfully without any choice.
func (c *Client) Ask(ctx context.Context, req ChatRequest) (answer string, ok bool, err error) {
	resp, err := c.Complete(ctx, req)
	if err != nil {
		return "", false, err
	}
	answer, ok = resp.FirstAnswer()
	return answer, ok, nil
}

// Complete sends a single chat completion request. It never retries.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		terr := newTransportError(err)
		c.logger.Warn("chat request failed", slog.String("endpoint", c.Endpoint), slog.Any("error", terr))
		return nil, terr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("chat request rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(errBody)),
		)
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(err)
	}
	c.logger.Debug("chat response", slog.String("body", string(raw)))

	result, err := decodeResponse(raw)
	if err != nil {
		c.logger.Warn("chat response rejected", slog.Any("error", err))
		return nil, err
	}
	c.logger.Debug("chat usage",
		slog.String("id", result.ID),
		slog.Int("prompt_tokens", result.Usage.PromptTokens),
		slog.Int("completion_tokens", result.Usage.CompletionTokens),
		slog.Int("total_tokens", result.Usage.TotalTokens),
	)
	return result, nil
}

func decodeResponse(raw []byte) (*ChatResponse, error) {
	var result ChatResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if err := validate.Struct(&result); err != nil {
		return nil, &ValidationError{Err: err}
	}
	return &result, nil
}

// Validate checks v against its validate struct tags.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}
