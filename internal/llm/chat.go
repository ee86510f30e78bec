package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/nao1215/soupmail/internal/log"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// ChatClient is a Completer for OpenAI-compatible chat completion endpoints.
type ChatClient struct {
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// ChatOption configures a ChatClient.
type ChatOption func(*ChatClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) ChatOption {
	return func(cc *ChatClient) {
		if c != nil {
			cc.httpClient = c
		}
	}
}

// WithMaxTokens sets max_tokens. Non-positive values are ignored.
func WithMaxTokens(n int) ChatOption {
	return func(cc *ChatClient) {
		if n > 0 {
			cc.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ChatOption {
	return func(cc *ChatClient) {
		cc.temperature = t
	}
}

// WithRateLimit limits outgoing requests to rps per second.
// Zero or negative disables limiting.
func WithRateLimit(rps float64) ChatOption {
	return func(cc *ChatClient) {
		if rps > 0 {
			cc.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			cc.limiter = nil
		}
	}
}

// NewChatClient creates a ChatClient posting to endpoint.
func NewChatClient(endpoint, apiKey, model string, opts ...ChatOption) (*ChatClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(model) == "" {
		return nil, ErrMissingModel
	}

	c := &ChatClient{
		endpoint:    endpoint,
		apiKey:      strings.TrimSpace(apiKey),
		model:       strings.TrimSpace(model),
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		httpClient:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// Pointers distinguish a missing content field from an empty one.
type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one non-streaming chat request and returns the first
// choice's message content, trimmed.
func (c *ChatClient) Complete(ctx context.Context, p Prompt) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Err: err}
		}
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: errors.New(log.RedactSecrets(err.Error()))}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &TransportError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(log.RedactSecrets(msg)),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	msg := parsed.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", fmt.Errorf("%w: choices[0].message.content missing", ErrMalformedResponse)
	}
	return strings.TrimSpace(*msg.Content), nil
}
