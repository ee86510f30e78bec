package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/nao1215/soupmail/internal/log"
)

// GeminiConfig holds the settings for a GeminiClient.
type GeminiConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string

	MaxTokens   int
	Temperature float64

	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
}

// GeminiClient is a Completer backed by the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
	limiter     *rate.Limiter
}

// NewGeminiClient creates a GeminiClient. It does not contact the API.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, ErrMissingModel
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	g := &GeminiClient{
		client:      client,
		model:       strings.TrimSpace(cfg.Model),
		maxTokens:   int32(maxTokens), //nolint:gosec // bounded by config validation
		temperature: float32(cfg.Temperature),
	}
	if cfg.RateLimit > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return g, nil
}

// Complete asks Gemini for one candidate and returns its text, trimmed.
func (g *GeminiClient) Complete(ctx context.Context, p Prompt) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Err: err}
		}
	}

	cfg := &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: g.maxTokens,
		Temperature:     genai.Ptr(g.temperature),
	}
	if strings.TrimSpace(p.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), cfg)
	if err != nil {
		return "", classifyGeminiErr(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", ErrMalformedResponse)
	}
	return text, nil
}

// classifyGeminiErr maps SDK errors onto TransportError. Every failure is
// one failed attempt; the status code is kept for logging.
func classifyGeminiErr(err error) error {
	if err == nil {
		return nil
	}
	redacted := errors.New(log.RedactSecrets(err.Error()))

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{StatusCode: apiErr.Code, Err: redacted}
	}
	return &TransportError{Err: redacted}
}
