package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/genai"
)

func TestNewGeminiClient_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewGeminiClient(context.Background(), GeminiConfig{Model: "gemini-2.0-flash"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "k"}); !errors.Is(err, ErrMissingModel) {
		t.Errorf("expected ErrMissingModel, got %v", err)
	}
}

func TestGeminiClient_Complete(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  <div>加油</div>  "}]}}]}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewGeminiClient(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}

	out, err := c.Complete(context.Background(), Prompt{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "<div>加油</div>" {
		t.Errorf("Complete() = %q", out)
	}
}

func TestClassifyGeminiErr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         error
		wantStatus int
	}{
		{name: "api 429", in: genai.APIError{Code: 429}, wantStatus: 429},
		{name: "api 500", in: genai.APIError{Code: 500}, wantStatus: 500},
		{name: "plain error", in: errors.New("dial tcp: connection refused"), wantStatus: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var terr *TransportError
			if !errors.As(classifyGeminiErr(tt.in), &terr) {
				t.Fatalf("expected *TransportError")
			}
			if terr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", terr.StatusCode, tt.wantStatus)
			}
		})
	}

	if classifyGeminiErr(nil) != nil {
		t.Error("expected nil for nil error")
	}
}
