package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestChatClient(t *testing.T, h http.HandlerFunc, opts ...ChatOption) *ChatClient {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewChatClient(srv.URL+"/chat/completions", "test-key", "test-model", opts...)
	if err != nil {
		t.Fatalf("NewChatClient() error = %v", err)
	}
	return c
}

func TestChatClient_Complete(t *testing.T) {
	t.Parallel()

	t.Run("sends the expected request and returns content", func(t *testing.T) {
		t.Parallel()

		var got chatRequest
		var auth, contentType string
		c := newTestChatClient(t, func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			contentType = r.Header.Get("Content-Type")
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode request: %v", err)
			}
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  加油！  "}}]}`))
		}, WithMaxTokens(100), WithTemperature(0.7))

		out, err := c.Complete(context.Background(), Prompt{System: "sys", User: "usr"})
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if out != "加油！" {
			t.Errorf("Complete() = %q, want %q", out, "加油！")
		}
		if auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if contentType != "application/json" {
			t.Errorf("Content-Type = %q", contentType)
		}
		if got.Model != "test-model" || got.MaxTokens != 100 || got.Temperature != 0.7 || got.Stream {
			t.Errorf("unexpected request body: %+v", got)
		}
		if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "usr" {
			t.Errorf("unexpected messages: %+v", got.Messages)
		}
	})

	t.Run("non-2xx status is a transport error", func(t *testing.T) {
		t.Parallel()

		c := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"Authorization: Bearer leaked-token"}`, http.StatusUnauthorized)
		})

		_, err := c.Complete(context.Background(), Prompt{User: "x"})
		var terr *TransportError
		if !errors.As(err, &terr) {
			t.Fatalf("expected *TransportError, got %v", err)
		}
		if terr.StatusCode != http.StatusUnauthorized {
			t.Errorf("StatusCode = %d", terr.StatusCode)
		}
		if strings.Contains(err.Error(), "leaked-token") {
			t.Errorf("error leaks bearer token: %v", err)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `not json`},
		{name: "empty choices", body: `{"choices":[]}`},
		{name: "missing choices", body: `{"id":"x"}`},
		{name: "missing message", body: `{"choices":[{"index":0}]}`},
		{name: "missing content", body: `{"choices":[{"message":{"role":"assistant"}}]}`},
	}
	for _, tt := range tests {
		t.Run("malformed body: "+tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), Prompt{User: "x"})
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}

	t.Run("empty content is returned as is", func(t *testing.T) {
		t.Parallel()

		c := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
		})

		out, err := c.Complete(context.Background(), Prompt{User: "x"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("expected empty content, got %q", out)
		}
	})

	t.Run("context deadline is a transport error", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		c := newTestChatClient(t, func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		})
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := c.Complete(ctx, Prompt{User: "x"})
		var terr *TransportError
		if !errors.As(err, &terr) {
			t.Fatalf("expected *TransportError, got %v", err)
		}
		if terr.StatusCode != 0 {
			t.Errorf("expected no status code, got %d", terr.StatusCode)
		}
	})
}

func TestChatClient_RateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}, WithRateLimit(0.001))

	if _, err := c.Complete(context.Background(), Prompt{User: "x"}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, Prompt{User: "x"})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected limiter wait to fail as *TransportError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected one request to reach the server, got %d", calls.Load())
	}
}

func TestNewChatClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint string
		key      string
		model    string
		wantErr  error
	}{
		{name: "missing endpoint", endpoint: "", key: "k", model: "m", wantErr: ErrMissingEndpoint},
		{name: "missing key", endpoint: "http://x", key: " ", model: "m", wantErr: ErrMissingAPIKey},
		{name: "missing model", endpoint: "http://x", key: "k", model: "", wantErr: ErrMissingModel},
		{name: "valid", endpoint: "http://x", key: "k", model: "m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewChatClient(tt.endpoint, tt.key, tt.model)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewChatClient() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	withStatus := &TransportError{StatusCode: 502, Err: inner}
	if !strings.Contains(withStatus.Error(), "502") {
		t.Errorf("expected status in message: %s", withStatus.Error())
	}
	if !errors.Is(withStatus, inner) {
		t.Error("expected Unwrap to expose the inner error")
	}

	noStatus := &TransportError{Err: inner}
	if strings.Contains(noStatus.Error(), "status") {
		t.Errorf("unexpected status in message: %s", noStatus.Error())
	}
}
