package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/soupmail/internal/content"
	"github.com/nao1215/soupmail/internal/llm"
	"github.com/nao1215/soupmail/internal/model"
)

// completerFunc adapts a function to llm.Completer.
type completerFunc func(ctx context.Context, p llm.Prompt) (string, error)

func (f completerFunc) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	return f(ctx, p)
}

// scripted returns the responses in order, repeating the last one.
func scripted(calls *atomic.Int32, responses ...func() (string, error)) completerFunc {
	return func(_ context.Context, _ llm.Prompt) (string, error) {
		i := int(calls.Add(1)) - 1
		if i >= len(responses) {
			i = len(responses) - 1
		}
		return responses[i]()
	}
}

func reply(s string) func() (string, error) {
	return func() (string, error) { return s, nil }
}

func fail(err error) func() (string, error) {
	return func() (string, error) { return "", err }
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerator_Run(t *testing.T) {
	t.Parallel()

	t.Run("accepted on first attempt", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		g := New(scripted(&calls, reply("<think>plan</think>\n```html\n<div>励志 加油</div>\n```")), content.ModeHTML,
			WithLogger(quietLogger()),
			WithBackoff(0),
		)

		res, err := g.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Content != "<div>励志 加油</div>" {
			t.Errorf("Content = %q", res.Content)
		}
		if res.Source != model.SourceGenerated || res.UsedFallback() {
			t.Errorf("expected generated content, got %s", res.Source)
		}
		if len(res.Attempts) != 1 || res.Attempts[0].Outcome != model.OutcomeAccepted {
			t.Errorf("unexpected attempts: %+v", res.Attempts)
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})

	t.Run("three malformed bodies fall back", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		malformed := fmt.Errorf("%w: no choices", llm.ErrMalformedResponse)
		g := New(scripted(&calls, fail(malformed)), content.ModeText,
			WithLogger(quietLogger()),
			WithMaxRetries(3),
			WithBackoff(0),
			WithRand(rand.New(rand.NewPCG(7, 7))),
		)

		res, err := g.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !res.UsedFallback() || res.Fallback == nil {
			t.Fatalf("expected fallback, got %+v", res)
		}
		if res.Content != content.RenderFallback(*res.Fallback) {
			t.Errorf("content does not match the chosen entry")
		}
		if !content.IsValidMarkup(res.Content) {
			t.Errorf("fallback content is not valid markup: %s", res.Content)
		}
		if len(res.Attempts) != 3 {
			t.Fatalf("expected 3 attempts, got %d", len(res.Attempts))
		}
		for _, a := range res.Attempts {
			if a.Outcome != model.OutcomeTransportError {
				t.Errorf("attempt %d outcome = %s", a.Number, a.Outcome)
			}
			if !errors.Is(a.Err, llm.ErrMalformedResponse) {
				t.Errorf("attempt %d error = %v", a.Number, a.Err)
			}
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 calls, got %d", calls.Load())
		}
	})

	t.Run("rejected fragment is retried and only the latest is judged", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		g := New(scripted(&calls,
			reply("<think>still thinking"),
			reply("<p>hi</p>"),
			reply("<div>今天也要加油哦</div>"),
		), content.ModeHTML,
			WithLogger(quietLogger()),
			WithBackoff(time.Millisecond),
		)

		res, err := g.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Content != "<div>今天也要加油哦</div>" {
			t.Errorf("Content = %q", res.Content)
		}
		if len(res.Attempts) != 3 {
			t.Fatalf("expected 3 attempts, got %d", len(res.Attempts))
		}
		for _, a := range res.Attempts[:2] {
			if a.Outcome != model.OutcomeRejected || !errors.Is(a.Err, ErrContentRejected) {
				t.Errorf("attempt %d: outcome %s err %v", a.Number, a.Outcome, a.Err)
			}
		}
	})

	t.Run("text mode accepts a sentence after reasoning", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		g := New(scripted(&calls, reply("<think>\n用户要一句鸡汤\n</think>\n\n相信自己，明天会更好。")), content.ModeText,
			WithLogger(quietLogger()),
		)

		res, err := g.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Content != "相信自己，明天会更好。" {
			t.Errorf("Content = %q", res.Content)
		}
	})

	t.Run("mixed failures exhaust the configured attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		g := New(scripted(&calls,
			fail(&llm.TransportError{StatusCode: 503, Err: errors.New("unavailable")}),
			reply("没有标签的纯文本内容"),
		), content.ModeHTML,
			WithLogger(quietLogger()),
			WithMaxRetries(2),
			WithBackoff(0),
		)

		res, err := g.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !res.UsedFallback() {
			t.Fatal("expected fallback")
		}
		if res.Attempts[0].Outcome != model.OutcomeTransportError || res.Attempts[1].Outcome != model.OutcomeRejected {
			t.Errorf("unexpected outcomes: %s, %s", res.Attempts[0].Outcome, res.Attempts[1].Outcome)
		}
	})
}

func TestGenerator_Cancellation(t *testing.T) {
	t.Parallel()

	t.Run("cancel during backoff returns promptly", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int32
		g := New(completerFunc(func(_ context.Context, _ llm.Prompt) (string, error) {
			calls.Add(1)
			return "", errors.New("connection reset")
		}), content.ModeHTML,
			WithLogger(quietLogger()),
			WithBackoff(time.Hour),
		)

		done := make(chan error, 1)
		go func() {
			_, err := g.Run(ctx)
			done <- err
		}()
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after cancellation")
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})

	t.Run("cancel during a request is not counted as a failed attempt", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		g := New(completerFunc(func(reqCtx context.Context, _ llm.Prompt) (string, error) {
			cancel()
			<-reqCtx.Done()
			return "", &llm.TransportError{Err: reqCtx.Err()}
		}), content.ModeHTML, WithLogger(quietLogger()))

		res, err := g.Run(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if res != nil {
			t.Errorf("expected nil result, got %+v", res)
		}
	})

	t.Run("already cancelled context makes no request", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int32
		g := New(scripted(&calls, reply("<div>励志</div>")), content.ModeHTML, WithLogger(quietLogger()))

		if _, err := g.Run(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if calls.Load() != 0 {
			t.Errorf("expected no calls, got %d", calls.Load())
		}
	})
}

func TestGenerator_RequestTimeout(t *testing.T) {
	t.Parallel()

	var gotDeadline atomic.Bool
	g := New(completerFunc(func(ctx context.Context, _ llm.Prompt) (string, error) {
		deadline, ok := ctx.Deadline()
		gotDeadline.Store(ok && time.Until(deadline) <= 2*time.Second)
		return "加油你能行！", nil
	}), content.ModeText,
		WithLogger(quietLogger()),
		WithRequestTimeout(2*time.Second),
	)

	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !gotDeadline.Load() {
		t.Error("expected each request to carry the configured timeout")
	}
}

func TestGenerator_Prompt(t *testing.T) {
	t.Parallel()

	var got llm.Prompt
	g := New(completerFunc(func(_ context.Context, p llm.Prompt) (string, error) {
		got = p
		return "加油你能行！", nil
	}), content.ModeText,
		WithLogger(quietLogger()),
		WithPrompt(llm.Prompt{User: "custom"}),
	)

	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.User != "custom" {
		t.Errorf("User prompt = %q", got.User)
	}
	if got.System != DefaultPrompt(content.ModeText).System {
		t.Errorf("System prompt = %q, want default", got.System)
	}
}

func TestPolicy(t *testing.T) {
	t.Parallel()

	t.Run("built-in profiles", func(t *testing.T) {
		t.Parallel()

		text := PolicyFor(content.ModeText)
		if text.MaxRetries != 3 || text.RequestTimeout != 30*time.Second || text.Backoff != 2*time.Second {
			t.Errorf("unexpected text policy: %+v", text)
		}
		html := PolicyFor(content.ModeHTML)
		if html.MaxRetries != 5 || html.RequestTimeout != 60*time.Second {
			t.Errorf("unexpected html policy: %+v", html)
		}
	})

	t.Run("out of range overrides are ignored", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{0, -1, 11} {
			g := New(nil, content.ModeText, WithMaxRetries(n))
			if g.Policy().MaxRetries != 3 {
				t.Errorf("WithMaxRetries(%d) changed policy to %d", n, g.Policy().MaxRetries)
			}
		}
		if g := New(nil, content.ModeText, WithMaxRetries(10)); g.Policy().MaxRetries != 10 {
			t.Errorf("expected 10, got %d", g.Policy().MaxRetries)
		}
	})
}
