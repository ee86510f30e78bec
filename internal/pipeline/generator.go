package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/nao1215/soupmail/internal/content"
	"github.com/nao1215/soupmail/internal/llm"
	"github.com/nao1215/soupmail/internal/model"
)

// Result is the outcome of one Run.
type Result struct {
	// Content is the accepted fragment, or the rendered fallback.
	Content string

	// Source tells whether Content came from the model or the fallback pool.
	Source model.Source

	// Attempts holds every attempt in order.
	Attempts []model.Attempt

	// Fallback is the chosen entry when Source is SourceFallback.
	Fallback *content.Entry

	Mode content.Mode
}

// UsedFallback reports whether the retries were exhausted.
func (r *Result) UsedFallback() bool {
	return r.Source == model.SourceFallback
}

// Generator runs the request, extract, validate, retry loop.
type Generator struct {
	completer llm.Completer
	mode      content.Mode
	prompt    llm.Prompt
	validate  content.Validator
	pool      *content.Pool
	policy    Policy
	rng       *rand.Rand
	logger    *slog.Logger
}

// Option is a function that configures a Generator.
type Option func(*Generator)

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithPrompt replaces the mode's default prompt. Empty fields keep the default.
func WithPrompt(p llm.Prompt) Option {
	return func(g *Generator) {
		if p.System != "" {
			g.prompt.System = p.System
		}
		if p.User != "" {
			g.prompt.User = p.User
		}
	}
}

// WithPool sets the fallback pool.
func WithPool(pool *content.Pool) Option {
	return func(g *Generator) {
		if pool != nil {
			g.pool = pool
		}
	}
}

// WithRand sets the random source used to pick a fallback entry.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = r
	}
}

// WithMaxRetries overrides the number of attempts.
// Values outside [MinRetries, MaxRetries] are ignored.
func WithMaxRetries(n int) Option {
	return func(g *Generator) {
		if n >= MinRetries && n <= MaxRetries {
			g.policy.MaxRetries = n
		}
	}
}

// WithBackoff overrides the wait between attempts. Negative values are ignored.
func WithBackoff(d time.Duration) Option {
	return func(g *Generator) {
		if d >= 0 {
			g.policy.Backoff = d
		}
	}
}

// WithRequestTimeout overrides the per-request timeout. Non-positive values are ignored.
func WithRequestTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.policy.RequestTimeout = d
		}
	}
}

// New creates a Generator for the given mode. The mode decides the default
// prompt, the validator and the retry policy.
func New(completer llm.Completer, mode content.Mode, opts ...Option) *Generator {
	g := &Generator{
		completer: completer,
		mode:      mode,
		prompt:    DefaultPrompt(mode),
		validate:  content.ValidatorFor(mode),
		pool:      content.NewPool(),
		policy:    PolicyFor(mode),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Policy returns the effective retry policy.
func (g *Generator) Policy() Policy {
	return g.policy
}

// Run performs up to Policy().MaxRetries attempts and returns the first
// accepted fragment, or a rendered fallback when every attempt failed.
// The only error it returns is the context's, when the run is interrupted.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	res := &Result{Mode: g.mode}
	maxAttempts := g.policy.MaxRetries

	for n := 1; n <= maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation interrupted: %w", err)
		}

		g.logger.Info("requesting content",
			"attempt", n,
			"max_attempts", maxAttempts,
			"mode", g.mode,
		)

		a := g.attempt(ctx, n)
		res.Attempts = append(res.Attempts, a)

		if a.Outcome == model.OutcomeAccepted {
			g.logger.Info("content accepted",
				"attempt", n,
				"duration", a.Duration.Round(time.Millisecond),
			)
			res.Content = a.Fragment
			res.Source = model.SourceGenerated
			return res, nil
		}

		// A request cut short by the caller is not a failed attempt.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation interrupted: %w", err)
		}

		g.logger.Warn("attempt failed",
			"attempt", n,
			"max_attempts", maxAttempts,
			"outcome", a.Outcome,
			"error", a.ErrorMessage(),
		)

		if n < maxAttempts {
			if err := g.wait(ctx); err != nil {
				return nil, fmt.Errorf("generation interrupted: %w", err)
			}
		}
	}

	entry := g.pool.Pick(g.rng)
	g.logger.Warn("retries exhausted, using fallback content",
		"attempts", maxAttempts,
	)
	res.Content = content.RenderFallback(entry)
	res.Source = model.SourceFallback
	res.Fallback = &entry
	return res, nil
}

// attempt runs Requesting, Extracting and Validating once.
func (g *Generator) attempt(ctx context.Context, n int) model.Attempt {
	start := time.Now()
	a := model.Attempt{Number: n}

	reqCtx, cancel := context.WithTimeout(ctx, g.policy.RequestTimeout)
	raw, err := g.completer.Complete(reqCtx, g.prompt)
	cancel()
	if err != nil {
		a.Outcome = model.OutcomeTransportError
		a.Err = err
		a.Duration = time.Since(start)
		return a
	}

	fragment := content.Extract(raw)
	a.Fragment = fragment
	g.logger.Debug("extracted fragment",
		"attempt", n,
		"raw_length", len(raw),
		"fragment_length", len(fragment),
	)

	if g.validate(fragment) {
		a.Outcome = model.OutcomeAccepted
	} else {
		a.Outcome = model.OutcomeRejected
		a.Err = ErrContentRejected
	}
	a.Duration = time.Since(start)
	return a
}

// wait blocks for the backoff or until ctx is done.
func (g *Generator) wait(ctx context.Context) error {
	if g.policy.Backoff <= 0 {
		return ctx.Err()
	}

	g.logger.Debug("waiting before retry", "backoff", g.policy.Backoff)

	timer := time.NewTimer(g.policy.Backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
