package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/soupmail/internal/compose"
	"github.com/nao1215/soupmail/internal/config"
	"github.com/nao1215/soupmail/internal/content"
	"github.com/nao1215/soupmail/internal/history"
	"github.com/nao1215/soupmail/internal/llm"
	"github.com/nao1215/soupmail/internal/log"
	"github.com/nao1215/soupmail/internal/mailer"
	"github.com/nao1215/soupmail/internal/model"
	"github.com/nao1215/soupmail/internal/pipeline"
	"github.com/nao1215/soupmail/internal/recipient"
)

// NewSendCmd creates the send command.
func NewSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Generate today's message and email it",
		Long: `Send asks the completion endpoint for a short motivational message,
extracts and validates the answer, and mails it to the configured recipients.

Failed or unusable answers are retried (5 attempts in html mode, 3 in text
mode). When every attempt fails, a curated quote is sent instead.

Environment:
  AI_CONFIG         {"apiUrl","apiKey","model","provider","maxTokens","temperature","rateLimit"}
  MAIL_CONFIG       {"host","port","secure","auth":{"user","pass"},"sender":{"email","name"}}
  RECIPIENT_EMAIL   single recipient
  RECIPIENT_EMAILS  comma-separated recipients (takes precedence)
  CONTENT_MODE      html (default) or text
  DEBUG             true shows email addresses and the Message-ID in logs

Examples:
  # Send using .env in the current directory
  soupmail send

  # Compose and log without sending
  soupmail send --dry-run -v

  # Use another env file and settings file
  soupmail send --env-file /etc/soupmail.env -c /etc/soupmail.yaml`,
		Args: cobra.NoArgs,
		RunE: runSendCmd,
	}

	addConfigFlags(cmd)
	cmd.Flags().BoolP("dry-run", "n", false,
		"Compose the email and log it instead of sending")
	cmd.Flags().Bool("json-log", false,
		"Write logs as JSON lines")

	return cmd
}

func runSendCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildSendConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	progress, secure := setupLoggers(cfg)
	slog.SetDefault(progress)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			progress.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	return runSend(ctx, cfg, sendDeps{
		completer: completer,
		sender:    newSender(cfg, secure),
		progress:  progress,
		secure:    secure,
	})
}

// buildSendConfig is buildConfig plus the send-only flags.
func buildSendConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}
	cfg.JSONLog, err = cmd.Flags().GetBool("json-log")
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildConfig assembles the configuration: defaults, then the settings
// file, then the environment. Commands apply their own flags afterwards.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.EnvFile, err = cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// An env file named on the command line must exist; the default is optional.
	if err := config.LoadEnvFile(cfg.EnvFile, cmd.Flags().Changed("env-file")); err != nil {
		return nil, err
	}

	if err := applySettingsFile(cfg); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// addConfigFlags registers the flags read by buildConfig.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Settings file path (default: .soupmail.yaml in current or home directory)")
	cmd.Flags().String("env-file", config.DefaultEnvFile,
		"Load environment variables from this file if it exists")
}

// applySettingsFile loads the YAML settings file into cfg. A missing file is
// an error only when it was named explicitly.
func applySettingsFile(cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("settings file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	f, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load settings file %s: %w", path, err)
	}
	if err := cfg.ApplyFile(f); err != nil {
		return fmt.Errorf("settings file %s: %w", path, err)
	}
	return nil
}

// setupLoggers returns the progress logger and the recipient-facing logger.
// The second one hides email addresses unless DEBUG is on.
func setupLoggers(cfg *config.Config) (progress, secure *slog.Logger) {
	if cfg.JSONLog {
		return log.NewSecureJSONLogger(os.Stderr, cfg.Verbose, false),
			log.NewSecureJSONLogger(os.Stderr, cfg.Verbose, !cfg.Debug)
	}
	return log.NewProgressLogger(os.Stderr, cfg.Verbose),
		log.NewSecureLogger(os.Stderr, cfg.Verbose, !cfg.Debug)
}

// newCompleter builds the completion client selected by cfg.Provider.
func newCompleter(ctx context.Context, cfg *config.Config) (llm.Completer, error) {
	if cfg.IsGemini() {
		return llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.APIURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			RateLimit:   cfg.RateLimit,
		})
	}

	opts := []llm.ChatOption{llm.WithTemperature(cfg.Temperature)}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(cfg.MaxTokens))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, llm.WithRateLimit(cfg.RateLimit))
	}
	return llm.NewChatClient(cfg.APIURL, cfg.APIKey, cfg.Model, opts...)
}

func newSender(cfg *config.Config, logger *slog.Logger) mailer.Sender {
	if cfg.DryRun {
		return mailer.NewLogSender(logger)
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Secure:   cfg.SMTPSecure,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		Timeout:  config.DefaultSMTPTimeout,
	})
}

// sendDeps holds the collaborators of runSend.
type sendDeps struct {
	completer llm.Completer
	sender    mailer.Sender
	progress  *slog.Logger
	secure    *slog.Logger
}

// runSend resolves recipients while the message is generated, then
// composes, delivers and records the result.
func runSend(ctx context.Context, cfg *config.Config, deps sendDeps) error {
	runID := uuid.NewString()
	progress := deps.progress.With("run_id", runID)

	from, err := mailer.FromAddress(cfg.SenderEmail, cfg.SenderName, cfg.SMTPUser)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var (
		recipients []string
		result     *pipeline.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := recipient.Resolve(cfg.RecipientEmail, cfg.RecipientEmails)
		if err != nil {
			return err
		}
		recipients = rs
		return nil
	})
	g.Go(func() error {
		res, err := newGenerator(cfg, deps.completer, progress).Run(gctx)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err := g.Wait(); err != nil {
		var verr *recipient.ValidationError
		if errors.Is(err, recipient.ErrNoRecipient) || errors.As(err, &verr) {
			return fmt.Errorf("configuration error: %w", err)
		}
		return err
	}

	progress.Info("content ready",
		"source", result.Source,
		"attempts", len(result.Attempts),
		"recipients", len(recipients),
	)

	document := compose.Compose(result.Content, compose.IsMarkup(result.Content))

	dispatcher := mailer.NewDispatcher(deps.sender, from,
		mailer.WithSubject(cfg.Subject),
		mailer.WithDispatchLogger(deps.secure),
		mailer.WithMessageIDLogging(cfg.Debug),
	)
	receipt, sendErr := dispatcher.Dispatch(ctx, recipients, document)

	delivery := &model.Delivery{
		RunID:          runID,
		Mode:           result.Mode.String(),
		Source:         result.Source,
		Attempts:       len(result.Attempts),
		Content:        result.Content,
		RecipientCount: len(recipients),
		Status:         model.StatusSent,
	}
	switch {
	case sendErr != nil:
		delivery.Status = model.StatusFailed
		delivery.Error = log.RedactEmails(log.RedactSecrets(sendErr.Error()))
	case cfg.DryRun:
		delivery.Status = model.StatusDryRun
	}
	if receipt != nil {
		delivery.MessageID = receipt.MessageID
	}

	// The record is kept even when the run was interrupted during sending.
	recordDelivery(context.WithoutCancel(ctx), cfg, delivery, progress)

	return sendErr
}

func newGenerator(cfg *config.Config, completer llm.Completer, logger *slog.Logger) *pipeline.Generator {
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithPrompt(llm.Prompt{System: cfg.SystemPrompt, User: cfg.UserPrompt}),
		pipeline.WithPool(content.NewPool(cfg.Fallbacks...)),
		pipeline.WithBackoff(cfg.RetryDelay),
	}
	if cfg.MaxRetries != 0 {
		opts = append(opts, pipeline.WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.RequestTimeout != 0 {
		opts = append(opts, pipeline.WithRequestTimeout(cfg.RequestTimeout))
	}
	return pipeline.New(completer, cfg.Mode, opts...)
}

// recordDelivery stores d in the history database. History is best effort:
// failures are logged and never change the exit status.
func recordDelivery(ctx context.Context, cfg *config.Config, d *model.Delivery, logger *slog.Logger) {
	if !cfg.HistoryEnabled {
		return
	}

	store, err := history.Open(cfg.HistoryDir, history.DefaultOptions())
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()

	d.ContentHash = history.ContentHash(d.Content)
	if d.Status != model.StatusFailed {
		n, err := store.CountByHash(ctx, d.ContentHash)
		if err != nil {
			logger.Warn("history lookup failed", "error", err)
		} else if n > 0 {
			logger.Warn("this content was delivered before", "times", n)
		}
	}

	if err := store.Save(ctx, d); err != nil {
		logger.Warn("failed to record delivery", "error", err)
		return
	}
	logger.Debug("delivery recorded", "id", d.ID, "status", d.Status)
}
