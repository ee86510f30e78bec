package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/soupmail/internal/config"
	"github.com/nao1215/soupmail/internal/log"
	"github.com/nao1215/soupmail/internal/mailer"
	"github.com/nao1215/soupmail/internal/recipient"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and test the SMTP connection",
		Long: `Check loads the same configuration as send, validates it, resolves the
recipients and connects to the SMTP server to read its greeting.

No completion request is made and no mail is sent. Use it after editing
AI_CONFIG or MAIL_CONFIG, or as a health check before the scheduled run.

Examples:
  soupmail check
  soupmail check --skip-smtp`,
		Args: cobra.NoArgs,
		RunE: runCheckCmd,
	}

	addConfigFlags(cmd)
	cmd.Flags().Bool("skip-smtp", false, "Do not connect to the SMTP server")

	return cmd
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	skipSMTP, err := cmd.Flags().GetBool("skip-smtp")
	if err != nil {
		return err
	}

	var prober *mailer.Prober
	if !skipSMTP {
		prober = mailer.NewProber()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return runCheck(ctx, cfg, prober, cmd.OutOrStdout())
}

// runCheck prints one line per check and returns the first failure.
// A nil prober skips the SMTP connection.
func runCheck(ctx context.Context, cfg *config.Config, prober *mailer.Prober, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "✗ configuration: %v\n", err)
		return fmt.Errorf("configuration error: %w", err)
	}
	fmt.Fprintf(out, "✓ configuration: provider=%s model=%s mode=%s\n", cfg.Provider, cfg.Model, cfg.Mode)

	recipients, err := recipient.Resolve(cfg.RecipientEmail, cfg.RecipientEmails)
	if err != nil {
		fmt.Fprintf(out, "✗ recipients: %s\n", redactForDisplay(cfg, err.Error()))
		return fmt.Errorf("configuration error: %w", err)
	}
	fmt.Fprintf(out, "✓ recipients: %d\n", len(recipients))

	from, err := mailer.FromAddress(cfg.SenderEmail, cfg.SenderName, cfg.SMTPUser)
	if err != nil {
		fmt.Fprintf(out, "✗ sender: %v\n", err)
		return fmt.Errorf("configuration error: %w", err)
	}
	fmt.Fprintf(out, "✓ sender: %s\n", redactForDisplay(cfg, from.String()))

	if prober == nil {
		fmt.Fprintln(out, "- smtp: skipped")
		return nil
	}

	res, err := prober.Probe(ctx, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSecure)
	if err != nil {
		fmt.Fprintf(out, "✗ smtp: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "✓ smtp: %s answered in %s", res.Address, res.Latency.Round(time.Millisecond))
	if res.Software != "" {
		fmt.Fprintf(out, " (%s)", res.Software)
	}
	if res.TLS {
		fmt.Fprint(out, " over TLS")
	}
	fmt.Fprintln(out)
	return nil
}

// redactForDisplay hides email addresses unless DEBUG is on.
func redactForDisplay(cfg *config.Config, s string) string {
	if cfg.Debug {
		return s
	}
	return log.RedactEmails(s)
}
