package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for soupmail.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soupmail",
		Short: "Send a daily AI-written pep talk by email",
		Long: `soupmail generates a short motivational message with an AI completion
endpoint, validates and cleans it, and delivers it by SMTP.

When the model keeps returning unusable output, a curated quote is sent
instead, so a scheduled run always delivers something.

Credentials are read from the environment (AI_CONFIG, MAIL_CONFIG,
RECIPIENT_EMAIL or RECIPIENT_EMAILS), optionally loaded from a .env file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewSendCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits 1 on any error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
