package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/soupmail/internal/config"
)

//go:embed templates/soupmail.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a soupmail settings file",
		Long: `Initialize writes a commented .soupmail.yaml settings file.

The file controls the content mode, retry behavior, prompts, extra fallback
quotes and the delivery history. Credentials do not belong in it; they are
read from AI_CONFIG and MAIL_CONFIG.

Examples:
  # Create .soupmail.yaml in the current directory
  soupmail init

  # Write to the XDG config directory
  soupmail init -o ~/.config/soupmail/config.yaml

  # Overwrite an existing file
  soupmail init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the settings file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing settings file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("settings file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	data, err := configTemplate.ReadFile("templates/soupmail.yaml")
	if err != nil {
		return fmt.Errorf("failed to read settings template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created settings file: %s\n", outputPath)
	fmt.Fprintln(out, "\nSet credentials in the environment or a .env file:")
	fmt.Fprintln(out, `  AI_CONFIG='{"apiUrl":"...","apiKey":"...","model":"..."}'`)
	fmt.Fprintln(out, `  MAIL_CONFIG='{"host":"...","port":465,"secure":true,"auth":{"user":"...","pass":"..."}}'`)
	fmt.Fprintln(out, "  RECIPIENT_EMAILS=a@example.com,b@example.com")
	return nil
}
