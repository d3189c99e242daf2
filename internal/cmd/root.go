package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for aide
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aide",
		Short: "Local AI assistant that turns model replies into actions",
		Long: `Aide sends your requests to a local language model (Ollama or
LM Studio), extracts JSON action requests from the reply, and executes
them: shell commands, file and folder creation, and more.

Failed actions are diagnosed and fed back to the model as corrective
prompts, with a bounded number of retries per request.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewPermissionsCommand())

	return cmd
}
