package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kerem/aide/internal/analyzer"
	"github.com/kerem/aide/internal/config"
	"github.com/kerem/aide/internal/dispatch"
	"github.com/kerem/aide/internal/extract"
	"github.com/kerem/aide/internal/history"
	"github.com/kerem/aide/internal/llm"
	"github.com/kerem/aide/internal/logger"
	"github.com/kerem/aide/internal/normalize"
	"github.com/kerem/aide/internal/orchestrator"
	"github.com/kerem/aide/internal/permission"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [request]",
		Short: "Run the assistant loop",
		Long: `Run the assistant. With a request argument aide processes that
single request and exits; without one it starts an interactive session.

Configuration is loaded from ~/.aide/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # One-shot request
  aide run "list the files in my home directory"

  # Interactive session (type exit or quit to leave)
  aide run

  # Other options
  aide run --backend ollama --model llama3
  aide run --verbose "install ripgrep"
  aide run --config custom.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: ~/.aide/config.yaml)")
	cmd.Flags().String("backend", "", "Model backend: ollama, lmstudio or auto")
	cmd.Flags().String("model", "", "Model name to use")
	cmd.Flags().Int("max-attempts", 0, "Maximum model attempts per request")
	cmd.Flags().Bool("verbose", false, "Show detailed execution information")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	log := logger.NewConsole(os.Stderr, level)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := llm.New(ctx, cfg.Backend, llm.Options{
		Model:           cfg.Model,
		OllamaBaseURL:   cfg.OllamaURL,
		LMStudioBaseURL: cfg.LMStudioURL,
		Temperature:     cfg.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to model backend: %w", err)
	}
	log.Infof("using %s backend with model %s", provider.Name(), cfg.Model)

	if err := os.MkdirAll(filepath.Dir(cfg.PermissionDB), 0o755); err != nil {
		return fmt.Errorf("failed to prepare data directory: %w", err)
	}
	store, err := permission.Open(cfg.PermissionDB)
	if err != nil {
		return fmt.Errorf("failed to open permission store: %w", err)
	}
	defer store.Close()

	normalizer := normalize.New()
	terminal := dispatch.NewTerminalRunner(normalizer, cfg.CommandTimeout)
	dispatcher := dispatch.New(terminal)
	dispatcher.SetPermissions(store)
	dispatcher.SetNormalizer(normalizer)

	orch, err := orchestrator.New(orchestrator.Options{
		Provider:     provider,
		Extractor:    extract.New(),
		Normalizer:   normalizer,
		Dispatcher:   dispatcher,
		Analyzer:     analyzer.New(),
		History:      history.NewLog(),
		Logger:       log,
		MaxAttempts:  cfg.MaxAttempts,
		HistoryLimit: cfg.HistoryLimit,
	})
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return runOnce(ctx, orch, strings.Join(args, " "))
	}
	return runInteractive(ctx, orch)
}

// loadRunConfig loads the config file and applies flag overrides.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Backend = backend
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	if attempts, _ := cmd.Flags().GetInt("max-attempts"); attempts > 0 {
		cfg.MaxAttempts = attempts
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runOnce processes a single request and exits non-zero when it aborts.
func runOnce(ctx context.Context, orch *orchestrator.Orchestrator, input string) error {
	outcome, err := orch.RunTurn(ctx, input)
	if err != nil {
		return err
	}
	printOutcome(outcome)
	if outcome.State == orchestrator.StateAborted {
		return fmt.Errorf("request failed after %d attempts: %s", outcome.Attempts, outcome.LastErr)
	}
	return nil
}

// runInteractive reads requests from stdin until EOF or an exit command.
func runInteractive(ctx context.Context, orch *orchestrator.Orchestrator) error {
	fmt.Println("aide interactive session. Type 'exit' or 'quit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}

		outcome, err := orch.RunTurn(ctx, input)
		if err != nil {
			return err
		}
		printOutcome(outcome)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// printOutcome prints the model reply or the per-action results of a turn.
func printOutcome(outcome *orchestrator.Outcome) {
	if outcome.Reply != "" && len(outcome.Results) == 0 {
		fmt.Println(outcome.Reply)
		return
	}
	for _, result := range outcome.Results {
		status := "ok"
		if !result.Success {
			status = "failed"
		}
		fmt.Printf("[%s] %s: %s\n", status, result.Action, result.Message)
		if result.Stdout != "" {
			fmt.Println(result.Stdout)
		}
	}
	if outcome.State == orchestrator.StateAborted {
		fmt.Printf("giving up after %d attempts: %s\n", outcome.Attempts, outcome.LastErr)
	}
}
