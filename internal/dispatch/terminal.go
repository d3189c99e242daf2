package dispatch

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/kerem/aide/internal/models"
)

// DefaultCommandTimeout bounds each shell command. There is no mid-call
// cancellation from the orchestrator; the timeout is the only guard.
const DefaultCommandTimeout = 60 * time.Second

// TerminalRunner executes shell commands for terminal_execute/command_run.
// It accepts either one command string or an ordered list; for a list every
// command is attempted even when an earlier one fails, so partial progress
// can be reported back to the model.
type TerminalRunner struct {
	expander CommandExpander
	timeout  time.Duration
	shell    string
}

// NewTerminalRunner creates a runner with the given expander and timeout.
// A zero timeout falls back to DefaultCommandTimeout.
func NewTerminalRunner(expander CommandExpander, timeout time.Duration) *TerminalRunner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &TerminalRunner{expander: expander, timeout: timeout, shell: "sh"}
}

// Run executes the request's command or commands.
func (t *TerminalRunner) Run(ctx context.Context, req models.ActionRequest) *models.ExecutionResult {
	command := req.StringParam("command")
	commands := stringList(req.Params["commands"])

	if command == "" && len(commands) == 0 {
		return models.Failuref(req.Action, "no command specified")
	}

	if command != "" {
		return t.runOne(ctx, req.Action, command)
	}
	return t.runList(ctx, req.Action, commands)
}

// runOne executes a single command and reports its outcome with captured
// stdout and stderr.
func (t *TerminalRunner) runOne(ctx context.Context, action, command string) *models.ExecutionResult {
	stdout, stderr, err := t.execute(ctx, command)
	var result *models.ExecutionResult
	if err != nil {
		result = models.Failuref(action, "command failed: %s", firstLine(stderr, err.Error()))
	} else {
		result = models.Successf(action, "command executed: %s", command)
	}
	result.Stdout = stdout
	result.Stderr = stderr
	result.Data = map[string]any{"command": command}
	return result
}

// runList executes every command in order, aggregating output best-effort.
// Overall success requires every command to succeed, but a failure never
// stops the remaining commands.
func (t *TerminalRunner) runList(ctx context.Context, action string, commands []string) *models.ExecutionResult {
	allOK := true
	failedCommand := ""
	var stdouts, stderrs []string

	for _, command := range commands {
		stdout, stderr, err := t.execute(ctx, command)
		if stdout != "" {
			stdouts = append(stdouts, stdout)
		}
		if stderr != "" {
			stderrs = append(stderrs, stderr)
		}
		if err != nil {
			allOK = false
			if failedCommand == "" {
				failedCommand = command
			}
			if stderr == "" {
				stderrs = append(stderrs, err.Error())
			}
		}
	}

	// Diagnosis targets the first failing command, not the action id.
	diagCommand := failedCommand
	if diagCommand == "" {
		diagCommand = strings.Join(commands, "; ")
	}

	message := "all commands executed successfully"
	if !allOK {
		message = "some commands failed"
	}
	return &models.ExecutionResult{
		Success: allOK,
		Action:  action,
		Message: message,
		Stdout:  strings.Join(stdouts, "\n"),
		Stderr:  strings.Join(stderrs, "\n"),
		Data:    map[string]any{"command": diagCommand},
	}
}

// execute runs one command through the shell with placeholder expansion and
// the per-command timeout applied.
func (t *TerminalRunner) execute(ctx context.Context, command string) (stdout, stderr string, err error) {
	if t.expander != nil {
		command = t.expander.ExpandCommand(command)
	}

	cmdCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, t.shell, "-c", command)
	// Killing the shell leaves grandchildren holding the output pipes open;
	// without a wait delay Run would block until they exit, defeating the
	// timeout.
	cmd.WaitDelay = time.Second
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// stringList coerces a decoded JSON value into a []string, dropping
// non-string entries.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func firstLine(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
