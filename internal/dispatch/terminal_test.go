package dispatch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/aide/internal/models"
)

type staticExpander struct{ home string }

func (s staticExpander) ExpandCommand(command string) string {
	return strings.ReplaceAll(command, "~", s.home)
}

func TestTerminalRunSingleCommand(t *testing.T) {
	runner := NewTerminalRunner(nil, 10*time.Second)

	result := runner.Run(context.Background(), models.NewActionRequest("terminal_execute",
		map[string]any{"command": "echo hello"}))

	require.True(t, result.Success)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Equal(t, "echo hello", result.Data["command"])
}

func TestTerminalRunFailure(t *testing.T) {
	runner := NewTerminalRunner(nil, 10*time.Second)

	result := runner.Run(context.Background(), models.NewActionRequest("terminal_execute",
		map[string]any{"command": "ls /definitely/not/here"}))

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.ErrorText())
}

func TestTerminalRunMissingCommand(t *testing.T) {
	runner := NewTerminalRunner(nil, 10*time.Second)

	result := runner.Run(context.Background(), models.NewActionRequest("terminal_execute", nil))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "no command")
}

func TestTerminalRunListBestEffort(t *testing.T) {
	runner := NewTerminalRunner(nil, 10*time.Second)

	result := runner.Run(context.Background(), models.NewActionRequest("terminal_execute",
		map[string]any{"commands": []any{
			"echo first",
			"ls /definitely/not/here",
			"echo third",
		}}))

	// Every command runs; overall success is the AND.
	assert.False(t, result.Success)
	assert.Contains(t, result.Stdout, "first")
	assert.Contains(t, result.Stdout, "third")
	assert.NotEmpty(t, result.Stderr)
	// The first failing command is recorded so diagnosis can target it.
	assert.Equal(t, "ls /definitely/not/here", result.Data["command"])
}

func TestTerminalRunListSuccessRecordsCommands(t *testing.T) {
	runner := NewTerminalRunner(nil, 10*time.Second)

	result := runner.Run(context.Background(), models.NewActionRequest("terminal_execute",
		map[string]any{"commands": []any{"echo a", "echo b"}}))

	require.True(t, result.Success)
	assert.Equal(t, "echo a; echo b", result.Data["command"])
}

func TestTerminalRunExpandsCommand(t *testing.T) {
	runner := NewTerminalRunner(staticExpander{home: "/tmp"}, 10*time.Second)

	result := runner.Run(context.Background(), models.NewActionRequest("terminal_execute",
		map[string]any{"command": "echo ~/file"}))

	require.True(t, result.Success)
	assert.Equal(t, "/tmp/file\n", result.Stdout)
}

func TestTerminalRunTimeout(t *testing.T) {
	runner := NewTerminalRunner(nil, 100*time.Millisecond)

	start := time.Now()
	result := runner.Run(context.Background(), models.NewActionRequest("terminal_execute",
		map[string]any{"command": "sleep 5"}))

	assert.False(t, result.Success)
	assert.Less(t, time.Since(start), 3*time.Second)
}
