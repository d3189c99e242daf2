package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/aide/internal/dispatch"
	"github.com/kerem/aide/internal/history"
)

// scriptedProvider returns canned responses in order and records every
// prompt it receives. After the script runs out the last response repeats.
type scriptedProvider struct {
	responses []string
	err       error
	prompts   []string
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	idx := len(s.prompts) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func (s *scriptedProvider) Name() string { return "scripted" }

func newTestOrchestrator(t *testing.T, provider *scriptedProvider) *Orchestrator {
	t.Helper()
	dispatcher := dispatch.New(dispatch.NewTerminalRunner(nil, 10*time.Second))
	orch, err := New(Options{
		Provider:    provider,
		Dispatcher:  dispatcher,
		MaxAttempts: 3,
	})
	require.NoError(t, err)
	return orch
}

func actionJSON(action, key, value string) string {
	return fmt.Sprintf("```json\n{\"action\": %q, \"params\": {%q: %q}}\n```", action, key, value)
}

func TestRunTurnConversational(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"The capital of France is Paris."}}
	orch := newTestOrchestrator(t, provider)

	outcome, err := orch.RunTurn(context.Background(), "what is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, outcome.State)
	assert.Equal(t, "The capital of France is Paris.", outcome.Reply)
	assert.Empty(t, outcome.Results)
	assert.Len(t, provider.prompts, 1)
	assert.Equal(t, StateSuccess, orch.State())
}

func TestRunTurnSuccessfulAction(t *testing.T) {
	dir := t.TempDir()
	provider := &scriptedProvider{responses: []string{
		actionJSON("folder_create", "path", filepath.Join(dir, "reports")),
	}}
	orch := newTestOrchestrator(t, provider)

	outcome, err := orch.RunTurn(context.Background(), "make a reports folder")

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, outcome.State)
	require.Len(t, outcome.Results, 1)
	assert.True(t, outcome.Results[0].Success)
	assert.Equal(t, 1, outcome.Attempts)
}

func TestRunTurnModelFailureExhaustsBudget(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection reset")}
	orch := newTestOrchestrator(t, provider)

	outcome, err := orch.RunTurn(context.Background(), "do something")

	require.NoError(t, err)
	assert.Equal(t, StateAborted, outcome.State)
	assert.Equal(t, 3, outcome.Attempts)
	// The model is called exactly once per attempt, never more.
	assert.Len(t, provider.prompts, 3)
	assert.Contains(t, outcome.LastErr, "connection reset")
	assert.Equal(t, StateAborted, orch.State())
}

func TestRunTurnActionFailureExhaustsBudget(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		actionJSON("quantum_flux", "target", "unknown"),
	}}
	orch := newTestOrchestrator(t, provider)

	outcome, err := orch.RunTurn(context.Background(), "do the impossible")

	require.NoError(t, err)
	assert.Equal(t, StateAborted, outcome.State)
	assert.Len(t, provider.prompts, 3)
	assert.Contains(t, outcome.LastErr, "unknown action")
}

func TestRunTurnModelFailureGetsCorrectivePrompt(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("model exploded")}
	orch := newTestOrchestrator(t, provider)

	_, err := orch.RunTurn(context.Background(), "do something")
	require.NoError(t, err)
	require.Len(t, provider.prompts, 3)

	// The retry prompt carries the failure, not a verbatim resend.
	assert.NotEqual(t, provider.prompts[0], provider.prompts[1])
	assert.Contains(t, provider.prompts[1], "model exploded")
	assert.Contains(t, provider.prompts[1], `{"action": "terminal_execute", "params": {"command": "ls -la"}}`)
	assert.Contains(t, provider.prompts[1], "folder_create")
}

func TestRunTurnCorrectivePromptContents(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		actionJSON("quantum_flux", "target", "unknown"),
	}}
	orch := newTestOrchestrator(t, provider)

	_, err := orch.RunTurn(context.Background(), "please flux the quantum")
	require.NoError(t, err)
	require.Len(t, provider.prompts, 3)

	corrective := provider.prompts[1]
	// The corrective prompt names what failed, shows the canonical request
	// shape, repeats the original request, and enumerates known actions.
	assert.Contains(t, corrective, "unknown action: quantum_flux")
	assert.Contains(t, corrective, `{"action": "terminal_execute", "params": {"command": "ls -la"}}`)
	assert.Contains(t, corrective, "please flux the quantum")
	assert.Contains(t, corrective, "folder_create")
	assert.Contains(t, corrective, "multiple_actions")
}

func TestRunTurnRecoversOnSecondAttempt(t *testing.T) {
	dir := t.TempDir()
	provider := &scriptedProvider{responses: []string{
		actionJSON("quantum_flux", "target", "unknown"),
		actionJSON("folder_create", "path", filepath.Join(dir, "fixed")),
	}}
	orch := newTestOrchestrator(t, provider)

	outcome, err := orch.RunTurn(context.Background(), "make a folder")

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, outcome.State)
	assert.Equal(t, 2, outcome.Attempts)
	require.Len(t, outcome.Results, 1)
	assert.True(t, outcome.Results[0].Success)
}

func TestRunTurnTerminalFailureGetsDiagnosis(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		actionJSON("terminal_execute", "command", "definitelynotacommand --flag"),
	}}
	orch := newTestOrchestrator(t, provider)

	_, err := orch.RunTurn(context.Background(), "run my tool")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(provider.prompts), 2)

	corrective := provider.prompts[1]
	assert.Contains(t, corrective, "Diagnosis for terminal_execute")
}

func TestRunTurnRecordsHistory(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"just chatting"}}
	orch := newTestOrchestrator(t, provider)

	_, err := orch.RunTurn(context.Background(), "hello")
	require.NoError(t, err)

	entries := orch.History().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, history.RoleUser, entries[0].Role)
	assert.Equal(t, history.RoleAssistant, entries[1].Role)
}

func TestRunTurnHistoryFeedsNextPrompt(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"noted", "still noted"}}
	orch := newTestOrchestrator(t, provider)

	_, err := orch.RunTurn(context.Background(), "remember the milk")
	require.NoError(t, err)
	_, err = orch.RunTurn(context.Background(), "what did I say?")
	require.NoError(t, err)

	require.Len(t, provider.prompts, 2)
	assert.Contains(t, provider.prompts[1], "remember the milk")
}

func TestRunTurnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &scriptedProvider{err: errors.New("context canceled")}
	orch := newTestOrchestrator(t, provider)

	outcome, err := orch.RunTurn(ctx, "anything")

	require.NoError(t, err)
	assert.Equal(t, StateAborted, outcome.State)
	// A dead context must not burn the remaining attempts.
	assert.Len(t, provider.prompts, 1)
}

func TestNewRequiresProvider(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateIdle:                  "idle",
		StateAwaitingModelResponse: "awaiting_model_response",
		StateExtractingActions:     "extracting_actions",
		StateExecutingActions:      "executing_actions",
		StateSuccess:               "success",
		StateRetrying:              "retrying",
		StateAborted:               "aborted",
		State(99):                  "unknown",
	}
	for state, want := range tests {
		assert.Equal(t, want, state.String())
	}
}
