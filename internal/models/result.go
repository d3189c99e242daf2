package models

import "fmt"

// ExecutionResult is the uniform outcome of executing one action.
// Success is always meaningful; every other field is optional.
type ExecutionResult struct {
	Success bool              // Whether the action succeeded
	Action  string            // Action id that produced this result
	Message string            // Human-readable outcome description
	Stdout  string            // Captured stdout (terminal actions)
	Stderr  string            // Captured stderr (terminal actions)
	Data    map[string]any    // Action-specific payload
	Results []ExecutionResult // Sub-results (multiple_actions)
}

// Successf builds a successful result with a formatted message.
func Successf(action, format string, args ...any) *ExecutionResult {
	return &ExecutionResult{
		Success: true,
		Action:  action,
		Message: fmt.Sprintf(format, args...),
	}
}

// Failuref builds a failed result with a formatted message.
func Failuref(action, format string, args ...any) *ExecutionResult {
	return &ExecutionResult{
		Success: false,
		Action:  action,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorText returns the text most useful for diagnosing a failed result:
// stderr when present, otherwise stdout, otherwise the message.
func (r *ExecutionResult) ErrorText() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Message
}
