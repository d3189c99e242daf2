// Package analyzer inspects terminal command results, classifies failures
// against a known error-pattern table, and suggests concrete next steps. The
// orchestrator folds its diagnoses into corrective prompts so the model
// receives actionable hints instead of a bare error string.
package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kerem/aide/internal/models"
)

// Error family tags, also surfaced verbatim to the model.
const (
	ErrCommandNotFound = "Command not found"
	ErrPermission      = "Permission denied"
	ErrFileNotFound    = "File not found"
	ErrSyntax          = "Syntax error"
	ErrInvalidOption   = "Invalid option"
	ErrPackageNotFound = "Package not found"
	ErrModuleNotFound  = "Module not found"
	ErrNetwork         = "Network error"
	ErrDiskSpace       = "Disk space error"
	ErrGeneric         = "Generic error"
)

// paginationThreshold is the stdout line count above which the success
// summary suggests paging the output.
const paginationThreshold = 20

// rule binds one error pattern to its handler. Rules are matched in order
// and the first match wins, so more specific families sit above the generic
// fallback.
type rule struct {
	pattern *regexp.Regexp
	handler func(command, errorText string) *models.Diagnosis
}

// Analyzer classifies command failures against an immutable rule table.
type Analyzer struct {
	rules []rule
}

// New creates an Analyzer with the default pattern table.
func New() *Analyzer {
	return &Analyzer{rules: []rule{
		{regexp.MustCompile(`(?i)command not found|is not recognized as`), handleCommandNotFound},
		{regexp.MustCompile(`(?i)permission denied|Access is denied`), handlePermissionDenied},
		{regexp.MustCompile(`(?i)No such file or directory|cannot find the path specified`), handleFileNotFound},
		{regexp.MustCompile(`(?i)syntax error`), handleSyntaxError},
		{regexp.MustCompile(`(?i)invalid option|unknown option`), handleInvalidOption},
		{regexp.MustCompile(`(?i)package .* not found`), handlePackageNotFound},
		{regexp.MustCompile(`(?i)module .* not found`), handleModuleNotFound},
		{regexp.MustCompile(`(?i)network is unreachable|connection refused|could not resolve host`), handleNetworkError},
		{regexp.MustCompile(`(?i)no space left on device`), handleDiskSpace},
		{regexp.MustCompile(`(?i)failed with exit code|error:|exception`), handleGeneric},
	}}
}

// Analyze produces a Diagnosis for a command's execution result. Successful
// commands receive a lightweight output summary; failures are matched
// against the rule table with stderr preferred and stdout as fallback.
func (a *Analyzer) Analyze(command string, result *models.ExecutionResult) *models.Diagnosis {
	if result == nil {
		return &models.Diagnosis{Command: command, HasError: true, ErrorType: ErrGeneric}
	}
	if result.Success {
		return summarize(command, result)
	}

	errorText := strings.TrimSpace(result.Stderr)
	if errorText == "" {
		errorText = strings.TrimSpace(result.Stdout)
	}
	if errorText == "" {
		errorText = result.Message
	}

	for _, r := range a.rules {
		if r.pattern.MatchString(errorText) {
			d := r.handler(command, errorText)
			d.Command = command
			d.HasError = true
			return d
		}
	}

	return &models.Diagnosis{
		Command:   command,
		HasError:  true,
		ErrorType: ErrGeneric,
		Suggestions: []string{
			"Check the command syntax and try again.",
			"Search for the specific error message online.",
		},
	}
}

// summarize describes a successful command: output size and a pagination
// hint for large outputs.
func summarize(command string, result *models.ExecutionResult) *models.Diagnosis {
	d := &models.Diagnosis{Command: command}
	stdout := strings.TrimSpace(result.Stdout)
	if stdout == "" {
		d.Summary = "Command executed successfully with no output."
		return d
	}

	d.OutputLines = strings.Count(stdout, "\n") + 1
	if d.OutputLines > paginationThreshold {
		d.Summary = fmt.Sprintf("Command executed successfully with %d lines of output.", d.OutputLines)
		d.Suggestions = append(d.Suggestions, "Consider using pagination (e.g., | less) for large outputs.")
	} else {
		d.Summary = "Command executed successfully."
	}
	return d
}
