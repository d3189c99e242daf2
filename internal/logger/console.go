// Package logger provides the leveled console logger used across aide.
// Output is timestamped, thread-safe, and colored when the destination is a
// terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Numeric log levels for filtering.
const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// Console writes leveled, timestamped log lines to a writer. A nil writer
// silently discards everything.
type Console struct {
	writer io.Writer
	level  int
	color  bool
	mu     sync.Mutex
}

// NewConsole creates a Console logging at the given level (trace, debug,
// info, warn, error; empty or unknown defaults to info). Color is enabled
// automatically when the writer is a TTY.
func NewConsole(writer io.Writer, level string) *Console {
	return &Console{
		writer: writer,
		level:  parseLevel(level),
		color:  isTerminal(writer),
	}
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// isTerminal reports whether the writer is a TTY that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *Console) log(level int, prefix string, colorize func(format string, a ...interface{}) string, format string, args ...any) {
	if c.writer == nil || level < c.level {
		return
	}

	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s %s", time.Now().Format("15:04:05"), prefix, message)
	if c.color && colorize != nil {
		line = colorize("%s", line)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.writer, line)
}

// Tracef logs at trace level.
func (c *Console) Tracef(format string, args ...any) {
	c.log(levelTrace, "TRACE", nil, format, args...)
}

// Debugf logs at debug level.
func (c *Console) Debugf(format string, args ...any) {
	c.log(levelDebug, "DEBUG", nil, format, args...)
}

// Infof logs at info level.
func (c *Console) Infof(format string, args ...any) {
	c.log(levelInfo, "INFO ", nil, format, args...)
}

// Warnf logs at warn level in yellow.
func (c *Console) Warnf(format string, args ...any) {
	c.log(levelWarn, "WARN ", color.YellowString, format, args...)
}

// Errorf logs at error level in red.
func (c *Console) Errorf(format string, args ...any) {
	c.log(levelError, "ERROR", color.RedString, format, args...)
}

// Retryf surfaces a retry attempt to the user. Retries are never silent:
// every one shows the attempt number and the triggering error.
func (c *Console) Retryf(attempt, maxAttempts int, cause string) {
	c.log(levelInfo, "RETRY", color.CyanString, "attempt %d/%d: %s", attempt, maxAttempts, cause)
}

// ActionStart announces the start of one action dispatch.
func (c *Console) ActionStart(actionID string) {
	c.log(levelInfo, "EXEC ", nil, "executing: %s", actionID)
}

// ActionResult reports one action's outcome.
func (c *Console) ActionResult(actionID string, success bool, message string) {
	if success {
		c.log(levelInfo, "DONE ", color.GreenString, "%s: %s", actionID, message)
		return
	}
	c.log(levelError, "FAIL ", color.RedString, "%s: %s", actionID, message)
}
