package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, "warn")

	log.Tracef("trace message")
	log.Debugf("debug message")
	log.Infof("info message")
	log.Warnf("warn message")
	log.Errorf("error message")

	out := buf.String()
	assert.NotContains(t, out, "trace message")
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, "chatty")

	log.Debugf("hidden")
	log.Infof("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNilWriterDiscards(t *testing.T) {
	log := NewConsole(nil, "trace")
	assert.NotPanics(t, func() {
		log.Infof("goes nowhere")
		log.Retryf(1, 3, "still nowhere")
	})
}

func TestRetryfFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, "info")

	log.Retryf(2, 3, "model request failed")

	out := buf.String()
	assert.Contains(t, out, "attempt 2/3")
	assert.Contains(t, out, "model request failed")
	assert.Contains(t, out, "RETRY")
}

func TestActionResult(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, "info")

	log.ActionStart("folder_create")
	log.ActionResult("folder_create", true, "folder created")
	log.ActionResult("file_write", false, "disk full")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "executing: folder_create")
	assert.Contains(t, lines[1], "DONE")
	assert.Contains(t, lines[2], "FAIL")
	assert.Contains(t, lines[2], "disk full")
}
