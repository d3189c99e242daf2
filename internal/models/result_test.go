package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTextPrecedence(t *testing.T) {
	r := &ExecutionResult{Message: "failed", Stdout: "out", Stderr: "err"}
	assert.Equal(t, "err", r.ErrorText())

	r = &ExecutionResult{Message: "failed", Stdout: "out"}
	assert.Equal(t, "out", r.ErrorText())

	r = &ExecutionResult{Message: "failed"}
	assert.Equal(t, "failed", r.ErrorText())
}

func TestResultConstructors(t *testing.T) {
	ok := Successf("file_create", "created %s", "a.txt")
	assert.True(t, ok.Success)
	assert.Equal(t, "file_create", ok.Action)
	assert.Equal(t, "created a.txt", ok.Message)

	bad := Failuref("file_create", "no space")
	assert.False(t, bad.Success)
	assert.Equal(t, "no space", bad.Message)
}

func TestNewActionRequestNeverNilParams(t *testing.T) {
	req := NewActionRequest("system_info", nil)
	assert.NotNil(t, req.Params)

	req.Params["k"] = "v"
	assert.Equal(t, "v", req.StringParam("k"))
	assert.Equal(t, "", req.StringParam("missing"))
}

func TestDiagnosisPromptText(t *testing.T) {
	var d *Diagnosis
	assert.Equal(t, "", d.PromptText())

	d = &Diagnosis{}
	assert.Equal(t, "", d.PromptText())

	d = &Diagnosis{
		HasError:            true,
		ErrorType:           "Command not found",
		Suggestions:         []string{"install it"},
		AlternativeCommands: []string{"sudo apt-get install foo"},
	}
	text := d.PromptText()
	assert.Contains(t, text, "Command not found")
	assert.Contains(t, text, "- install it")
	assert.Contains(t, text, "sudo apt-get install foo")
}
