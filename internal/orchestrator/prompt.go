package orchestrator

import (
	"strings"

	"github.com/kerem/aide/internal/models"
)

// actionExample is the canonical request shape shown to the model. It is
// repeated verbatim in every corrective prompt so a drifting model has a
// concrete template to converge on.
const actionExample = "```json\n" +
	`{"action": "terminal_execute", "params": {"command": "ls -la"}}` +
	"\n```"

const systemInstructions = `You are a helpful assistant that can perform actions on the user's computer.
When an action is needed, respond with a JSON object in a fenced code block using exactly this shape:
` + actionExample + `
When no action is needed, answer in plain text without any JSON.`

// buildPrompt assembles the initial prompt for a turn: instructions, recent
// conversation, then the new input.
func (o *Orchestrator) buildPrompt(input string) string {
	var sb strings.Builder
	sb.WriteString(systemInstructions)
	sb.WriteString("\n\n")
	if recent := o.history.Render(o.historyLimit); recent != "" {
		sb.WriteString("Conversation so far:\n")
		sb.WriteString(recent)
		sb.WriteString("\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(input)
	return sb.String()
}

// buildCorrectivePrompt tells the model exactly what failed and how a valid
// request looks. It always carries three things: the failure text, the
// canonical JSON example, and the full list of recognized action ids.
// Terminal failures additionally embed the analyzer's diagnosis.
func (o *Orchestrator) buildCorrectivePrompt(session *Session, results []*models.ExecutionResult) string {
	var sb strings.Builder
	sb.WriteString("The previous attempt failed. Errors:\n")
	sb.WriteString(session.LastError)
	sb.WriteString("\n")

	for _, result := range results {
		if result.Success || !isTerminalAction(result.Action) {
			continue
		}
		command := result.Action
		if data, ok := result.Data["command"].(string); ok && data != "" {
			command = data
		}
		diagnosis := o.analyzer.Analyze(command, result)
		if text := diagnosis.PromptText(); text != "" {
			sb.WriteString("\nDiagnosis for ")
			sb.WriteString(result.Action)
			sb.WriteString(":\n")
			sb.WriteString(text)
		}
	}

	sb.WriteString("\nOriginal request: ")
	sb.WriteString(session.OriginalInput)
	sb.WriteString("\n\nRespond with a corrected JSON action in this exact shape:\n")
	sb.WriteString(actionExample)
	sb.WriteString("\n\nRecognized actions: ")
	sb.WriteString(strings.Join(o.normalizer.Catalog().CanonicalActions(), ", "))
	return sb.String()
}

func isTerminalAction(action string) bool {
	return action == "terminal_execute" || action == "command_run"
}
