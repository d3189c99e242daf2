package models

// Diagnosis is the analyzer's explanation of a terminal command outcome.
// For failures ErrorType names the matched error family and the two slices
// carry ordered, human-readable remediation. For successes only Summary and
// the output statistics are populated.
type Diagnosis struct {
	Command             string   // The command that was analyzed
	HasError            bool     // Whether the command failed
	ErrorType           string   // Error family tag (e.g. "Command not found")
	Suggestions         []string // Ordered remediation hints
	AlternativeCommands []string // Concrete commands worth trying instead
	Summary             string   // One-line outcome summary (success path)
	OutputLines         int      // Line count of stdout (success path)
}

// PromptText renders the diagnosis as a block suitable for embedding in a
// corrective prompt. Empty diagnoses render to the empty string.
func (d *Diagnosis) PromptText() string {
	if d == nil || (!d.HasError && d.Summary == "") {
		return ""
	}
	out := ""
	if d.ErrorType != "" {
		out += "Error type: " + d.ErrorType + "\n"
	}
	for _, s := range d.Suggestions {
		out += "- " + s + "\n"
	}
	if len(d.AlternativeCommands) > 0 {
		out += "Alternative commands:\n"
		for _, c := range d.AlternativeCommands {
			out += "  " + c + "\n"
		}
	}
	return out
}
