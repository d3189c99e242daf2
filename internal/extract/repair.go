package extract

import (
	"regexp"
	"strings"
)

// bareKeyPattern matches unquoted object keys after an opening brace or a
// comma, e.g. `{action:` or `, params:`.
var bareKeyPattern = regexp.MustCompile(`([{,])\s*([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// repairJSON applies one best-effort cleanup pass to a JSON-looking span:
// embedded newlines and runs of whitespace collapse to single spaces, bare
// object keys gain double quotes, and single quotes become double quotes.
// The result is only ever parsed once; if it still fails the span is skipped.
func repairJSON(span string) string {
	cleaned := strings.Join(strings.Fields(span), " ")
	cleaned = bareKeyPattern.ReplaceAllString(cleaned, `$1"$2":`)
	cleaned = strings.ReplaceAll(cleaned, "'", `"`)
	return cleaned
}
