// Package extract converts unstructured model output into raw action
// candidates. The upstream model gives no schema guarantee: action data may
// arrive as fenced JSON, bare JSON embedded in prose, malformed JSON, or no
// JSON at all. Extraction never fails — unparseable fragments are dropped and
// an empty result simply means a conversational turn.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Strategy is one way of pulling action candidates out of raw text.
// Strategies are pure: same text in, same candidates out.
type Strategy struct {
	Name string
	Run  func(text string) []map[string]any
}

// Extractor runs an ordered chain of strategies over model output.
// The first strategy that yields at least one candidate wins and the rest
// are skipped, making the fallback order explicit and testable.
type Extractor struct {
	markdown   goldmark.Markdown
	strategies []Strategy
}

// New creates an Extractor with the default strategy chain:
// fenced blocks, brace-balancing scan, line accumulation, keyword heuristic.
func New() *Extractor {
	e := &Extractor{markdown: goldmark.New()}
	e.strategies = []Strategy{
		{Name: "fenced-block", Run: e.fencedBlocks},
		{Name: "brace-scan", Run: braceScan},
		{Name: "line-accumulation", Run: lineAccumulation},
		{Name: "keyword-heuristic", Run: keywordHeuristic},
	}
	return e
}

// Extract returns the ordered action candidates found in text.
// It never returns an error and never panics; an empty slice means the text
// carried no actionable content. Duplicates are passed through.
func (e *Extractor) Extract(input string) []map[string]any {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	for _, s := range e.strategies {
		if candidates := s.Run(input); len(candidates) > 0 {
			return candidates
		}
	}
	return nil
}

// Strategies returns the names of the configured strategies in order.
func (e *Extractor) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name
	}
	return names
}

// fencedBlocks locates triple-delimited fenced regions via the markdown AST
// and parses JSON inside them: first line by line, then the whole block.
func (e *Extractor) fencedBlocks(input string) []map[string]any {
	source := []byte(input)
	doc := e.markdown.Parser().Parse(text.NewReader(source))

	var candidates []map[string]any
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block strings.Builder
		for i := 0; i < fenced.Lines().Len(); i++ {
			seg := fenced.Lines().At(i)
			block.Write(seg.Value(source))
		}
		candidates = append(candidates, parseBlock(block.String())...)
		return ast.WalkContinue, nil
	})
	return candidates
}

// parseBlock extracts candidates from one fenced region: each line is tried
// as a standalone JSON object first, then the block as a whole.
func parseBlock(block string) []map[string]any {
	var candidates []map[string]any
	for _, line := range strings.Split(block, "\n") {
		if c, ok := decodeCandidate(line); ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) > 0 {
		return candidates
	}
	if c, ok := decodeCandidate(block); ok {
		candidates = append(candidates, c)
	}
	return candidates
}

// braceScan walks the full text tracking {/} depth. Each span where depth
// returns to zero is a JSON candidate: parsed directly, then once more after
// a repair pass, then silently skipped.
func braceScan(input string) []map[string]any {
	var candidates []map[string]any
	for i := 0; i < len(input); {
		start := strings.IndexByte(input[i:], '{')
		if start < 0 {
			break
		}
		start += i

		depth := 1
		j := start + 1
		for j < len(input) && depth > 0 {
			switch input[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}
		if depth != 0 {
			break
		}

		span := input[start:j]
		if c, ok := decodeCandidate(span); ok {
			candidates = append(candidates, c)
		} else if c, ok := decodeCandidate(repairJSON(span)); ok {
			candidates = append(candidates, c)
		}
		i = j
	}
	return candidates
}

// lineAccumulation gathers lines while brace counts are unbalanced and
// attempts a parse once balance returns to zero.
func lineAccumulation(input string) []map[string]any {
	var candidates []map[string]any
	var current strings.Builder
	depth := 0
	collecting := false

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if !collecting {
			if !strings.Contains(line, "{") {
				continue
			}
			collecting = true
			current.Reset()
			current.WriteString(line)
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			if depth > 0 {
				continue
			}
		} else {
			current.WriteString(line)
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth > 0 {
				continue
			}
		}

		// Balance restored: trim to the outermost braces and try once.
		acc := current.String()
		start := strings.IndexByte(acc, '{')
		end := strings.LastIndexByte(acc, '}')
		if start >= 0 && end > start {
			if c, ok := decodeCandidate(acc[start : end+1]); ok {
				candidates = append(candidates, c)
			}
		}
		collecting = false
		depth = 0
	}
	return candidates
}

// decodeCandidate parses s as a JSON object and validates it as an action
// candidate: an "action" or "type" key holding a non-empty string. The
// "params" value defaults to an empty map when missing or not a mapping.
func decodeCandidate(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	if !hasActionKey(raw) {
		return nil, false
	}
	if _, ok := raw["params"].(map[string]any); !ok {
		raw["params"] = map[string]any{}
	}
	return raw, true
}

// hasActionKey reports whether the candidate names an action under either
// accepted key. Candidates with params alone are dropped deliberately.
func hasActionKey(raw map[string]any) bool {
	for _, key := range []string{"action", "type"} {
		if v, ok := raw[key].(string); ok && v != "" {
			return true
		}
	}
	return false
}
