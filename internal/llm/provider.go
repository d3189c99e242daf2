// Package llm provides text-generation providers. The orchestrator treats a
// provider as a black box: prompt in, text out, no schema guarantee on the
// response.
package llm

import (
	"context"
	"fmt"
)

// Provider generates a model response for a prompt. Generate blocks until
// the backend replies or ctx is done.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Options configures provider construction.
type Options struct {
	Model           string
	OllamaBaseURL   string
	LMStudioBaseURL string
	Temperature     float64
}

// New creates a provider for the named backend. Supported backends:
// "ollama", "lmstudio", and "auto" (ollama first, lmstudio as fallback).
func New(ctx context.Context, backend string, opts Options) (Provider, error) {
	switch backend {
	case "ollama":
		return NewOllamaClient(opts), nil
	case "lmstudio":
		return NewLMStudioClient(opts), nil
	case "auto", "":
		ollama := NewOllamaClient(opts)
		if ollama.Available(ctx) {
			return ollama, nil
		}
		lmstudio := NewLMStudioClient(opts)
		if lmstudio.Available(ctx) {
			return lmstudio, nil
		}
		return nil, fmt.Errorf("no model backend reachable (tried ollama at %s, lmstudio at %s)",
			ollama.baseURL, lmstudio.baseURL)
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
}
