package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "say hi", req.Prompt)

		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "hi there"})
	}))
	defer server.Close()

	client := NewOllamaClient(Options{Model: "llama3", OllamaBaseURL: server.URL})
	out, err := client.Generate(context.Background(), "say hi")

	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
	assert.Equal(t, "ollama", client.Name())
}

func TestOllamaGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Error: "model not loaded"})
	}))
	defer server.Close()

	client := NewOllamaClient(Options{OllamaBaseURL: server.URL})
	_, err := client.Generate(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestOllamaGenerateBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOllamaClient(Options{OllamaBaseURL: server.URL})
	_, err := client.Generate(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestLMStudioGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"done"}}]}`))
	}))
	defer server.Close()

	client := NewLMStudioClient(Options{Model: "local", LMStudioBaseURL: server.URL})
	out, err := client.Generate(context.Background(), "do it")

	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, "lmstudio", client.Name())
}

func TestLMStudioGenerateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewLMStudioClient(Options{LMStudioBaseURL: server.URL})
	_, err := client.Generate(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewExplicitBackends(t *testing.T) {
	p, err := New(context.Background(), "ollama", Options{})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	p, err = New(context.Background(), "lmstudio", Options{})
	require.NoError(t, err)
	assert.Equal(t, "lmstudio", p.Name())

	_, err = New(context.Background(), "cloud", Options{})
	assert.Error(t, err)
}

func TestNewAutoPicksReachableBackend(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer ollama.Close()

	p, err := New(context.Background(), "auto", Options{
		OllamaBaseURL:   ollama.URL,
		LMStudioBaseURL: "http://127.0.0.1:1", // unreachable
	})

	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
}

func TestNewAutoNoBackendReachable(t *testing.T) {
	_, err := New(context.Background(), "auto", Options{
		OllamaBaseURL:   "http://127.0.0.1:1",
		LMStudioBaseURL: "http://127.0.0.1:1",
	})
	assert.Error(t, err)
}
