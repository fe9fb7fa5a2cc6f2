// Package provider adapts hosted language models behind a single interface.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when a model answers without any text.
var ErrEmptyResponse = errors.New("no text content in response")

type LLMProvider interface {
	// GenerateText sends a system instruction and a user prompt and returns the raw reply.
	GenerateText(ctx context.Context, system, prompt string) (string, error)
	Name() string
	Close()
}

type Options struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
}

// New builds the configured provider. It returns nil, nil when no provider is
// selected so callers always take their fallback path.
func New(ctx context.Context, opts Options) (LLMProvider, error) {
	switch strings.ToLower(opts.Provider) {
	case "":
		return nil, nil
	case "gemini":
		p, err := NewGeminiProvider(ctx, opts.GeminiAPIKey, opts.GeminiModel)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		p, err := NewOpenAIProvider(opts.OpenAIAPIKey, opts.OpenAIModel)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", opts.Provider)
	}
}
