// Package ai is the port to the external text-generation service.
package ai

import (
	"context"
	"fmt"
	"strings"
)

// Generator sends one prompt and returns the model's raw text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider selects the Generator implementation built by New.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderOff    Provider = "off"
)

type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	BaseURL  string
}

// New builds the Generator named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Generator, error) {
	switch Provider(strings.ToLower(string(cfg.Provider))) {
	case ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	case ProviderOff, "":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// Noop answers every prompt with an empty reply.
type Noop struct{}

func (Noop) Generate(ctx context.Context, prompt string) (string, error) { return "", nil }

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
