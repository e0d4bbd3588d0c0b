// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for structured text generation
// across LLM providers (Gemini, OpenAI, Claude, Mistral). Each provider implements
// the Provider interface, and the Registry selects the active one by name.
// Providers never retry; retry policy belongs to the caller.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"radic/internal/design"
)

// ErrNotConfigured is returned when no provider is configured for the
// requested name, usually because its API key is missing.
var ErrNotConfigured = errors.New("ai: provider not configured")

// Request is a single structured-generation call.
type Request struct {
	// Prompt is the full instruction text.
	Prompt string
	// Schema describes the JSON document the model must return. Providers
	// with native structured output pass it through; the others embed it
	// in their instructions.
	Schema *design.Schema
	// Timeout bounds the call. The in-flight HTTP request is canceled when
	// it elapses. Zero means no extra bound beyond ctx.
	Timeout time.Duration
}

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends the request to the LLM and returns the raw generated
	// text, which should but may not conform to req.Schema.
	Generate(ctx context.Context, req Request) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	ModelImage string
}

// callContext derives the per-call context bounded by req.Timeout.
func callContext(ctx context.Context, req Request) (context.Context, context.CancelFunc) {
	if req.Timeout > 0 {
		return context.WithTimeout(ctx, req.Timeout)
	}
	return context.WithCancel(ctx)
}

// jsonInstruction is the system instruction used by providers without
// native response schemas.
func jsonInstruction(s *design.Schema) string {
	if s == nil {
		return "Respond with a single valid JSON object and nothing else."
	}
	return "Respond with a single valid JSON object and nothing else. No markdown, no code fences, no commentary. The object must conform to this JSON schema:\n\n" + s.JSON()
}

// Registry holds the configured providers and the active one. It is built
// once at startup by NewRegistry and never mutated afterwards, so every
// request sees the same provider and all methods are safe for concurrent
// use without locking.
type Registry struct {
	providers map[string]Provider
	active    string
	moderator Moderator // nil when no moderation API is available
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped.
// When an OpenAI key is present its moderation endpoint screens prompts.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "gemini":
			p, err := newGemini(context.Background(), cfg)
			if err != nil {
				slog.Warn("gemini provider unavailable", "error", err)
				continue
			}
			r.providers[name] = p
		case "claude":
			r.providers[name] = newClaude(cfg)
		case "mistral":
			r.providers[name] = newMistral(cfg)
		}
	}

	if cfg, ok := configs["openai"]; ok && cfg.APIKey != "" {
		r.moderator = newOpenAIModerator(cfg.APIKey, cfg.BaseURL)
	}

	return r
}

// Name identifies the registry itself when used as a Provider.
func (r *Registry) Name() string { return "registry" }

// Generate calls the active provider's Generate method.
func (r *Registry) Generate(ctx context.Context, req Request) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, req)
}

// Active returns the active provider. The error wraps ErrNotConfigured when
// the active name has no provider.
func (r *Registry) Active() (Provider, error) {
	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotConfigured, r.active)
	}
	return p, nil
}

// ActiveName returns the name chosen at startup (AI_PROVIDER).
func (r *Registry) ActiveName() string {
	return r.active
}

// Available returns the names of all configured providers, sorted.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckPrompt runs the user prompt through the moderation API before
// generation. Returns a safe result if no moderator is configured; the
// providers still apply their own safety filters. Returns a
// *ModerationResult with Safe=false and flagged Categories if the prompt
// violates policies.
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.CheckSafety(ctx, prompt)
}
