// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// mistralProvider generates through Mistral's chat completions API, which
// is OpenAI-compatible and honours the json_object response format. It has
// no image endpoint, so it does not implement ImageGenerator.
type mistralProvider struct {
	config ProviderConfig
	client *openai.Client
}

func newMistral(cfg ProviderConfig) *mistralProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai/v1"
	}
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	return &mistralProvider{
		config: cfg,
		client: openai.NewClientWithConfig(config),
	}
}

func (p *mistralProvider) Name() string { return "mistral" }

// Generate sends one JSON-mode chat completion to Mistral.
func (p *mistralProvider) Generate(ctx context.Context, req Request) (string, error) {
	text, err := chatJSON(ctx, p.client, p.config.Model, req)
	if err != nil {
		return "", fmt.Errorf("mistral %w", err)
	}
	return text, nil
}
