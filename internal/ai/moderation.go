// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool     // true if the prompt passes moderation
	Categories []string // list of flagged category names (empty when safe)
}

// Moderator checks user prompts for policy violations before sending
// them to AI generation endpoints.
type Moderator interface {
	// CheckSafety evaluates a text prompt and returns whether it is safe
	// to send to an AI provider. If not safe, Categories lists the reasons.
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// openAIModerator uses the OpenAI Moderation API, which is free for all
// OpenAI API key holders.
type openAIModerator struct {
	client *openai.Client
}

// newOpenAIModerator creates a moderator that uses OpenAI's moderation API.
func newOpenAIModerator(apiKey, baseURL string) *openAIModerator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openAIModerator{client: openai.NewClientWithConfig(config)}
}

func (m *openAIModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{
		Model: "omni-moderation-latest",
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("moderation: %w", err)
	}

	if len(resp.Results) == 0 || !resp.Results[0].Flagged {
		return &ModerationResult{Safe: true}, nil
	}

	// The categories struct mirrors the API's JSON object; flatten it back
	// to names so new categories need no code change.
	raw, err := json.Marshal(resp.Results[0].Categories)
	if err != nil {
		return nil, fmt.Errorf("moderation categories: %w", err)
	}
	var cats map[string]bool
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, fmt.Errorf("moderation categories: %w", err)
	}

	var flagged []string
	for cat, isFlagged := range cats {
		if isFlagged {
			flagged = append(flagged, categoryDisplay(cat))
		}
	}
	sort.Strings(flagged)

	return &ModerationResult{
		Safe:       false,
		Categories: flagged,
	}, nil
}

// categoryDisplay converts "hate/threatening" to "hate (threatening)" and
// "self_harm" to "self harm".
func categoryDisplay(cat string) string {
	display := strings.ReplaceAll(cat, "/", " (")
	if strings.Contains(cat, "/") {
		display += ")"
	}
	return strings.ReplaceAll(display, "_", " ")
}
