// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"radic/internal/design"
)

const (
	anthropicVersion = "2023-06-01"
	claudeMaxTokens  = 8192

	// errorBodyLimit caps how much of an unparseable error body ends up in
	// the returned error.
	errorBodyLimit = 512
)

// claudeProvider talks to the Anthropic Messages API (POST /v1/messages)
// over plain HTTP. The schema travels in the system prompt since the API
// has no response-format switch.
type claudeProvider struct {
	config ProviderConfig
	client *http.Client
}

func newClaude(cfg ProviderConfig) *claudeProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &claudeProvider{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *claudeProvider) Name() string { return "claude" }

// Generate returns the concatenated text blocks of the reply. A reply cut
// off at max_tokens is reported as malformed output, since a truncated
// JSON document can never validate.
func (p *claudeProvider) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := callContext(ctx, req)
	defer cancel()

	payload, err := json.Marshal(claudeRequest{
		Model:     p.config.Model,
		MaxTokens: claudeMaxTokens,
		System:    jsonInstruction(req.Schema),
		Messages:  []claudeMessage{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("claude marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("claude request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("claude read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", claudeAPIError(resp.StatusCode, respBody)
	}

	var result claudeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("claude unmarshal: %w", err)
	}
	if result.StopReason == "max_tokens" {
		return "", fmt.Errorf("claude: %w: reply truncated at %d tokens", design.ErrMalformed, claudeMaxTokens)
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("claude: no text content in response (stop_reason %q)", result.StopReason)
	}
	return text.String(), nil
}

// claudeAPIError describes a non-200 reply. Anthropic errors carry a typed
// envelope; anything else is quoted, truncated.
func claudeAPIError(status int, body []byte) error {
	var envelope claudeErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Type != "" {
		return fmt.Errorf("claude API error (status %d, %s): %s", status, envelope.Error.Type, envelope.Error.Message)
	}
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return fmt.Errorf("claude API error (status %d): %q", status, body)
}

// --- Anthropic Messages API types ---

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeResponse struct {
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
}

type claudeErrorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
