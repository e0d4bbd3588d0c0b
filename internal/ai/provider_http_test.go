// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"radic/internal/design"
)

// ---------- Helpers ----------

// newTestServer creates an httptest.Server that responds with the given status
// code and body bytes. The caller must call Close on the returned server.
func newTestServer(t *testing.T, statusCode int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write(body)
	}))
}

// slowServer waits until the client gives up before answering.
func slowServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
}

// openAISuccessBody builds a chat completion response with one choice.
func openAISuccessBody(text string) []byte {
	resp := openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "gpt-4o",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

// claudeSuccessBody builds a Messages API response with one text block.
func claudeSuccessBody(text string) []byte {
	resp := claudeResponse{
		Content: []claudeContentBlock{
			{Type: "text", Text: text},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

// geminiSuccessBody builds a generateContent response with one candidate.
func geminiSuccessBody(text string) []byte {
	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	b, _ := json.Marshal(resp)
	return b
}

func briefRequest() Request {
	return Request{Prompt: "Summer sale", Schema: design.BriefSchema(), Timeout: 5 * time.Second}
}

// =====================================================================
// OpenAI Provider Tests
// =====================================================================

func TestOpenAIGenerate_Success(t *testing.T) {
	want := `{"headline":"Hello"}`
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	got, err := p.Generate(context.Background(), briefRequest())
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestOpenAIGenerate_VerifiesRequest(t *testing.T) {
	var capturedHeaders http.Header
	var capturedPath string
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedPath = r.URL.Path
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAISuccessBody("{}"))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "sk-test-12345", Model: "gpt-4o", BaseURL: srv.URL})

	if _, err := p.Generate(context.Background(), briefRequest()); err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}

	if got := capturedHeaders.Get("Authorization"); got != "Bearer sk-test-12345" {
		t.Errorf("Authorization header: got %q", got)
	}
	if capturedPath != "/chat/completions" {
		t.Errorf("path: got %q, want /chat/completions", capturedPath)
	}

	var reqBody openai.ChatCompletionRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.Model != "gpt-4o" {
		t.Errorf("request model: got %q", reqBody.Model)
	}
	if reqBody.ResponseFormat == nil || reqBody.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("response_format: got %+v, want json_object", reqBody.ResponseFormat)
	}
	if len(reqBody.Messages) != 2 {
		t.Fatalf("request messages count: got %d, want 2", len(reqBody.Messages))
	}
	if reqBody.Messages[0].Role != "system" || !strings.Contains(reqBody.Messages[0].Content, `"visual_focus"`) {
		t.Errorf("system message should embed the schema: got %q", reqBody.Messages[0].Content)
	}
	if reqBody.Messages[1].Role != "user" || reqBody.Messages[1].Content != "Summer sale" {
		t.Errorf("user message: got %+v", reqBody.Messages[1])
	}
}

func TestOpenAIGenerate_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized,
		[]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "bad", Model: "gpt-4o", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), briefRequest())
	if err == nil {
		t.Fatal("expected error for HTTP 401, got nil")
	}
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should wrap *openai.APIError: got %T %v", err, err)
	}
	if apiErr.HTTPStatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", apiErr.HTTPStatusCode)
	}
}

func TestOpenAIGenerate_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"id":"x","choices":[]}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), briefRequest())
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("error should mention no choices: got %v", err)
	}
}

func TestOpenAIGenerate_Timeout(t *testing.T) {
	srv := slowServer(t)
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	req := briefRequest()
	req.Timeout = 50 * time.Millisecond
	start := time.Now()
	_, err := p.Generate(context.Background(), req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call was not canceled promptly: %v", elapsed)
	}
}

func TestOpenAIGenerate_DefaultBaseURL(t *testing.T) {
	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o"})
	if p.config.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("default BaseURL: got %q", p.config.BaseURL)
	}
}

func TestOpenAIGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []any{map[string]any{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "k", Model: "gpt-4o", BaseURL: srv.URL})
	img, ct, err := p.GenerateImage(context.Background(), "a red bicycle")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img) != string(png) || ct != "image/png" {
		t.Errorf("GenerateImage: got %v %q", img, ct)
	}
	if capturedPath != "/images/generations" {
		t.Errorf("path: got %q", capturedPath)
	}
}

// =====================================================================
// Claude Provider Tests
// =====================================================================

func TestClaudeGenerate_Success(t *testing.T) {
	want := `{"headline":"Hi"}`
	srv := newTestServer(t, http.StatusOK, claudeSuccessBody(want))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "test-key", Model: "claude-sonnet-4-5", BaseURL: srv.URL})

	got, err := p.Generate(context.Background(), briefRequest())
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestClaudeGenerate_VerifiesRequest(t *testing.T) {
	var capturedHeaders http.Header
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(claudeSuccessBody("{}"))
	}))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "sk-ant-test", Model: "claude-sonnet-4-5", BaseURL: srv.URL})

	if _, err := p.Generate(context.Background(), briefRequest()); err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}

	if got := capturedHeaders.Get("x-api-key"); got != "sk-ant-test" {
		t.Errorf("x-api-key: got %q", got)
	}
	if got := capturedHeaders.Get("anthropic-version"); got != "2023-06-01" {
		t.Errorf("anthropic-version: got %q", got)
	}

	var reqBody claudeRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.Model != "claude-sonnet-4-5" || reqBody.MaxTokens <= 0 {
		t.Errorf("request: got model %q max_tokens %d", reqBody.Model, reqBody.MaxTokens)
	}
	if !strings.Contains(reqBody.System, `"color_scheme"`) {
		t.Errorf("system prompt should embed the schema: got %q", reqBody.System)
	}
	if len(reqBody.Messages) != 1 || reqBody.Messages[0].Content != "Summer sale" {
		t.Errorf("messages: got %+v", reqBody.Messages)
	}
}

func TestClaudeGenerate_HTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   []string
	}{
		{
			name:   "typed envelope",
			status: http.StatusTooManyRequests,
			body:   `{"type":"error","error":{"type":"rate_limit_error","message":"Number of requests has exceeded your rate limit"}}`,
			want:   []string{"status 429", "rate_limit_error", "exceeded your rate limit"},
		},
		{
			name:   "overloaded",
			status: 529,
			body:   `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
			want:   []string{"status 529", "overloaded_error"},
		},
		{
			name:   "plain body",
			status: http.StatusBadGateway,
			body:   "<html>bad gateway</html>",
			want:   []string{"status 502", "bad gateway"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, []byte(tt.body))
			defer srv.Close()

			p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
			_, err := p.Generate(context.Background(), briefRequest())
			if err == nil {
				t.Fatalf("expected error for HTTP %d", tt.status)
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q should contain %q", err.Error(), w)
				}
			}
		})
	}
}

func TestClaudeAPIErrorTruncatesBody(t *testing.T) {
	err := claudeAPIError(http.StatusInternalServerError, bytes.Repeat([]byte("x"), 4*errorBodyLimit))
	if len(err.Error()) > errorBodyLimit+64 {
		t.Errorf("error should be truncated, got %d bytes", len(err.Error()))
	}
}

func TestClaudeGenerate_Truncated(t *testing.T) {
	body, _ := json.Marshal(claudeResponse{
		Content:    []claudeContentBlock{{Type: "text", Text: `{"headline":"Summ`}},
		StopReason: "max_tokens",
	})
	srv := newTestServer(t, http.StatusOK, body)
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), briefRequest())
	if !errors.Is(err, design.ErrMalformed) {
		t.Fatalf("truncated reply should be malformed output, got %v", err)
	}
}

func TestClaudeGenerate_JoinsTextBlocks(t *testing.T) {
	body, _ := json.Marshal(claudeResponse{
		Content: []claudeContentBlock{
			{Type: "text", Text: `{"headline":`},
			{Type: "tool_use"},
			{Type: "text", Text: `"Hi"}`},
		},
		StopReason: "end_turn",
	})
	srv := newTestServer(t, http.StatusOK, body)
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL + "/"})
	got, err := p.Generate(context.Background(), briefRequest())
	if err != nil || got != `{"headline":"Hi"}` {
		t.Errorf("got %q %v", got, err)
	}
}

func TestClaudeGenerate_NoTextContent(t *testing.T) {
	body, _ := json.Marshal(claudeResponse{Content: []claudeContentBlock{{Type: "tool_use"}}, StopReason: "tool_use"})
	srv := newTestServer(t, http.StatusOK, body)
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), briefRequest())
	if err == nil || !strings.Contains(err.Error(), "no text content") {
		t.Errorf("expected no text content error, got %v", err)
	}
}

func TestClaudeGenerate_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{not json`))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), briefRequest())
	if err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("error should mention unmarshal: got %v", err)
	}
}

func TestClaudeGenerate_Timeout(t *testing.T) {
	srv := slowServer(t)
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

	req := briefRequest()
	req.Timeout = 50 * time.Millisecond
	_, err := p.Generate(context.Background(), req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestClaudeGenerate_ConnectionRefused(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, claudeSuccessBody("ok"))
	srv.Close()

	p := newClaude(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), briefRequest()); err == nil {
		t.Fatal("expected error for closed server, got nil")
	}
}

func TestClaudeGenerate_DefaultBaseURL(t *testing.T) {
	p := newClaude(ProviderConfig{APIKey: "k"})
	if p.config.BaseURL != "https://api.anthropic.com" {
		t.Errorf("default BaseURL: got %q", p.config.BaseURL)
	}
}

// =====================================================================
// Mistral Provider Tests
// =====================================================================

func TestMistralGenerate_Success(t *testing.T) {
	want := `{"headline":"Bonjour"}`
	srv := newTestServer(t, http.StatusOK, openAISuccessBody(want))
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "test-key", Model: "mistral-large-latest", BaseURL: srv.URL})

	got, err := p.Generate(context.Background(), briefRequest())
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
}

func TestMistralGenerate_VerifiesRequest(t *testing.T) {
	var capturedHeaders http.Header
	var capturedPath string
	var capturedBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		capturedPath = r.URL.Path
		capturedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAISuccessBody("{}"))
	}))
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "ms-test", Model: "mistral-large-latest", BaseURL: srv.URL})

	if _, err := p.Generate(context.Background(), briefRequest()); err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}

	if got := capturedHeaders.Get("Authorization"); got != "Bearer ms-test" {
		t.Errorf("Authorization header: got %q", got)
	}
	if capturedPath != "/chat/completions" {
		t.Errorf("path: got %q, want /chat/completions", capturedPath)
	}

	var reqBody openai.ChatCompletionRequest
	if err := json.Unmarshal(capturedBody, &reqBody); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if reqBody.Model != "mistral-large-latest" {
		t.Errorf("request model: got %q", reqBody.Model)
	}
	if reqBody.ResponseFormat == nil || reqBody.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("response_format: got %+v, want json_object", reqBody.ResponseFormat)
	}
	if len(reqBody.Messages) != 2 {
		t.Fatalf("request messages count: got %d, want 2", len(reqBody.Messages))
	}
	if reqBody.Messages[0].Role != "system" || !strings.Contains(reqBody.Messages[0].Content, `"color_scheme"`) {
		t.Errorf("system message should embed the schema: got %q", reqBody.Messages[0].Content)
	}
	if reqBody.Messages[1].Content != "Summer sale" {
		t.Errorf("user message: got %+v", reqBody.Messages[1])
	}
}

func TestMistralGenerate_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests,
		[]byte(`{"object":"error","message":"Requests rate limit exceeded","type":"rate_limited"}`))
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "k", Model: "mistral-large-latest", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), briefRequest())
	if err == nil {
		t.Fatal("expected error for HTTP 429, got nil")
	}
	if !strings.Contains(err.Error(), "mistral chat") {
		t.Errorf("error should be wrapped: got %q", err.Error())
	}
}

func TestMistralGenerate_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"id":"x","choices":[]}`))
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "k", Model: "mistral-large-latest", BaseURL: srv.URL})

	_, err := p.Generate(context.Background(), briefRequest())
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("error should mention no choices: got %v", err)
	}
}

func TestMistralGenerate_Timeout(t *testing.T) {
	srv := slowServer(t)
	defer srv.Close()

	p := newMistral(ProviderConfig{APIKey: "k", Model: "mistral-large-latest", BaseURL: srv.URL})

	req := briefRequest()
	req.Timeout = 50 * time.Millisecond
	_, err := p.Generate(context.Background(), req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestMistralGenerate_DefaultBaseURL(t *testing.T) {
	p := newMistral(ProviderConfig{APIKey: "k"})
	if p.config.BaseURL != "https://api.mistral.ai/v1" {
		t.Errorf("default BaseURL: got %q", p.config.BaseURL)
	}
}

func TestMistralHasNoImageGeneration(t *testing.T) {
	var p Provider = newMistral(ProviderConfig{APIKey: "k", Model: "m"})
	if _, ok := p.(ImageGenerator); ok {
		t.Error("mistral should not implement ImageGenerator")
	}

	reg := NewRegistry("mistral", map[string]ProviderConfig{"mistral": {APIKey: "k", Model: "m"}})
	if reg.SupportsImageGeneration() {
		t.Error("registry with mistral active should not report image support")
	}
}

// =====================================================================
// Gemini Provider Tests
// =====================================================================

func TestGeminiGenerate_Success(t *testing.T) {
	want := `{"headline":"Hola"}`
	var capturedPath, capturedKey string
	var capturedBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&capturedBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write(geminiSuccessBody(want))
	}))
	defer srv.Close()

	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "g-key", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}

	got, err := p.Generate(context.Background(), briefRequest())
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Generate: got %q, want %q", got, want)
	}
	if !strings.HasSuffix(capturedPath, "/models/gemini-2.0-flash:generateContent") {
		t.Errorf("path: got %q", capturedPath)
	}
	if capturedKey != "g-key" {
		t.Errorf("x-goog-api-key: got %q", capturedKey)
	}

	gen, _ := capturedBody["generationConfig"].(map[string]any)
	if gen["responseMimeType"] != "application/json" {
		t.Errorf("responseMimeType: got %v", gen["responseMimeType"])
	}
	if _, ok := gen["responseSchema"]; !ok {
		t.Error("responseSchema should be sent")
	}
}

func TestGeminiGenerate_HTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest, []byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	defer srv.Close()

	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "bad", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}

	_, err = p.Generate(context.Background(), briefRequest())
	if err == nil {
		t.Fatal("expected error for HTTP 400, got nil")
	}
	if !strings.Contains(err.Error(), "gemini generate") {
		t.Errorf("error should be wrapped: got %q", err.Error())
	}
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"candidates":[]}`))
	defer srv.Close()

	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "k", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}

	_, err = p.Generate(context.Background(), briefRequest())
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Errorf("error should mention no candidates: got %v", err)
	}
}

func TestGeminiGenerate_Timeout(t *testing.T) {
	srv := slowServer(t)
	defer srv.Close()

	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "k", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}

	req := briefRequest()
	req.Timeout = 50 * time.Millisecond
	start := time.Now()
	_, err = p.Generate(context.Background(), req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call was not canceled promptly: %v", elapsed)
	}
}

func TestDeadlineErr(t *testing.T) {
	plain := errors.New("Post \"http://x\": net/http: request canceled")

	if got := deadlineErr(context.Background(), plain); got != plain {
		t.Errorf("live context: got %v, want the original error", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	got := deadlineErr(ctx, plain)
	if !errors.Is(got, context.DeadlineExceeded) {
		t.Errorf("expired context: got %v, want DeadlineExceeded", got)
	}
	if !strings.Contains(got.Error(), "request canceled") {
		t.Errorf("original message should be kept: got %q", got)
	}

	wrapped := fmt.Errorf("sdk: %w", context.DeadlineExceeded)
	if got := deadlineErr(ctx, wrapped); got != wrapped {
		t.Errorf("already wrapped: got %v", got)
	}
}

func TestGeminiGenerateImage_RequiresModel(t *testing.T) {
	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "k", Model: "gemini-2.0-flash", BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}
	_, _, err = p.GenerateImage(context.Background(), "cat")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestToGenaiSchema(t *testing.T) {
	s := toGenaiSchema(design.DesignSchema())
	if s.Type != "OBJECT" {
		t.Errorf("root type: got %q", s.Type)
	}
	layers := s.Properties["layers"]
	if layers == nil || layers.Type != "ARRAY" || layers.Items == nil {
		t.Fatalf("layers: got %+v", layers)
	}
	if fs := layers.Items.Properties["text"].Properties["font_size"]; fs == nil || fs.Type != "NUMBER" {
		t.Errorf("font_size: got %+v", fs)
	}
	if len(s.Properties["format"].Enum) != len(design.Formats()) {
		t.Errorf("format enum: got %v", s.Properties["format"].Enum)
	}
}

// =====================================================================
// Moderation
// =====================================================================

func TestOpenAIModerator(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantSafe bool
		wantCats []string
	}{
		{
			name:     "clean prompt",
			body:     `{"id":"m","model":"omni-moderation-latest","results":[{"flagged":false,"categories":{}}]}`,
			wantSafe: true,
		},
		{
			name:     "flagged prompt",
			body:     `{"id":"m","model":"omni-moderation-latest","results":[{"flagged":true,"categories":{"hate":true,"hate/threatening":true,"violence":false}}]}`,
			wantSafe: false,
			wantCats: []string{"hate", "hate (threatening)"},
		},
		{
			name:     "no results",
			body:     `{"id":"m","results":[]}`,
			wantSafe: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			m := newOpenAIModerator("k", srv.URL)
			res, err := m.CheckSafety(context.Background(), "some prompt")
			if err != nil {
				t.Fatalf("CheckSafety: %v", err)
			}
			if capturedPath != "/moderations" {
				t.Errorf("path: got %q", capturedPath)
			}
			if res.Safe != tt.wantSafe {
				t.Errorf("Safe: got %v, want %v", res.Safe, tt.wantSafe)
			}
			if strings.Join(res.Categories, ",") != strings.Join(tt.wantCats, ",") {
				t.Errorf("Categories: got %v, want %v", res.Categories, tt.wantCats)
			}
		})
	}
}

func TestCategoryDisplay(t *testing.T) {
	tests := map[string]string{
		"hate":                   "hate",
		"hate/threatening":       "hate (threatening)",
		"self_harm":              "self harm",
		"self-harm/instructions": "self-harm (instructions)",
	}
	for in, want := range tests {
		if got := categoryDisplay(in); got != want {
			t.Errorf("categoryDisplay(%q) = %q, want %q", in, got, want)
		}
	}
}

// =====================================================================
// Registry with real HTTP providers
// =====================================================================

func TestRegistryGenerate_WithRealHTTPProviders(t *testing.T) {
	openaiSrv := newTestServer(t, http.StatusOK, openAISuccessBody("openai response"))
	defer openaiSrv.Close()

	claudeSrv := newTestServer(t, http.StatusOK, claudeSuccessBody("claude response"))
	defer claudeSrv.Close()

	geminiSrv := newTestServer(t, http.StatusOK, geminiSuccessBody("gemini response"))
	defer geminiSrv.Close()

	mistralSrv := newTestServer(t, http.StatusOK, openAISuccessBody("mistral response"))
	defer mistralSrv.Close()

	configs := map[string]ProviderConfig{
		"openai":  {APIKey: "ok1", Model: "gpt-4o", BaseURL: openaiSrv.URL},
		"claude":  {APIKey: "ok2", Model: "claude-sonnet-4-5", BaseURL: claudeSrv.URL},
		"gemini":  {APIKey: "ok3", Model: "gemini-2.0-flash", BaseURL: geminiSrv.URL},
		"mistral": {APIKey: "ok4", Model: "mistral-large-latest", BaseURL: mistralSrv.URL},
	}

	tests := []struct {
		providerName string
		wantResult   string
	}{
		{"openai", "openai response"},
		{"claude", "claude response"},
		{"gemini", "gemini response"},
		{"mistral", "mistral response"},
	}

	for _, tt := range tests {
		t.Run(tt.providerName, func(t *testing.T) {
			reg := NewRegistry(tt.providerName, configs)
			if reg.ActiveName() != tt.providerName {
				t.Fatalf("ActiveName: got %q", reg.ActiveName())
			}

			got, err := reg.Generate(context.Background(), briefRequest())
			if err != nil {
				t.Fatalf("Generate with %s: %v", tt.providerName, err)
			}
			if got != tt.wantResult {
				t.Errorf("Generate with %s: got %q, want %q", tt.providerName, got, tt.wantResult)
			}
		})
	}
}
