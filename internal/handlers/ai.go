// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"radic/internal/ai"
	"radic/internal/design"
	"radic/internal/generation"
	"radic/internal/middleware"
	"radic/internal/models"
)

// --- AI generation endpoints ---

type generateRequest struct {
	Prompt          string            `json:"prompt"`
	BrandID         *string           `json:"brand_id,omitempty"`
	ReferenceImages []string          `json:"reference_images,omitempty"`
	Preferences     map[string]string `json:"preferences,omitempty"`
}

// generationInfo reports how the pipeline arrived at a design.
type generationInfo struct {
	Brief          *design.Brief `json:"brief"`
	BriefFallback  bool          `json:"brief_fallback"`
	BriefAttempts  int           `json:"brief_attempts"`
	DesignAttempts int           `json:"design_attempts"`
	Fixes          []string      `json:"fixes,omitempty"`
	Advisories     []string      `json:"advisories,omitempty"`
}

type generateResponse struct {
	*models.DesignRecord
	Saved      bool           `json:"saved"`
	Generation generationInfo `json:"generation"`
}

// Generate turns a prompt into a canonical design. Authenticated callers
// get the design saved; anonymous callers get it back unsaved.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		validationError(w, r, msg)
		return
	}
	if msg := validateGenerationExtras(req.ReferenceImages, req.Preferences); msg != "" {
		validationError(w, r, msg)
		return
	}
	if !a.checkPromptSafety(w, r, req.Prompt) {
		return
	}

	user := currentUser(r)
	ownerID := ""
	if user != nil {
		ownerID = user.ID
	}

	var brandID *uuid.UUID
	var kit *design.BrandKit
	if req.BrandID != nil && *req.BrandID != "" {
		if user == nil {
			middleware.WriteError(w, r, http.StatusUnauthorized, middleware.CodeAuth, "brand kits require authentication")
			return
		}
		id, err := uuid.Parse(*req.BrandID)
		if err != nil {
			validationError(w, r, "brand_id must be a UUID")
			return
		}
		brand, err := a.brandKits.Get(id, user.ID)
		if err != nil {
			databaseError(w, r, "load brand kit", err)
			return
		}
		if brand == nil {
			notFound(w, r, "brand")
			return
		}
		brandID, kit = &id, brand.Kit()
	}

	slog.Info("generating design",
		"owner", ownerOrAnonymous(ownerID),
		"prompt", truncate(req.Prompt, 50),
		"brand", kit != nil,
	)

	res, err := a.pipeline.Run(r.Context(), generation.Request{
		Prompt:          req.Prompt,
		BrandKit:        kit,
		ReferenceImages: req.ReferenceImages,
		Preferences:     req.Preferences,
		OwnerID:         ownerID,
	})
	if err != nil {
		generationFailed(w, r, "design", err)
		return
	}

	rec, err := models.NewDesignRecord(res.Design, brandID)
	if err != nil {
		slog.Error("generated design has an invalid id", "id", res.Design.ID, "error", err)
		middleware.WriteError(w, r, http.StatusInternalServerError, middleware.CodeInternal, "failed to prepare design")
		return
	}
	rec.CreatedAt = res.Design.Metadata.CreatedAt
	rec.UpdatedAt = res.Design.Metadata.UpdatedAt

	status, saved := http.StatusOK, false
	if user != nil {
		created, err := a.designs.Create(rec)
		if err != nil {
			databaseError(w, r, "save generated design", err)
			return
		}
		rec, status, saved = created, http.StatusCreated, true
		slog.Info("generated design saved", "id", rec.ID, "owner", ownerID)
	}

	writeJSON(w, status, generateResponse{
		DesignRecord: rec,
		Saved:        saved,
		Generation:   infoFor(res),
	})
}

type briefRequest struct {
	Prompt string `json:"prompt"`
}

type briefResponse struct {
	Brief    *design.Brief `json:"brief"`
	Fallback bool          `json:"fallback"`
	Attempts int           `json:"attempts"`
}

// Brief runs only the first stage. It never fails on provider errors; the
// response says when the placeholder brief was used.
func (a *API) Brief(w http.ResponseWriter, r *http.Request) {
	var req briefRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		validationError(w, r, msg)
		return
	}
	if !a.checkPromptSafety(w, r, req.Prompt) {
		return
	}

	res := a.pipeline.Brief(r.Context(), strings.TrimSpace(req.Prompt))
	writeJSON(w, http.StatusOK, briefResponse{Brief: res.Brief, Fallback: res.FellBack, Attempts: res.Attempts})
}

type placeholderRequest struct {
	Brief *design.Brief `json:"brief,omitempty"`
}

// Placeholder returns the deterministic mock design for a brief, or for
// the placeholder brief when none is given. No provider is called.
func (a *API) Placeholder(w http.ResponseWriter, r *http.Request) {
	var req placeholderRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	d := design.MockDesign(req.Brief, a.now())
	writeJSON(w, http.StatusOK, map[string]any{"design_json": d})
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImage creates an image with the active provider, stores it in
// the public bucket and records it as an asset of the caller.
func (a *API) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validatePrompt(req.Prompt); msg != "" {
		validationError(w, r, msg)
		return
	}
	if a.images == nil || a.objects == nil || a.assets == nil {
		middleware.WriteError(w, r, http.StatusServiceUnavailable, middleware.CodeAIService,
			"image generation is not configured")
		return
	}
	if !a.checkPromptSafety(w, r, req.Prompt) {
		return
	}

	user := currentUser(r)
	prompt := strings.TrimSpace(req.Prompt)

	img, err := a.images.Generate(r.Context(), prompt)
	if err != nil {
		generationFailed(w, r, "image", err)
		return
	}

	asset := &models.Asset{
		ID:          uuid.New(),
		OwnerID:     user.ID,
		Bucket:      a.objects.Bucket(),
		ContentType: img.ContentType,
		SizeBytes:   int64(len(img.Data)),
		Prompt:      truncate(prompt, 500),
	}
	if !asset.IsImage() {
		slog.Error("provider returned a non-image payload", "content_type", img.ContentType)
		middleware.WriteError(w, r, http.StatusServiceUnavailable, middleware.CodeAIService, "provider returned an invalid image")
		return
	}
	asset.ObjectKey = models.AssetKey(user.ID, asset.ID, img.ContentType)

	if err := a.objects.Put(r.Context(), asset.ObjectKey, asset.ContentType, img.Data); err != nil {
		slog.Error("image upload failed", "error", err, "key", asset.ObjectKey)
		middleware.WriteError(w, r, http.StatusInternalServerError, middleware.CodeInternal, "failed to store image")
		return
	}

	created, err := a.assets.Create(asset)
	if err != nil {
		// The object is orphaned without its record.
		if delErr := a.objects.Delete(context.WithoutCancel(r.Context()), asset.ObjectKey); delErr != nil {
			slog.Warn("orphaned image cleanup failed", "error", delErr, "key", asset.ObjectKey)
		}
		databaseError(w, r, "record asset", err)
		return
	}
	created.URL = a.objects.URL(created.ObjectKey)

	slog.Info("image generated",
		"asset", created.ID,
		"owner", user.ID,
		"size", created.HumanSize(),
		"attempts", img.Attempts,
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"asset_id": created.ID,
		"url":      created.URL,
		"asset":    created,
	})
}

// --- Provider status ---

// ProviderStatus lists the configured providers and the one fixed at
// startup by AI_PROVIDER.
func (a *API) ProviderStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    a.providers.ActiveName(),
		"available": a.providers.Available(),
	})
}

// checkPromptSafety runs the prompt through moderation. It answers 422 and
// returns false when the prompt is flagged. Moderation errors fail open;
// the providers apply their own safety filters.
func (a *API) checkPromptSafety(w http.ResponseWriter, r *http.Request, prompt string) bool {
	if a.providers == nil {
		return true
	}
	result, err := a.providers.CheckPrompt(r.Context(), prompt)
	if err != nil {
		slog.Warn("moderation check failed, allowing prompt", "error", err)
		return true
	}
	if result.Safe {
		return true
	}

	categories := strings.Join(result.Categories, ", ")
	slog.Warn("prompt flagged by moderation", "categories", categories)
	middleware.WriteError(w, r, http.StatusUnprocessableEntity, middleware.CodeValidation,
		fmt.Sprintf("prompt was flagged for: %s. Please reformulate your request.", categories))
	return false
}

// generationFailed maps pipeline errors to responses. Provider failures
// are 503 so clients know a retry later may succeed.
func generationFailed(w http.ResponseWriter, r *http.Request, stage string, err error) {
	if errors.Is(err, generation.ErrEmptyPrompt) {
		validationError(w, r, "prompt is required")
		return
	}

	msg := stage + " generation failed, please try again"
	var ge *generation.Error
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		msg = "AI provider is not configured"
	case errors.As(err, &ge) && ge.Kind == generation.TimeoutExceeded:
		msg = stage + " generation timed out, please try again"
	case errors.Is(err, context.Canceled):
		slog.Info("generation canceled by client", "stage", stage, "path", r.URL.Path)
		middleware.WriteError(w, r, http.StatusServiceUnavailable, middleware.CodeAIService, "generation was canceled")
		return
	}

	slog.Error("generation failed", "stage", stage, "error", err, "path", r.URL.Path)
	middleware.WriteError(w, r, http.StatusServiceUnavailable, middleware.CodeAIService, msg)
}

func infoFor(res *generation.Result) generationInfo {
	info := generationInfo{
		Brief:          res.Brief,
		BriefFallback:  res.BriefFellBack,
		BriefAttempts:  res.BriefAttempts,
		DesignAttempts: res.DesignAttempts,
	}
	for _, f := range res.Fixes {
		info.Fixes = append(info.Fixes, f.String())
	}
	for _, adv := range res.Advisories {
		info.Advisories = append(info.Advisories, adv.Message)
	}
	return info
}

func ownerOrAnonymous(id string) string {
	if id == "" {
		return design.AnonymousOwner
	}
	return id
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
