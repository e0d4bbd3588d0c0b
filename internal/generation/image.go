// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"radic/internal/ai"
)

// Image is a generated raster image.
type Image struct {
	Data        []byte
	ContentType string
	Attempts    int
}

// ImageGenerator wraps a provider's image generation in the same retry
// policy as the text stages. There is no fallback image.
type ImageGenerator struct {
	gen   ai.ImageGenerator
	cfg   Config
	sleep sleeper
}

// NewImageGenerator creates an image generator around gen.
func NewImageGenerator(gen ai.ImageGenerator, cfg Config) *ImageGenerator {
	return &ImageGenerator{gen: gen, cfg: cfg.withDefaults(), sleep: sleepContext}
}

// Generate creates an image for prompt. Failures surface as a terminal *Error.
func (g *ImageGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if g.gen == nil {
		return nil, &Error{Kind: ProviderUnconfigured, Stage: "image", Err: ai.ErrNotConfigured, Terminal: true}
	}

	img, attempts, err := retry(ctx, g.cfg, g.sleep, "image", func(ctx context.Context, _ int) (*Image, *Error) {
		callCtx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
		defer cancel()

		data, contentType, err := g.gen.GenerateImage(callCtx, prompt)
		if err != nil {
			return nil, &Error{Kind: classify(callCtx, err), Err: err}
		}
		if len(data) == 0 {
			return nil, &Error{Kind: MalformedOutput, Err: fmt.Errorf("empty image")}
		}
		return &Image{Data: data, ContentType: contentType}, nil
	})
	if err != nil {
		var ge *Error
		if errors.As(err, &ge) {
			ge.Terminal = true
			return nil, ge
		}
		return nil, err
	}
	img.Attempts = attempts
	return img, nil
}
