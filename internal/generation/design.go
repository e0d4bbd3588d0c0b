// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"radic/internal/ai"
	"radic/internal/design"
	"radic/internal/prompt"
)

// DesignInput is what the design stage generates from.
type DesignInput struct {
	Prompt          string
	Brief           *design.Brief
	Brand           *design.BrandKit
	ReferenceImages []string
	Preferences     map[string]string
}

// DesignResult is a repaired design plus what happened on the way.
type DesignResult struct {
	Design     *design.Design
	Attempts   int
	Fixes      []design.Fix
	Advisories []design.Advisory
}

// DesignGenerator produces canonical designs. Unlike BriefGenerator it
// never substitutes a mock: exhausting the retry budget is a terminal
// *Error matching ErrGenerationFailed.
type DesignGenerator struct {
	provider ai.Provider
	cfg      Config
	sleep    sleeper
}

// NewDesignGenerator creates a design generator. Zero config fields take
// their defaults.
func NewDesignGenerator(p ai.Provider, cfg Config) *DesignGenerator {
	return &DesignGenerator{provider: p, cfg: cfg.withDefaults(), sleep: sleepContext}
}

// Generate runs the design stage. The returned error is a terminal *Error,
// or a wrapped context error when ctx ends first.
func (g *DesignGenerator) Generate(ctx context.Context, in DesignInput) (*DesignResult, error) {
	if err := checkProvider(g.provider); err != nil {
		return nil, &Error{Kind: ProviderUnconfigured, Stage: "design", Err: err, Terminal: true}
	}

	req := ai.Request{
		Prompt: prompt.BuildDesign(prompt.Request{
			UserPrompt:      in.Prompt,
			Brand:           in.Brand,
			ReferenceImages: in.ReferenceImages,
			Preferences:     in.Preferences,
			Brief:           in.Brief,
		}),
		Schema:  design.DesignSchema(),
		Timeout: g.cfg.CallTimeout,
	}

	res, attempts, err := retry(ctx, g.cfg, g.sleep, "design", func(ctx context.Context, _ int) (*DesignResult, *Error) {
		return g.attempt(ctx, req)
	})
	if err != nil {
		var ge *Error
		if errors.As(err, &ge) {
			ge.Terminal = true
			slog.Error("design generation failed", "attempts", ge.Attempt, "kind", ge.Kind.String(), "error", ge.Err)
			return nil, ge
		}
		return nil, err
	}
	res.Attempts = attempts
	return res, nil
}

// attempt is one call + parse + repair under the attempt deadline.
func (g *DesignGenerator) attempt(parent context.Context, req ai.Request) (*DesignResult, *Error) {
	ctx, cancel := context.WithTimeout(parent, g.cfg.AttemptTimeout)
	defer cancel()

	fail := func(err error) (*DesignResult, *Error) {
		return nil, &Error{Kind: classify(ctx, err), Err: err}
	}

	raw, err := g.provider.Generate(ctx, req)
	if err != nil {
		return fail(err)
	}

	d, err := design.ParseDesign(raw)
	if err != nil {
		return fail(err)
	}

	repaired, fixes, err := design.Repair(d)
	if err != nil {
		return fail(err)
	}

	if err := ctx.Err(); err != nil {
		return fail(fmt.Errorf("attempt deadline: %w", err))
	}

	for _, f := range fixes {
		slog.Debug("design repaired", "fix", f.String())
	}
	advisories := design.Audit(repaired)
	for _, a := range advisories {
		slog.Warn("design advisory", "layer", a.LayerID, "kind", a.Kind, "message", a.Message)
	}

	return &DesignResult{Design: repaired, Fixes: fixes, Advisories: advisories}, nil
}
