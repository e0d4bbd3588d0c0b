// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"fmt"
	"log/slog"

	"radic/internal/ai"
	"radic/internal/design"
	"radic/internal/prompt"
)

// activeChecker is implemented by providers that can tell up front whether
// a backing provider is configured, such as *ai.Registry.
type activeChecker interface {
	Active() (ai.Provider, error)
}

// checkProvider reports ProviderUnconfigured before any attempt is made.
func checkProvider(p ai.Provider) error {
	if p == nil {
		return fmt.Errorf("%w: no provider", ai.ErrNotConfigured)
	}
	if ac, ok := p.(activeChecker); ok {
		if _, err := ac.Active(); err != nil {
			return err
		}
	}
	return nil
}

// BriefResult is the outcome of the brief stage.
type BriefResult struct {
	Brief *design.Brief
	// FellBack is true when Brief is the deterministic mock.
	FellBack bool
	// Attempts is the number of provider calls made.
	Attempts int
}

// BriefGenerator turns a user prompt into a design brief. It never fails:
// once retries are exhausted it returns design.MockBrief.
type BriefGenerator struct {
	provider ai.Provider
	cfg      Config
	sleep    sleeper
}

// NewBriefGenerator creates a brief generator. Zero config fields take
// their defaults.
func NewBriefGenerator(p ai.Provider, cfg Config) *BriefGenerator {
	return &BriefGenerator{provider: p, cfg: cfg.withDefaults(), sleep: sleepContext}
}

// Generate returns a brief for userPrompt, falling back to the mock brief
// when the provider is unconfigured, keeps failing, or ctx ends.
func (g *BriefGenerator) Generate(ctx context.Context, userPrompt string) BriefResult {
	if err := checkProvider(g.provider); err != nil {
		slog.Warn("brief generation skipped, using mock brief", "error", err)
		return BriefResult{Brief: design.MockBrief(), FellBack: true}
	}

	req := ai.Request{
		Prompt:  prompt.BuildBrief(userPrompt),
		Schema:  design.BriefSchema(),
		Timeout: g.cfg.CallTimeout,
	}

	brief, attempts, err := retry(ctx, g.cfg, g.sleep, "brief", func(ctx context.Context, _ int) (*design.Brief, *Error) {
		raw, err := g.provider.Generate(ctx, req)
		if err != nil {
			return nil, &Error{Kind: classify(ctx, err), Err: err}
		}
		b, err := design.ParseBrief(raw)
		if err != nil {
			return nil, &Error{Kind: classify(ctx, err), Err: err}
		}
		return b, nil
	})
	if err != nil {
		slog.Warn("brief generation exhausted, using mock brief", "attempts", attempts, "error", err)
		return BriefResult{Brief: design.MockBrief(), FellBack: true, Attempts: attempts}
	}
	return BriefResult{Brief: brief, Attempts: attempts}
}
