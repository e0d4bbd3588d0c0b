// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"radic/internal/ai"
	"radic/internal/design"
)

// Request is one end-to-end generation request.
type Request struct {
	Prompt          string
	BrandKit        *design.BrandKit
	ReferenceImages []string
	Preferences     map[string]string
	// OwnerID is the requesting user; empty means anonymous.
	OwnerID string
}

// Result is a generated design with the intermediate brief and stage
// bookkeeping.
type Result struct {
	Design         *design.Design
	Brief          *design.Brief
	BriefFellBack  bool
	BriefAttempts  int
	DesignAttempts int
	Fixes          []design.Fix
	Advisories     []design.Advisory
}

// Pipeline runs the brief stage then the design stage. Safe for concurrent use.
type Pipeline struct {
	briefs  *BriefGenerator
	designs *DesignGenerator
	now     func() time.Time
}

// NewPipeline wires both stages to the same provider and policy.
func NewPipeline(p ai.Provider, cfg Config) *Pipeline {
	return &Pipeline{
		briefs:  NewBriefGenerator(p, cfg),
		designs: NewDesignGenerator(p, cfg),
		now:     time.Now,
	}
}

// Brief runs only the brief stage.
func (p *Pipeline) Brief(ctx context.Context, userPrompt string) BriefResult {
	return p.briefs.Generate(ctx, userPrompt)
}

// Generate returns the canonical design for req. Errors are ErrEmptyPrompt,
// a terminal *Error, or a context error.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*design.Design, error) {
	res, err := p.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Design, nil
}

// Run is Generate with the intermediate results.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	userPrompt := strings.TrimSpace(req.Prompt)
	if userPrompt == "" {
		return nil, ErrEmptyPrompt
	}

	br := p.briefs.Generate(ctx, userPrompt)

	dr, err := p.designs.Generate(ctx, DesignInput{
		Prompt:          userPrompt,
		Brief:           br.Brief,
		Brand:           req.BrandKit,
		ReferenceImages: req.ReferenceImages,
		Preferences:     req.Preferences,
	})
	if err != nil {
		return nil, err
	}

	d := dr.Design
	p.stamp(d, br.Brief, req, userPrompt)

	return &Result{
		Design:         d,
		Brief:          br.Brief,
		BriefFellBack:  br.FellBack,
		BriefAttempts:  br.Attempts,
		DesignAttempts: dr.Attempts,
		Fixes:          dr.Fixes,
		Advisories:     dr.Advisories,
	}, nil
}

// stamp sets the server-owned fields the model must not decide.
func (p *Pipeline) stamp(d *design.Design, brief *design.Brief, req Request, userPrompt string) {
	now := p.now().UTC()

	d.ID = uuid.NewString()
	d.SchemaVersion = design.SchemaVersion
	d.OwnerID = req.OwnerID
	if d.OwnerID == "" {
		d.OwnerID = design.AnonymousOwner
	}
	if strings.TrimSpace(d.Title) == "" && brief != nil {
		d.Title = brief.Headline
	}
	if req.BrandKit != nil {
		bk := *req.BrandKit
		d.Brand = &bk
	}

	d.Metadata.Source = design.SourceAIGenerated
	d.Metadata.AIPrompt = userPrompt
	d.Metadata.CreatedAt = now
	d.Metadata.UpdatedAt = now
	if d.Metadata.DesignStyle == "" && brief != nil {
		d.Metadata.DesignStyle = brief.LayoutStyle
	}
}
