package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"radic/internal/design"
)

func newTestPipeline(p *scriptedProvider) *Pipeline {
	pl := NewPipeline(p, testConfig())
	rec := &recordingSleeper{}
	pl.briefs.sleep = rec.sleep
	pl.designs.sleep = rec.sleep
	pl.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return pl
}

func TestPipelineGenerate(t *testing.T) {
	p := &scriptedProvider{steps: []step{{raw: briefJSON}, {raw: designJSON(t)}}}
	pl := newTestPipeline(p)

	brand := &design.BrandKit{Name: "Acme", Colors: design.BrandColors{Primary: "#111111", Secondary: "#222222", Accent: "#333333"}}
	d, err := pl.Generate(context.Background(), Request{
		Prompt:   "  Summer sale on sunglasses  ",
		BrandKit: brand,
		OwnerID:  "user-1",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := uuid.Parse(d.ID); err != nil {
		t.Errorf("id should be a uuid, got %q", d.ID)
	}
	if d.OwnerID != "user-1" {
		t.Errorf("owner: got %q", d.OwnerID)
	}
	if d.Title != "Summer Sale 50% Off" {
		t.Errorf("title should default to the brief headline, got %q", d.Title)
	}
	if d.Metadata.Source != design.SourceAIGenerated {
		t.Errorf("source: got %q", d.Metadata.Source)
	}
	if d.Metadata.AIPrompt != "Summer sale on sunglasses" {
		t.Errorf("ai_prompt: got %q", d.Metadata.AIPrompt)
	}
	if !d.Metadata.CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("created_at: got %v", d.Metadata.CreatedAt)
	}
	if d.Brand == nil || d.Brand.Name != "Acme" {
		t.Errorf("brand: got %+v", d.Brand)
	}
	if d.Brand == brand {
		t.Error("brand kit should be copied, not shared")
	}

	if p.callCount() != 2 {
		t.Fatalf("calls: got %d, want 2", p.callCount())
	}
	// Stage two consumes the stage-one brief and the brand kit.
	designPrompt := p.reqs[1].Prompt
	for _, want := range []string{"## DESIGN BRIEF", "Summer Sale 50% Off", "Acme"} {
		if !strings.Contains(designPrompt, want) {
			t.Errorf("design prompt missing %q", want)
		}
	}
}

func TestPipelineRunReportsBriefFallback(t *testing.T) {
	p := &scriptedProvider{steps: []step{{raw: "x"}, {raw: "x"}, {raw: "x"}, {raw: designJSON(t)}}}
	pl := newTestPipeline(p)

	res, err := pl.Run(context.Background(), Request{Prompt: "ad"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.BriefFellBack || res.BriefAttempts != 3 {
		t.Errorf("brief: fellBack=%v attempts=%d", res.BriefFellBack, res.BriefAttempts)
	}
	if res.Brief.Headline != design.MockBrief().Headline {
		t.Errorf("fallback brief: got %q", res.Brief.Headline)
	}
	if res.DesignAttempts != 1 {
		t.Errorf("design attempts: got %d", res.DesignAttempts)
	}
	if res.Design.OwnerID != design.AnonymousOwner {
		t.Errorf("owner: got %q, want anonymous", res.Design.OwnerID)
	}
}

func TestPipelineDesignFailureIsTerminal(t *testing.T) {
	p := &scriptedProvider{steps: []step{{raw: briefJSON}, {err: errors.New("upstream down")}}}
	pl := newTestPipeline(p)

	d, err := pl.Generate(context.Background(), Request{Prompt: "ad"})
	if d != nil {
		t.Error("no design expected")
	}
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if p.callCount() != 4 {
		t.Errorf("calls: got %d, want 1 brief + 3 design", p.callCount())
	}
}

func TestPipelineEmptyPrompt(t *testing.T) {
	p := &scriptedProvider{}
	pl := newTestPipeline(p)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		if _, err := pl.Generate(context.Background(), Request{Prompt: prompt}); !errors.Is(err, ErrEmptyPrompt) {
			t.Errorf("prompt %q: expected ErrEmptyPrompt, got %v", prompt, err)
		}
	}
	if p.callCount() != 0 {
		t.Errorf("no provider calls expected, got %d", p.callCount())
	}
}

func TestPipelineConcurrent(t *testing.T) {
	p := &scriptedProvider{steps: []step{{raw: designJSON(t)}}}
	pl := newTestPipeline(p)

	const n = 20
	var wg sync.WaitGroup
	ids := make([]string, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			d, err := pl.Generate(context.Background(), Request{Prompt: "ad"})
			if err != nil {
				t.Errorf("Generate: %v", err)
				return
			}
			ids[i] = d.ID
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate design id %q", id)
		}
		seen[id] = true
	}
}
