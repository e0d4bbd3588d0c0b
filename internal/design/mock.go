// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import (
	"time"

	"github.com/google/uuid"
)

// mockNamespace seeds the deterministic ids of placeholder designs.
var mockNamespace = uuid.MustParse("6f1b7c2e-3d4a-5b8c-9e0f-1a2b3c4d5e6f")

// Placeholder layer ids.
const (
	MockBackgroundID  = "layer_background"
	MockHeadlineID    = "layer_headline"
	MockSubheadlineID = "layer_subheadline"
)

// MockBrief returns the fixed brief used when brief generation gives up.
func MockBrief() *Brief {
	return &Brief{
		Headline:    "Sample Headline",
		Subheadline: "Sample Subheadline",
		VisualFocus: []string{"product"},
		LayoutStyle: "modern",
		ColorScheme: ColorScheme{
			Primary:   "#3b82f6",
			Secondary: "#1e293b",
			Accent:    "#64748b",
		},
		Format: FormatInstagramPost,
	}
}

// MockDesign builds a minimal placeholder design from a brief: a white
// canvas sized for the brief's format, a rounded rectangle in the primary
// color, and centered headline and subheadline text in the secondary and
// accent colors. The output depends only on brief and now.
func MockDesign(brief *Brief, now time.Time) *Design {
	if brief == nil {
		brief = MockBrief()
	}
	fallback := MockBrief()

	format := brief.Format
	if !format.Valid() {
		format = DefaultFormat
	}
	canvas := CanvasFor(format)
	w, h := float64(canvas.Width), float64(canvas.Height)

	primary := orDefault(brief.ColorScheme.Primary, fallback.ColorScheme.Primary)
	secondary := orDefault(brief.ColorScheme.Secondary, fallback.ColorScheme.Secondary)
	accent := orDefault(brief.ColorScheme.Accent, fallback.ColorScheme.Accent)
	headline := orDefault(brief.Headline, fallback.Headline)
	subheadline := orDefault(brief.Subheadline, fallback.Subheadline)

	id := uuid.NewSHA1(mockNamespace, []byte(string(format)+"\x00"+headline+"\x00"+subheadline+"\x00"+primary+secondary+accent))

	layers := []Layer{
		{
			ID:   MockBackgroundID,
			Type: LayerShape,
			Name: "Background Shape",
			Position: Position{
				X: 100, Y: 100, Width: w - 200, Height: 200,
				ZIndex: 0, OriginX: "left", OriginY: "top",
			},
			Effects: Effects{Opacity: 1, BlendMode: BlendNormal},
			Visible: true,
			Shape: &ShapeProperties{
				ShapeType:    ShapeRectangle,
				Fill:         primary,
				BorderRadius: 10,
				CornerStyle:  "round",
			},
		},
		mockText(MockHeadlineID, "Headline", headline, w/2, h/2-50, 100, 48, 700, secondary, 1),
		mockText(MockSubheadlineID, "Subheadline", subheadline, w/2, h/2+50, 50, 24, 400, accent, 2),
	}

	return &Design{
		ID:            id.String(),
		SchemaVersion: SchemaVersion,
		OwnerID:       AnonymousOwner,
		Title:         headline,
		Format:        format,
		Canvas:        canvas,
		Background:    Background{Type: BackgroundColor, Color: "#ffffff"},
		Layers:        layers,
		Metadata: Metadata{
			CreatedAt:       now,
			UpdatedAt:       now,
			Source:          SourceTemplate,
			DesignStyle:     orDefault(brief.LayoutStyle, fallback.LayoutStyle),
			VisualHierarchy: []string{MockHeadlineID, MockSubheadlineID},
		},
		Constraints: DefaultConstraints(),
	}
}

func mockText(id, name, content string, x, y, height, size float64, weight int, color string, z int) Layer {
	return Layer{
		ID:   id,
		Type: LayerText,
		Name: name,
		Position: Position{
			X: x, Y: y, Width: 400, Height: height,
			ZIndex: z, OriginX: "center", OriginY: "center",
		},
		Effects: Effects{Opacity: 1, BlendMode: BlendNormal},
		Visible: true,
		Text: &TextProperties{
			Content:        content,
			FontFamily:     "Arial",
			FontSize:       size,
			FontWeight:     weight,
			LineHeight:     1.2,
			TextAlign:      "center",
			Color:          color,
			TextTransform:  "none",
			TextDecoration: "none",
		},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
