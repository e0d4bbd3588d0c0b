// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ConstraintError reports a design that is structurally valid but cannot be
// repaired without changing its content, such as too many or too few layers.
type ConstraintError struct {
	Rule  string
	Got   int
	Limit int
}

func (e *ConstraintError) Error() string {
	switch e.Rule {
	case RuleMaxLayers:
		return fmt.Sprintf("constraint violation: %d layers exceeds max_layers %d", e.Got, e.Limit)
	case RuleMinLayers:
		return fmt.Sprintf("constraint violation: %d layers is below the minimum of %d", e.Got, e.Limit)
	default:
		return fmt.Sprintf("constraint violation: %s (got %d, limit %d)", e.Rule, e.Got, e.Limit)
	}
}

// Constraint rules that reject a design outright.
const (
	RuleMaxLayers = "max_layers"
	RuleMinLayers = "min_layers"
)

// Fix records one change made by Repair.
type Fix struct {
	LayerID string
	Field   string
	From    float64
	To      float64
}

func (f Fix) String() string {
	return fmt.Sprintf("%s.%s: %g -> %g", f.LayerID, f.Field, f.From, f.To)
}

// effective fills unset constraint fields with the defaults and bounds
// declared values by them. A document may tighten the platform limits but
// never loosen them: max_layers is capped at the default and min_font_size,
// safe_zone_margin and text_contrast_ratio are raised to at least theirs.
func (c Constraints) effective() Constraints {
	def := DefaultConstraints()
	if c.MaxLayers <= 0 || c.MaxLayers > def.MaxLayers {
		c.MaxLayers = def.MaxLayers
	}
	if math.IsNaN(c.MinFontSize) || c.MinFontSize < def.MinFontSize {
		c.MinFontSize = def.MinFontSize
	}
	if math.IsNaN(c.SafeZoneMargin) || c.SafeZoneMargin < def.SafeZoneMargin {
		c.SafeZoneMargin = def.SafeZoneMargin
	}
	if math.IsNaN(c.TextContrastRatio) || c.TextContrastRatio < def.TextContrastRatio {
		c.TextContrastRatio = def.TextContrastRatio
	}
	return c
}

// Repair enforces the document's effective constraints on a copy of d. A
// layer count outside [MinLayers, max_layers] is rejected with a
// *ConstraintError and nothing is dropped or padded. Otherwise every layer's
// x is clamped into [0, canvas width], y into [0, canvas height], and text
// smaller than min_font_size is raised to it. The copy carries the effective
// constraints. d is never modified.
func Repair(d *Design) (*Design, []Fix, error) {
	c := d.Constraints.effective()

	n := len(d.Layers)
	if n > c.MaxLayers {
		return nil, nil, &ConstraintError{Rule: RuleMaxLayers, Got: n, Limit: c.MaxLayers}
	}
	if n < MinLayers {
		return nil, nil, &ConstraintError{Rule: RuleMinLayers, Got: n, Limit: MinLayers}
	}

	out := d.Clone()
	out.Constraints = c
	var fixes []Fix
	w, h := float64(out.Canvas.Width), float64(out.Canvas.Height)

	for i := range out.Layers {
		l := &out.Layers[i]

		if x := clamp(l.Position.X, 0, w); x != l.Position.X {
			fixes = append(fixes, Fix{LayerID: l.ID, Field: "x", From: l.Position.X, To: x})
			l.Position.X = x
		}
		if y := clamp(l.Position.Y, 0, h); y != l.Position.Y {
			fixes = append(fixes, Fix{LayerID: l.ID, Field: "y", From: l.Position.Y, To: y})
			l.Position.Y = y
		}

		if l.Type == LayerText && l.Text != nil && l.Text.FontSize < c.MinFontSize {
			fixes = append(fixes, Fix{LayerID: l.ID, Field: "font_size", From: l.Text.FontSize, To: c.MinFontSize})
			l.Text.FontSize = c.MinFontSize
		}
	}
	return out, fixes, nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// Advisory is a non-fatal quality finding reported by Audit.
type Advisory struct {
	LayerID string
	Kind    string
	Message string
}

// Advisory kinds.
const (
	AdvisoryContrast = "low_contrast"
	AdvisorySafeZone = "safe_zone"
)

// Audit reports text whose contrast against a solid background is below the
// document's text_contrast_ratio and content that reaches into the safe-zone
// margin. It never modifies d.
func Audit(d *Design) []Advisory {
	c := d.Constraints.effective()
	var out []Advisory

	w, h := float64(d.Canvas.Width), float64(d.Canvas.Height)
	mx, my := w*c.SafeZoneMargin, h*c.SafeZoneMargin

	for _, l := range d.Layers {
		if l.Type == LayerText && l.Text != nil && d.Background.Type == BackgroundColor {
			if ratio, ok := ContrastRatio(l.Text.Color, d.Background.Color); ok && ratio < c.TextContrastRatio {
				out = append(out, Advisory{
					LayerID: l.ID,
					Kind:    AdvisoryContrast,
					Message: fmt.Sprintf("contrast %.2f:1 against background is below %.1f:1", ratio, c.TextContrastRatio),
				})
			}
		}

		if !inSafeZoneScope(l) {
			continue
		}
		left, top := boxOrigin(l.Position)
		right, bottom := left+l.Position.Width, top+l.Position.Height
		if left < mx || top < my || right > w-mx || bottom > h-my {
			out = append(out, Advisory{
				LayerID: l.ID,
				Kind:    AdvisorySafeZone,
				Message: fmt.Sprintf("bounds (%.0f,%.0f)-(%.0f,%.0f) reach into the %.0f%% safe zone", left, top, right, bottom, c.SafeZoneMargin*100),
			})
		}
	}
	return out
}

// inSafeZoneScope reports whether a layer carries content that must stay
// clear of the canvas edges. Backgrounds and decorations may bleed.
func inSafeZoneScope(l Layer) bool {
	switch l.Type {
	case LayerText:
		return true
	case LayerImage:
		return l.Image != nil && l.Image.Role != RoleBackground && l.Image.Role != RoleDecoration
	}
	return false
}

// boxOrigin converts a position anchored at its transform origin into the
// top-left corner of its bounding box.
func boxOrigin(p Position) (float64, float64) {
	left, top := p.X, p.Y
	switch p.OriginX {
	case "center":
		left -= p.Width / 2
	case "right":
		left -= p.Width
	}
	switch p.OriginY {
	case "center":
		top -= p.Height / 2
	case "bottom":
		top -= p.Height
	}
	return left, top
}

// ContrastRatio returns the WCAG contrast ratio between two hex colors. The
// boolean is false when either color is not a parsable hex value.
func ContrastRatio(fg, bg string) (float64, bool) {
	l1, ok := luminance(fg)
	if !ok {
		return 0, false
	}
	l2, ok := luminance(bg)
	if !ok {
		return 0, false
	}
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05), true
}

func luminance(hex string) (float64, bool) {
	if !IsHexColor(hex) {
		return 0, false
	}
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	s = s[:6]

	var ch [3]float64
	for i := range ch {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, false
		}
		c := float64(v) / 255
		if c <= 0.03928 {
			ch[i] = c / 12.92
		} else {
			ch[i] = math.Pow((c+0.055)/1.055, 2.4)
		}
	}
	return 0.2126*ch[0] + 0.7152*ch[1] + 0.0722*ch[2], true
}
