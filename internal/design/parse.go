// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformed is wrapped by every error that reports provider output which
// is not valid JSON or does not match the expected document shape.
var ErrMalformed = errors.New("malformed output")

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// IsHexColor reports whether s is a #RGB, #RRGGBB or #RRGGBBAA color.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// ExtractJSON strips markdown code fences and any prose around the outermost
// JSON object in a model response.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// ParseBrief decodes a brief from raw provider text. A missing format
// defaults to DefaultFormat and a missing layout style to "modern".
func ParseBrief(raw string) (*Brief, error) {
	body := ExtractJSON(raw)
	if body == "" {
		return nil, malformed("empty response")
	}

	var b Brief
	if err := json.Unmarshal([]byte(body), &b); err != nil {
		return nil, malformed("decoding brief: %v", err)
	}

	b.Headline = strings.TrimSpace(b.Headline)
	if b.Headline == "" {
		return nil, malformed("brief headline is required")
	}
	b.Subheadline = strings.TrimSpace(b.Subheadline)

	for name, c := range map[string]string{
		"primary":   b.ColorScheme.Primary,
		"secondary": b.ColorScheme.Secondary,
		"accent":    b.ColorScheme.Accent,
	} {
		if !IsHexColor(c) {
			return nil, malformed("brief %s color %q is not a hex color", name, c)
		}
	}

	if b.Format == "" {
		b.Format = DefaultFormat
	}
	if !b.Format.Valid() {
		return nil, malformed("unsupported format %q", b.Format)
	}
	if strings.TrimSpace(b.LayoutStyle) == "" {
		b.LayoutStyle = "modern"
	}
	if b.VisualFocus == nil {
		b.VisualFocus = []string{}
	}
	return &b, nil
}

// ParseDesign decodes a canonical design from raw provider text and checks
// its structure. Layer-count bounds, coordinates and font sizes are left to
// Repair.
func ParseDesign(raw string) (*Design, error) {
	body := ExtractJSON(raw)
	if body == "" {
		return nil, malformed("empty response")
	}

	var d Design
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return nil, malformed("decoding design: %v", err)
	}
	if err := Validate(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

var (
	validBlend = map[BlendMode]bool{
		BlendNormal: true, BlendMultiply: true, BlendScreen: true,
		BlendOverlay: true, BlendDarken: true, BlendLighten: true,
	}
	validRole = map[ImageRole]bool{
		RoleProduct: true, RolePerson: true, RoleBackground: true, RoleLogo: true,
		RoleIcon: true, RoleDecoration: true, RoleComplexText: true,
	}
	validShape = map[ShapeType]bool{
		ShapeRectangle: true, ShapeCircle: true, ShapeEllipse: true,
		ShapeLine: true, ShapePolygon: true,
	}
	validFit     = map[string]bool{"fill": true, "contain": true, "cover": true, "scale-down": true}
	validOriginX = map[string]bool{"left": true, "center": true, "right": true}
	validOriginY = map[string]bool{"top": true, "center": true, "bottom": true}
)

// Validate checks the structural rules of a canonical design: supported
// version and format, a positive canvas, a consistent background, unique
// layer ids and one payload per layer matching its type. It normalizes an
// empty canvas unit to "px". Violations wrap ErrMalformed.
func Validate(d *Design) error {
	if !supportedVersions[d.SchemaVersion] {
		return malformed("unsupported schema version %q", d.SchemaVersion)
	}
	if !d.Format.Valid() {
		return malformed("unsupported format %q", d.Format)
	}
	if d.Canvas.Width <= 0 || d.Canvas.Height <= 0 {
		return malformed("canvas must have positive dimensions, got %dx%d", d.Canvas.Width, d.Canvas.Height)
	}
	if d.Canvas.Unit == "" {
		d.Canvas.Unit = "px"
	}

	ids := make(map[string]bool, len(d.Layers))
	for i := range d.Layers {
		l := &d.Layers[i]
		if l.ID == "" {
			return malformed("layer %d has no id", i)
		}
		if ids[l.ID] {
			return malformed("duplicate layer id %q", l.ID)
		}
		ids[l.ID] = true
	}

	switch d.Background.Type {
	case BackgroundColor:
		if d.Background.Color == "" {
			return malformed("color background requires a color")
		}
	case BackgroundGradient:
		if d.Background.Gradient == nil || len(d.Background.Gradient.Colors) == 0 {
			return malformed("gradient background requires gradient colors")
		}
	case BackgroundImage:
		if !ids[d.Background.ImageLayerID] {
			return malformed("image background references unknown layer %q", d.Background.ImageLayerID)
		}
	default:
		return malformed("unsupported background type %q", d.Background.Type)
	}

	for i := range d.Layers {
		if err := validateLayer(&d.Layers[i], ids); err != nil {
			return err
		}
	}
	return nil
}

func validateLayer(l *Layer, ids map[string]bool) error {
	if l.Effects.Opacity < 0 || l.Effects.Opacity > 1 {
		return malformed("layer %q opacity %v outside 0..1", l.ID, l.Effects.Opacity)
	}
	if l.Effects.BlendMode != "" && !validBlend[l.Effects.BlendMode] {
		return malformed("layer %q has unsupported blend mode %q", l.ID, l.Effects.BlendMode)
	}
	if !validOriginX[l.Position.OriginX] || !validOriginY[l.Position.OriginY] {
		return malformed("layer %q has unsupported origin %s/%s", l.ID, l.Position.OriginX, l.Position.OriginY)
	}

	payloads := 0
	for _, set := range []bool{l.Text != nil, l.Image != nil, l.Shape != nil} {
		if set {
			payloads++
		}
	}

	switch l.Type {
	case LayerText:
		if l.Text == nil || payloads != 1 {
			return malformed("text layer %q must carry only text properties", l.ID)
		}
		if strings.TrimSpace(l.Text.Content) == "" {
			return malformed("text layer %q has no content", l.ID)
		}
		if l.Text.FontFamily == "" || l.Text.Color == "" {
			return malformed("text layer %q needs a font family and a color", l.ID)
		}
	case LayerImage:
		if l.Image == nil || payloads != 1 {
			return malformed("image layer %q must carry only image properties", l.ID)
		}
		if !validRole[l.Image.Role] {
			return malformed("image layer %q has unsupported role %q", l.ID, l.Image.Role)
		}
		if n := l.Image.sources(); n != 1 {
			return malformed("image layer %q must set exactly one source, got %d", l.ID, n)
		}
		if !validFit[l.Image.Fit] {
			return malformed("image layer %q has unsupported fit %q", l.ID, l.Image.Fit)
		}
	case LayerShape:
		if l.Shape == nil || payloads != 1 {
			return malformed("shape layer %q must carry only shape properties", l.ID)
		}
		if !validShape[l.Shape.ShapeType] {
			return malformed("shape layer %q has unsupported shape type %q", l.ID, l.Shape.ShapeType)
		}
	case LayerGroup:
		if payloads != 0 {
			return malformed("group layer %q cannot carry leaf properties", l.ID)
		}
		for _, c := range l.Children {
			if c == l.ID || !ids[c] {
				return malformed("group layer %q references invalid child %q", l.ID, c)
			}
		}
	default:
		return malformed("layer %q has unsupported type %q", l.ID, l.Type)
	}
	return nil
}
