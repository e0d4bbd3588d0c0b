// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt composes the instructions sent to the text-generation
// provider for both stages of design generation. Every function is pure:
// the same input always yields the same text.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"radic/internal/design"
)

// Request carries everything the design instruction can reference. Only
// UserPrompt is required; empty or whitespace-only optional fields are
// treated as absent.
type Request struct {
	UserPrompt      string
	Brand           *design.BrandKit
	ReferenceImages []string
	Preferences     map[string]string
	Brief           *design.Brief
}

const role = `You are an expert ad creative designer with 15+ years of experience creating high-performing social media advertisements. You specialize in:

- Visual hierarchy and composition
- Color theory and brand consistency
- Typography and readability
- Conversion-focused design
- Platform-specific best practices (Instagram, Facebook, LinkedIn, Twitter)

You think systematically about every design decision: the psychology of visual attention, clear messaging, the balance between aesthetics and function, and how the viewer's eye travels through the design.`

const principles = `## CORE DESIGN PRINCIPLES

### 1. Visual Hierarchy
- Establish one clear focal point that draws attention first
- Use size, color and position to create hierarchy
- Guide the eye in a Z-pattern or F-pattern
- Secondary elements support the primary message and never compete with it

### 2. Composition & Layout
- Follow the rule of thirds for balanced composition
- Use white space; do not overcrowd
- Align elements to a grid
- Balance visual weight across the canvas

### 3. Typography
- Maximum 2-3 font families per design
- Use weight and size to create hierarchy
- Keep headlines concise (max 6-8 words)
- Line height 1.2-1.5

### 4. Color
- Use brand colors as the foundation
- Apply the 60-30-10 rule: 60% dominant, 30% secondary, 10% accent
- Limit the palette to 3-5 colors

### 5. Platform
- Instagram: bold, vibrant, lifestyle-focused
- Facebook: community-oriented, relatable
- LinkedIn: professional, data-driven, authoritative
- Twitter: concise, attention-grabbing, timely

### 6. Conversion
- Clear call-to-action where applicable
- Benefit-focused messaging
- Urgency or scarcity indicators for sales
- Product or service clearly visible`

const task = `## YOUR TASK

Create a professional ad creative design in three steps.

### STEP 1: ANALYZE & PLAN
1. What is the primary message or goal?
2. Who is the target audience?
3. Which format fits best?
4. What is the focal point?
5. Which visual style matches the brand and message?
6. Which elements are needed (text, images, shapes)?

### STEP 2: DESIGN DECISIONS
Decide the canvas format, the background (color, gradient or image), the text hierarchy (headline, subheadline, body, CTA), the image elements (product, person, background), decorative shapes, color application and layout composition.

### STEP 3: GENERATE CANONICAL JSON
Produce a complete Canonical Design document with the canvas size for the format, the background, and every layer with accurate positions, complete typography for text, detailed generation prompts for images, shapes for decoration, z-index ordered from background to foreground, and effects where appropriate.

### CRITICAL REQUIREMENTS
1. All coordinates are within canvas bounds (0 to width/height)
2. Image layers that need generation carry detailed prompts
3. Text is readable (sufficient size and contrast)
4. The brand kit is followed (colors, fonts, logo placement)
5. The visual hierarchy has a clear focal point
6. Safe zones are respected
7. Generated images specify a transparent background

Output ONLY the Canonical Design JSON. No explanations, no markdown, just valid JSON.`

// constraints renders the technical limits from the default document
// constraints and the supported formats.
func constraints() string {
	c := design.DefaultConstraints()
	var sb strings.Builder

	sb.WriteString("## TECHNICAL CONSTRAINTS\n\n### Canvas & Dimensions\n")
	for _, f := range design.Formats() {
		cv := design.CanvasFor(f)
		fmt.Fprintf(&sb, "- %s (%s): %dx%dpx (%s)\n", f.Label(), f, cv.Width, cv.Height, f.AspectRatio())
	}

	fmt.Fprintf(&sb, "\n### Layer Limits\n- Maximum %d layers per design\n- Minimum %d layers (background + 2 content layers)\n- Recommended: 5-10 layers\n", c.MaxLayers, design.MinLayers)

	fmt.Fprintf(&sb, "\n### Safe Zones\n- Keep critical elements at least %.0f%% away from every edge\n- Account for platform UI overlays (profile pictures, buttons)\n- Text never touches the canvas edges\n", c.SafeZoneMargin*100)

	sb.WriteString("\n### Image Generation\n- Generated images have transparent backgrounds\n- Product images: square or portrait\n- People: portrait, centered\n- Background elements: match the canvas aspect ratio\n- Icons and decorations: square, small\n")

	fmt.Fprintf(&sb, "\n### Text Readability\n- Minimum font size: %.0fpx (24px for headlines)\n- Maximum line length: 60 characters\n- Contrast ratio of at least %.1f:1 for normal text and 3:1 for large text\n- Avoid text on busy backgrounds without a contrast treatment", c.MinFontSize, c.TextContrastRatio)

	return sb.String()
}

// BuildDesign composes the stage-two instruction that asks the model for a
// canonical design document.
func BuildDesign(req Request) string {
	sections := []string{role, principles, constraints()}

	if s := brandSection(req.Brand); s != "" {
		sections = append(sections, s)
	}
	if s := referenceSection(req.ReferenceImages); s != "" {
		sections = append(sections, s)
	}
	if s := preferenceSection(req.Preferences); s != "" {
		sections = append(sections, s)
	}
	if s := briefSection(req.Brief); s != "" {
		sections = append(sections, s)
	}

	sections = append(sections, "## USER REQUEST\n\n"+strings.TrimSpace(req.UserPrompt), task)
	return strings.Join(sections, "\n\n")
}

// BuildBrief composes the stage-one instruction that turns a free-text
// request into a design brief.
func BuildBrief(userPrompt string) string {
	var sb strings.Builder
	sb.WriteString("You are a professional graphic designer. Analyze the following design request and create a structured design brief.\n\n")
	sb.WriteString("Design Request: ")
	sb.WriteString(strings.TrimSpace(userPrompt))
	sb.WriteString("\n\nCreate a design brief with:\n")
	sb.WriteString("- A compelling headline (max 6 words)\n")
	sb.WriteString("- An optional subheadline for supporting text\n")
	sb.WriteString("- Key visual elements to focus on\n")
	sb.WriteString("- A layout style (modern, minimal, bold, elegant, playful)\n")
	sb.WriteString("- A color scheme with primary, secondary and accent colors as hex codes\n")

	formats := design.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	fmt.Fprintf(&sb, "- The most appropriate format, one of: %s\n\n", strings.Join(names, ", "))
	sb.WriteString("Respond with a single JSON object only.")
	return sb.String()
}

func brandSection(b *design.BrandKit) string {
	if b == nil {
		return ""
	}

	name := orDefault(b.Name, "N/A")
	logo := "Not provided"
	if strings.TrimSpace(b.LogoAssetID) != "" {
		logo = "Available"
	}

	return fmt.Sprintf(`## BRAND KIT

**Brand Name:** %s

**Colors:**
- Primary: %s
- Secondary: %s
- Accent: %s

**Fonts:**
- Primary: %s
- Secondary: %s

**Logo:** %s

**IMPORTANT:** Use these brand colors and fonts throughout the design. Include the logo when provided, typically in a corner or header position.`,
		name,
		orDefault(b.Colors.Primary, "#000000"),
		orDefault(b.Colors.Secondary, "#FFFFFF"),
		orDefault(b.Colors.Accent, "#FF0000"),
		orDefault(b.Fonts.Primary, "Arial"),
		orDefault(b.Fonts.Secondary, "Helvetica"),
		logo,
	)
}

func referenceSection(refs []string) string {
	var items []string
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			items = append(items, "- "+r)
		}
	}
	if len(items) == 0 {
		return ""
	}
	return fmt.Sprintf("## REFERENCE IMAGES\n\nThe user has provided %d reference image(s):\n%s\n\nConsider these references for style, composition, or content inspiration.",
		len(items), strings.Join(items, "\n"))
}

func preferenceSection(prefs map[string]string) string {
	keys := make([]string, 0, len(prefs))
	for k, v := range prefs {
		if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("- %s: %s", strings.TrimSpace(k), strings.TrimSpace(prefs[k]))
	}
	return "## USER PREFERENCES\n\n" + strings.Join(lines, "\n")
}

func briefSection(b *design.Brief) string {
	if b == nil {
		return ""
	}
	focus := "none specified"
	if len(b.VisualFocus) > 0 {
		focus = strings.Join(b.VisualFocus, ", ")
	}
	format := b.Format
	if format == "" {
		format = design.DefaultFormat
	}
	cv := design.CanvasFor(format)

	return fmt.Sprintf(`## DESIGN BRIEF

- Headline: %s
- Subheadline: %s
- Visual focus: %s
- Layout style: %s
- Colors: primary %s, secondary %s, accent %s
- Format: %s (%dx%dpx)

Build the design from this brief. Use the headline text verbatim.`,
		b.Headline,
		orDefault(b.Subheadline, "N/A"),
		focus,
		orDefault(b.LayoutStyle, "modern"),
		b.ColorScheme.Primary, b.ColorScheme.Secondary, b.ColorScheme.Accent,
		format, cv.Width, cv.Height,
	)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
