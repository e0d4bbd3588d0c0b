// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

// Brief is the structured summary of design intent derived from a free-text
// prompt. It is produced once per request and consumed by design generation.
type Brief struct {
	Headline    string      `json:"headline"`
	Subheadline string      `json:"subheadline,omitempty"`
	VisualFocus []string    `json:"visual_focus"`
	LayoutStyle string      `json:"layout_style"`
	ColorScheme ColorScheme `json:"color_scheme"`
	Format      Format      `json:"format"`
}

// ColorScheme is the brief's palette as hex colors.
type ColorScheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}
