// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package design

import "time"

// Blank returns an empty manual design on a white canvas sized for f.
// Unknown formats use DefaultFormat. The caller assigns the id and owner.
func Blank(f Format, title string, now time.Time) *Design {
	if !f.Valid() {
		f = DefaultFormat
	}
	now = now.UTC()
	return &Design{
		SchemaVersion: SchemaVersion,
		Title:         title,
		Format:        f,
		Canvas:        CanvasFor(f),
		Background:    Background{Type: BackgroundColor, Color: "#FFFFFF"},
		Layers:        []Layer{},
		Metadata: Metadata{
			CreatedAt: now,
			UpdatedAt: now,
			Source:    SourceManual,
		},
		Constraints: DefaultConstraints(),
	}
}
