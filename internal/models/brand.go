// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"radic/internal/design"
)

// Brand is a stored brand kit owned by one user.
type Brand struct {
	ID          uuid.UUID          `json:"id"`
	OwnerID     string             `json:"owner_id"`
	Name        string             `json:"name"`
	Colors      design.BrandColors `json:"colors"`
	Fonts       design.BrandFonts  `json:"fonts"`
	LogoAssetID *string            `json:"logo_asset_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ErrBrandName is returned by Validate when the name is blank.
var ErrBrandName = errors.New("brand name is required")

// Validate checks the user-editable fields. Colors are optional but must
// be hex when set.
func (b *Brand) Validate() error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return ErrBrandName
	}
	if len(b.Name) > 100 {
		return fmt.Errorf("brand name must be at most 100 characters")
	}
	for field, c := range map[string]string{
		"primary":   b.Colors.Primary,
		"secondary": b.Colors.Secondary,
		"accent":    b.Colors.Accent,
	} {
		if c != "" && !design.IsHexColor(c) {
			return fmt.Errorf("colors.%s %q is not a hex color", field, c)
		}
	}
	return nil
}

// Kit converts the stored brand into the kit embedded in designs and
// prompts.
func (b *Brand) Kit() *design.BrandKit {
	kit := &design.BrandKit{
		BrandID: b.ID.String(),
		Name:    b.Name,
		Colors:  b.Colors,
		Fonts:   b.Fonts,
	}
	if b.LogoAssetID != nil {
		kit.LogoAssetID = *b.LogoAssetID
	}
	return kit
}
