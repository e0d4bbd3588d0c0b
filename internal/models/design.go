// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"radic/internal/design"
)

// DesignRecord is a stored canonical design. Title and Format are copied
// out of the document so listings do not need to decode it.
type DesignRecord struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   string         `json:"owner_id"`
	Title     string         `json:"title"`
	Format    design.Format  `json:"format"`
	BrandID   *uuid.UUID     `json:"brand_id,omitempty"`
	Design    *design.Design `json:"design_json"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewDesignRecord wraps d for storage. d.ID must be a UUID.
func NewDesignRecord(d *design.Design, brandID *uuid.UUID) (*DesignRecord, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &DesignRecord{
		ID:      id,
		OwnerID: d.OwnerID,
		Title:   d.Title,
		Format:  d.Format,
		BrandID: brandID,
		Design:  d,
	}, nil
}

// Sync copies the document's listing fields onto the record.
func (r *DesignRecord) Sync() {
	if r.Design == nil {
		return
	}
	r.Design.ID = r.ID.String()
	r.Design.OwnerID = r.OwnerID
	r.Title = r.Design.Title
	r.Format = r.Design.Format
}
