// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the PostgreSQL persistence layer for designs,
// brand kits and generated assets. Every query is scoped to an owner.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"radic/internal/design"
	"radic/internal/models"
)

// DesignStore handles all design-related database operations.
type DesignStore struct {
	db *sql.DB
}

// NewDesignStore creates a new DesignStore with the given database connection.
func NewDesignStore(db *sql.DB) *DesignStore {
	return &DesignStore{db: db}
}

// designColumns lists the columns selected in design queries.
const designColumns = `id, owner_id, title, format, brand_id, design_json, created_at, updated_at`

// scanDesign scans a design row and decodes its document.
func scanDesign(scanner interface{ Scan(...any) error }) (*models.DesignRecord, error) {
	var (
		r   models.DesignRecord
		raw []byte
	)
	err := scanner.Scan(&r.ID, &r.OwnerID, &r.Title, &r.Format, &r.BrandID, &raw, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	var d design.Design
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode design %s: %w", r.ID, err)
	}
	r.Design = &d
	return &r, nil
}

// Create inserts a new design record. The record's ID comes from the
// document; timestamps are set by the database.
func (s *DesignStore) Create(r *models.DesignRecord) (*models.DesignRecord, error) {
	r.Sync()
	raw, err := json.Marshal(r.Design)
	if err != nil {
		return nil, fmt.Errorf("encode design: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO designs (id, owner_id, title, format, brand_id, design_json)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+designColumns,
		r.ID, r.OwnerID, r.Title, r.Format, r.BrandID, string(raw),
	)
	created, err := scanDesign(row)
	if err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}
	return created, nil
}

// FindByID retrieves a design by ID for its owner. Returns nil, nil when
// there is no such design or it belongs to someone else.
func (s *DesignStore) FindByID(id uuid.UUID, ownerID string) (*models.DesignRecord, error) {
	row := s.db.QueryRow(`SELECT `+designColumns+` FROM designs WHERE id = $1 AND owner_id = $2`, id, ownerID)
	r, err := scanDesign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find design by id: %w", err)
	}
	return r, nil
}

// List returns the owner's designs, most recently updated first.
func (s *DesignStore) List(ownerID string, limit, offset int) ([]models.DesignRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+designColumns+`
		FROM designs
		WHERE owner_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	var items []models.DesignRecord
	for rows.Next() {
		r, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// Update replaces the stored document. Returns nil, nil when the design
// does not exist for this owner.
func (s *DesignStore) Update(r *models.DesignRecord) (*models.DesignRecord, error) {
	r.Sync()
	raw, err := json.Marshal(r.Design)
	if err != nil {
		return nil, fmt.Errorf("encode design: %w", err)
	}

	row := s.db.QueryRow(`
		UPDATE designs
		SET title = $3, format = $4, brand_id = $5, design_json = $6, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+designColumns,
		r.ID, r.OwnerID, r.Title, r.Format, r.BrandID, string(raw),
	)
	updated, err := scanDesign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update design: %w", err)
	}
	return updated, nil
}

// Delete removes a design. Returns false when nothing was deleted.
func (s *DesignStore) Delete(id uuid.UUID, ownerID string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM designs WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete design: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete design: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of designs the owner has.
func (s *DesignStore) Count(ownerID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM designs WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count designs: %w", err)
	}
	return count, nil
}
