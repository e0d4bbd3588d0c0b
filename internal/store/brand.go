// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"radic/internal/models"
)

// BrandStore handles all brand-kit database operations.
type BrandStore struct {
	db *sql.DB
}

// NewBrandStore creates a new BrandStore with the given database connection.
func NewBrandStore(db *sql.DB) *BrandStore {
	return &BrandStore{db: db}
}

const brandColumns = `id, owner_id, name, colors, fonts, logo_asset_id, created_at, updated_at`

func scanBrand(scanner interface{ Scan(...any) error }) (*models.Brand, error) {
	var (
		b             models.Brand
		colors, fonts []byte
	)
	err := scanner.Scan(&b.ID, &b.OwnerID, &b.Name, &colors, &fonts, &b.LogoAssetID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(colors, &b.Colors); err != nil {
		return nil, fmt.Errorf("decode brand colors: %w", err)
	}
	if err := json.Unmarshal(fonts, &b.Fonts); err != nil {
		return nil, fmt.Errorf("decode brand fonts: %w", err)
	}
	return &b, nil
}

// encodeBrand returns the JSONB column values for b.
func encodeBrand(b *models.Brand) (string, string, error) {
	colors, err := json.Marshal(b.Colors)
	if err != nil {
		return "", "", fmt.Errorf("encode brand colors: %w", err)
	}
	fonts, err := json.Marshal(b.Fonts)
	if err != nil {
		return "", "", fmt.Errorf("encode brand fonts: %w", err)
	}
	return string(colors), string(fonts), nil
}

// Create inserts a new brand and returns it with the generated ID.
func (s *BrandStore) Create(b *models.Brand) (*models.Brand, error) {
	colors, fonts, err := encodeBrand(b)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(`
		INSERT INTO brands (owner_id, name, colors, fonts, logo_asset_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+brandColumns,
		b.OwnerID, b.Name, colors, fonts, b.LogoAssetID,
	)
	created, err := scanBrand(row)
	if err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}
	return created, nil
}

// FindByID retrieves a brand by ID for its owner. Returns nil, nil when
// not found.
func (s *BrandStore) FindByID(id uuid.UUID, ownerID string) (*models.Brand, error) {
	row := s.db.QueryRow(`SELECT `+brandColumns+` FROM brands WHERE id = $1 AND owner_id = $2`, id, ownerID)
	b, err := scanBrand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand by id: %w", err)
	}
	return b, nil
}

// List returns the owner's brands, newest first.
func (s *BrandStore) List(ownerID string) ([]models.Brand, error) {
	rows, err := s.db.Query(`
		SELECT `+brandColumns+`
		FROM brands
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var items []models.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// Update saves the editable fields. Returns nil, nil when not found.
func (s *BrandStore) Update(b *models.Brand) (*models.Brand, error) {
	colors, fonts, err := encodeBrand(b)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(`
		UPDATE brands
		SET name = $3, colors = $4, fonts = $5, logo_asset_id = $6, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+brandColumns,
		b.ID, b.OwnerID, b.Name, colors, fonts, b.LogoAssetID,
	)
	updated, err := scanBrand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update brand: %w", err)
	}
	return updated, nil
}

// Delete removes a brand. Designs referencing it keep their embedded kit.
func (s *BrandStore) Delete(id uuid.UUID, ownerID string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM brands WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete brand: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete brand: %w", err)
	}
	return n > 0, nil
}
