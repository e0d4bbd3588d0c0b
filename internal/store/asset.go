// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"radic/internal/models"
)

// AssetStore handles generated-asset metadata.
type AssetStore struct {
	db *sql.DB
}

// NewAssetStore creates a new AssetStore with the given database connection.
func NewAssetStore(db *sql.DB) *AssetStore {
	return &AssetStore{db: db}
}

const assetColumns = `id, owner_id, bucket, object_key, content_type, size_bytes, prompt, created_at`

func scanAsset(scanner interface{ Scan(...any) error }) (*models.Asset, error) {
	var a models.Asset
	err := scanner.Scan(&a.ID, &a.OwnerID, &a.Bucket, &a.ObjectKey, &a.ContentType, &a.SizeBytes, &a.Prompt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an asset record. A zero ID is replaced with a new one.
func (s *AssetStore) Create(a *models.Asset) (*models.Asset, error) {
	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	row := s.db.QueryRow(`
		INSERT INTO assets (id, owner_id, bucket, object_key, content_type, size_bytes, prompt)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+assetColumns,
		id, a.OwnerID, a.Bucket, a.ObjectKey, a.ContentType, a.SizeBytes, a.Prompt,
	)
	created, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return created, nil
}

// FindByID retrieves an asset for its owner. Returns nil, nil when not found.
func (s *AssetStore) FindByID(id uuid.UUID, ownerID string) (*models.Asset, error) {
	row := s.db.QueryRow(`SELECT `+assetColumns+` FROM assets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find asset by id: %w", err)
	}
	return a, nil
}

// List returns the owner's assets, newest first.
func (s *AssetStore) List(ownerID string, limit, offset int) ([]models.Asset, error) {
	rows, err := s.db.Query(`
		SELECT `+assetColumns+`
		FROM assets
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var items []models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Delete removes an asset record and returns it so the caller can clean
// up the stored object.
func (s *AssetStore) Delete(id uuid.UUID, ownerID string) (*models.Asset, error) {
	row := s.db.QueryRow(`
		DELETE FROM assets WHERE id = $1 AND owner_id = $2
		RETURNING `+assetColumns, id, ownerID)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete asset: %w", err)
	}
	return a, nil
}
