// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// DevOwnerID owns the development seed data. Point a local identity
// provider user at this id to see it.
const DevOwnerID = "dev-user"

// Seed populates the database with a sample brand kit for development.
// It does nothing when the development owner already has brands.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM brands WHERE owner_id = $1", DevOwnerID).Scan(&count); err != nil {
		return fmt.Errorf("seed check brands: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO brands (owner_id, name, colors, fonts)
		VALUES ($1, $2, $3, $4)
	`, DevOwnerID, "Sample Brand",
		`{"primary":"#3b82f6","secondary":"#1e293b","accent":"#64748b"}`,
		`{"primary":"Inter","secondary":"Arial"}`,
	)
	if err != nil {
		return fmt.Errorf("seed insert brand: %w", err)
	}

	slog.Info("database seeded with sample brand kit", "owner", DevOwnerID)
	return nil
}
