// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"radic/internal/design"
	"radic/internal/models"
)

// --- Brand kits CRUD ---

type brandRequest struct {
	Name        string             `json:"name"`
	Colors      design.BrandColors `json:"colors"`
	Fonts       design.BrandFonts  `json:"fonts"`
	LogoAssetID *string            `json:"logo_asset_id,omitempty"`
}

func (req brandRequest) apply(b *models.Brand) {
	b.Name = req.Name
	b.Colors = req.Colors
	b.Fonts = req.Fonts
	b.LogoAssetID = req.LogoAssetID
}

// ListBrands returns the caller's brand kits.
func (a *API) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := a.brands.List(currentUser(r).ID)
	if err != nil {
		databaseError(w, r, "list brands", err)
		return
	}
	if brands == nil {
		brands = []models.Brand{}
	}
	writeJSON(w, http.StatusOK, brands)
}

// CreateBrand stores a new brand kit.
func (a *API) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b := &models.Brand{OwnerID: currentUser(r).ID}
	req.apply(b)
	if err := b.Validate(); err != nil {
		validationError(w, r, err.Error())
		return
	}

	created, err := a.brands.Create(b)
	if err != nil {
		databaseError(w, r, "create brand", err)
		return
	}

	slog.Info("brand created", "id", created.ID, "owner", created.OwnerID)
	writeJSON(w, http.StatusCreated, created)
}

// GetBrand returns one brand kit.
func (a *API) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "brand")
	if !ok {
		return
	}
	b, err := a.brands.FindByID(id, currentUser(r).ID)
	if err != nil {
		databaseError(w, r, "find brand", err)
		return
	}
	if b == nil {
		notFound(w, r, "brand")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// UpdateBrand replaces a brand kit's editable fields.
func (a *API) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "brand")
	if !ok {
		return
	}
	var req brandRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	owner := currentUser(r).ID
	b := &models.Brand{ID: id, OwnerID: owner}
	req.apply(b)
	if err := b.Validate(); err != nil {
		validationError(w, r, err.Error())
		return
	}

	updated, err := a.brands.Update(b)
	if err != nil {
		databaseError(w, r, "update brand", err)
		return
	}
	if updated == nil {
		notFound(w, r, "brand")
		return
	}
	a.brandKits.Invalidate(id, owner)

	slog.Info("brand updated", "id", id, "owner", owner)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteBrand removes a brand kit. Designs that used it keep their embedded
// copy and lose only the reference.
func (a *API) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "brand")
	if !ok {
		return
	}
	owner := currentUser(r).ID

	deleted, err := a.brands.Delete(id, owner)
	if err != nil {
		databaseError(w, r, "delete brand", err)
		return
	}
	if !deleted {
		notFound(w, r, "brand")
		return
	}
	a.brandKits.Invalidate(id, owner)
	// Cached designs still carry the old brand_id.
	if a.designCache != nil {
		a.designCache.InvalidateAll(r.Context())
	}

	slog.Info("brand deleted", "id", id, "owner", owner)
	w.WriteHeader(http.StatusNoContent)
}
