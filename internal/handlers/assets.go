// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"radic/internal/middleware"
	"radic/internal/models"
)

// --- Generated image assets ---

// ListAssets returns the caller's generated images with their public URLs.
func (a *API) ListAssets(w http.ResponseWriter, r *http.Request) {
	if !a.assetsEnabled(w, r) {
		return
	}
	limit, offset, err := pagination(r)
	if err != nil {
		validationError(w, r, err.Error())
		return
	}

	assets, err := a.assets.List(currentUser(r).ID, limit, offset)
	if err != nil {
		databaseError(w, r, "list assets", err)
		return
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	for i := range assets {
		assets[i].URL = a.objects.URL(assets[i].ObjectKey)
	}
	writeJSON(w, http.StatusOK, assets)
}

// GetAsset returns one asset.
func (a *API) GetAsset(w http.ResponseWriter, r *http.Request) {
	if !a.assetsEnabled(w, r) {
		return
	}
	id, ok := pathID(w, r, "asset")
	if !ok {
		return
	}
	asset, err := a.assets.FindByID(id, currentUser(r).ID)
	if err != nil {
		databaseError(w, r, "find asset", err)
		return
	}
	if asset == nil {
		notFound(w, r, "asset")
		return
	}
	asset.URL = a.objects.URL(asset.ObjectKey)
	writeJSON(w, http.StatusOK, asset)
}

// DeleteAsset removes the record, then the object. A failed object delete
// is logged and leaves an orphan in the bucket.
func (a *API) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if !a.assetsEnabled(w, r) {
		return
	}
	id, ok := pathID(w, r, "asset")
	if !ok {
		return
	}
	owner := currentUser(r).ID

	asset, err := a.assets.Delete(id, owner)
	if err != nil {
		databaseError(w, r, "delete asset", err)
		return
	}
	if asset == nil {
		notFound(w, r, "asset")
		return
	}
	if err := a.objects.Delete(r.Context(), asset.ObjectKey); err != nil {
		slog.Warn("asset object delete failed", "error", err, "key", asset.ObjectKey)
	}

	slog.Info("asset deleted", "id", id, "owner", owner)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) assetsEnabled(w http.ResponseWriter, r *http.Request) bool {
	if a.assets == nil || a.objects == nil {
		middleware.WriteError(w, r, http.StatusServiceUnavailable, middleware.CodeInternal, "object storage is not configured")
		return false
	}
	return true
}
