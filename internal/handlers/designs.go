// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"radic/internal/design"
	"radic/internal/models"
)

// --- Designs CRUD ---
//
// Every query is scoped by the caller's id, so another user's design reads
// as not found.

type designList struct {
	Designs []models.DesignRecord `json:"designs"`
	Total   int                   `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

// ListDesigns returns the caller's designs, newest first.
func (a *API) ListDesigns(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r)
	if err != nil {
		validationError(w, r, err.Error())
		return
	}

	owner := currentUser(r).ID
	designs, err := a.designs.List(owner, limit, offset)
	if err != nil {
		databaseError(w, r, "list designs", err)
		return
	}
	total, err := a.designs.Count(owner)
	if err != nil {
		databaseError(w, r, "count designs", err)
		return
	}
	if designs == nil {
		designs = []models.DesignRecord{}
	}

	writeJSON(w, http.StatusOK, designList{Designs: designs, Total: total, Limit: limit, Offset: offset})
}

type createDesignRequest struct {
	Title      string         `json:"title"`
	Format     design.Format  `json:"format"`
	BrandID    *string        `json:"brand_id,omitempty"`
	DesignJSON *design.Design `json:"design_json,omitempty"`
}

// CreateDesign stores a design. Without design_json it starts from a blank
// canvas for the requested format.
func (a *API) CreateDesign(w http.ResponseWriter, r *http.Request) {
	var req createDesignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTitle(req.Title); msg != "" {
		validationError(w, r, msg)
		return
	}
	if req.Format != "" && !req.Format.Valid() {
		validationError(w, r, "unsupported format "+string(req.Format))
		return
	}

	owner := currentUser(r).ID
	brandID, ok := a.ownedBrandID(w, r, req.BrandID, owner)
	if !ok {
		return
	}

	d := req.DesignJSON
	if d == nil {
		d = design.Blank(req.Format, strings.TrimSpace(req.Title), a.now())
	} else {
		if err := design.Validate(d); err != nil {
			validationError(w, r, err.Error())
			return
		}
		if t := strings.TrimSpace(req.Title); t != "" {
			d.Title = t
		}
	}
	d.ID = uuid.NewString()
	d.OwnerID = owner

	rec, err := models.NewDesignRecord(d, brandID)
	if err != nil {
		databaseError(w, r, "prepare design", err)
		return
	}
	created, err := a.designs.Create(rec)
	if err != nil {
		databaseError(w, r, "create design", err)
		return
	}

	slog.Info("design created", "id", created.ID, "owner", owner)
	writeJSON(w, http.StatusCreated, created)
}

// GetDesign returns one design, served from the cache when possible.
func (a *API) GetDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "design")
	if !ok {
		return
	}
	owner := currentUser(r).ID

	if a.designCache != nil {
		if rec, hit := a.designCache.Get(r.Context(), id); hit {
			// Cached records are keyed by id alone.
			if rec.OwnerID != owner {
				notFound(w, r, "design")
				return
			}
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}

	rec, err := a.designs.FindByID(id, owner)
	if err != nil {
		databaseError(w, r, "find design", err)
		return
	}
	if rec == nil {
		notFound(w, r, "design")
		return
	}

	if a.designCache != nil {
		a.designCache.Set(r.Context(), rec)
	}
	writeJSON(w, http.StatusOK, rec)
}

type updateDesignRequest struct {
	Title      *string         `json:"title,omitempty"`
	BrandID    *string         `json:"brand_id,omitempty"`
	DesignJSON json.RawMessage `json:"design_json,omitempty"`
}

// UpdateDesign applies a partial update. Only the fields present in the
// body change.
func (a *API) UpdateDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "design")
	if !ok {
		return
	}
	var req updateDesignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	owner := currentUser(r).ID
	rec, err := a.designs.FindByID(id, owner)
	if err != nil {
		databaseError(w, r, "find design", err)
		return
	}
	if rec == nil {
		notFound(w, r, "design")
		return
	}

	if len(req.DesignJSON) > 0 && string(req.DesignJSON) != "null" {
		var d design.Design
		if err := json.Unmarshal(req.DesignJSON, &d); err != nil {
			validationError(w, r, "invalid design_json: "+err.Error())
			return
		}
		if err := design.Validate(&d); err != nil {
			validationError(w, r, err.Error())
			return
		}
		d.Metadata.CreatedAt = rec.Design.Metadata.CreatedAt
		rec.Design = &d
	}
	if req.Title != nil {
		if msg := validateTitle(*req.Title); msg != "" {
			validationError(w, r, msg)
			return
		}
		rec.Design.Title = strings.TrimSpace(*req.Title)
	}
	if req.BrandID != nil {
		brandID, ok := a.ownedBrandID(w, r, req.BrandID, owner)
		if !ok {
			return
		}
		rec.BrandID = brandID
	}

	rec.Design.Metadata.UpdatedAt = a.now().UTC()
	rec.Sync()

	updated, err := a.designs.Update(rec)
	if err != nil {
		databaseError(w, r, "update design", err)
		return
	}
	if updated == nil {
		notFound(w, r, "design")
		return
	}
	if a.designCache != nil {
		a.designCache.Invalidate(r.Context(), id)
	}

	slog.Info("design updated", "id", id, "owner", owner)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteDesign removes a design.
func (a *API) DeleteDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "design")
	if !ok {
		return
	}
	owner := currentUser(r).ID

	deleted, err := a.designs.Delete(id, owner)
	if err != nil {
		databaseError(w, r, "delete design", err)
		return
	}
	if !deleted {
		notFound(w, r, "design")
		return
	}
	if a.designCache != nil {
		a.designCache.Invalidate(r.Context(), id)
	}

	slog.Info("design deleted", "id", id, "owner", owner)
	w.WriteHeader(http.StatusNoContent)
}

// ownedBrandID resolves an optional brand reference, checking that the
// brand belongs to owner. An empty string clears the reference.
func (a *API) ownedBrandID(w http.ResponseWriter, r *http.Request, raw *string, owner string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		validationError(w, r, "brand_id must be a UUID")
		return nil, false
	}
	brand, err := a.brandKits.Get(id, owner)
	if err != nil {
		databaseError(w, r, "find brand", err)
		return nil, false
	}
	if brand == nil {
		notFound(w, r, "brand")
		return nil, false
	}
	return &id, true
}
