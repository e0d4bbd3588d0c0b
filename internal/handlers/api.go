// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the Radic API.
// Handlers receive their dependencies through the API struct; every
// dependency is an interface so tests can swap in fakes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"radic/internal/ai"
	"radic/internal/cache"
	"radic/internal/generation"
	"radic/internal/middleware"
	"radic/internal/models"
)

// Generator runs the two-stage design pipeline.
type Generator interface {
	Run(ctx context.Context, req generation.Request) (*generation.Result, error)
	Brief(ctx context.Context, userPrompt string) generation.BriefResult
}

// ImageMaker produces a single raster image from a prompt.
type ImageMaker interface {
	Generate(ctx context.Context, prompt string) (*generation.Image, error)
}

// Providers exposes the AI provider registry.
type Providers interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
	ActiveName() string
	Available() []string
}

// DesignRepo persists design records scoped by owner.
type DesignRepo interface {
	Create(r *models.DesignRecord) (*models.DesignRecord, error)
	FindByID(id uuid.UUID, ownerID string) (*models.DesignRecord, error)
	List(ownerID string, limit, offset int) ([]models.DesignRecord, error)
	Update(r *models.DesignRecord) (*models.DesignRecord, error)
	Delete(id uuid.UUID, ownerID string) (bool, error)
	Count(ownerID string) (int, error)
}

// BrandRepo persists brand kits scoped by owner.
type BrandRepo interface {
	Create(b *models.Brand) (*models.Brand, error)
	FindByID(id uuid.UUID, ownerID string) (*models.Brand, error)
	List(ownerID string) ([]models.Brand, error)
	Update(b *models.Brand) (*models.Brand, error)
	Delete(id uuid.UUID, ownerID string) (bool, error)
}

// AssetRepo records generated images.
type AssetRepo interface {
	Create(a *models.Asset) (*models.Asset, error)
	FindByID(id uuid.UUID, ownerID string) (*models.Asset, error)
	List(ownerID string, limit, offset int) ([]models.Asset, error)
	Delete(id uuid.UUID, ownerID string) (*models.Asset, error)
}

// ObjectStore holds asset bytes.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	Bucket() string
	URL(key string) string
}

// DesignCacher is a read-through cache of design records.
type DesignCacher interface {
	Get(ctx context.Context, id uuid.UUID) (*models.DesignRecord, bool)
	Set(ctx context.Context, rec *models.DesignRecord)
	Invalidate(ctx context.Context, id uuid.UUID)
	InvalidateAll(ctx context.Context)
}

// Deps lists the API's collaborators. Images, Objects and DesignCache may
// be nil; the features that need them are then disabled.
type Deps struct {
	Pipeline    Generator
	Images      ImageMaker
	Providers   Providers
	Designs     DesignRepo
	Brands      BrandRepo
	Assets      AssetRepo
	Objects     ObjectStore
	DesignCache DesignCacher
}

// API groups all HTTP handlers and their dependencies.
type API struct {
	pipeline    Generator
	images      ImageMaker
	providers   Providers
	designs     DesignRepo
	brands      BrandRepo
	brandKits   *cache.BrandCache
	assets      AssetRepo
	objects     ObjectStore
	designCache DesignCacher
	now         func() time.Time
}

// NewAPI creates the handler group. Brand lookups made during generation
// go through an in-process cache in front of deps.Brands.
func NewAPI(deps Deps) *API {
	return &API{
		pipeline:    deps.Pipeline,
		images:      deps.Images,
		providers:   deps.Providers,
		designs:     deps.Designs,
		brands:      deps.Brands,
		brandKits:   cache.NewBrandCache(deps.Brands, 0, 0),
		assets:      deps.Assets,
		objects:     deps.Objects,
		designCache: deps.DesignCache,
		now:         time.Now,
	}
}

// maxBodyBytes bounds request bodies; designs with many layers stay well
// below it.
const maxBodyBytes = 1 << 20

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a JSON body into dst, answering 400 on failure.
// Returns false when a response has been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON body: " + err.Error()
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body is empty"
		case errors.As(err, &maxErr):
			msg = "request body is too large"
		}
		middleware.WriteError(w, r, http.StatusBadRequest, middleware.CodeValidation, msg)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter, answering 404 when it is not a UUID
// so malformed ids look the same as missing ones.
func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, r, what)
		return uuid.Nil, false
	}
	return id, true
}

func notFound(w http.ResponseWriter, r *http.Request, what string) {
	middleware.WriteError(w, r, http.StatusNotFound, middleware.CodeNotFound, what+" not found")
}

func validationError(w http.ResponseWriter, r *http.Request, msg string) {
	middleware.WriteError(w, r, http.StatusBadRequest, middleware.CodeValidation, msg)
}

// databaseError logs err and answers 500 without leaking it.
func databaseError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error(op+" failed", "error", err, "path", r.URL.Path)
	middleware.WriteError(w, r, http.StatusInternalServerError, middleware.CodeDatabase, "database operation failed")
}

// pagination reads limit and offset query parameters.
func pagination(r *http.Request) (limit, offset int, err error) {
	limit, offset = defaultPageSize, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 || limit > maxPageSize {
			return 0, 0, errors.New("limit must be between 1 and 100")
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

// currentUser returns the verified user; routes behind RequireIdentity
// always have one.
func currentUser(r *http.Request) *models.User {
	return middleware.UserFromCtx(r.Context())
}
