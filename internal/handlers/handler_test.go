// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: in-memory stores, a scripted AI provider and a request helper.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"radic/internal/ai"
	"radic/internal/design"
	"radic/internal/generation"
	"radic/internal/middleware"
	"radic/internal/models"
)

const testBrief = `{
  "headline": "Summer Sale 50% Off",
  "subheadline": "This weekend only",
  "visual_focus": ["sunglasses"],
  "layout_style": "bold",
  "color_scheme": {"primary": "#FF6B6B", "secondary": "#4ECDC4", "accent": "#FFE66D"},
  "format": "instagram_post"
}`

// mockAIProvider answers brief and design requests by schema name.
type mockAIProvider struct {
	mu        sync.Mutex
	brief     string
	design    string
	err       error
	calls     int
	lastReq   ai.Request
	flagged   []string
	modErr    error
	imageData []byte
	imageErr  error
	active    string
}

func (m *mockAIProvider) Name() string { return "mock" }

func (m *mockAIProvider) Generate(_ context.Context, req ai.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	if req.Schema != nil && req.Schema.Name == "design_brief" {
		return m.brief, nil
	}
	return m.design, nil
}

func (m *mockAIProvider) GenerateImage(_ context.Context, _ string) ([]byte, string, error) {
	return m.imageData, "image/png", m.imageErr
}

// CheckPrompt flags prompts containing any of m.flagged.
func (m *mockAIProvider) CheckPrompt(_ context.Context, prompt string) (*ai.ModerationResult, error) {
	if m.modErr != nil {
		return nil, m.modErr
	}
	for _, word := range m.flagged {
		if strings.Contains(strings.ToLower(prompt), word) {
			return &ai.ModerationResult{Safe: false, Categories: []string{"Violence"}}, nil
		}
	}
	return &ai.ModerationResult{Safe: true}, nil
}

func (m *mockAIProvider) ActiveName() string {
	if m.active == "" {
		return "gemini"
	}
	return m.active
}

func (m *mockAIProvider) Available() []string { return []string{"claude", "gemini"} }

func (m *mockAIProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- in-memory stores ---

type memDesigns struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.DesignRecord
	err  error
}

func newMemDesigns() *memDesigns { return &memDesigns{rows: map[uuid.UUID]models.DesignRecord{}} }

// copyRecord round-trips through JSON so callers never share documents.
func copyRecord(r models.DesignRecord) *models.DesignRecord {
	b, _ := json.Marshal(r)
	var out models.DesignRecord
	json.Unmarshal(b, &out)
	return &out
}

func (s *memDesigns) Create(r *models.DesignRecord) (*models.DesignRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	r.Sync()
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	s.rows[r.ID] = *copyRecord(*r)
	return copyRecord(*r), nil
}

func (s *memDesigns) FindByID(id uuid.UUID, ownerID string) (*models.DesignRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.rows[id]
	if !ok || r.OwnerID != ownerID {
		return nil, nil
	}
	return copyRecord(r), nil
}

func (s *memDesigns) List(ownerID string, limit, offset int) ([]models.DesignRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []models.DesignRecord
	for _, r := range s.rows {
		if r.OwnerID == ownerID {
			out = append(out, *copyRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memDesigns) Update(r *models.DesignRecord) (*models.DesignRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.rows[r.ID]
	if !ok || old.OwnerID != r.OwnerID {
		return nil, nil
	}
	r.Sync()
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	s.rows[r.ID] = *copyRecord(*r)
	return copyRecord(*r), nil
}

func (s *memDesigns) Delete(id uuid.UUID, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || r.OwnerID != ownerID {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *memDesigns) Count(ownerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

type memBrands struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]models.Brand
	finds int
}

func newMemBrands() *memBrands { return &memBrands{rows: map[uuid.UUID]models.Brand{}} }

func (s *memBrands) Create(b *models.Brand) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *b
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	s.rows[c.ID] = c
	return &c, nil
}

func (s *memBrands) FindByID(id uuid.UUID, ownerID string) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	b, ok := s.rows[id]
	if !ok || b.OwnerID != ownerID {
		return nil, nil
	}
	return &b, nil
}

func (s *memBrands) List(ownerID string) ([]models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Brand
	for _, b := range s.rows {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memBrands) Update(b *models.Brand) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.rows[b.ID]
	if !ok || old.OwnerID != b.OwnerID {
		return nil, nil
	}
	c := *b
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.rows[c.ID] = c
	return &c, nil
}

func (s *memBrands) Delete(id uuid.UUID, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok || b.OwnerID != ownerID {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

type memAssets struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Asset
	err  error
}

func newMemAssets() *memAssets { return &memAssets{rows: map[uuid.UUID]models.Asset{}} }

func (s *memAssets) Create(a *models.Asset) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	c := *a
	c.CreatedAt = time.Now().UTC()
	s.rows[c.ID] = c
	return &c, nil
}

func (s *memAssets) FindByID(id uuid.UUID, ownerID string) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok || a.OwnerID != ownerID {
		return nil, nil
	}
	return &a, nil
}

func (s *memAssets) List(ownerID string, limit, offset int) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Asset
	for _, a := range s.rows {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAssets) Delete(id uuid.UUID, ownerID string) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok || a.OwnerID != ownerID {
		return nil, nil
	}
	delete(s.rows, id)
	return &a, nil
}

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemObjects() *memObjects { return &memObjects{objects: map[string][]byte{}} }

func (o *memObjects) Put(_ context.Context, key, _ string, data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.putErr != nil {
		return o.putErr
	}
	o.objects[key] = data
	return nil
}

func (o *memObjects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.objects, key)
	return nil
}

func (o *memObjects) Bucket() string        { return "radic-public" }
func (o *memObjects) URL(key string) string { return "https://cdn.example.com/" + key }

func (o *memObjects) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.objects)
}

// memCache is a DesignCacher that counts invalidations.
type memCache struct {
	mu          sync.Mutex
	rows        map[uuid.UUID]models.DesignRecord
	invalidated int
}

func newMemCache() *memCache { return &memCache{rows: map[uuid.UUID]models.DesignRecord{}} }

func (c *memCache) Get(_ context.Context, id uuid.UUID) (*models.DesignRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rows[id]
	if !ok {
		return nil, false
	}
	return copyRecord(r), true
}

func (c *memCache) Set(_ context.Context, r *models.DesignRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[r.ID] = *copyRecord(*r)
}

func (c *memCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, id)
	c.invalidated++
}

func (c *memCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = map[uuid.UUID]models.DesignRecord{}
	c.invalidated++
}

// --- environment ---

type testEnv struct {
	Provider *mockAIProvider
	Designs  *memDesigns
	Brands   *memBrands
	Assets   *memAssets
	Objects  *memObjects
	Cache    *memCache
	API      *API
	Router   chi.Router
}

// testGenConfig keeps retries fast.
func testGenConfig() generation.Config {
	return generation.Config{
		MaxRetries:     3,
		BaseDelay:      time.Millisecond,
		CallTimeout:    time.Second,
		AttemptTimeout: time.Second,
	}
}

func validDesignJSON(t *testing.T) string {
	t.Helper()
	d := design.MockDesign(nil, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	d.Title = ""
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal design: %v", err)
	}
	return string(b)
}

// newTestEnv builds the API over in-memory stores and a chi router that
// mirrors the production route shapes for the {id} parameter.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	p := &mockAIProvider{brief: testBrief, design: validDesignJSON(t), imageData: []byte{0x89, 'P', 'N', 'G'}}
	env := &testEnv{
		Provider: p,
		Designs:  newMemDesigns(),
		Brands:   newMemBrands(),
		Assets:   newMemAssets(),
		Objects:  newMemObjects(),
		Cache:    newMemCache(),
	}

	env.API = NewAPI(Deps{
		Pipeline:    generation.NewPipeline(p, testGenConfig()),
		Images:      generation.NewImageGenerator(p, testGenConfig()),
		Providers:   p,
		Designs:     env.Designs,
		Brands:      env.Brands,
		Assets:      env.Assets,
		Objects:     env.Objects,
		DesignCache: env.Cache,
	})
	env.API.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", env.API.Health)
	r.Post("/api/v1/ai/generate", env.API.Generate)
	r.Post("/api/v1/ai/brief", env.API.Brief)
	r.Post("/api/v1/ai/placeholder", env.API.Placeholder)
	r.Post("/api/v1/ai/generate-image", env.API.GenerateImage)
	r.Get("/api/v1/ai/providers", env.API.ProviderStatus)
	r.Get("/api/v1/formats", env.API.Formats)
	r.Get("/api/v1/auth/me", env.API.Me)
	r.Get("/api/v1/designs", env.API.ListDesigns)
	r.Post("/api/v1/designs", env.API.CreateDesign)
	r.Get("/api/v1/designs/{id}", env.API.GetDesign)
	r.Patch("/api/v1/designs/{id}", env.API.UpdateDesign)
	r.Delete("/api/v1/designs/{id}", env.API.DeleteDesign)
	r.Get("/api/v1/brands", env.API.ListBrands)
	r.Post("/api/v1/brands", env.API.CreateBrand)
	r.Get("/api/v1/brands/{id}", env.API.GetBrand)
	r.Put("/api/v1/brands/{id}", env.API.UpdateBrand)
	r.Delete("/api/v1/brands/{id}", env.API.DeleteBrand)
	r.Get("/api/v1/assets", env.API.ListAssets)
	r.Get("/api/v1/assets/{id}", env.API.GetAsset)
	r.Delete("/api/v1/assets/{id}", env.API.DeleteAsset)
	env.Router = r

	return env
}

// do sends a request as user (nil for anonymous) and returns the recorder.
func (env *testEnv) do(t *testing.T, user *models.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response (status %d): %v", rr.Code, err)
	}
	return v
}

// expectError checks an error response's status and code.
func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) middleware.ErrorBody {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	body := decode[middleware.ErrorBody](t, rr)
	if body.Error != code {
		t.Errorf("error code: got %q, want %q", body.Error, code)
	}
	return body
}

var (
	alice = &models.User{ID: "user-alice", Email: "alice@example.com"}
	bob   = &models.User{ID: "user-bob", Email: "bob@example.com"}
)

// seedBrand stores a brand kit for owner.
func (env *testEnv) seedBrand(t *testing.T, owner string) *models.Brand {
	t.Helper()
	b, _ := env.Brands.Create(&models.Brand{
		OwnerID: owner,
		Name:    "Acme",
		Colors:  design.BrandColors{Primary: "#111111", Secondary: "#222222", Accent: "#333333"},
		Fonts:   design.BrandFonts{Primary: "Inter", Secondary: "Arial"},
	})
	return b
}

// seedDesign stores a blank design for owner.
func (env *testEnv) seedDesign(t *testing.T, owner, title string) *models.DesignRecord {
	t.Helper()
	d := design.Blank(design.FormatInstagramPost, title, time.Now())
	d.ID = uuid.NewString()
	d.OwnerID = owner
	rec, err := models.NewDesignRecord(d, nil)
	if err != nil {
		t.Fatalf("NewDesignRecord: %v", err)
	}
	created, err := env.Designs.Create(rec)
	if err != nil {
		t.Fatalf("seed design: %v", err)
	}
	return created
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, nil, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	body := decode[map[string]string](t, rr)
	if body["status"] != "ok" || body["provider"] != "gemini" {
		t.Errorf("body: %v", body)
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, alice, http.MethodGet, "/api/v1/auth/me", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	u := decode[models.User](t, rr)
	if u.ID != alice.ID || u.Email != alice.Email {
		t.Errorf("user: %+v", u)
	}
}

func TestFormats(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, nil, http.MethodGet, "/api/v1/formats", nil)
	formats := decode[[]formatInfo](t, rr)
	if len(formats) != len(design.Formats()) {
		t.Fatalf("formats: got %d", len(formats))
	}
	for _, f := range formats {
		if f.ID == design.FormatInstagramStory && (f.Width != 1080 || f.Height != 1920) {
			t.Errorf("instagram story canvas: %+v", f)
		}
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"malformed", "{"},
		{"unknown field", `{"prompt":"x","surprise":1}`},
		{"too large", `{"prompt":"` + strings.Repeat("a", maxBodyBytes) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, nil, http.MethodPost, "/api/v1/ai/generate", tt.body)
			expectError(t, rr, http.StatusBadRequest, middleware.CodeValidation)
		})
	}
}
