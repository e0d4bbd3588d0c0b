// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity verifies bearer tokens against the external identity
// provider. Verified identities are cached in Valkey, keyed by a hash of
// the token, so repeated requests do not hit the provider.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"radic/internal/models"
)

var (
	// ErrInvalidToken means the provider rejected the token.
	ErrInvalidToken = errors.New("identity: invalid or expired token")

	// ErrNotConfigured means no identity provider URL is set.
	ErrNotConfigured = errors.New("identity: provider not configured")
)

const (
	// DefaultTTL is how long a verified identity stays cached.
	DefaultTTL = 5 * time.Minute

	// keyPrefix namespaces identity keys in Valkey to avoid collisions.
	keyPrefix = "identity:"
)

// Verifier resolves bearer tokens to users. All methods are safe for
// concurrent use.
type Verifier struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   *redis.Client // nil disables caching
	ttl     time.Duration
}

// NewVerifier creates a verifier for the identity provider at baseURL.
// cache may be nil.
func NewVerifier(baseURL, apiKey string, cache *redis.Client) *Verifier {
	return &Verifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		ttl:     DefaultTTL,
	}
}

// Verify returns the user the token belongs to.
func (v *Verifier) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	if v.baseURL == "" {
		return nil, ErrNotConfigured
	}

	key := cacheKey(token)
	if u := v.cached(ctx, key); u != nil {
		return u, nil
	}

	u, err := v.fetch(ctx, token)
	if err != nil {
		return nil, err
	}

	v.store(ctx, key, u)
	return u, nil
}

// Forget drops a cached token, e.g. after the client signs out.
func (v *Verifier) Forget(ctx context.Context, token string) {
	if v.cache == nil || token == "" {
		return
	}
	v.cache.Del(ctx, cacheKey(token))
}

// fetch asks the identity provider who owns the token.
func (v *Verifier) fetch(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		req.Header.Set("apikey", v.apiKey)
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("identity read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity provider error (status %d): %s", resp.StatusCode, string(body))
	}

	var u models.User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("identity unmarshal: %w", err)
	}
	if u.ID == "" {
		return nil, ErrInvalidToken
	}
	return &u, nil
}

func (v *Verifier) cached(ctx context.Context, key string) *models.User {
	if v.cache == nil {
		return nil
	}
	payload, err := v.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("identity cache get error", "error", err)
		}
		return nil
	}
	var u models.User
	if err := json.Unmarshal(payload, &u); err != nil {
		return nil
	}
	return &u
}

func (v *Verifier) store(ctx context.Context, key string, u *models.User) {
	if v.cache == nil {
		return
	}
	payload, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := v.cache.Set(ctx, key, payload, v.ttl).Err(); err != nil {
		slog.Warn("identity cache set error", "error", err)
	}
}

// cacheKey never stores the raw token.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
// Returns "" when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
