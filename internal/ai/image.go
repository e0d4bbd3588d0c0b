// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotImage is returned when a provider answers an image request with a
// payload that is not an image.
var ErrNotImage = errors.New("ai: provider returned a non-image payload")

// ImageGenerator is implemented by providers that can create images.
// Claude is text-only.
type ImageGenerator interface {
	// GenerateImage returns the raw image bytes and their MIME type.
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// GenerateImage runs the active provider's image generation. The returned
// content type is the declared one when it names an image, otherwise it is
// sniffed from the bytes.
func (r *Registry) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	p, err := r.Active()
	if err != nil {
		return nil, "", err
	}

	ig, ok := p.(ImageGenerator)
	if !ok {
		return nil, "", fmt.Errorf("%w: provider %q does not support image generation", ErrNotConfigured, p.Name())
	}

	data, declared, err := ig.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", nil
	}
	contentType, err := imageContentType(data, declared)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", p.Name(), err)
	}
	return data, contentType, nil
}

// imageContentType trusts a declared image/* type and sniffs anything else,
// since some providers label inline data as application/octet-stream.
func imageContentType(data []byte, declared string) (string, error) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if strings.HasPrefix(declared, "image/") {
		return declared, nil
	}

	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") {
		return "", fmt.Errorf("%w: declared %q, detected %q", ErrNotImage, declared, sniffed)
	}
	return sniffed, nil
}

// SupportsImageGeneration reports whether the active provider can create images.
func (r *Registry) SupportsImageGeneration() bool {
	p, err := r.Active()
	if err != nil {
		return false
	}
	_, ok := p.(ImageGenerator)
	return ok
}
