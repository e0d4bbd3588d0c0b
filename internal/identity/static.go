// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"context"

	"radic/internal/models"
)

// Static accepts any non-empty token as the same user. It stands in for the
// identity provider during local development.
type Static struct {
	User models.User
}

// Verify returns a copy of the configured user.
func (s Static) Verify(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	u := s.User
	return &u, nil
}
