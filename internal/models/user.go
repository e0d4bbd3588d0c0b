// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// User is an identity verified by the external identity provider. Users are
// not stored locally; their ID scopes every owned record.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// DisplayName returns the email, or the ID when no email is known.
func (u *User) DisplayName() string {
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
