// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"radic/internal/design"
)

// Health reports liveness and the active AI provider.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if a.providers != nil {
		body["provider"] = a.providers.ActiveName()
	}
	writeJSON(w, http.StatusOK, body)
}

// Me returns the verified caller.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

type formatInfo struct {
	ID          design.Format `json:"id"`
	Label       string        `json:"label"`
	AspectRatio string        `json:"aspect_ratio"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
}

// Formats lists the supported ad formats and their canvas sizes.
func (a *API) Formats(w http.ResponseWriter, r *http.Request) {
	var out []formatInfo
	for _, f := range design.Formats() {
		c := design.CanvasFor(f)
		out = append(out, formatInfo{ID: f, Label: f.Label(), AspectRatio: f.AspectRatio(), Width: c.Width, Height: c.Height})
	}
	writeJSON(w, http.StatusOK, out)
}
