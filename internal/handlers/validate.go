// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for request fields.
const (
	maxPromptLen     = 2_000
	maxTitleLen      = 300
	maxReferenceURLs = 5
	maxReferenceLen  = 2_048
	maxPreferences   = 20
	maxPreferenceLen = 200

	defaultPageSize = 50
	maxPageSize     = 100
)

// validatePrompt checks a generation prompt and returns the first error found.
func validatePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "prompt is required"
	}
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return "prompt is too long (max 2,000 characters)"
	}
	return ""
}

// validateGenerationExtras checks the optional reference images and
// preferences of a generation request.
func validateGenerationExtras(refs []string, prefs map[string]string) string {
	if len(refs) > maxReferenceURLs {
		return "too many reference images (max 5)"
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			return "reference images must not be empty"
		}
		if len(ref) > maxReferenceLen {
			return "reference image URL is too long"
		}
	}
	if len(prefs) > maxPreferences {
		return "too many preferences (max 20)"
	}
	for k, v := range prefs {
		if strings.TrimSpace(k) == "" {
			return "preference names must not be empty"
		}
		if utf8.RuneCountInString(k) > maxPreferenceLen || utf8.RuneCountInString(v) > maxPreferenceLen {
			return "preference is too long (max 200 characters)"
		}
	}
	return ""
}

// validateTitle checks a design title. Empty titles are allowed.
func validateTitle(title string) string {
	if utf8.RuneCountInString(strings.TrimSpace(title)) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	return ""
}
