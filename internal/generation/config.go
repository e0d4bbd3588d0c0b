// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generation runs the two-stage design generation pipeline: a
// design brief is derived from the user's prompt, then a canonical design
// is generated from prompt and brief, validated and repaired. Both stages
// retry with exponential backoff against an unreliable provider. The brief
// stage degrades to a deterministic mock; the design stage fails loud.
package generation

import "time"

// Config is the retry and timeout policy shared by all stages. It is built
// once at startup and never mutated.
type Config struct {
	// MaxRetries bounds provider calls per stage per request.
	MaxRetries int
	// BaseDelay is the backoff before the second attempt. It doubles for
	// each further attempt.
	BaseDelay time.Duration
	// CallTimeout bounds a single provider call.
	CallTimeout time.Duration
	// AttemptTimeout bounds a whole design attempt: call, parse and repair.
	AttemptTimeout time.Duration
}

// DefaultConfig returns the policy used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		BaseDelay:      time.Second,
		CallTimeout:    30 * time.Second,
		AttemptTimeout: 45 * time.Second,
	}
}

// withDefaults replaces non-positive fields with their defaults.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxRetries <= 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = def.CallTimeout
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = def.AttemptTimeout
	}
	return c
}

// maxShift keeps the doubled delay from overflowing time.Duration.
const maxShift = 30

// Backoff returns the delay before the given 1-based attempt:
// zero for the first, BaseDelay * 2^(attempt-2) afterwards. No jitter.
func (c Config) Backoff(attempt int) time.Duration {
	if attempt < 2 {
		return 0
	}
	shift := attempt - 2
	if shift > maxShift {
		shift = maxShift
	}
	return c.BaseDelay << shift
}
