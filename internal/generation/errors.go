// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"errors"
	"fmt"

	"radic/internal/ai"
	"radic/internal/design"
)

// ErrGenerationFailed matches every terminal *Error via errors.Is.
var ErrGenerationFailed = errors.New("generation failed")

// ErrEmptyPrompt is returned by the pipeline when the prompt is blank.
var ErrEmptyPrompt = errors.New("generation: prompt is empty")

// Kind classifies why an attempt failed.
type Kind int

const (
	TransportFailure Kind = iota + 1
	TimeoutExceeded
	MalformedOutput
	ConstraintViolation
	ProviderUnconfigured
)

func (k Kind) String() string {
	switch k {
	case TransportFailure:
		return "transport_failure"
	case TimeoutExceeded:
		return "timeout_exceeded"
	case MalformedOutput:
		return "malformed_output"
	case ConstraintViolation:
		return "constraint_violation"
	case ProviderUnconfigured:
		return "provider_unconfigured"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Retryable reports whether another attempt could succeed.
func (k Kind) Retryable() bool {
	return k != ProviderUnconfigured
}

// Error is the failure side of every attempt. The retry loop branches on
// Kind; Terminal is set once the stage gives up.
type Error struct {
	Kind     Kind
	Stage    string
	Attempt  int
	Err      error
	Terminal bool
}

func (e *Error) Error() string {
	if e.Terminal {
		return fmt.Sprintf("%s generation failed after %d attempt(s) (%s): %v", e.Stage, e.Attempt, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s attempt %d (%s): %v", e.Stage, e.Attempt, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes terminal errors match ErrGenerationFailed.
func (e *Error) Is(target error) bool {
	return e.Terminal && target == ErrGenerationFailed
}

// classify maps an attempt error onto a Kind. attemptCtx is the context the
// attempt ran under; its expiry counts as a timeout even when the provider
// reported a plain transport error for the canceled request.
func classify(attemptCtx context.Context, err error) Kind {
	var ce *design.ConstraintError
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return ProviderUnconfigured
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(attemptCtx.Err(), context.DeadlineExceeded):
		return TimeoutExceeded
	case errors.Is(err, design.ErrMalformed), errors.Is(err, ai.ErrNotImage):
		return MalformedOutput
	case errors.As(err, &ce):
		return ConstraintViolation
	}
	return TransportFailure
}
