// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// sleeper waits for d or until ctx is done, whichever comes first.
type sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retry runs attempt up to cfg.MaxRetries times, sleeping cfg.Backoff(k)
// before attempt k. It returns the first success, or the last *Error once
// the budget is spent or a non-retryable kind is seen. When ctx ends the
// loop stops at once and the context error is returned instead.
func retry[T any](ctx context.Context, cfg Config, sleep sleeper, stage string, attempt func(ctx context.Context, n int) (T, *Error)) (T, int, error) {
	var zero T
	var last *Error

	for n := 1; n <= cfg.MaxRetries; n++ {
		if n > 1 {
			if err := sleep(ctx, cfg.Backoff(n)); err != nil {
				return zero, n - 1, fmt.Errorf("%s generation: %w", stage, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return zero, n - 1, fmt.Errorf("%s generation: %w", stage, err)
		}

		v, e := attempt(ctx, n)
		if e == nil {
			return v, n, nil
		}
		e.Stage, e.Attempt = stage, n
		last = e

		// A failure caused by the caller going away is not an attempt failure.
		if err := ctx.Err(); err != nil {
			return zero, n, fmt.Errorf("%s generation: %w", stage, err)
		}

		slog.Warn("generation attempt failed",
			"stage", stage,
			"attempt", n,
			"max", cfg.MaxRetries,
			"kind", e.Kind.String(),
			"error", e.Err,
		)

		if !e.Kind.Retryable() {
			return zero, n, last
		}
	}
	return zero, cfg.MaxRetries, last
}
