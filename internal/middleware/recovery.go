// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer turns a handler panic into a JSON 500. It must run inside
// Logger so the access line records the failure. http.ErrAbortHandler is
// re-raised since it asks the server to drop the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			args := []any{
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
			}
			if u := UserFromCtx(r.Context()); u != nil {
				args = append(args, "user", u.ID)
			}
			slog.Error("handler panicked", append(args, "stack", string(debug.Stack()))...)
			AddLogAttrs(r.Context(), "panic", true)
			WriteError(w, r, http.StatusInternalServerError, CodeInternal, "internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}
