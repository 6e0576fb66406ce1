// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/oops"

	"github.com/classtrack/classtrack/internal/auth"
	"github.com/classtrack/classtrack/internal/observability"
	"github.com/classtrack/classtrack/internal/tracker"
)

var errMissingToken = oops.Code("MISSING_TOKEN").Wrap(auth.ErrUnauthenticated)

// PrincipalResolver verifies a bearer token and loads the caller's
// identity, with the role read from storage rather than the token.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (tracker.Principal, error)
}

// requireAuth rejects requests without a valid bearer token and stores
// the resolved principal on the request context.
func requireAuth(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, r, "auth", errMissingToken)
				return
			}
			p, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				writeError(w, r, "auth", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// requestMetrics records per-route request counts and latency.
func requestMetrics(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			m.Observe(route, rec.status, time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
