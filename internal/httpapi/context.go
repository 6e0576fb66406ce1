// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package httpapi

import (
	"context"

	"github.com/classtrack/classtrack/internal/tracker"
)

// principalKey is the context key under which the bearer middleware
// stores the resolved principal.
type principalKey struct{}

// withPrincipal returns a context carrying the principal.
func withPrincipal(ctx context.Context, p tracker.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// principalFrom extracts the principal set by the bearer middleware.
func principalFrom(ctx context.Context) (tracker.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(tracker.Principal)
	return p, ok
}
