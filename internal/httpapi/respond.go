// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/classtrack/classtrack/internal/auth"
	"github.com/classtrack/classtrack/internal/observability"
	"github.com/classtrack/classtrack/internal/tracker"
	"github.com/classtrack/classtrack/pkg/errutil"
)

// maxBodyBytes bounds request bodies; progress payloads with module
// lists stay far below this.
const maxBodyBytes = 1 << 20

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}

// writeError maps a service error onto the failure taxonomy. Internal
// storage errors are never echoed to the caller; they are logged and
// reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	status, kind, message := classify(err)

	if status == http.StatusInternalServerError {
		logger := slog.Default().With("method", r.Method, "path", r.URL.Path)
		errutil.LogError(logger, "request failed", err)
		message = "internal server error"
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		observability.RecordPolicyDenial(resource, kind)
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Kind: kind, Message: message}})
}

// classify resolves an error to its HTTP status, taxonomy kind, and
// caller-visible message.
func classify(err error) (status int, kind, message string) {
	var ve *tracker.ValidationError
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "please authenticate"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthenticated", auth.ErrInvalidCredentials.Error()
	case errors.Is(err, tracker.ErrForbidden):
		return http.StatusForbidden, "forbidden", "access denied"
	case errors.Is(err, tracker.ErrNotFound), errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, tracker.ErrConflict):
		return http.StatusConflict, "conflict", "already exists"
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "conflict", auth.ErrEmailTaken.Error()
	case errors.As(err, &ve):
		return http.StatusBadRequest, "validation", ve.Error()
	default:
		return http.StatusInternalServerError, "internal", ""
	}
}

// decodeJSON parses a request body into v, rejecting unknown fields so
// disallowed keys fail loudly instead of being silently dropped.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &tracker.ValidationError{Field: "body", Message: bodyErrorMessage(err)}
	}
	// A second value means trailing garbage.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &tracker.ValidationError{Field: "body", Message: "must contain a single JSON object"}
	}
	return nil
}

func bodyErrorMessage(err error) string {
	if err == io.EOF {
		return "cannot be empty"
	}
	return err.Error()
}
