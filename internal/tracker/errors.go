// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when a valid principal lacks the rights for an
// operation.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation would duplicate existing state,
// such as enrolling an already-enrolled student.
var ErrConflict = errors.New("conflict")

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
