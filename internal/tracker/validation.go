// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Validation limits for domain types.
const (
	MaxNameLength        = 100
	MaxSubjectLength     = 100
	MaxDescriptionLength = 2000
	MaxModuleNameLength  = 200

	// Score bounds, inclusive, for progress records and per-module scores.
	MinScore = 0
	MaxScore = 100
)

// ValidateName checks that a classroom name is valid.
// Names must be non-empty, valid UTF-8, no control characters, within limit.
func ValidateName(name string) error {
	return validateLabel("name", name, MaxNameLength)
}

// ValidateSubject checks that a subject label is valid.
func ValidateSubject(subject string) error {
	return validateLabel("subject", subject, MaxSubjectLength)
}

// ValidateDescription checks an optional description. Empty is allowed.
func ValidateDescription(desc string) error {
	if desc == "" {
		return nil
	}
	if !utf8.ValidString(desc) {
		return &ValidationError{Field: "description", Message: "must be valid UTF-8"}
	}
	if len(desc) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("exceeds maximum length of %d", MaxDescriptionLength)}
	}
	return nil
}

// ValidateScore checks that a score is within the inclusive 0-100 range.
func ValidateScore(field string, score float64) error {
	if score < MinScore || score > MaxScore {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d", MinScore, MaxScore)}
	}
	return nil
}

func validateLabel(field, value string, maxLen int) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "cannot be empty"}
	}
	if !utf8.ValidString(value) {
		return &ValidationError{Field: field, Message: "must be valid UTF-8"}
	}
	if len(value) > maxLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("exceeds maximum length of %d", maxLen)}
	}
	if hasControlChars(value) {
		return &ValidationError{Field: field, Message: "cannot contain control characters"}
	}
	return nil
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
