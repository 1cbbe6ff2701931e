package handler

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sanigest/sanigest/internal/common/dto"
)

// fieldErrors accumulates every violated field of a request so the caller
// gets one complete response instead of the first failure.
type fieldErrors []dto.FieldError

func (e *fieldErrors) add(field, message string) {
	*e = append(*e, dto.FieldError{Field: field, Message: message})
}

func (e fieldErrors) ok() bool {
	return len(e) == 0
}

// checkLen validates the trimmed rune length of a required string field.
func (e *fieldErrors) checkLen(field, value string, min, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < min || n > max {
		e.add(field, fmt.Sprintf("must be between %d and %d characters", min, max))
	}
}

// checkOptionalLen validates length only when the value is non-empty.
func (e *fieldErrors) checkOptionalLen(field, value string, max int) {
	if value == "" {
		return
	}
	if utf8.RuneCountInString(value) > max {
		e.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// checkNotFuture rejects dates after now. A zero time is reported as missing.
func (e *fieldErrors) checkNotFuture(field string, t time.Time) {
	if t.IsZero() {
		e.add(field, "is required")
		return
	}
	if t.After(time.Now()) {
		e.add(field, "must not be in the future")
	}
}

// checkOneOf validates an enumerated field against its declared values.
func (e *fieldErrors) checkOneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.add(field, "must be one of: "+strings.Join(allowed, ", "))
}

// checkEmail validates address syntax.
func (e *fieldErrors) checkEmail(field, value string) {
	if _, err := mail.ParseAddress(value); err != nil {
		e.add(field, "must be a valid email address")
	}
}

// checkPassword enforces the minimum password policy.
func (e *fieldErrors) checkPassword(field, value string) {
	if len(value) < 8 || len(value) > 72 {
		e.add(field, "must be between 8 and 72 characters")
	}
}
