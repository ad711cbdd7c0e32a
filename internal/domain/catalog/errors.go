package catalog

import (
	"fmt"
	"sort"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationError reports every field that failed shape checks, in field order.
type ValidationError struct {
	Kind   Kind         `json:"kind,omitempty"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	prefix := "validation failed"
	if e.Kind != "" {
		prefix = e.Kind.Title() + " validation failed"
	}
	return prefix + ": " + strings.Join(msgs, "; ")
}

// Add appends a field failure and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string, value any) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message, Value: value})
	return e
}

// Has reports whether field already has a recorded failure.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Without returns a copy that drops the failures recorded for field.
func (e *ValidationError) Without(field string) *ValidationError {
	if e == nil {
		return nil
	}
	out := &ValidationError{Kind: e.Kind}
	for _, f := range e.Fields {
		if f.Field != field {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func NewValidationError(kind Kind, field, message string, value any) *ValidationError {
	return (&ValidationError{Kind: kind}).Add(field, message, value)
}

type NotFoundError struct {
	Kind      Kind
	StorageID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with _id %s not found", e.Kind.Title(), e.StorageID)
}

// ReferentialError lists domain ids that a reference field points at but
// that do not exist in the target collection.
type ReferentialError struct {
	Kind    Kind
	Field   string
	Target  Kind
	Missing []int64
}

func (e *ReferentialError) Error() string {
	ids := append([]int64(nil), e.Missing...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	noun := "ID"
	if len(ids) > 1 {
		noun = "IDs"
	}
	return fmt.Sprintf("%s %s %s not found (referenced by %s.%s)",
		e.Target.Title(), noun, strings.Join(parts, ", "), e.Kind.Title(), e.Field)
}

type ImmutableFieldError struct {
	Kind  Kind
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("You cannot change the '%s' field of a %s.", e.Field, e.Kind.Title())
}
