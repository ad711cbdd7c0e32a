package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/recipebook-backend/internal/domain"
)

const (
	CodeValidation  = "validation_failed"
	CodeNotFound    = "not_found"
	CodeReferential = "missing_references"
	CodeImmutable   = "immutable_field"
	CodeBadRequest  = "bad_request"
	CodeRateLimited = "rate_limited"
	CodeInternal    = "internal_error"
)

type Error struct {
	Status  int
	Code    string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps a catalog error onto its HTTP status, code and details.
// Anything unrecognized becomes a 500.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var (
		ae  *Error
		ve  *domain.ValidationError
		nfe *domain.NotFoundError
		re  *domain.ReferentialError
		ie  *domain.ImmutableFieldError
	)
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.As(err, &ve):
		return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Details: ve.Fields, Err: err}
	case errors.As(err, &nfe):
		return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Err: err}
	case errors.As(err, &re):
		return &Error{
			Status:  http.StatusBadRequest,
			Code:    CodeReferential,
			Details: map[string]any{"field": re.Field, "missing": re.Missing},
			Err:     err,
		}
	case errors.As(err, &ie):
		return &Error{Status: http.StatusBadRequest, Code: CodeImmutable, Details: map[string]any{"field": ie.Field}, Err: err}
	default:
		return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Err: err}
	}
}

func Code(err error) string {
	if err == nil {
		return ""
	}
	return FromError(err).Code
}

func IsClientError(err error) bool {
	if err == nil {
		return false
	}
	s := FromError(err).Status
	return s >= 400 && s < 500
}
