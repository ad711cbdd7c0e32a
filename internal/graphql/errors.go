package graphql

import (
	"net/http"

	"github.com/yungbote/recipebook-backend/internal/platform/apierr"
)

// resolverError carries the REST error code and details into the GraphQL
// error extensions.
type resolverError struct {
	ae *apierr.Error
}

func (e *resolverError) Error() string {
	if e.ae.Status >= http.StatusInternalServerError {
		return "internal server error"
	}
	return e.ae.Error()
}

func (e *resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.ae.Code}
	if e.ae.Details != nil {
		ext["details"] = e.ae.Details
	}
	return ext
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return &resolverError{ae: apierr.FromError(err)}
}
