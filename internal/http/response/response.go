package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipebook-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// ErrorCodeKey is the gin context key holding the code of an error response.
const ErrorCodeKey = "error_code"

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.Set(ErrorCodeKey, code)
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps a service error onto its status and envelope.
// Internal errors never leak their message.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.FromError(err)
	msg := ae.Error()
	if ae.Status >= http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.Set(ErrorCodeKey, ae.Code)
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    ae.Code,
			Details: ae.Details,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, location string, payload any) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, payload)
}
