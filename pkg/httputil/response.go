package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError sends an error response, mapping application error
// codes onto HTTP status codes. Unrecognized errors are reported as 500
// without leaking the underlying cause.
func RespondWithError(c *gin.Context, err error) {
	status := statusFor(errors.CodeOf(err))

	message := "internal server error"
	if status != http.StatusInternalServerError {
		message = err.Error()
	}

	c.JSON(status, Response{
		Status:  "error",
		Message: message,
	})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrInvalidInput, errors.ErrReferenceNotFound:
		return http.StatusBadRequest
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
