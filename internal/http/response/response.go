package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondDomainError maps typed builder/persistence errors onto HTTP
// statuses. Untyped errors come out as 500.
func RespondDomainError(c *gin.Context, err error) {
	code := builderdom.CodeOf(err).OrInternal()
	status := http.StatusInternalServerError
	switch code {
	case builderdom.CodeValidation:
		status = http.StatusBadRequest
	case builderdom.CodeNotFound:
		status = http.StatusNotFound
	case builderdom.CodeConflict:
		status = http.StatusConflict
	case builderdom.CodePreconditionFailed, builderdom.CodeInvariantViolation:
		status = http.StatusUnprocessableEntity
	case builderdom.CodeRetryable:
		status = http.StatusServiceUnavailable
	}
	RespondError(c, status, string(code), err)
}
