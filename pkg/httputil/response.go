package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/care-sync/pkg/errors"
)

// ErrorBody is the error envelope shared by every endpoint.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewErrorBody builds an error envelope.
func NewErrorBody(message string) ErrorBody {
	return ErrorBody{Status: "error", Message: message}
}

// RespondWithError maps err to an HTTP status and writes the error envelope.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		status = appErr.StatusCode()
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.AbortWithStatusJSON(status, NewErrorBody(message))
}

// RespondWithBadRequest writes a 400 with the given message.
func RespondWithBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorBody(message))
}
