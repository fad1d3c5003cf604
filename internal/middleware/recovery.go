package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/care-sync/pkg/httputil"
)

// Recovery handles panics, logs them and reports them to Sentry when a
// client is configured.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				log.Error().
					Interface("error", err).
					Str("stack", string(stack)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("Request panic recovered")

				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetTag("request_id", c.GetString(ContextRequestID))
				hub.Scope().SetRequest(c.Request)
				hub.Recover(fmt.Errorf("panic: %v", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.NewErrorBody("internal server error"))
			}
		}()
		c.Next()
	}
}
