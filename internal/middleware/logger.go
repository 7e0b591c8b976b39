package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
)

// Logger returns a middleware that logs HTTP requests. Bodies are never
// logged since they carry credentials and patient data.
func Logger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent())

		if p, ok := c.Get(ContextPrincipal); ok {
			if principal, ok := p.(*model.Principal); ok {
				event.Int64("user_id", principal.UserID).Str("role", string(principal.Role))
			}
		}
		if len(c.Errors) > 0 {
			event.Str("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			event.Msg("Server error")
		case status >= 400:
			event.Msg("Client error")
		default:
			event.Msg("Request processed")
		}
	}
}
