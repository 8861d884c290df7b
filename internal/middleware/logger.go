package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes one access line per request and puts a logger carrying the
// request id on the request context, so zerolog.Ctx in services picks it up.
// It must run after Tracing.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLog := log.With().Str("request_id", RequestID(c)).Logger()
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= 500:
			level = zerolog.ErrorLevel
		case status >= 400:
			level = zerolog.WarnLevel
		}

		event := reqLog.WithLevel(level)
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		event.
			Int("status", status).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Int("bytes", c.Writer.Size()).
			Msg("request")
	}
}
