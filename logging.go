package egret

import (
	"time"

	"go.uber.org/zap"
)

// AttachRequestLog makes the Engine log every request at Info level on its
// logger once dispatch completes, modeled on the pack's
// structured-logging-by-default convention (go-spring-projects wires zap
// the same way through its web starter). It must run on every request,
// not only failing ones, so it is a flag read by the Engine's dispatch
// rather than an error handler.
//
// Call AttachRequestLog after New to enable per-request completion
// logging; it is not automatic, since many deployments prefer to log at
// the reverse proxy instead (spec.md ambient stack note: carried
// regardless of non-goals, but not forced on).
func (e *Engine) AttachRequestLog() {
	e.requestLogEnabled = true
}

func (e *Engine) logRequestCompletion(c *Context, start time.Time) {
	if !e.requestLogEnabled {
		return
	}
	e.logger.Info("request completed",
		zap.String("request_id", c.requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("route", c.routeName),
		zap.Int("status", c.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
