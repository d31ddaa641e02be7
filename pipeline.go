package egret

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// defaultNotFoundBody is the exact phrase spec.md §6 requires the default
// 404 response to contain.
const defaultNotFoundBody = `<html><head><title>404 Not Found</title></head><body><h1>404 Not Found</h1></body></html>`

// redirectBodyTemplate is the exact phrase spec.md §6 requires a 301
// redirect body to contain, plus an anchor to the target. Content-Length
// is always computed from this template's actual UTF-8 byte length
// (spec.md §9 Open Question) rather than a hardcoded constant.
const redirectBodyTemplate = `<html><head><title>Redirecting...</title></head><body><h1>Redirecting...</h1><p>If your browser doesn't redirect you, click <a href="%s">here</a>.</p></body></html>`

// runErrorPipeline implements spec.md §4.2 step 6 / §7: it walks the
// registered error handlers in order; the first whose filter accepts err
// owns it, and its return value re-enters Result Coercion. If nothing
// accepts, or the chosen handler itself panics, the pipeline answers with
// the default for the failure's kind: the default 404 page for a
// NotFoundError, a log entry for a FinishAfterDisconnectError, and
// otherwise a 500 plus a processing-failed report to the runtime.
// CancelledError is always suppressed (spec.md §5 "Cancellation").
func (e *Engine) runErrorPipeline(c *Context, err error) {
	if _, ok := err.(*CancelledError); ok {
		return
	}

	if na, ok := err.(*NotAllowedError); ok {
		// spec.md §4.2 step 6: NotAllowed is never user-overridable.
		if len(na.Allowed) > 0 {
			c.SetHeader("Allow", joinCSV(na.Allowed))
		}
		c.SetResponseCode(http.StatusMethodNotAllowed)
		c.Finish()
		return
	}

	e.registry.mu.RLock()
	handlers := append([]ErrorHandlerEntry(nil), e.registry.errorHandlers...)
	e.registry.mu.RUnlock()

	for _, eh := range handlers {
		if eh.Filter != nil && !eh.Filter(err) {
			continue
		}
		failed := false
		result := func() (res Result) {
			defer func() {
				if rec := recover(); rec != nil {
					res = nil
					err = toHandlerFailure(rec)
					failed = true
				}
			}()
			return eh.Handle(c, err)
		}()
		if failed {
			break
		}
		if result != nil {
			e.runCoercion(c, result)
			if !c.Finished() {
				c.Finish()
			}
			return
		}
		if !c.Finished() {
			c.Finish()
		}
		return
	}

	// No handler accepted the failure (or the chosen handler re-failed).
	if _, ok := err.(*NotFoundError); ok {
		c.SetResponseCode(http.StatusNotFound)
		if c.Header().Get("Content-Type") == "" {
			c.SetHeader("Content-Type", "text/html; charset=utf-8")
		}
		_, _ = c.Write([]byte(defaultNotFoundBody))
		c.Finish()
		return
	}

	if fad, ok := err.(*FinishAfterDisconnectError); ok {
		e.logger.Error("finish after disconnect", zap.Error(fad))
		return
	}

	c.SetResponseCode(http.StatusInternalServerError)
	c.Finish()
	e.reportProcessingFailed(c, err)
}

// fmtRedirectBody renders the redirect body template for a single target
// location, used by the Engine's redirect-to-slash handling.
func fmtRedirectBody(location string) string {
	return fmt.Sprintf(redirectBodyTemplate, location)
}

func joinCSV(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out
}

func toHandlerFailure(rec any) error {
	if err, ok := rec.(error); ok {
		return &HandlerFailure{Err: err}
	}
	return &HandlerFailure{Err: fmt.Errorf("%v", rec)}
}
