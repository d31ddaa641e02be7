package egret

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is the header used to propagate the per-request ID
// assigned by Engine.ServeHTTP, matching the header name convention of
// the pack's own request-ID middlewares.
const RequestIDHeader = "X-Request-ID"

// requestID returns the ID to use for this request: the incoming
// X-Request-ID header when trustIncoming is enabled, otherwise a freshly
// generated UUID v4.
func (e *Engine) requestID(req *http.Request) string {
	if e.trustIncomingRequestID {
		if id := req.Header.Get(RequestIDHeader); id != "" {
			return id
		}
	}
	return uuid.New().String()
}

// WithTrustIncomingRequestID makes the Engine reuse an incoming
// X-Request-ID header instead of always generating a new one, grounded on
// vitalvas-kasper/muxhandlers.RequestIDConfig.TrustIncoming.
func WithTrustIncomingRequestID() Option {
	return func(e *Engine) { e.trustIncomingRequestID = true }
}

// RequestID returns the ID assigned to the current request by the Engine.
func (c *Context) RequestID() string { return c.requestID }
