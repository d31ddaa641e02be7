package egret

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Context is the Request Adapter of spec.md §2 item 4: it wraps the
// underlying *http.Request/http.ResponseWriter pair and exposes exactly
// the operations spec.md §6 promises to handlers — URL reconstruction, a
// writable body, response code, headers, producer registration,
// finish-notification, and (via URLFor) reverse routing.
//
// A Context is bound to one in-flight request and is not safe for
// concurrent use from more than one goroutine at a time, mirroring the
// teacher pack's pooled-context warning (rivaas-dev-rivaas/router/context.go):
// copy any data a background goroutine needs before starting it.
type Context struct {
	Request *http.Request

	writer   *trackedWriter
	engine   *Engine
	logger   *zap.Logger
	renderer Renderer

	params     map[string]string
	prepath    []string
	postpath   []string
	routeName  string
	authority  authority
	requestID  string

	finishOnce sync.Once
	finishCh   chan struct{}
	finished   bool

	producer producerSlot
}

// authority is the (scheme, host) pair, host including any port, a Matcher is bound to for
// the duration of one request (spec.md §4.1 "bind"); it survives into
// reverse URL construction even across sub-resource traversal, per
// spec.md §3's invariant.
type authority struct {
	scheme string
	host   string
}

func newContext() *Context {
	return &Context{finishCh: make(chan struct{})}
}

func (c *Context) reset() {
	c.Request = nil
	c.logger = nil
	c.renderer = nil
	c.params = nil
	c.prepath = nil
	c.postpath = nil
	c.routeName = ""
	c.authority = authority{}
	c.requestID = ""
	c.finishOnce = sync.Once{}
	c.finishCh = make(chan struct{})
	c.finished = false
	c.producer.reset()
}

// Method returns the request's HTTP method.
func (c *Context) Method() string { return c.Request.Method }

// URLPath reconstructs the absolute URL for the current request, honoring
// the authority the Matcher was bound to (spec.md §6).
func (c *Context) URLPath() string {
	u := *c.Request.URL
	u.Scheme = c.authority.scheme
	u.Host = c.authority.host
	return u.String()
}

// Header returns the response header map, for use with SetHeader or
// direct manipulation before the first Write.
func (c *Context) Header() http.Header { return c.writer.Header() }

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) { c.writer.Header().Set(key, value) }

// SetResponseCode sets the HTTP status code for the eventual response. It
// is a no-op once headers have already been written.
func (c *Context) SetResponseCode(code int) { c.writer.WriteHeader(code) }

// StatusCode reports the status code that will be (or was) sent.
func (c *Context) StatusCode() int { return c.writer.StatusCode() }

// Write implements io.Writer. Writes after Finish has fired return
// ErrHandlerAlreadyFinished (spec.md §3, §4.2 step 7) instead of being
// silently dropped.
func (c *Context) Write(b []byte) (int, error) { return c.writer.Write(b) }

// Body returns the request body reader.
func (c *Context) Body() io.ReadCloser { return c.Request.Body }

// NotifyFinish returns the finish future: a channel closed exactly once,
// when Finish is called (spec.md §3 invariant 1, §6).
func (c *Context) NotifyFinish() <-chan struct{} { return c.finishCh }

// Disconnected returns the disconnect future: it fires when the
// underlying connection is gone, whether or not Finish was ever called.
// Only meaningful to observe while the handler has not yet returned — see
// engine.go's awaitEventual for how the dispatch Engine uses it to
// cancel a still-pending Eventual (spec.md §5 "Cancellation").
func (c *Context) Disconnected() <-chan struct{} { return c.Request.Context().Done() }

// Finish completes the response exactly once; subsequent calls are
// no-ops, satisfying spec.md §3 invariant 1. It marks the underlying
// writer finished so any write attempted afterwards is rejected rather
// than silently dropped (spec.md §4.2 step 7).
func (c *Context) Finish() {
	c.finishOnce.Do(func() {
		c.finished = true
		c.writer.Finish()
		close(c.finishCh)
	})
}

// Finished reports whether Finish has already run.
func (c *Context) Finished() bool { return c.finished }

// RegisterProducer installs a streaming Producer (spec.md §4.3, §9). The
// Engine will not finish the response until UnregisterProducer is called.
func (c *Context) RegisterProducer(p Producer) { c.producer.Register(p) }

// UnregisterProducer releases the active producer; it is a precondition
// for the Engine to finish the response (spec.md §4.3).
func (c *Context) UnregisterProducer() { c.producer.Unregister() }

// Param returns a string route parameter, or "" if the parameter was not
// present in the matched Rule.
func (c *Context) Param(name string) string {
	if c.params == nil {
		return ""
	}
	return c.params[name]
}

// ParamInt returns an <int:name> route parameter parsed as an int64.
func (c *Context) ParamInt(name string) (int64, bool) {
	v, ok := c.params[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PrePath returns the path segments consumed so far by sub-resource
// traversal, one per Child hop. The prefix matched by the branch Rule
// itself is not included.
func (c *Context) PrePath() []string { return append([]string(nil), c.prepath...) }

// PostPath returns the remaining, unconsumed path segments available to a
// SubResource leaf (spec.md §4.3).
func (c *Context) PostPath() []string { return append([]string(nil), c.postpath...) }

// URLFor performs reverse URL construction (spec.md §4.4): it delegates
// to the Engine's Registry using the authority this Context's Matcher was
// bound to. Unknown name, missing parameter, or wrong converter type
// produce a *BuildError returned directly to the caller — this is a
// programming error in the handler, never routed through the Error
// Pipeline.
func (c *Context) URLFor(name string, params map[string]any, forceExternal bool) (string, error) {
	path, err := c.engine.registry.build(name, params)
	if err != nil {
		return "", err
	}
	if !forceExternal {
		return path, nil
	}
	u := url.URL{Scheme: c.authority.scheme, Host: c.authority.host, Path: path}
	return u.String(), nil
}

// Logger returns the request-scoped structured logger.
func (c *Context) Logger() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func (c *Context) templateRenderer() Renderer {
	if c.renderer != nil {
		return c.renderer
	}
	if c.engine != nil {
		return c.engine.defaultRenderer
	}
	return nil
}
