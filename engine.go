package egret

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Engine is the Dispatch Engine of spec.md §2 item 7 and §4.2: it
// receives a request, asks the Registry (its Matcher) for an Outcome,
// applies the redirect/405/404 policies, invokes the matched handler,
// pipes the result through Result Coercion, wires cancellation on
// disconnect, and ensures the response finishes exactly once.
//
// Engine implements http.Handler and is registered with an ordinary
// net/http server the same way the teacher's Engine does — opening
// sockets and TLS termination are the caller's job, not the Engine's
// (spec.md §1 non-goals).
type Engine struct {
	registry        *Registry
	pool            sync.Pool
	logger          *zap.Logger
	defaultRenderer Renderer
	notifier        ProcessingFailedNotifier
	scheme          string
	metrics         *metricsCollector
	requestLogEnabled bool
	trustIncomingRequestID bool
}

// ProcessingFailedNotifier is the downstream runtime contract of spec.md
// §6: the engine relies on its host to be told when it reports a fatal
// failure. The default notifier logs via zap; an embedding server can
// supply its own to integrate with a supervisor or crash reporter.
type ProcessingFailedNotifier func(c *Context, err error)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger installs a structured logger used for request-scoped
// loggers and processing-failed reports (spec.md §7).
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDefaultRenderer installs the Renderer used when a handler returns a
// Renderable and the request has no per-request renderer set.
func WithDefaultRenderer(r Renderer) Option {
	return func(e *Engine) { e.defaultRenderer = r }
}

// WithProcessingFailedNotifier overrides how the Engine reports a fatal,
// unhandled failure to its host (spec.md §6, §7).
func WithProcessingFailedNotifier(n ProcessingFailedNotifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithScheme sets the scheme ("http" or "https") used when reconstructing
// absolute URLs. Defaults to "http"; set to "https" when the Engine sits
// behind TLS termination.
func WithScheme(scheme string) Option {
	return func(e *Engine) { e.scheme = scheme }
}

// New creates an Engine ready to accept route registrations.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: newRegistry(),
		logger:   zap.NewNop(),
		scheme:   "http",
	}
	e.pool.New = func() any { return newContext() }
	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = func(c *Context, err error) {
			e.logger.Error("processing failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		}
	}
	return e
}

// Route registers handler for pattern under the given methods (nil means
// any method). branch and strictSlashes map directly to spec.md §3's Rule
// flags. It returns handler unchanged, the Go idiom for the original's
// decorator sugar (spec.md §9) — useful for keeping a reference at the
// call site:
//
//	get := e.Route("/users/<int:id>", []string{"GET"}, false, true, showUser)
func (e *Engine) Route(pattern string, methods []string, branch, strictSlashes bool, handler HandlerFunc) HandlerFunc {
	r := &Rule{
		Pattern:       pattern,
		Methods:       methods,
		Handler:       handler,
		Branch:        branch,
		StrictSlashes: strictSlashes,
	}
	if err := e.registry.Add(r); err != nil {
		panic(err)
	}
	return handler
}

// NamedRoute is Route plus a name usable with Context.URLFor for reverse
// construction (spec.md §4.4).
func (e *Engine) NamedRoute(name, pattern string, methods []string, branch, strictSlashes bool, handler HandlerFunc) HandlerFunc {
	if name == "" {
		panic(ErrRouteNameEmpty)
	}
	r := &Rule{
		Pattern:       pattern,
		Methods:       methods,
		Handler:       handler,
		Branch:        branch,
		StrictSlashes: strictSlashes,
		Name:          name,
	}
	if err := e.registry.Add(r); err != nil {
		panic(err)
	}
	return handler
}

// HandleErrors registers an error handler, optionally filtered to errors
// for which filter(err) is true. A nil filter accepts every failure
// (spec.md §3, §7). Handlers are consulted in registration order.
func (e *Engine) HandleErrors(filter func(error) bool, handle func(c *Context, err error) Result) {
	e.registry.AddErrorHandler(ErrorHandlerEntry{Filter: filter, Handle: handle})
}

// ServeHTTP implements http.Handler: the single entry point for the
// dispatch algorithm of spec.md §4.2.
func (e *Engine) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	c := e.pool.Get().(*Context)
	c.reset()
	c.engine = e
	c.authority = authority{scheme: e.scheme, host: req.Host}
	c.writer = &trackedWriter{ResponseWriter: w}
	c.Request = req
	c.logger = e.logger
	c.requestID = e.requestID(req)
	w.Header().Set(RequestIDHeader, c.requestID)

	defer e.pool.Put(c)

	e.dispatch(c)
}

// dispatch runs spec.md §4.2 steps 2-7 for one request.
func (e *Engine) dispatch(c *Context) {
	start := time.Now()
	routeLabel := "unmatched"
	defer func() {
		if e.metrics != nil {
			e.metrics.observe(routeLabel, c.Request.Method, c.StatusCode(), time.Since(start))
		}
		e.logRequestCompletion(c, start)
	}()

	outcome := e.registry.match(c.Request.Method, c.Request.URL.Path)

	switch outcome.Kind {
	case OutcomeRedirect:
		e.serveRedirect(c, outcome.Redirect)
		return
	case OutcomeMethodNotAllowed:
		e.runErrorPipeline(c, &NotAllowedError{Path: c.Request.URL.Path, Allowed: outcome.Allowed})
		return
	case OutcomeNotFound:
		e.runErrorPipeline(c, &NotFoundError{Method: c.Request.Method, Path: c.Request.URL.Path})
		return
	}

	c.params = outcome.Params
	c.postpath = outcome.Tail
	c.routeName = outcome.Rule.Name
	if outcome.Rule.Name != "" {
		routeLabel = outcome.Rule.Name
	} else {
		routeLabel = outcome.Rule.Pattern
	}

	result := e.invokeHandler(c, outcome.Rule)
	e.runCoercion(c, result)

	if !c.Finished() && !c.producer.active() {
		c.Finish()
	}
}

// invokeHandler calls the matched Rule's handler, converting a panic into
// a HandlerFailure the same way the Error Pipeline treats any other
// synchronous failure (spec.md §4.2 step 4).
func (e *Engine) invokeHandler(c *Context, r *Rule) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			e.runErrorPipeline(c, toHandlerFailure(rec))
		}
	}()
	return r.Handler(c)
}

// runCoercion implements Result Coercion (spec.md §4.2 step 5),
// recursively: an Eventual defers coercion until it resolves (awaited
// against the disconnect future per spec.md §5), and a SubResource
// triggers Sub-Resource Traversal before its own result is coerced.
func (e *Engine) runCoercion(c *Context, result Result) {
	if result == nil {
		return
	}
	switch v := result.(type) {
	case eventualResult:
		e.awaitEventual(c, v.ev)
	case subResourceResult:
		next := traverse(c, v.sr)
		e.runCoercion(c, next)
	default:
		if err := result.coerce(c); err != nil {
			if c.Finished() {
				// A write was attempted after Finish: spec.md §4.2 step 7
				// requires this surface to the host, not re-enter the
				// Error Pipeline (which would try to finish again).
				e.notifier(c, err)
				return
			}
			e.runErrorPipeline(c, wrapCoercionError(err))
		}
	}
}

func wrapCoercionError(err error) error {
	if _, ok := err.(*HandlerFailure); ok {
		return err
	}
	return &HandlerFailure{Err: err}
}

// awaitEventual implements spec.md §4.2 step 5's eventual-future case and
// §5's cancellation rule: it blocks until ev resolves or rejects, or the
// request's disconnect future fires first, in which case it cancels ev
// and suppresses the resulting CancelledError.
func (e *Engine) awaitEventual(c *Context, ev *Eventual) {
	res, err := ev.wait(c.Request.Context())
	if err != nil && err == c.Request.Context().Err() {
		ev.cancelFor(c.routeName)
		c.producer.stopIfActive()
		return
	}
	if err != nil {
		e.runErrorPipeline(c, wrapCoercionError(err))
		return
	}
	e.runCoercion(c, res)
}

// reportProcessingFailed is the Engine's side of the downstream host
// contract (spec.md §6): an unhandled failure is reported via the
// configured ProcessingFailedNotifier.
func (e *Engine) reportProcessingFailed(c *Context, err error) {
	e.notifier(c, err)
}

// serveRedirect implements spec.md §4.2 step 2's redirect policy and
// §6's response-format requirements for a 301: Content-Length is always
// computed from the actual rendered body rather than a hardcoded
// constant (spec.md §9 Open Question).
func (e *Engine) serveRedirect(c *Context, target string) {
	u := *c.Request.URL
	u.Path = target
	u.Scheme = c.authority.scheme
	u.Host = c.authority.host
	location := u.String()

	body := fmtRedirectBody(location)

	c.SetHeader("Location", location)
	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	c.SetHeader("Content-Length", strconv.Itoa(len(body)))
	c.SetResponseCode(http.StatusMovedPermanently)
	_, _ = c.Write([]byte(body))
	c.Finish()
}
