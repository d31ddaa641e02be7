package egret

import (
	"errors"
	"fmt"
)

// Static errors for programmer-error conditions. These are returned
// directly to the caller rather than funneled through the Error Pipeline,
// mirroring how a misused API is a bug, not a request failure.
var (
	ErrResponseWriterNotHijacker = errors.New("egret: response writer does not implement http.Hijacker")
	ErrHandlerAlreadyFinished    = errors.New("egret: write attempted after response finished")
	ErrTemplateRendererMissing   = errors.New("egret: no template renderer assigned to this request")
	ErrRouteNameEmpty            = errors.New("egret: route name must not be empty")
	ErrRouteNameDuplicate         = errors.New("egret: route name already registered")
	ErrInvalidPattern            = errors.New("egret: invalid route pattern")
	ErrUnknownConverter          = errors.New("egret: unknown converter in route pattern")
)

// NotFoundError is raised into the Error Pipeline when no Rule matches the
// requested path. It is overridable by an error handler filtered on
// *NotFoundError (or no filter at all).
type NotFoundError struct {
	Method string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("egret: no route for %s %s", e.Method, e.Path)
}

// NotAllowedError is raised when a Rule matches the path but not the
// method. It is never user-overridable (spec.md §4.2 step 6): the Error
// Pipeline always answers it with a plain 405.
type NotAllowedError struct {
	Path    string
	Allowed []string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("egret: method not allowed for %s (allowed: %v)", e.Path, e.Allowed)
}

// BuildError is returned directly to the caller of Context.URLFor — it is
// a programming error (unknown route name, missing parameter, or wrong
// converter type) and never enters the Error Pipeline.
type BuildError struct {
	Name   string
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("egret: cannot build URL for %q: %s", e.Name, e.Reason)
}

// HandlerFailure wraps any error or panic value produced by a user
// handler, error handler, or an Eventual's rejection.
type HandlerFailure struct {
	Err error
}

func (e *HandlerFailure) Error() string {
	return fmt.Sprintf("egret: handler failure: %v", e.Err)
}

func (e *HandlerFailure) Unwrap() error {
	return e.Err
}

// CancelledError is produced when an Eventual returned by a handler is
// cancelled because the client disconnected before it resolved. The
// dispatch Engine always suppresses this failure — it never reaches the
// Error Pipeline's "report to runtime" fallback.
type CancelledError struct {
	Route string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("egret: eventual for route %q cancelled (client disconnected)", e.Route)
}

// FinishAfterDisconnectError is the failure kind for a handler that calls
// Context.Finish after the client already disconnected. The Engine does
// not construct it: Context.Finish does not check for a disconnect. When
// one reaches the Error Pipeline and no error handler accepts it, it is
// logged on the Engine's logger instead of being answered with a 500.
type FinishAfterDisconnectError struct {
	Route string
}

func (e *FinishAfterDisconnectError) Error() string {
	return fmt.Sprintf("egret: finish called after client disconnect on route %q", e.Route)
}
