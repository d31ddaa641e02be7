package egret

import (
	"bytes"
	"fmt"
	"io"
)

// Result is whatever a handler, error handler, or SubResource leaf may
// return. The dispatch Engine applies Result Coercion (spec.md §4.2 step
// 5) to turn it into writes on the Context and a single Finish call.
//
// A HandlerFunc is free to return nil: that coerces to "write nothing,
// then finish" (unless the handler already finished explicitly).
type Result interface {
	// coerce writes this Result's representation to c and returns any
	// failure that should be routed to the Error Pipeline. coerce must
	// not call c.Finish itself — the Engine finishes after coerce
	// returns, except for the Eventual and SubResource cases, which
	// manage their own completion.
	coerce(c *Context) error
}

// Bytes wraps a raw byte slice response body.
type Bytes []byte

func (b Bytes) coerce(c *Context) error {
	_, err := c.Write(b)
	return err
}

// Text is a UTF-8 string response body. Per spec.md §3, text results are
// always UTF-8 encoded before writing — no other encoding is implicit.
type Text string

func (t Text) coerce(c *Context) error {
	_, err := io.WriteString(c, string(t))
	return err
}

// Renderer renders a named template to a writer, matching the teacher's
// ExecuteTemplate collaborator interface (response.go) so html/template,
// text/template, or any third-party engine can serve as the "renderable
// element" of spec.md §2 item 5.
type Renderer interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Renderable is the "renderable element" coercible result kind: it is
// rendered to bytes via the Context's template renderer and written as
// text/html.
type Renderable struct {
	Name string
	Data any
}

func (rv Renderable) coerce(c *Context) error {
	renderer := c.templateRenderer()
	if renderer == nil {
		return ErrTemplateRendererMissing
	}
	var buf bytes.Buffer
	if err := renderer.ExecuteTemplate(&buf, rv.Name, rv.Data); err != nil {
		return &HandlerFailure{Err: err}
	}
	if c.Header().Get("Content-Type") == "" {
		c.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err := buf.WriteTo(c)
	return err
}

// none is the coercible result kind for "nothing yet" / "already
// finished" — spec.md §4.2 step 5, first bullet.
type none struct{}

// None is returned by a handler that has already written and/or finished
// the response itself (e.g. via streaming producers) and has nothing
// further to coerce.
var None Result = none{}

func (none) coerce(c *Context) error {
	return nil
}

// eventualResult adapts an *Eventual into a Result so the Engine's single
// coercion switch can treat "handler returned an Eventual" uniformly with
// every other case; see Context dispatch in engine.go for how it is
// awaited against the disconnect future.
type eventualResult struct {
	ev *Eventual
}

// FromEventual wraps an Eventual so it can be returned from a handler like
// any other Result. The Engine recognizes it and defers coercion until the
// Eventual resolves (spec.md §4.2 step 5, eventual-future case).
func FromEventual(ev *Eventual) Result {
	return eventualResult{ev: ev}
}

func (eventualResult) coerce(c *Context) error {
	// unreachable: the Engine special-cases eventualResult before calling
	// coerce, since it must await asynchronously rather than synchronously.
	return fmt.Errorf("egret: eventualResult.coerce called directly")
}

// subResourceResult adapts a SubResource into a Result, so "handler
// returned a delegating resource" (spec.md §2 item 6) flows through the
// same coercion switch.
type subResourceResult struct {
	sr SubResource
}

// FromSubResource wraps a SubResource so it can be returned from a
// handler. The Engine performs Sub-Resource Traversal (spec.md §4.3)
// instead of calling coerce directly.
func FromSubResource(sr SubResource) Result {
	return subResourceResult{sr: sr}
}

func (subResourceResult) coerce(c *Context) error {
	return fmt.Errorf("egret: subResourceResult.coerce called directly")
}
