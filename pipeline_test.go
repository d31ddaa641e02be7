package egret

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunErrorPipelineNotFoundDefault(t *testing.T) {
	e := New()
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/missing")
	c.engine = e

	e.runErrorPipeline(c, &NotFoundError{Method: "GET", Path: "/missing"})

	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "404 Not Found")
	assert.True(t, c.Finished())
}

func TestRunErrorPipelineNotAllowedSetsAllowHeader(t *testing.T) {
	e := New()
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "DELETE", "/items")
	c.engine = e

	e.runErrorPipeline(c, &NotAllowedError{Path: "/items", Allowed: []string{"GET", "POST"}})

	assert.Equal(t, 405, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestRunErrorPipelineCancelledIsSuppressed(t *testing.T) {
	e := New()
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")
	c.engine = e

	e.runErrorPipeline(c, &CancelledError{Route: "x"})

	assert.False(t, c.Finished())
	assert.Equal(t, 200, rec.Code)
}

func TestRunErrorPipelineUserHandlerOverridesNotFound(t *testing.T) {
	e := New()
	e.HandleErrors(func(err error) bool {
		var nf *NotFoundError
		return errors.As(err, &nf)
	}, func(c *Context, err error) Result {
		c.SetResponseCode(418)
		return Text("custom not found")
	})

	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/missing")
	c.engine = e

	e.runErrorPipeline(c, &NotFoundError{Method: "GET", Path: "/missing"})

	assert.Equal(t, 418, rec.Code)
	assert.Equal(t, "custom not found", rec.Body.String())
	assert.True(t, c.Finished())
}

func TestRunErrorPipelineUnhandledFailureReportsToNotifier(t *testing.T) {
	var reported error
	e := New(WithProcessingFailedNotifier(func(c *Context, err error) {
		reported = err
	}))

	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")
	c.engine = e

	boom := errors.New("boom")
	e.runErrorPipeline(c, boom)

	require.Error(t, reported)
	assert.Equal(t, 500, rec.Code)
	assert.ErrorIs(t, reported, boom)
}
