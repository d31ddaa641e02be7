package egret

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineAssignsRequestIDWhenNotTrusting(t *testing.T) {
	e := New()
	e.Route("/x", []string{"GET"}, false, true, func(c *Context) Result {
		return Text(c.RequestID())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	e.ServeHTTP(rec, req)

	id := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.NotEqual(t, "client-supplied", id)
	assert.Equal(t, id, rec.Body.String())
}

func TestEngineTrustsIncomingRequestID(t *testing.T) {
	e := New(WithTrustIncomingRequestID())
	e.Route("/x", []string{"GET"}, false, true, func(c *Context) Result {
		return Text(c.RequestID())
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	e.ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "client-supplied", rec.Body.String())
}
