package egret

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(rec *httptest.ResponseRecorder, method, path string) *Context {
	c := newContext()
	c.Request = httptest.NewRequest(method, path, nil)
	c.writer = &trackedWriter{ResponseWriter: rec}
	c.authority = authority{scheme: "http", host: "example.test"}
	return c
}

func TestTextResultIsUTF8(t *testing.T) {
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")

	err := Text("héllo").coerce(c)
	require.NoError(t, err)
	assert.Equal(t, "héllo", rec.Body.String())
}

func TestBytesResult(t *testing.T) {
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")

	err := Bytes([]byte("raw")).coerce(c)
	require.NoError(t, err)
	assert.Equal(t, "raw", rec.Body.String())
}

func TestNoneResultWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")

	err := None.coerce(c)
	require.NoError(t, err)
	assert.Empty(t, rec.Body.String())
}

type fakeRenderer struct {
	name string
	data any
}

func (f *fakeRenderer) ExecuteTemplate(w io.Writer, name string, data any) error {
	f.name = name
	f.data = data
	_, err := io.WriteString(w, "<rendered>")
	return err
}

func TestRenderableUsesContextRenderer(t *testing.T) {
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")
	fr := &fakeRenderer{}
	c.renderer = fr

	err := Renderable{Name: "page.html", Data: 42}.coerce(c)
	require.NoError(t, err)
	assert.Equal(t, "page.html", fr.name)
	assert.Equal(t, 42, fr.data)
	assert.Equal(t, "<rendered>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRenderableMissingRendererErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")

	err := Renderable{Name: "page.html"}.coerce(c)
	assert.ErrorIs(t, err, ErrTemplateRendererMissing)
}

func TestJSONResultEscapesHTMLByDefault(t *testing.T) {
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")

	err := JSON(map[string]string{"x": "<b>"}).(JSONResult).coerce(c)
	require.NoError(t, err)
	body := rec.Body.String()
	assert.NotContains(t, body, "<b>")
	assert.Contains(t, body, "\\u003cb\\u003e")
}

func TestPureJSONResultDoesNotEscapeHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")

	err := PureJSON(map[string]string{"x": "<b>"}).(JSONResult).coerce(c)
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "<b>")
}

func TestNoContentResultSets204(t *testing.T) {
	rec := httptest.NewRecorder()
	c := newTestContext(rec, "GET", "/")

	err := NoContent().coerce(c)
	require.NoError(t, err)
	assert.Equal(t, 204, c.StatusCode())
}
