package egret

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
)

// JSONResult marshals Value to JSON, escaping HTML, and writes it with a
// Content-Type of application/json. Adapted from the teacher's free JSON
// response helper (response.go) into a coercible Result so it composes
// with Eventual and SubResource the same way every other Result does.
type JSONResult struct {
	Value any
	Pure  bool // true disables HTML escaping, matching the teacher's PureJSON
}

// JSON builds a JSONResult with HTML escaping enabled.
func JSON(v any) Result { return JSONResult{Value: v} }

// PureJSON builds a JSONResult with HTML escaping disabled.
func PureJSON(v any) Result { return JSONResult{Value: v, Pure: true} }

func (j JSONResult) coerce(c *Context) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(!j.Pure)
	if err := enc.Encode(j.Value); err != nil {
		return &HandlerFailure{Err: err}
	}
	if c.Header().Get("Content-Type") == "" {
		c.SetHeader("Content-Type", "application/json; charset=utf-8")
	}
	_, err := c.Write(buf.Bytes())
	return err
}

// XMLResult marshals Value to XML, prepending an <?xml header when one
// isn't already present in the first 100 bytes (adapted from response.go).
type XMLResult struct {
	Value any
}

// XML builds an XMLResult.
func XML(v any) Result { return XMLResult{Value: v} }

func (x XMLResult) coerce(c *Context) error {
	b, err := xml.Marshal(x.Value)
	if err != nil {
		return &HandlerFailure{Err: err}
	}
	if c.Header().Get("Content-Type") == "" {
		c.SetHeader("Content-Type", "application/xml; charset=utf-8")
	}
	findHeaderUntil := len(b)
	if findHeaderUntil > 100 {
		findHeaderUntil = 100
	}
	if !bytes.Contains(b[:findHeaderUntil], []byte("<?xml")) {
		if _, err := c.Write([]byte(xml.Header)); err != nil {
			return err
		}
	}
	_, err = c.Write(b)
	return err
}

// DataResult writes raw bytes with a Content-Type of
// application/octet-stream (adapted from response.go's Data helper).
type DataResult []byte

// Data builds a DataResult.
func Data(v []byte) Result { return DataResult(v) }

func (d DataResult) coerce(c *Context) error {
	if c.Header().Get("Content-Type") == "" {
		c.SetHeader("Content-Type", "application/octet-stream")
	}
	_, err := c.Write(d)
	return err
}

// noContentResult sets the response code to 204 and writes nothing.
type noContentResult struct{}

// NoContent builds a Result that answers with a bare 204.
func NoContent() Result { return noContentResult{} }

func (noContentResult) coerce(c *Context) error {
	c.SetResponseCode(204)
	return nil
}
