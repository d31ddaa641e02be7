package egret

import (
	"html/template"
	"io"
	"io/fs"
)

// HTMLGlob parses the templates matched by patterns and returns a Renderer
// suitable for WithDefaultRenderer, adapted from the teacher's
// Engine.HTMLGlob. If the templates fail to parse this panics, matching
// the teacher's template.Must behavior — a broken template set is a
// startup-time programmer error, not a request-time failure.
func HTMLGlob(patterns ...string) Renderer {
	tmpl := template.New("")
	for _, pattern := range patterns {
		tmpl = template.Must(tmpl.ParseGlob(pattern))
	}
	return tmpl
}

// HTMLFs is HTMLGlob reading from fsys instead of the host file system,
// adapted from the teacher's Engine.HTMLFs.
func HTMLFs(fsys fs.FS, patterns ...string) Renderer {
	return template.Must(template.ParseFS(fsys, patterns...))
}

// reloadableRenderer re-parses its template set on every ExecuteTemplate
// call, adapted from the teacher's HTMLGlobReloadable/HTMLFsReloadable —
// useful in development so template edits are visible without restarting
// the process.
type reloadableRenderer struct {
	load func() *template.Template
}

func (r *reloadableRenderer) ExecuteTemplate(w io.Writer, name string, data any) error {
	return r.load().ExecuteTemplate(w, name, data)
}

// HTMLGlobReloadable is HTMLGlob but re-parses patterns on every render.
func HTMLGlobReloadable(patterns ...string) Renderer {
	load := func() *template.Template {
		tmpl := template.New("")
		for _, pattern := range patterns {
			tmpl = template.Must(tmpl.ParseGlob(pattern))
		}
		return tmpl
	}
	return &reloadableRenderer{load: load}
}

// HTMLFsReloadable is HTMLFs but re-parses patterns on every render.
func HTMLFsReloadable(fsys fs.FS, patterns ...string) Renderer {
	load := func() *template.Template {
		return template.Must(template.ParseFS(fsys, patterns...))
	}
	return &reloadableRenderer{load: load}
}
