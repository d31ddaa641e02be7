package egret

import (
	"io/fs"
	"net/http"
	"strings"
)

// Static registers a GET/HEAD Rule for prefix/<path:rest> that serves files from the
// host operating system's file system rooted at dir. Adapted from the
// teacher's Engine.Static, reimplemented as a thin Rule registration
// instead of a mux-level special case, so it participates in ordinary
// registration-order matching like any other route (spec.md §4.5).
func (e *Engine) Static(prefix, dir string) {
	e.registerFileServer(prefix, http.FileServer(http.Dir(dir)))
}

// StaticFS is Static for an fs.FS instead of the host file system, adapted
// from the teacher's Engine.StaticFS.
func (e *Engine) StaticFS(prefix string, fsys fs.FS) {
	e.registerFileServer(prefix, http.FileServer(http.FS(fsys)))
}

func (e *Engine) registerFileServer(prefix string, fileServer http.Handler) {
	prefix = strings.TrimSuffix(prefix, "/")
	stripped := http.StripPrefix(prefix, fileServer)
	pattern := prefix + "/<path:rest>"
	e.Route(pattern, []string{http.MethodGet, http.MethodHead}, false, true, func(c *Context) Result {
		stripped.ServeHTTP(c.writer, c.Request)
		return None
	})
}
