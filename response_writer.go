package egret

import (
	"bufio"
	"net"
	"net/http"
)

// trackedWriter wraps http.ResponseWriter to capture status code and
// size, and to enforce the finish discipline spec.md §3 requires: "after
// finish fires, any further write attempt is an error reported to the
// runtime (not silently dropped)". Grounded on the teacher pack's
// responseWriter wrapper (rivaas-dev-rivaas/router/router.go), generalized
// with an explicit finished latch instead of just a written flag.
type trackedWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
	finished   bool
}

func (w *trackedWriter) WriteHeader(code int) {
	if w.finished {
		return
	}
	if !w.written {
		w.statusCode = code
		w.ResponseWriter.WriteHeader(code)
		w.written = true
	}
}

func (w *trackedWriter) Write(b []byte) (int, error) {
	if w.finished {
		return 0, ErrHandlerAlreadyFinished
	}
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

// Finish marks the writer as complete. Any subsequent Write call returns
// ErrHandlerAlreadyFinished instead of reaching the underlying
// http.ResponseWriter, matching spec.md §3's invariant and §4.2 step 7.
func (w *trackedWriter) Finish() {
	w.finished = true
}

func (w *trackedWriter) StatusCode() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func (w *trackedWriter) Size() int64 { return w.size }

func (w *trackedWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, ErrResponseWriterNotHijacker
}

func (w *trackedWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *trackedWriter) reset(rw http.ResponseWriter) {
	w.ResponseWriter = rw
	w.statusCode = 0
	w.size = 0
	w.written = false
	w.finished = false
}
