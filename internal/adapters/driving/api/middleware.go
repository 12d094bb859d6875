package api

import (
	"net/http"
	"time"

	"github.com/finchat-labs/finchat-cli/internal/logger"
)

// loggingWriter wraps http.ResponseWriter to capture the status code
// and response size for request logging.
type loggingWriter struct {
	w            http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lw *loggingWriter) Header() http.Header {
	return lw.w.Header()
}

func (lw *loggingWriter) WriteHeader(code int) {
	lw.statusCode = code
	lw.w.WriteHeader(code)
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if lw.statusCode == 0 {
		lw.statusCode = http.StatusOK
	}
	n, err := lw.w.Write(b)
	lw.bytesWritten += int64(n)
	return n, err
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController.
func (lw *loggingWriter) Unwrap() http.ResponseWriter {
	return lw.w
}

// recoveryMiddleware recovers from handler panics so a bad request
// cannot crash the server.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapper := &loggingWriter{w: w}

		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered: %v (path=%s)", err, r.URL.Path)
				if wrapper.statusCode == 0 {
					writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
				}
			}
		}()
		next.ServeHTTP(wrapper, r)
	})
}

// loggingMiddleware logs request method, path, status and latency.
// Reuses an existing *loggingWriter from outer middleware to avoid
// double-wrapping the ResponseWriter.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper, ok := w.(*loggingWriter)
		if !ok {
			wrapper = &loggingWriter{w: w}
		}

		next.ServeHTTP(wrapper, r)

		status := wrapper.statusCode
		if status == 0 {
			status = http.StatusOK
		}

		logger.Info("%s %s %d %dB %s", r.Method, r.URL.Path, status, wrapper.bytesWritten, time.Since(start).Round(time.Millisecond))
	})
}
