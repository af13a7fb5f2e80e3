package devserver

import (
	"net/http"
	"net/url"
	"strings"
)

// noCacheHeaders are attached to every response so edits to the page
// show up on a plain reload during development.
var noCacheHeaders = map[string]string{
	"Cache-Control": "no-cache, no-store, must-revalidate",
	"Pragma":        "no-cache",
	"Expires":       "0",
}

// noCacheWriter sets the no-cache headers at write time, after the file
// server has finished its own header changes. Setting them before
// delegation does not survive the header rewriting ServeContent performs
// on its error responses.
type noCacheWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *noCacheWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	for name, value := range noCacheHeaders {
		w.Header().Set(name, value)
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *noCacheWriter) Write(b []byte) (int, error) {
	// implicit 200 when the handler writes without calling WriteHeader
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// withNoCache guarantees the no-cache headers on every response, for
// every path and status, exactly once.
func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&noCacheWriter{ResponseWriter: w}, r)
	})
}

// serveIndexDirectly rewrites request paths ending in /index.html to
// their directory form, so the file server serves the page instead of
// answering with a redirect to ./ as it canonicalizes such paths. The
// request is cloned; the log line keeps the path the client asked for.
func serveIndexDirectly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/index.html") {
			r2 := new(http.Request)
			*r2 = *r
			r2.URL = new(url.URL)
			*r2.URL = *r.URL
			r2.URL.Path = strings.TrimSuffix(r2.URL.Path, "index.html")
			r = r2
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by the wrapped handler
// so the request logger can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// withLogging logs one line per request after the handler finishes.
func withLogging(logger *requestLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.log(r, rec.status)
	})
}
