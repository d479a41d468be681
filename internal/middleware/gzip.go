package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriters = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

// compressedWriter routes the response body through a pooled gzip writer.
type compressedWriter struct {
	http.ResponseWriter
	gz *gzip.Writer
}

func (cw *compressedWriter) Write(b []byte) (int, error) {
	return cw.gz.Write(b)
}

func (cw *compressedWriter) WriteHeader(status int) {
	cw.Header().Del("Content-Length")
	cw.ResponseWriter.WriteHeader(status)
}

func wantsGzip(r *http.Request) bool {
	if r.Method == http.MethodHead || r.Header.Get("Range") != "" {
		return false
	}
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// WithGzipResponse compresses responses for clients that accept gzip.
// Range requests and HEAD requests are served uncompressed.
func WithGzipResponse(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if !wantsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		gz := gzipWriters.Get().(*gzip.Writer)
		gz.Reset(w)
		cw := &compressedWriter{ResponseWriter: w, gz: gz}

		next.ServeHTTP(cw, r)

		_ = gz.Close()
		gzipWriters.Put(gz)
	})
}

// WithGzipRequest transparently decompresses gzip encoded request bodies.
func WithGzipRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		body, err := gzip.NewReader(r.Body)
		if err != nil {
			writeErrors(w, http.StatusBadRequest, "Failed to decompress request body")
			return
		}
		defer body.Close()

		r.Body = body
		r.ContentLength = -1
		r.Header.Del("Content-Encoding")
		next.ServeHTTP(w, r)
	})
}
