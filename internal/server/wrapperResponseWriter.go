package server

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// instrument buffers each response so an ETag can be computed, then records
// request metrics and logs the outcome.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := newWrapperResponseWriter(w)
		next.ServeHTTP(ww, r)
		_, _ = ww.Flush(r.Header.Get("If-None-Match"))

		elapsed := time.Since(start)
		s.metrics.requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(ww.statusCode)).Inc()
		s.metrics.requestSeconds.WithLabelValues(r.URL.Path).Observe(elapsed.Seconds())
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.statusCode),
			zap.Duration("elapsed", elapsed),
		)
	})
}

type wrapperResponseWriter struct {
	http.ResponseWriter
	buf         *bytes.Buffer
	statusCode  int
	wroteHeader bool
}

func newWrapperResponseWriter(w http.ResponseWriter) *wrapperResponseWriter {
	return &wrapperResponseWriter{ResponseWriter: w, buf: new(bytes.Buffer), statusCode: http.StatusOK}
}

func (w *wrapperResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

// Flush forwards the buffered response. Handlers that already wrote a header
// (the http.Error paths) have their response sent as-is: headers can no
// longer be set, so no ETag or cache headers are attempted for them.
func (w *wrapperResponseWriter) Flush(ifNoneMatch string) (int64, error) {
	if !w.wroteHeader {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", secondsExpiresIn()))

		etag := fmt.Sprintf("\"%x\"", md5.Sum(w.buf.Bytes()))
		w.Header().Set("ETag", etag)
		if ifNoneMatch == etag {
			w.WriteHeader(http.StatusNotModified)
			w.buf.Reset()
		}
	}

	return w.buf.WriteTo(w.ResponseWriter)
}

func (w *wrapperResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

// secondsExpiresIn returns the seconds until the next wallpaper rollover; the
// archive flips shortly after 08:00 UTC.
func secondsExpiresIn() int {
	const secsInDay = 86400

	now := time.Now()
	rollover := time.Date(now.Year(), now.Month(), now.Day(), 8, 5, 0, 0, time.UTC)
	if now.Before(rollover) {
		return int(rollover.Sub(now).Seconds())
	}
	return secsInDay - int(now.Sub(rollover).Seconds())
}
