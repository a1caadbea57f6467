package middleware

import (
	"net/http"
	"time"
)

// AccessLog логирует каждый запрос после ответа
func AccessLog(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			requestID := GetRequestID(r.Context())
			switch {
			case rec.status >= http.StatusInternalServerError:
				log.Error("%s %s - %d (%d bytes) in %s, request_id=%s", r.Method, r.URL.Path, rec.status, rec.bytes, elapsed, requestID)
			case rec.status >= http.StatusBadRequest:
				log.Warn("%s %s - %d (%d bytes) in %s, request_id=%s", r.Method, r.URL.Path, rec.status, rec.bytes, elapsed, requestID)
			default:
				log.Info("%s %s - %d (%d bytes) in %s, request_id=%s", r.Method, r.URL.Path, rec.status, rec.bytes, elapsed, requestID)
			}
		})
	}
}
