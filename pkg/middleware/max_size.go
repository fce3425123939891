package middleware

import (
	"net/http"

	apperrors "vanity/pkg/errors"
	"vanity/pkg/logger"
)

// MaxRequestSize rejects bodies larger than limit bytes. Bodies without a
// Content-Length are cut off by http.MaxBytesReader while being decoded.
func MaxRequestSize(limit int64, log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				log.Warn("Request body too large",
					"request_id", RequestID(r),
					"content_length", r.ContentLength,
					"limit", limit,
				)
				reject(w, log, r, apperrors.PayloadTooLarge(limit))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
