package middleware

import (
	"mime"
	"net/http"

	apperrors "vanity/pkg/errors"
	"vanity/pkg/logger"
)

// ContentTypeValidation requires application/json on requests with a body.
func ContentTypeValidation(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r.Method) {
				header := r.Header.Get("Content-Type")
				mediaType, _, err := mime.ParseMediaType(header)
				if err != nil || mediaType != "application/json" {
					log.Warn("Invalid Content-Type header",
						"request_id", RequestID(r),
						"content_type", header,
						"path", r.URL.Path,
					)
					reject(w, log, r, apperrors.UnsupportedMediaType(header))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}
