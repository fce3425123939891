package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	apperrors "vanity/pkg/errors"
	"vanity/pkg/logger"
)

const SignatureHeader = "X-Signature-256"

// SignatureVerification checks the hex HMAC-SHA256 of the body, optionally
// prefixed with "sha256=", on requests whose path starts with pathPrefix.
// Other paths pass through.
func SignatureVerification(secret, pathPrefix string, log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, pathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			signature := strings.TrimPrefix(r.Header.Get(SignatureHeader), "sha256=")
			if signature == "" {
				rejectSignature(w, log, r, "missing "+SignatureHeader+" header")
				return
			}

			body, err := io.ReadAll(r.Body)
			_ = r.Body.Close()
			if err != nil {
				rejectSignature(w, log, r, "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !VerifySignature(body, signature, secret) {
				rejectSignature(w, log, r, "invalid signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(body []byte, signature, secret string) bool {
	return hmac.Equal([]byte(Sign(body, secret)), []byte(strings.ToLower(signature)))
}

func rejectSignature(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Webhook signature verification failed",
		"request_id", RequestID(r),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)
	reject(w, log, r, apperrors.Unauthorized("invalid webhook signature"))
}
