package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "vanity/pkg/errors"
	"vanity/pkg/logger"
	"vanity/pkg/vanity"
)

const PhoneHeader = "X-Phone-Number"

// PhoneExtractor returns the caller's phone number for r, or "".
type PhoneExtractor func(r *http.Request) string

// PhoneRateLimiter is a sliding-window limiter keyed by normalized phone
// number, so "+1 (800) 555-1234" and "8005551234" share a budget.
type PhoneRateLimiter struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor PhoneExtractor
	log       *logger.Logger
	now       func() time.Time
	stopOnce  sync.Once
	stopCh    chan struct{}
}

func NewPhoneRateLimiter(limit int, window time.Duration, extractor PhoneExtractor, log *logger.Logger) *PhoneRateLimiter {
	if extractor == nil {
		extractor = HeaderPhoneExtractor
	}
	limiter := &PhoneRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *PhoneRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := rl.now()
			rl.mu.Lock()
			for key, timestamps := range rl.requests {
				if len(timestamps) == 0 || now.Sub(timestamps[len(timestamps)-1]) >= rl.window {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *PhoneRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow records a request for phone and reports whether it is within the
// limit, plus how long until the oldest request leaves the window.
func (rl *PhoneRateLimiter) Allow(phone string) (bool, time.Duration) {
	key := rateLimitKey(phone)
	if key == "" {
		return true, 0
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.requests[key]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false, rl.window - now.Sub(valid[0])
	}

	rl.requests[key] = append(valid, now)
	return true, 0
}

// rateLimitKey normalizes phone to its ten digits. Numbers that do not
// normalize are limited by their raw value.
func rateLimitKey(phone string) string {
	if phone == "" {
		return ""
	}
	digits, err := vanity.Normalize(phone)
	if err != nil {
		return phone
	}
	return digits.String()
}

func PhoneRateLimit(limiter *PhoneRateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			phone := limiter.extractor(r)

			allowed, retryAfter := limiter.Allow(phone)
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r),
					"phone", rateLimitKey(phone),
					"path", r.URL.Path,
					"retry_after_seconds", seconds,
				)
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				reject(w, limiter.log, r, apperrors.RateLimited(seconds))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func HeaderPhoneExtractor(r *http.Request) string {
	return r.Header.Get(PhoneHeader)
}

// JSONBodyPhoneExtractor reads the phone number from the first JSON body
// field found among paths, each a dot-separated key path such as
// "Details.ContactData.CustomerEndpoint.Address". The X-Phone-Number header
// wins when present. The body is restored for the next handler.
func JSONBodyPhoneExtractor(paths ...string) PhoneExtractor {
	return func(r *http.Request) string {
		if phone := HeaderPhoneExtractor(r); phone != "" {
			return phone
		}
		if r.Body == nil || r.Method == http.MethodGet {
			return ""
		}

		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), errReader{err}))
			return ""
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			return ""
		}
		for _, path := range paths {
			if phone, ok := lookup(payload, strings.Split(path, ".")); ok {
				return phone
			}
		}
		return ""
	}
}

func lookup(node map[string]any, keys []string) (string, bool) {
	for i, key := range keys {
		value, ok := node[key]
		if !ok {
			return "", false
		}
		if i == len(keys)-1 {
			s, ok := value.(string)
			return s, ok && s != ""
		}
		if node, ok = value.(map[string]any); !ok {
			return "", false
		}
	}
	return "", false
}

// errReader replays a body read error to the next reader of the body.
type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) {
	return 0, e.err
}
