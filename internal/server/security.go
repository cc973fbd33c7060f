package server

import (
	"crypto/subtle"
	"math"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/osse101/BrandishReveal_Go/internal/logger"
)

// AuthMiddleware checks the X-API-Key header on every non-public path. An
// empty apiKey disables the check. Rejections are counted per client by guard.
func AuthMiddleware(apiKey string, trustedProxies []string, guard *ClientGuard) func(http.Handler) http.Handler {
	want := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(got), want) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := extractIP(r, trustedProxies)
			failures := guard.FailedAuth(ip)
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"ip", ip,
				"path", r.URL.Path,
				"has_key", got != "",
				"failures", failures)

			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// isPublicPath reports whether path skips authentication: operational
// endpoints by prefix, widget event streams by suffix.
func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range PublicSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ThrottleMiddleware answers 429 with Retry-After once a client exceeds the
// guard's request budget for its window.
func ThrottleMiddleware(trustedProxies []string, guard *ClientGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := guard.Allow(extractIP(r, trustedProxies))
			if !ok {
				secs := int(math.Ceil(retryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(secs))
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP returns the client address. X-Forwarded-For is only read when the
// direct peer is a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if !slices.Contains(trustedProxies, remoteIP) {
		return remoteIP
	}

	// X-Forwarded-For: client, proxy1, proxy2. The rightmost entry is the hop
	// that reached the trusted proxy.
	if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[len(ips)-1])
	}
	return remoteIP
}

// SecurityHeadersMiddleware sets the browser hardening headers on every response
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
