package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// UnknownIdentity is the sentinel used when no caller address can be
// determined. A missing identity never fails the request.
const UnknownIdentity = "unknown"

// forwarding headers checked in order; the first present wins.
var identityHeaders = []string{"X-Forwarded-For", "X-Real-IP", "CF-Connecting-IP"}

// ClientIdentity derives a rate-limit key for the caller of r from
// proxy-forwarded address headers, falling back to the socket address and
// finally the unknown sentinel.
func ClientIdentity(r *http.Request) string {
	for _, h := range identityHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For may hold a chain; the first hop is the client.
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return UnknownIdentity
}
